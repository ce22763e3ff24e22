package render

import (
	"testing"

	"surveyd/internal/domain"
)

func TestMessageSubstitution(t *testing.T) {
	t.Parallel()
	r := New("https://example.org/s")
	survey := domain.Survey{ID: "sv-1", Title: "Post-Visit Feedback"}
	rcpt := domain.Recipient{FirstName: "Alice", LastName: "Nguyen"}

	got := r.Message("Hi {PatientName}, please complete {SurveyTitle}: {SurveyLink}", survey, rcpt)
	want := "Hi Alice Nguyen, please complete Post-Visit Feedback: https://example.org/s/sv-1"
	if got != want {
		t.Fatalf("Message = %q, want %q", got, want)
	}
}

func TestMessageUnknownPlaceholderLeftVerbatim(t *testing.T) {
	t.Parallel()
	r := New("")
	got := r.Message("Hello {PatientName}, code {Unknown}", domain.Survey{}, domain.Recipient{Username: "bob"})
	want := "Hello bob, code {Unknown}"
	if got != want {
		t.Fatalf("Message = %q, want %q", got, want)
	}
}

func TestMessageNoEscaping(t *testing.T) {
	t.Parallel()
	r := New("")
	survey := domain.Survey{ID: "s", Title: `<b>Q&A "survey"</b>`}
	got := r.Message("{SurveyTitle}", survey, domain.Recipient{})
	if got != survey.Title {
		t.Fatalf("Message = %q, want title verbatim %q", got, survey.Title)
	}
}

func TestLinkBase(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		base string
		want string
	}{
		{name: "default", base: "", want: "https://surveys.example.org/surveys/abc"},
		{name: "custom without slash", base: "https://h.example/s", want: "https://h.example/s/abc"},
		{name: "custom with slash", base: "https://h.example/s/", want: "https://h.example/s/abc"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.base).Link("abc"); got != tt.want {
				t.Fatalf("Link = %q, want %q", got, tt.want)
			}
		})
	}
}
