package domain

import (
	"errors"
	"testing"
)

func validSurvey() Survey {
	return Survey{
		ID:    "sv-1",
		Title: "Post-Visit Feedback",
		Questions: []Question{
			{ID: "q1", Text: "Rate your visit", Type: QRating, Required: true},
			{ID: "q2", Text: "Pick one", Type: QSingleChoice, Options: []string{"yes", "no"}},
		},
	}
}

func TestValidateSurvey(t *testing.T) {
	t.Parallel()
	if err := ValidateSurvey(validSurvey()); err != nil {
		t.Fatalf("valid survey rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Survey)
		wantErr error
	}{
		{
			name:    "missing title",
			mutate:  func(s *Survey) { s.Title = "   " },
			wantErr: ErrNoTitle,
		},
		{
			name:    "no questions",
			mutate:  func(s *Survey) { s.Questions = nil },
			wantErr: ErrNoQuestions,
		},
		{
			name:    "recurring without rule",
			mutate:  func(s *Survey) { s.IsRecurring = true },
			wantErr: ErrMissingRecurrence,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			s := validSurvey()
			tt.mutate(&s)
			if err := ValidateSurvey(s); !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSurveyDetails(t *testing.T) {
	t.Parallel()

	s := validSurvey()
	s.IsRecurring = true
	s.Recurrence = &RecurrenceRule{Unit: Daily, Interval: 0}
	if err := ValidateSurvey(s); err == nil {
		t.Fatal("expected error for non-positive interval")
	}

	s = validSurvey()
	s.Questions[0].Text = ""
	if err := ValidateSurvey(s); err == nil {
		t.Fatal("expected error for empty question text")
	}

	s = validSurvey()
	s.Questions[1].Options = nil
	if err := ValidateSurvey(s); err == nil {
		t.Fatal("expected error for choice question without options")
	}
}

func TestValidateSubmission(t *testing.T) {
	t.Parallel()
	s := validSurvey()

	ok := SurveyResponse{Answers: []Answer{{QuestionID: "q1", Value: "4"}}}
	if err := ValidateSubmission(s, ok); err != nil {
		t.Fatalf("valid submission rejected: %v", err)
	}

	missing := SurveyResponse{Answers: []Answer{{QuestionID: "q2", Value: "yes"}}}
	if err := ValidateSubmission(s, missing); err == nil {
		t.Fatal("expected error for unanswered required question")
	}

	blank := SurveyResponse{Answers: []Answer{{QuestionID: "q1", Value: "  "}}}
	if err := ValidateSubmission(s, blank); err == nil {
		t.Fatal("expected error for blank required answer")
	}
}

func TestFullName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		r    Recipient
		want string
	}{
		{name: "both", r: Recipient{FirstName: "Alice", LastName: "Nguyen"}, want: "Alice Nguyen"},
		{name: "first only", r: Recipient{FirstName: "Alice"}, want: "Alice"},
		{name: "last only", r: Recipient{LastName: "Nguyen"}, want: "Nguyen"},
		{name: "username fallback", r: Recipient{Username: "anguyen"}, want: "anguyen"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.FullName(); got != tt.want {
				t.Fatalf("FullName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuestionTypeKinds(t *testing.T) {
	t.Parallel()
	if !QRating.Numeric() || !QScale.Numeric() {
		t.Fatal("rating and scale should be numeric")
	}
	if !QSingleChoice.Choice() || !QMultipleChoice.Choice() {
		t.Fatal("choice types should be categorical")
	}
	if QText.Numeric() || QText.Choice() {
		t.Fatal("text is neither numeric nor categorical")
	}
}
