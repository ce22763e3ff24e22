package domain

import (
	"testing"
	"time"
)

func TestNewAssignment(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.July, 1, 9, 0, 0, 0, time.UTC)
	r := NewAssignment("sv-1", "p1", now)

	if r.ID == "" {
		t.Fatal("expected generated id")
	}
	if r.SurveyID != "sv-1" || r.RespondentID != "p1" {
		t.Fatalf("unexpected assignment: %+v", r)
	}
	if r.Status != ResponseStarted {
		t.Fatalf("Status = %s, want started", r.Status)
	}
	if !r.SubmittedAt.Equal(now) {
		t.Fatalf("SubmittedAt = %v, want %v", r.SubmittedAt, now)
	}

	if other := NewAssignment("sv-1", "p1", now); other.ID == r.ID {
		t.Fatal("expected unique ids per assignment")
	}
}

func TestAnswerFor(t *testing.T) {
	t.Parallel()
	r := SurveyResponse{Answers: []Answer{{QuestionID: "q1", Value: "4"}}}
	if v, ok := r.AnswerFor("q1"); !ok || v != "4" {
		t.Fatalf("AnswerFor(q1) = %q/%v", v, ok)
	}
	if _, ok := r.AnswerFor("q2"); ok {
		t.Fatal("expected miss for unknown question")
	}
}
