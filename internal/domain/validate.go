package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoTitle           = errors.New("survey title is required")
	ErrNoQuestions       = errors.New("survey needs at least one question")
	ErrMissingRecurrence = errors.New("recurring survey needs a recurrence rule")
)

// ValidateSurvey checks the structural invariants a survey must satisfy
// before it may be activated.
func ValidateSurvey(s Survey) error {
	if strings.TrimSpace(s.Title) == "" {
		return ErrNoTitle
	}
	if len(s.Questions) == 0 {
		return ErrNoQuestions
	}
	if s.IsRecurring {
		if s.Recurrence == nil {
			return ErrMissingRecurrence
		}
		if s.Recurrence.Interval <= 0 {
			return fmt.Errorf("recurrence interval must be positive, got %d", s.Recurrence.Interval)
		}
	}
	for _, q := range s.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("question %s has no text", q.ID)
		}
		if q.Type.Choice() && len(q.Options) == 0 {
			return fmt.Errorf("choice question %s has no options", q.ID)
		}
	}
	return nil
}

// ValidateSubmission checks that every required question carries a non-empty
// answer. It is called before a response is finalized to Completed.
func ValidateSubmission(s Survey, r SurveyResponse) error {
	for _, q := range s.Questions {
		if !q.Required {
			continue
		}
		v, ok := r.AnswerFor(q.ID)
		if !ok || strings.TrimSpace(v) == "" {
			return fmt.Errorf("required question %q not answered", q.Text)
		}
	}
	return nil
}
