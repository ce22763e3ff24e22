// Package flow navigates a respondent through a survey's questions.
//
// A question can carry conditional routes: boolean expressions over the
// answers collected so far, evaluated in order, with the first match
// deciding the next question. When no conditional matches, the static
// NextID applies, and failing that the next question by order index.
package flow

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"

	"surveyd/internal/domain"
)

var (
	ErrUnknownQuestion = errors.New("unknown question")
	ErrEndOfSurvey     = errors.New("end of survey")
)

// Navigator resolves next-question transitions for one survey.
type Navigator struct {
	survey  domain.Survey
	byID    map[string]domain.Question
	byOrder []domain.Question
}

func NewNavigator(s domain.Survey) Navigator {
	byID := make(map[string]domain.Question, len(s.Questions))
	for _, q := range s.Questions {
		byID[q.ID] = q
	}
	return Navigator{survey: s, byID: byID, byOrder: s.Questions}
}

// First returns the survey's first question by order index.
func (n Navigator) First() (domain.Question, error) {
	if len(n.byOrder) == 0 {
		return domain.Question{}, ErrEndOfSurvey
	}
	return n.byOrder[0], nil
}

// Next decides which question follows questionID given the answers so far.
// The answers map is keyed by question id and exposed as the expression
// environment for conditional routes.
func (n Navigator) Next(questionID string, answers map[string]any) (domain.Question, error) {
	current, ok := n.byID[questionID]
	if !ok {
		return domain.Question{}, fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}

	for _, cond := range current.Conditionals {
		match, err := evaluate(cond.Expression, answers)
		if err != nil {
			return domain.Question{}, fmt.Errorf("conditional on question %s: %w", questionID, err)
		}
		if match {
			next, ok := n.byID[cond.NextID]
			if !ok {
				return domain.Question{}, fmt.Errorf("%w: conditional target %s", ErrUnknownQuestion, cond.NextID)
			}
			return next, nil
		}
	}

	if current.NextID != "" {
		next, ok := n.byID[current.NextID]
		if !ok {
			return domain.Question{}, fmt.Errorf("%w: next target %s", ErrUnknownQuestion, current.NextID)
		}
		return next, nil
	}

	// Fall back to document order.
	for i, q := range n.byOrder {
		if q.ID == questionID {
			if i+1 < len(n.byOrder) {
				return n.byOrder[i+1], nil
			}
			return domain.Question{}, ErrEndOfSurvey
		}
	}
	return domain.Question{}, ErrEndOfSurvey
}

func evaluate(expression string, env map[string]any) (bool, error) {
	program, err := expr.Compile(expression, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, err
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false, err
	}
	result, ok := out.(bool)
	if !ok {
		return false, errors.New("expression did not return a boolean")
	}
	return result, nil
}
