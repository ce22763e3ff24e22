package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedSchedule marks unparsable trigger metadata or a missing
	// recurrence rule. The survey is left unchanged and will only be
	// retried once the underlying data is fixed externally.
	ErrMalformedSchedule = errors.New("malformed schedule")

	// ErrResolveAudience marks a store failure while resolving the
	// audience; no partial sends happen for that survey.
	ErrResolveAudience = errors.New("audience resolution failed")

	// ErrDispatch marks a sink failure for an individual recipient.
	ErrDispatch = errors.New("dispatch failed")
)

// Stage names where in the pipeline a survey error occurred.
type Stage string

const (
	StageSelect   Stage = "select"
	StageSchedule Stage = "schedule"
	StageAudience Stage = "audience"
	StageDispatch Stage = "dispatch"
	StagePersist  Stage = "persist"
	StagePanic    Stage = "panic"
)

// SurveyError is one failure entry in a run report.
type SurveyError struct {
	SurveyID string
	Stage    Stage
	Err      error
}

func (e SurveyError) Error() string {
	return fmt.Sprintf("survey %s: %s: %v", e.SurveyID, e.Stage, e.Err)
}

func (e SurveyError) Unwrap() error { return e.Err }
