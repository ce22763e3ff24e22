package engine

import (
	"sync"
	"time"
)

// Report is the per-run accumulation of successes and per-item errors.
// It is handed to the report sink (logger + audit trail) after every run.
type Report struct {
	Started           time.Time
	Duration          time.Duration
	SurveysExamined   int
	NotificationsSent int
	Errors            []SurveyError
}

// Failed reports whether any survey in the run recorded an error.
func (r Report) Failed() bool { return len(r.Errors) > 0 }

// reportBuilder accumulates results from concurrent survey workers.
type reportBuilder struct {
	mu     sync.Mutex
	report Report
}

func (b *reportBuilder) addSent(n int) {
	b.mu.Lock()
	b.report.NotificationsSent += n
	b.mu.Unlock()
}

func (b *reportBuilder) addErrors(errs ...SurveyError) {
	if len(errs) == 0 {
		return
	}
	b.mu.Lock()
	b.report.Errors = append(b.report.Errors, errs...)
	b.mu.Unlock()
}
