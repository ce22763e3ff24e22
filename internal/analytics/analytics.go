// Package analytics aggregates survey responses into per-question
// statistics.
//
// Aggregation is read-only and side-effect-free: the same immutable response
// set always produces the same report, and concurrent calls for different
// surveys do not interfere. Malformed answer data is never fatal; a
// non-numeric answer to a numeric question degrades to 0 instead of aborting
// the aggregation.
package analytics

import (
	"strconv"
	"strings"

	"surveyd/internal/domain"
)

// QuestionStats holds the aggregate for one question. Numeric questions
// (rating, scale) fill Average/Min/Max; choice questions fill Distribution;
// everything else reports only Count.
type QuestionStats struct {
	QuestionID   string              `json:"question_id"`
	Type         domain.QuestionType `json:"type"`
	Count        int                 `json:"count"`
	Average      float64             `json:"average,omitempty"`
	Min          float64             `json:"min,omitempty"`
	Max          float64             `json:"max,omitempty"`
	Distribution map[string]int      `json:"distribution,omitempty"`
}

// Report is the aggregate over a survey's full response set.
type Report struct {
	SurveyID       string                   `json:"survey_id"`
	TotalResponses int                      `json:"total_responses"`
	CompletionRate float64                  `json:"completion_rate"`
	Questions      map[string]QuestionStats `json:"questions"`
}

// Aggregate computes per-question statistics for a survey.
func Aggregate(survey domain.Survey, responses []domain.SurveyResponse) Report {
	rep := Report{
		SurveyID:       survey.ID,
		TotalResponses: len(responses),
		Questions:      make(map[string]QuestionStats, len(survey.Questions)),
	}

	if len(responses) > 0 {
		completed := 0
		for _, r := range responses {
			if r.Status == domain.ResponseCompleted {
				completed++
			}
		}
		rep.CompletionRate = float64(completed) * 100.0 / float64(len(responses))
	}

	for _, q := range survey.Questions {
		rep.Questions[q.ID] = aggregateQuestion(q, responses)
	}
	return rep
}

func aggregateQuestion(q domain.Question, responses []domain.SurveyResponse) QuestionStats {
	var answers []string
	for _, r := range responses {
		for _, a := range r.Answers {
			if a.QuestionID == q.ID {
				answers = append(answers, a.Value)
			}
		}
	}

	stats := QuestionStats{QuestionID: q.ID, Type: q.Type}

	switch {
	case q.Type.Numeric():
		stats.Count = len(answers)
		if len(answers) == 0 {
			return stats
		}
		values := make([]float64, 0, len(answers))
		for _, a := range answers {
			// Unparsable answers count as 0 rather than being dropped.
			n, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
			if err != nil {
				n = 0
			}
			values = append(values, n)
		}
		sum := 0.0
		minV, maxV := values[0], values[0]
		for _, v := range values {
			sum += v
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
		stats.Average = sum / float64(len(values))
		stats.Min = minV
		stats.Max = maxV

	case q.Type.Choice():
		stats.Count = len(answers)
		stats.Distribution = make(map[string]int, len(answers))
		for _, a := range answers {
			stats.Distribution[a]++
		}

	default:
		for _, a := range answers {
			if strings.TrimSpace(a) != "" {
				stats.Count++
			}
		}
	}
	return stats
}
