package analytics

import (
	"strconv"
	"strings"

	"surveyd/internal/domain"
)

// NPSBreakdown is a Net Promoter Score summary for one 0-10 rating question.
//
//	promoters:  9-10
//	passives:   7-8
//	detractors: 0-6
type NPSBreakdown struct {
	Total      int `json:"total"`
	Promoters  int `json:"promoters"`
	Passives   int `json:"passives"`
	Detractors int `json:"detractors"`
}

// Score returns %promoters - %detractors, rounded toward zero.
// A breakdown with no answers scores 0.
func (n NPSBreakdown) Score() int {
	if n.Total == 0 {
		return 0
	}
	promoterPct := float64(n.Promoters) / float64(n.Total) * 100
	detractorPct := float64(n.Detractors) / float64(n.Total) * 100
	return int(promoterPct - detractorPct)
}

// NPS classifies every answer to the given question across the response set.
// Unparsable answers count as 0 and therefore as detractors, consistent with
// the numeric aggregation rule.
func NPS(responses []domain.SurveyResponse, questionID string) NPSBreakdown {
	var b NPSBreakdown
	for _, r := range responses {
		for _, a := range r.Answers {
			if a.QuestionID != questionID {
				continue
			}
			n, err := strconv.ParseFloat(strings.TrimSpace(a.Value), 64)
			if err != nil {
				n = 0
			}
			b.Total++
			switch {
			case n >= 9:
				b.Promoters++
			case n >= 7:
				b.Passives++
			default:
				b.Detractors++
			}
		}
	}
	return b
}
