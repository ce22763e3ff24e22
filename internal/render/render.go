// Package render substitutes named placeholders in notification templates.
//
// Substitution is literal: no escaping, no nesting, and placeholders without
// a known value are left verbatim in the output. Survey titles and recipient
// names are first-party data here, not untrusted input.
package render

import (
	"strings"

	"surveyd/internal/domain"
)

// Placeholders recognized in templates.
const (
	PlaceholderName  = "{PatientName}"
	PlaceholderTitle = "{SurveyTitle}"
	PlaceholderLink  = "{SurveyLink}"
)

const defaultLinkBase = "https://surveys.example.org/surveys/"

// Renderer builds personalized message bodies from survey templates.
type Renderer struct {
	linkBase string
}

// New returns a Renderer that builds survey links from linkBase + survey id.
// An empty linkBase falls back to the default.
func New(linkBase string) Renderer {
	base := strings.TrimSpace(linkBase)
	if base == "" {
		base = defaultLinkBase
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return Renderer{linkBase: base}
}

// Message substitutes the recipient and survey placeholders in template.
func (r Renderer) Message(template string, survey domain.Survey, rcpt domain.Recipient) string {
	rep := strings.NewReplacer(
		PlaceholderName, rcpt.FullName(),
		PlaceholderTitle, survey.Title,
		PlaceholderLink, r.Link(survey.ID),
	)
	return rep.Replace(template)
}

// Link returns the deterministic survey URL for an id.
func (r Renderer) Link(surveyID string) string {
	return r.linkBase + surveyID
}
