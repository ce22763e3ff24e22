package domain

import "time"

// ResponseStatus is the lifecycle state of a single submission.
type ResponseStatus string

const (
	ResponseStarted    ResponseStatus = "started"
	ResponseInProgress ResponseStatus = "in_progress"
	ResponseCompleted  ResponseStatus = "completed"
	ResponseAbandoned  ResponseStatus = "abandoned"
	ResponseExpired    ResponseStatus = "expired"
)

// Answer is one question's answer inside a response. Values are stored as
// strings regardless of question type; aggregation interprets them.
type Answer struct {
	QuestionID string `json:"question_id" db:"question_id"`
	Value      string `json:"value" db:"value"`
}

// SurveyResponse is one respondent's submission for a survey.
type SurveyResponse struct {
	ID           string         `json:"id" db:"id"`
	SurveyID     string         `json:"survey_id" db:"survey_id"`
	RespondentID string         `json:"respondent_id" db:"respondent_id"`
	Status       ResponseStatus `json:"status" db:"status"`
	SubmittedAt  time.Time      `json:"submitted_at" db:"submitted_at"`
	Answers      []Answer       `json:"answers"`
}

// NewAssignment records the handout of a survey to a recipient as a Started
// response. It is the anchor later submissions and reminders attach to.
func NewAssignment(surveyID, respondentID string, now time.Time) SurveyResponse {
	return SurveyResponse{
		ID:           NewID(),
		SurveyID:     surveyID,
		RespondentID: respondentID,
		Status:       ResponseStarted,
		SubmittedAt:  now,
	}
}

// AnswerFor returns the answer value for a question, if present.
func (r SurveyResponse) AnswerFor(questionID string) (string, bool) {
	for _, a := range r.Answers {
		if a.QuestionID == questionID {
			return a.Value, true
		}
	}
	return "", false
}
