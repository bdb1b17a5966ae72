package model

import "time"

// AnswersMap maps question id to a recorded answer value. Values are
// JSON-shaped: string/float64/bool scalars, []any for multi-selects, and
// map[string]any for composite answers.
type AnswersMap map[string]any

// Clone returns a shallow copy so callers can hand the engine a snapshot.
func (m AnswersMap) Clone() AnswersMap {
	out := make(AnswersMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// SessionStatus is the lifecycle state of a respondent session
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// Session is one respondent's run through a published survey. Live sessions
// are held in Redis; completed ones are archived to Mongo as a Response.
type Session struct {
	ID                string        `json:"id" bson:"_id,omitempty"`
	SurveyID          string        `json:"surveyId" bson:"surveyId"`
	Status            SessionStatus `json:"status" bson:"status"`
	Answers           AnswersMap    `json:"answers" bson:"answers"`
	CurrentQuestionID string        `json:"currentQuestionId,omitempty" bson:"currentQuestionId,omitempty"`
	StartedAt         time.Time     `json:"startedAt" bson:"startedAt"`
	CompletedAt       *time.Time    `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}

// Response is a completed session archived for reporting.
type Response struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	SurveyID    string     `json:"surveyId" bson:"surveyId"`
	SessionID   string     `json:"sessionId" bson:"sessionId"`
	Answers     AnswersMap `json:"answers" bson:"answers"`
	StartedAt   time.Time  `json:"startedAt" bson:"startedAt"`
	CompletedAt time.Time  `json:"completedAt" bson:"completedAt"`
}
