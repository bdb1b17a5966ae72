package model

import "time"

// SurveyStatus is the publishing state of a survey
type SurveyStatus string

const (
	SurveyDraft     SurveyStatus = "draft"
	SurveyPublished SurveyStatus = "published"
)

// SchemaVersion identifies which routing dialect a survey uses
const (
	// SchemaV1 carries flat conditions and per-option/per-item next targets.
	SchemaV1 = 1
	// SchemaV2 carries recursive condition trees on branch/show rules.
	SchemaV2 = 2
)

// Survey is a persistent questionnaire owned by a project. Question order is
// significant: the flow engine falls back to the array successor when no
// branch rule matches.
type Survey struct {
	ID            string       `json:"id" bson:"_id,omitempty"`
	ProjectID     string       `json:"projectId" bson:"projectId"`
	Title         string       `json:"title" bson:"title"`
	Status        SurveyStatus `json:"status" bson:"status"`
	SchemaVersion int          `json:"schemaVersion" bson:"schemaVersion"`
	Questions     []Question   `json:"questions" bson:"questions"`
	CreatedAt     time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt" bson:"updatedAt"`
}

// QuestionByID returns the question with the given id, or nil.
func (s *Survey) QuestionByID(id string) *Question {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i]
		}
	}
	return nil
}
