package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"formflow/internal/engine"
	"formflow/internal/model"
	"formflow/internal/repository"
)

var (
	ErrSurveyNotFound  = errors.New("survey not found")
	ErrSurveyNotValid  = errors.New("survey has integrity errors")
	ErrSurveyPublished = errors.New("survey is published; unpublish before editing")
)

// Broadcaster pushes builder-facing events over WebSocket. The concrete
// implementation lives in the ws package; services only know this interface.
type Broadcaster interface {
	IntegrityReport(surveyID string, report *engine.IntegrityReport)
	SessionProgress(surveyID, sessionID, questionID string)
}

// SurveyService handles survey CRUD, design-time validation, and publishing
type SurveyService struct {
	surveyRepo   repository.SurveyRepo
	responseRepo repository.ResponseRepo
	projectSvc   *ProjectService
	broadcaster  Broadcaster
}

// NewSurveyService creates a new survey service
func NewSurveyService(surveyRepo repository.SurveyRepo, responseRepo repository.ResponseRepo, projectSvc *ProjectService) *SurveyService {
	return &SurveyService{
		surveyRepo:   surveyRepo,
		responseRepo: responseRepo,
		projectSvc:   projectSvc,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *SurveyService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Create creates a draft survey in the given project
func (s *SurveyService) Create(ctx context.Context, ownerID string, survey *model.Survey) (*model.Survey, error) {
	if _, err := s.projectSvc.GetByID(ctx, ownerID, survey.ProjectID); err != nil {
		return nil, err
	}

	survey.ID = uuid.New().String()
	survey.Status = model.SurveyDraft
	if survey.SchemaVersion == 0 {
		survey.SchemaVersion = model.SchemaV2
	}
	assignQuestionIDs(survey.Questions)

	if err := s.surveyRepo.Create(ctx, survey); err != nil {
		return nil, err
	}
	s.notifyIntegrity(survey)
	return survey, nil
}

// GetByID retrieves a survey, checking project ownership
func (s *SurveyService) GetByID(ctx context.Context, ownerID, id string) (*model.Survey, error) {
	survey, err := s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}
	if _, err := s.projectSvc.GetByID(ctx, ownerID, survey.ProjectID); err != nil {
		return nil, ErrSurveyNotFound
	}
	return survey, nil
}

// ListByProject returns the surveys in a project
func (s *SurveyService) ListByProject(ctx context.Context, ownerID, projectID string) ([]*model.Survey, error) {
	if _, err := s.projectSvc.GetByID(ctx, ownerID, projectID); err != nil {
		return nil, err
	}
	return s.surveyRepo.ListByProject(ctx, projectID)
}

// Update replaces a draft survey's content
func (s *SurveyService) Update(ctx context.Context, ownerID string, survey *model.Survey) (*model.Survey, error) {
	existing, err := s.GetByID(ctx, ownerID, survey.ID)
	if err != nil {
		return nil, err
	}
	if existing.Status == model.SurveyPublished {
		return nil, ErrSurveyPublished
	}

	survey.ProjectID = existing.ProjectID
	survey.Status = existing.Status
	survey.CreatedAt = existing.CreatedAt
	if survey.SchemaVersion == 0 {
		survey.SchemaVersion = existing.SchemaVersion
	}
	assignQuestionIDs(survey.Questions)

	if err := s.surveyRepo.Update(ctx, survey); err != nil {
		return nil, err
	}
	s.notifyIntegrity(survey)
	return survey, nil
}

// Reorder rearranges the question array. Array order matters: the flow
// engine falls back to the array successor when no branch rule matches.
func (s *SurveyService) Reorder(ctx context.Context, ownerID, surveyID string, questionIDs []string) (*model.Survey, error) {
	survey, err := s.GetByID(ctx, ownerID, surveyID)
	if err != nil {
		return nil, err
	}
	if survey.Status == model.SurveyPublished {
		return nil, ErrSurveyPublished
	}
	if len(questionIDs) != len(survey.Questions) {
		return nil, fmt.Errorf("reorder names %d questions, survey has %d", len(questionIDs), len(survey.Questions))
	}

	reordered := make([]model.Question, 0, len(survey.Questions))
	for _, id := range questionIDs {
		q := survey.QuestionByID(id)
		if q == nil {
			return nil, fmt.Errorf("reorder names unknown question %q", id)
		}
		reordered = append(reordered, *q)
	}
	survey.Questions = reordered

	if err := s.surveyRepo.Update(ctx, survey); err != nil {
		return nil, err
	}
	s.notifyIntegrity(survey)
	return survey, nil
}

// Validate runs the whole-survey integrity check without persisting anything
func (s *SurveyService) Validate(ctx context.Context, ownerID, surveyID string) (*engine.IntegrityReport, error) {
	survey, err := s.GetByID(ctx, ownerID, surveyID)
	if err != nil {
		return nil, err
	}
	return engine.ValidateSurvey(survey.Questions), nil
}

// Publish validates the survey and, when clean, makes it available to
// respondents. Integrity errors block publishing.
func (s *SurveyService) Publish(ctx context.Context, ownerID, surveyID string) (*engine.IntegrityReport, error) {
	survey, err := s.GetByID(ctx, ownerID, surveyID)
	if err != nil {
		return nil, err
	}

	report := engine.ValidateSurvey(survey.Questions)
	if !report.OK {
		return report, ErrSurveyNotValid
	}

	if err := s.surveyRepo.SetStatus(ctx, surveyID, model.SurveyPublished); err != nil {
		return nil, err
	}
	return report, nil
}

// Unpublish returns a survey to draft so it can be edited again
func (s *SurveyService) Unpublish(ctx context.Context, ownerID, surveyID string) error {
	if _, err := s.GetByID(ctx, ownerID, surveyID); err != nil {
		return err
	}
	return s.surveyRepo.SetStatus(ctx, surveyID, model.SurveyDraft)
}

// Delete removes a survey permanently
func (s *SurveyService) Delete(ctx context.Context, ownerID, surveyID string) error {
	if _, err := s.GetByID(ctx, ownerID, surveyID); err != nil {
		return err
	}
	return s.surveyRepo.Delete(ctx, surveyID)
}

// Responses lists the archived responses of a survey, newest first
func (s *SurveyService) Responses(ctx context.Context, ownerID, surveyID string) ([]*model.Response, error) {
	if _, err := s.GetByID(ctx, ownerID, surveyID); err != nil {
		return nil, err
	}
	return s.responseRepo.ListBySurvey(ctx, surveyID)
}

// ResponseCount returns how many respondents completed the survey
func (s *SurveyService) ResponseCount(ctx context.Context, ownerID, surveyID string) (int64, error) {
	if _, err := s.GetByID(ctx, ownerID, surveyID); err != nil {
		return 0, err
	}
	return s.responseRepo.CountBySurvey(ctx, surveyID)
}

func (s *SurveyService) notifyIntegrity(survey *model.Survey) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.IntegrityReport(survey.ID, engine.ValidateSurvey(survey.Questions))
}

func assignQuestionIDs(questions []model.Question) {
	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = "q_" + uuid.New().String()[:8]
		}
	}
}
