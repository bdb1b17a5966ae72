package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"formflow/internal/cache"
	"formflow/internal/engine"
	"formflow/internal/model"
	"formflow/internal/repository"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionCompleted   = errors.New("session is already completed")
	ErrSurveyNotPublished = errors.New("survey is not published")
	ErrWrongQuestion      = errors.New("answer does not target the current question")
)

// SubmitResult is the outcome of one answer submission. When the answer is
// rejected, Report carries the violations and the session does not advance.
type SubmitResult struct {
	Report    *engine.AnswerReport `json:"report"`
	Next      *model.Question      `json:"next,omitempty"`
	Completed bool                 `json:"completed"`
}

// SessionService runs respondent sessions: it validates each submitted
// answer, records it, and asks the flow engine for the next visible
// question. The engine sees a read-only snapshot on every call; all session
// state lives in the cache.
type SessionService struct {
	surveyRepo   repository.SurveyRepo
	responseRepo repository.ResponseRepo
	sessionCache cache.SessionCache
	resolver     engine.VisibilityResolver
	broadcaster  Broadcaster
}

// NewSessionService creates a new session service
func NewSessionService(
	surveyRepo repository.SurveyRepo,
	responseRepo repository.ResponseRepo,
	sessionCache cache.SessionCache,
	resolver engine.VisibilityResolver,
) *SessionService {
	return &SessionService{
		surveyRepo:   surveyRepo,
		responseRepo: responseRepo,
		sessionCache: sessionCache,
		resolver:     resolver,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Start opens a new session against a published survey and returns it with
// the first visible question.
func (s *SessionService) Start(ctx context.Context, surveyID string) (*model.Session, *model.Question, error) {
	survey, err := s.loadSurvey(ctx, surveyID)
	if err != nil {
		return nil, nil, err
	}

	session := &model.Session{
		ID:        uuid.New().String(),
		SurveyID:  surveyID,
		Status:    model.SessionActive,
		Answers:   model.AnswersMap{},
		StartedAt: time.Now(),
	}

	first := s.firstVisible(survey, session.Answers)
	if first != nil {
		session.CurrentQuestionID = first.ID
	}

	if err := s.sessionCache.Set(ctx, session); err != nil {
		return nil, nil, err
	}
	return session, first, nil
}

// Get returns a live session
func (s *SessionService) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	session, err := s.sessionCache.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// VisibleQuestions returns the subset of the survey the respondent should
// currently see, given the session's answers so far.
func (s *SessionService) VisibleQuestions(ctx context.Context, sessionID string) ([]model.Question, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	survey, err := s.loadSurvey(ctx, session.SurveyID)
	if err != nil {
		return nil, err
	}

	visible := make([]model.Question, 0, len(survey.Questions))
	for i := range survey.Questions {
		if s.resolver.IsVisible(&survey.Questions[i], session.Answers) {
			visible = append(visible, survey.Questions[i])
		}
	}
	return visible, nil
}

// SubmitAnswer validates the answer for the session's current question.
// A rejected answer returns the violations and leaves the session where it
// is; an accepted one is recorded and the session advances to the next
// visible question, completing the session when routing reaches the end.
func (s *SessionService) SubmitAnswer(ctx context.Context, sessionID, questionID string, value any) (*SubmitResult, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionActive {
		return nil, ErrSessionCompleted
	}
	if questionID != session.CurrentQuestionID {
		return nil, ErrWrongQuestion
	}

	survey, err := s.loadSurvey(ctx, session.SurveyID)
	if err != nil {
		return nil, err
	}
	current := survey.QuestionByID(questionID)
	if current == nil {
		// The question was edited away after the session started; end the
		// session gracefully rather than erroring at the respondent.
		return s.complete(ctx, session)
	}

	report := engine.ValidateAnswer(current, value)
	if !report.OK {
		return &SubmitResult{Report: report}, nil
	}

	session.Answers[questionID] = value
	next := s.nextVisible(survey, current, session.Answers)
	if next == nil {
		return s.complete(ctx, session)
	}

	session.CurrentQuestionID = next.ID
	if err := s.sessionCache.Set(ctx, session); err != nil {
		return nil, err
	}
	if s.broadcaster != nil {
		s.broadcaster.SessionProgress(session.SurveyID, session.ID, next.ID)
	}
	return &SubmitResult{Report: report, Next: next}, nil
}

// Restart clears the session's answers and returns to the first question
func (s *SessionService) Restart(ctx context.Context, sessionID string) (*model.Session, *model.Question, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	survey, err := s.loadSurvey(ctx, session.SurveyID)
	if err != nil {
		return nil, nil, err
	}

	session.Status = model.SessionActive
	session.Answers = model.AnswersMap{}
	session.CurrentQuestionID = ""
	first := s.firstVisible(survey, session.Answers)
	if first != nil {
		session.CurrentQuestionID = first.ID
	}

	if err := s.sessionCache.Set(ctx, session); err != nil {
		return nil, nil, err
	}
	return session, first, nil
}

func (s *SessionService) complete(ctx context.Context, session *model.Session) (*SubmitResult, error) {
	now := time.Now()
	session.Status = model.SessionCompleted
	session.CompletedAt = &now

	response := &model.Response{
		ID:          uuid.New().String(),
		SurveyID:    session.SurveyID,
		SessionID:   session.ID,
		Answers:     session.Answers,
		StartedAt:   session.StartedAt,
		CompletedAt: now,
	}
	if err := s.responseRepo.Create(ctx, response); err != nil {
		return nil, err
	}
	if err := s.sessionCache.Delete(ctx, session.ID); err != nil {
		return nil, err
	}
	if s.broadcaster != nil {
		s.broadcaster.SessionProgress(session.SurveyID, session.ID, "")
	}
	return &SubmitResult{Report: &engine.AnswerReport{OK: true}, Completed: true}, nil
}

// loadSurvey fetches a published survey and normalizes it to the recursive
// rule schema so routing and visibility see one dialect.
func (s *SessionService) loadSurvey(ctx context.Context, surveyID string) (*model.Survey, error) {
	survey, err := s.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}
	if survey.Status != model.SurveyPublished {
		return nil, ErrSurveyNotPublished
	}
	return engine.NormalizeSurvey(survey), nil
}

func (s *SessionService) firstVisible(survey *model.Survey, answers model.AnswersMap) *model.Question {
	for i := range survey.Questions {
		if s.resolver.IsVisible(&survey.Questions[i], answers) {
			return &survey.Questions[i]
		}
	}
	return nil
}

// nextVisible follows routing from current, skipping questions the resolver
// hides. The hop count is bounded by the survey size so a cyclic graph that
// slipped past design-time validation cannot loop a respondent forever.
func (s *SessionService) nextVisible(survey *model.Survey, current *model.Question, answers model.AnswersMap) *model.Question {
	for hops := 0; hops <= len(survey.Questions); hops++ {
		nextID := engine.NextQuestionID(current, survey.Questions, answers)
		if nextID == "" {
			return nil
		}
		next := survey.QuestionByID(nextID)
		if next == nil {
			return nil
		}
		if s.resolver.IsVisible(next, answers) {
			return next
		}
		current = next
	}
	return nil
}
