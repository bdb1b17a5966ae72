package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"formflow/internal/model"
	"formflow/internal/repository"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrNotInTrash      = errors.New("project is not in the trash")
)

// ProjectService handles project CRUD and the trash lifecycle
type ProjectService struct {
	projectRepo repository.ProjectRepo
	surveyRepo  repository.SurveyRepo
}

// NewProjectService creates a new project service
func NewProjectService(projectRepo repository.ProjectRepo, surveyRepo repository.SurveyRepo) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		surveyRepo:  surveyRepo,
	}
}

// Create creates a new project for the owner
func (s *ProjectService) Create(ctx context.Context, ownerID, name string) (*model.Project, error) {
	project := &model.Project{
		ID:      uuid.New().String(),
		OwnerID: ownerID,
		Name:    name,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// GetByID retrieves a project owned by ownerID
func (s *ProjectService) GetByID(ctx context.Context, ownerID, id string) (*model.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil || project.OwnerID != ownerID {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

// List returns the owner's projects, either active or trashed
func (s *ProjectService) List(ctx context.Context, ownerID string, inTrash bool) ([]*model.Project, error) {
	return s.projectRepo.ListByOwner(ctx, ownerID, inTrash)
}

// Rename updates the project name
func (s *ProjectService) Rename(ctx context.Context, ownerID, id, name string) (*model.Project, error) {
	project, err := s.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	project.Name = name
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Trash soft-deletes a project
func (s *ProjectService) Trash(ctx context.Context, ownerID, id string) error {
	if _, err := s.GetByID(ctx, ownerID, id); err != nil {
		return err
	}
	now := time.Now()
	return s.projectRepo.SetDeleted(ctx, id, &now)
}

// Restore brings a project back from the trash
func (s *ProjectService) Restore(ctx context.Context, ownerID, id string) error {
	project, err := s.GetByID(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if !project.InTrash() {
		return ErrNotInTrash
	}
	return s.projectRepo.SetDeleted(ctx, id, nil)
}

// Purge permanently removes a trashed project and its surveys
func (s *ProjectService) Purge(ctx context.Context, ownerID, id string) error {
	project, err := s.GetByID(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if !project.InTrash() {
		return ErrNotInTrash
	}
	if err := s.surveyRepo.DeleteByProject(ctx, id); err != nil {
		return err
	}
	return s.projectRepo.Purge(ctx, id)
}
