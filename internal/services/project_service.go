package services

import (
	"context"

	"muniplan/internal/models"
	"muniplan/internal/repositories"
)

type ProjectService interface {
	Create(ctx context.Context, project *models.Project) (*models.Project, error)
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	GetAll(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error)
	Update(ctx context.Context, id int64, updateData *models.Project) (*models.Project, error)
	Delete(ctx context.Context, id int64) error
}

type projectService struct {
	repo repositories.ProjectRepository
}

func NewProjectService(repo repositories.ProjectRepository) ProjectService {
	return &projectService{repo: repo}
}

func (s *projectService) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	if project.Status == "" {
		project.Status = models.ProjectPlanned
	}
	if err := s.repo.Store(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *projectService) GetAll(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *projectService) Update(ctx context.Context, id int64, updateData *models.Project) (*models.Project, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Title = updateData.Title
	existing.Description = updateData.Description
	existing.Department = updateData.Department
	existing.Location = updateData.Location
	existing.StartDate = updateData.StartDate
	existing.EndDate = updateData.EndDate
	existing.Status = updateData.Status

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *projectService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
