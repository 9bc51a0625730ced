package services

import (
	"context"
	"fmt"

	"muniplan/internal/models"
	"muniplan/internal/repositories"
)

type ResourceService interface {
	Create(ctx context.Context, resource *models.Resource) (*models.Resource, error)
	GetByID(ctx context.Context, id int64) (*models.Resource, error)
	GetAll(ctx context.Context, filter models.ResourceFilter) ([]models.Resource, error)
	Update(ctx context.Context, id int64, updateData *models.Resource) (*models.Resource, error)
	Delete(ctx context.Context, id int64) error
}

type resourceService struct {
	repo repositories.ResourceRepository
}

func NewResourceService(repo repositories.ResourceRepository) ResourceService {
	return &resourceService{repo: repo}
}

func (s *resourceService) Create(ctx context.Context, resource *models.Resource) (*models.Resource, error) {
	// a new resource enters the directory unreserved
	resource.Available = true
	resource.AllocatedTo = nil
	resource.AllocatedToTask = nil
	if err := s.repo.Store(ctx, resource); err != nil {
		return nil, err
	}
	return resource, nil
}

func (s *resourceService) GetByID(ctx context.Context, id int64) (*models.Resource, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *resourceService) GetAll(ctx context.Context, filter models.ResourceFilter) ([]models.Resource, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *resourceService) Update(ctx context.Context, id int64, updateData *models.Resource) (*models.Resource, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// the allocation fields belong to the task lifecycle, not to edits
	// of the directory entry
	existing.Name = updateData.Name
	existing.Type = updateData.Type
	existing.Department = updateData.Department

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *resourceService) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !existing.Available {
		return fmt.Errorf("resource is allocated to a task and cannot be deleted")
	}
	return s.repo.Delete(ctx, id)
}
