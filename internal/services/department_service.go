package services

import (
	"context"

	"muniplan/internal/models"
	"muniplan/internal/repositories"
)

type DepartmentService interface {
	Create(ctx context.Context, dept *models.Department) (*models.Department, error)
	GetByID(ctx context.Context, id int64) (*models.Department, error)
	GetByName(ctx context.Context, name string) (*models.Department, error)
	GetAll(ctx context.Context) ([]models.Department, error)
	Update(ctx context.Context, id int64, updateData *models.Department) (*models.Department, error)
	Delete(ctx context.Context, id int64) error
}

type departmentService struct {
	repo repositories.DepartmentRepository
}

func NewDepartmentService(repo repositories.DepartmentRepository) DepartmentService {
	return &departmentService{repo: repo}
}

func (s *departmentService) Create(ctx context.Context, dept *models.Department) (*models.Department, error) {
	if err := s.repo.Store(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

func (s *departmentService) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *departmentService) GetByName(ctx context.Context, name string) (*models.Department, error) {
	return s.repo.FindByName(ctx, name)
}

func (s *departmentService) GetAll(ctx context.Context) ([]models.Department, error) {
	return s.repo.FindAll(ctx)
}

func (s *departmentService) Update(ctx context.Context, id int64, updateData *models.Department) (*models.Department, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Name = updateData.Name
	existing.Head = updateData.Head
	existing.ContactEmail = updateData.ContactEmail

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *departmentService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
