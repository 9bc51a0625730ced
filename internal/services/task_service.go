package services

import (
	"context"
	"fmt"
	"time"

	"muniplan/internal/models"
	"muniplan/internal/repositories"
	"muniplan/internal/scheduling"
)

// TaskService owns the task lifecycle: creation with the resource
// conflict pre-check, board status moves with their resource side
// effects, and deletion with release of a held reservation.
type TaskService interface {
	// Create stores the task. When a resource is attached, the pending
	// reservations for that resource are scanned first; a non-empty
	// conflict list means nothing was written and the caller decides.
	Create(ctx context.Context, task *models.Task) (*models.Task, []models.ResourceConflict, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	GetByProject(ctx context.Context, projectID int64, filter models.TaskFilter) ([]models.Task, error)
	// Update rewrites the task's fields. A reservation window change is
	// re-checked against the other pending tasks on the same resource.
	Update(ctx context.Context, id int64, updateData *models.Task) (*models.Task, []models.ResourceConflict, error)
	// ChangeStatus performs a board move and applies its side effects:
	// entering done/cancelled releases a held resource in the same batch.
	ChangeStatus(ctx context.Context, id int64, to models.TaskStatus) (*models.Task, error)
	UpdateAssignee(ctx context.Context, id int64, assigneeID int64) (*models.Task, error)
	// Delete removes the task, releasing its resource first if held.
	Delete(ctx context.Context, id int64) error
}

type taskService struct {
	repo repositories.TaskRepository
}

func NewTaskService(repo repositories.TaskRepository) TaskService {
	return &taskService{repo: repo}
}

func (s *taskService) Create(ctx context.Context, task *models.Task) (*models.Task, []models.ResourceConflict, error) {
	if task.Status == "" {
		task.Status = models.StatusTodo
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	if task.ResourceID == nil {
		if err := s.repo.Store(ctx, task); err != nil {
			return nil, nil, err
		}
		return task, nil, nil
	}

	conflicts, err := s.pendingConflicts(ctx, 0, *task.ResourceID, task.StartDate, task.DueDate)
	if err != nil {
		return nil, nil, err
	}
	if len(conflicts) > 0 {
		return nil, conflicts, nil
	}

	// the scan above is advisory; the allocation batch re-checks the
	// resource row under lock and fails if another client won the race
	if err := s.repo.StoreWithAllocation(ctx, task); err != nil {
		return nil, nil, err
	}
	return task, nil, nil
}

func (s *taskService) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *taskService) GetByProject(ctx context.Context, projectID int64, filter models.TaskFilter) ([]models.Task, error) {
	return s.repo.FindByProject(ctx, projectID, filter)
}

func (s *taskService) Update(ctx context.Context, id int64, updateData *models.Task) (*models.Task, []models.ResourceConflict, error) {
	existingTask, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if updateData.ResourceID != nil {
		conflicts, err := s.pendingConflicts(ctx, id, *updateData.ResourceID, updateData.StartDate, updateData.DueDate)
		if err != nil {
			return nil, nil, err
		}
		if len(conflicts) > 0 {
			return nil, conflicts, nil
		}
	}

	existingTask.Title = updateData.Title
	existingTask.Description = updateData.Description
	existingTask.Priority = updateData.Priority
	existingTask.AssigneeID = updateData.AssigneeID
	existingTask.StartDate = updateData.StartDate
	existingTask.DueDate = updateData.DueDate
	existingTask.Dependencies = updateData.Dependencies
	existingTask.ResourceID = updateData.ResourceID
	existingTask.ResourceAllocation = updateData.ResourceAllocation
	existingTask.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, existingTask); err != nil {
		return nil, nil, err
	}
	return existingTask, nil, nil
}

func (s *taskService) ChangeStatus(ctx context.Context, id int64, to models.TaskStatus) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	released := false
	for _, effect := range scheduling.SideEffectsFor(task.Status, to) {
		if effect == scheduling.EffectReleaseResource && task.ResourceID != nil {
			if err := s.repo.UpdateStatusReleasing(ctx, id, to, *task.ResourceID); err != nil {
				return nil, err
			}
			released = true
		}
	}
	if !released {
		if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
			return nil, err
		}
	}
	return s.repo.FindByID(ctx, id)
}

func (s *taskService) UpdateAssignee(ctx context.Context, id int64, assigneeID int64) (*models.Task, error) {
	if err := s.repo.UpdateAssignee(ctx, id, assigneeID); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *taskService) Delete(ctx context.Context, id int64) error {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if task.HoldsResource() {
		return s.repo.DeleteReleasing(ctx, id, *task.ResourceID)
	}
	return s.repo.Delete(ctx, id)
}

func (s *taskService) pendingConflicts(ctx context.Context, excludeTaskID, resourceID int64, start, end time.Time) ([]models.ResourceConflict, error) {
	pending, err := s.repo.FindPendingByResource(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("fetch pending reservations: %w", err)
	}
	return scheduling.FindResourceConflicts(excludeTaskID, resourceID, start, end, pending), nil
}
