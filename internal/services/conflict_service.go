package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"muniplan/internal/models"
	"muniplan/internal/repositories"
	"muniplan/internal/scheduling"
)

// ConflictService runs the pure conflict analysis over store snapshots.
type ConflictService interface {
	// AnalyzeProject scores the project against every other active
	// project and returns the qualifying reports, highest severity first.
	AnalyzeProject(ctx context.Context, projectID int64) ([]models.ConflictReport, error)
	// CheckResource probes a resource for reservations overlapping the
	// window, excluding excludeTaskID (0 for a fresh reservation).
	CheckResource(ctx context.Context, resourceID, excludeTaskID int64, start, end time.Time) ([]models.ResourceConflict, error)
}

type conflictService struct {
	projects repositories.ProjectRepository
	tasks    repositories.TaskRepository
}

func NewConflictService(projects repositories.ProjectRepository, tasks repositories.TaskRepository) ConflictService {
	return &conflictService{projects: projects, tasks: tasks}
}

func (s *conflictService) AnalyzeProject(ctx context.Context, projectID int64) ([]models.ConflictReport, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	pool, err := s.projects.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch active projects: %w", err)
	}

	reports := scheduling.AnalyzeProjectConflicts(*project, pool)

	// the analyzer does not order its output; sort for presentation
	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].Severity != reports[j].Severity {
			return reports[i].Severity > reports[j].Severity
		}
		return reports[i].DistanceKm < reports[j].DistanceKm
	})
	return reports, nil
}

func (s *conflictService) CheckResource(ctx context.Context, resourceID, excludeTaskID int64, start, end time.Time) ([]models.ResourceConflict, error) {
	pending, err := s.tasks.FindPendingByResource(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("fetch pending reservations: %w", err)
	}
	return scheduling.FindResourceConflicts(excludeTaskID, resourceID, start, end, pending), nil
}
