package scheduling

import (
	"time"

	"muniplan/internal/models"
)

// Conflict scoring thresholds. Severity is the sum of two binary 0.5
// contributions, so only 0, 0.5 and 1.0 ever occur; with the 0.7
// reporting cutoff a report is emitted only when both factors hold.
const (
	DistanceThresholdKm = 0.5
	SeverityThreshold   = 0.7
)

// FindResourceConflicts scans existing tasks for reservations of the
// given resource that overlap [start, end]. The task identified by
// excludeTaskID is skipped so an update never conflicts with itself,
// and tasks in a terminal status no longer hold their reservation.
// Returns every clash, not just the first; no side effects.
func FindResourceConflicts(excludeTaskID, resourceID int64, start, end time.Time, tasks []models.Task) []models.ResourceConflict {
	var conflicts []models.ResourceConflict
	for _, t := range tasks {
		if t.ID == excludeTaskID {
			continue
		}
		if t.ResourceID == nil || *t.ResourceID != resourceID {
			continue
		}
		if t.Status.Terminal() {
			continue
		}
		if !Overlaps(start, end, t.StartDate, t.DueDate) {
			continue
		}
		conflicts = append(conflicts, models.ResourceConflict{
			TaskID:         t.ID,
			TaskTitle:      t.Title,
			StartDate:      t.StartDate,
			DueDate:        t.DueDate,
			OverlapPercent: overlapPercent(start, end, t.StartDate, t.DueDate),
		})
	}
	return conflicts
}

// AnalyzeProjectConflicts scores the project against every other project
// in the pool and reports the pairs whose combined spatial+temporal
// severity reaches the threshold. The pool is expected to be the set of
// active projects; self is skipped by id. Output order is unspecified.
func AnalyzeProjectConflicts(project models.Project, pool []models.Project) []models.ConflictReport {
	var reports []models.ConflictReport
	for _, other := range pool {
		if other.ID == project.ID {
			continue
		}

		distance := DistanceKm(
			project.Location.Lat, project.Location.Lng,
			other.Location.Lat, other.Location.Lng,
		)
		temporal := Overlaps(project.StartDate, project.EndDate, other.StartDate, other.EndDate)

		severity := 0.0
		if distance < DistanceThresholdKm {
			severity += 0.5
		}
		if temporal {
			severity += 0.5
		}
		if severity < SeverityThreshold {
			continue
		}

		reports = append(reports, models.ConflictReport{
			ProjectID:        other.ID,
			ProjectTitle:     other.Title,
			Department:       other.Department,
			DistanceKm:       distance,
			TemporalConflict: temporal,
			Severity:         severity,
			Type:             conflictType(distance, temporal),
			Recommendation:   Recommendation(severity),
		})
	}
	return reports
}

func conflictType(distance float64, temporal bool) models.ConflictType {
	switch {
	case distance < DistanceThresholdKm && temporal:
		return models.ConflictSpatialTemporal
	case distance < DistanceThresholdKm:
		return models.ConflictSpatial
	default:
		return models.ConflictTemporal
	}
}

// Recommendation maps a severity score to the advisory text shown to
// coordinators.
func Recommendation(severity float64) string {
	switch {
	case severity >= 0.9:
		return "High risk: Consider rescheduling or relocating the project to avoid conflicts."
	case severity >= 0.7:
		return "Medium risk: Coordinate closely with the conflicting project team and establish clear boundaries."
	default:
		return "Low risk: Monitor the situation and maintain regular communication with the other project team."
	}
}
