package models

import "time"

// ConflictType classifies what two projects are competing over.
type ConflictType string

const (
	ConflictSpatial         ConflictType = "spatial"
	ConflictTemporal        ConflictType = "temporal"
	ConflictSpatialTemporal ConflictType = "spatial-temporal"
)

// ConflictReport describes a detected conflict between the analyzed
// project and one other active project. Derived, never persisted.
type ConflictReport struct {
	ProjectID        int64        `json:"project_id"`
	ProjectTitle     string       `json:"project_title"`
	Department       string       `json:"department"`
	DistanceKm       float64      `json:"distance_km"`
	TemporalConflict bool         `json:"temporal_conflict"`
	Severity         float64      `json:"severity"`
	Type             ConflictType `json:"type"`
	Recommendation   string       `json:"recommendation"`
}

// ResourceConflict describes an existing reservation that overlaps a
// requested one. OverlapPercent is the overlap as a share of the two
// windows' combined span.
type ResourceConflict struct {
	TaskID         int64     `json:"task_id"`
	TaskTitle      string    `json:"task_title"`
	StartDate      time.Time `json:"start_date"`
	DueDate        time.Time `json:"due_date"`
	OverlapPercent float64   `json:"overlap_percent"`
}
