package models

import "time"

// ProjectStatus defines the lifecycle stage of a municipal project.
type ProjectStatus string

const (
	ProjectPlanned   ProjectStatus = "planned"
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectOnHold    ProjectStatus = "onHold"
)

// Location is a WGS84 point for the project site.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Project is a municipal works project with a physical site and an
// active calendar window. Conflict analysis only considers projects
// with status "active".
type Project struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Department  string        `json:"department"`
	Location    Location      `json:"location"`
	StartDate   time.Time     `json:"start_date"`
	EndDate     time.Time     `json:"end_date"`
	Status      ProjectStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ProjectFilter defines the available parameters for filtering projects.
type ProjectFilter struct {
	Status     *ProjectStatus
	Department *string
}
