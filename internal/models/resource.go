package models

import "time"

// Resource is a shared municipal asset (vehicle, crew, equipment).
// Resources are global, not project-scoped. Available is false exactly
// while a non-terminal task holds the reservation.
type Resource struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	Department      string     `json:"department"`
	Available       bool       `json:"available"`
	AllocatedTo     *int64     `json:"allocated_to,omitempty"`      // project id
	AllocatedToTask *int64     `json:"allocated_to_task,omitempty"` // task id
	AllocationStart *time.Time `json:"allocation_start,omitempty"`
	AllocationEnd   *time.Time `json:"allocation_end,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ResourceFilter defines the available parameters for filtering resources.
type ResourceFilter struct {
	Type       *string
	Department *string
	Available  *bool
}
