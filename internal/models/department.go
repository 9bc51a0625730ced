package models

import "time"

// Department is a unit of the municipal administration. Its name is the
// vocabulary used by Project.Department and Resource.Department.
type Department struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Head         string    `json:"head"`
	ContactEmail string    `json:"contact_email"`
	CreatedAt    time.Time `json:"created_at"`
}
