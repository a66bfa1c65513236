package model

import "time"

type Project struct {
	ID          int        `json:"id"`
	Code        string     `json:"code"` // short alphanumeric, unique, used in issue codes
	Name        string     `json:"name"`
	Client      string     `json:"client"`
	Description string     `json:"description"`
	Status      string     `json:"status"` // active / completed / cancelled
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
