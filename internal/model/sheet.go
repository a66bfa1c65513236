package model

import "time"

// ServiceSheet records a client-facing service visit against a project.
type ServiceSheet struct {
	ID          int       `json:"id"`
	ProjectID   int       `json:"project_id"`
	ServiceDate time.Time `json:"service_date"`
	Engineer    string    `json:"engineer"`
	WorkSummary string    `json:"work_summary"`
	ClientName  string    `json:"client_name"` // signing contact on the client side
	CreatedAt   time.Time `json:"created_at"`
}

// ChangeRequest approval states.
const (
	ChangeRequestPending  = "pending"
	ChangeRequestApproved = "approved"
	ChangeRequestRejected = "rejected"
)

type ChangeRequest struct {
	ID          int       `json:"id"`
	ProjectID   int       `json:"project_id"`
	RequestedBy string    `json:"requested_by"`
	RequestDate time.Time `json:"request_date"`
	Detail      string    `json:"detail"`
	Status      string    `json:"status"` // pending / approved / rejected
	CreatedAt   time.Time `json:"created_at"`
}

type MeetingNote struct {
	ID          int       `json:"id"`
	ProjectID   int       `json:"project_id"`
	MeetingDate time.Time `json:"meeting_date"`
	Attendees   string    `json:"attendees"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}
