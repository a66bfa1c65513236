package model

import "time"

// Issue type constants.
const (
	IssueTypeBug         = "bug"
	IssueTypeFeature     = "feature"
	IssueTypeMaintenance = "maintenance"
	IssueTypeSupport     = "support"
)

// Issue priority constants.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Issue status constants, shared with subtasks.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusOnHold     = "on_hold"
	StatusDone       = "done"
	StatusCancelled  = "cancelled"
)

type Issue struct {
	ID           int        `json:"id"`
	ProjectID    int        `json:"project_id"`
	Code         string     `json:"code"` // PRJ-MMYYYY-001, allocated on create
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Remark       string     `json:"remark"`
	Type         string     `json:"type"`
	Priority     string     `json:"priority"`
	Status       string     `json:"status"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	CompleteDate *time.Time `json:"complete_date,omitempty"`
	// OnLateTime is derived from CompleteDate vs DueDate and rewritten by the
	// service on every mutation that touches either date.
	OnLateTime string    `json:"on_late_time"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Subtask struct {
	ID           int        `json:"id"`
	IssueID      int        `json:"issue_id"`
	Title        string     `json:"title"`
	Remark       string     `json:"remark"`
	Status       string     `json:"status"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	CompleteDate *time.Time `json:"complete_date,omitempty"`
	OnLateTime   string     `json:"on_late_time"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

var issueTypes = map[string]bool{
	IssueTypeBug:         true,
	IssueTypeFeature:     true,
	IssueTypeMaintenance: true,
	IssueTypeSupport:     true,
}

var priorities = map[string]bool{
	PriorityLow:    true,
	PriorityMedium: true,
	PriorityHigh:   true,
	PriorityUrgent: true,
}

var statuses = map[string]bool{
	StatusOpen:       true,
	StatusInProgress: true,
	StatusOnHold:     true,
	StatusDone:       true,
	StatusCancelled:  true,
}

func IsValidIssueType(t string) bool { return issueTypes[t] }
func IsValidPriority(p string) bool  { return priorities[p] }
func IsValidStatus(s string) bool    { return statuses[s] }
