package model

import "time"

// AuditLog rows are appended by the worker from consumed domain events.
type AuditLog struct {
	ID        int64     `json:"id"`
	EventID   string    `json:"event_id"`
	Actor     int       `json:"actor"`
	Action    string    `json:"action"` // routing key of the source event
	Entity    string    `json:"entity"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}
