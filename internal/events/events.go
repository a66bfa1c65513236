// Package events defines the payloads published to the topic exchange and
// consumed by the worker.
package events

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Routing keys.
const (
	IssueCreated   = "issue.created"
	IssueCompleted = "issue.completed"
	IssueDeleted   = "issue.deleted"
	UserCreated    = "user.created"
	UserDeleted    = "user.deleted"
)

// Envelope is the common wrapper for every domain event. EventID keys the
// worker's dedup, Actor is the authenticated user who caused the mutation.
type Envelope struct {
	EventID    string    `json:"event_id"`
	Actor      int       `json:"actor"`
	Entity     string    `json:"entity"`
	Detail     string    `json:"detail"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEnvelope fills the envelope with a fresh random event ID.
func NewEnvelope(actor int, entity, detail string) Envelope {
	return Envelope{
		EventID:    newEventID(),
		Actor:      actor,
		Entity:     entity,
		Detail:     detail,
		OccurredAt: time.Now().UTC(),
	}
}

func newEventID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// rand.Read only fails if the OS entropy source is broken
		panic(err)
	}
	return hex.EncodeToString(b)
}
