// Package store provides keyed persistence for leads and their conversations,
// with a SQLite implementation and an in-memory twin sharing the same
// compare-and-swap write semantics.
package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Lead identifies a prospective customer being qualified.
type Lead struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Source    string    `json:"source,omitempty"`
	Message   string    `json:"message,omitempty"`
	Status    string    `json:"status"`
}

// Lead lifecycle status constants. New is the intake status; the remaining
// values are written exactly once, by the classifier at dialog completion.
const (
	StatusNew     = "New"
	StatusHot     = "Hot"
	StatusCold    = "Cold"
	StatusInvalid = "Invalid"
)

// Conversation is the per-lead persisted dialog state. Version supports
// optimistic-concurrency writes: an update only commits against the version
// it was read at.
type Conversation struct {
	UpdatedAt      time.Time         `json:"updated_at"`
	LeadID         string            `json:"lead_id"`
	LeadName       string            `json:"lead_name"`
	Classification string            `json:"classification,omitempty"`
	Answers        map[string]string `json:"answers"`
	CurrentIndex   int               `json:"current_index"`
	Version        int64             `json:"version"`
}

// Clone returns a deep copy so callers can stage changes without mutating the
// stored record.
func (c *Conversation) Clone() *Conversation {
	cp := *c
	cp.Answers = make(map[string]string, len(c.Answers))
	for k, v := range c.Answers {
		cp.Answers[k] = v
	}
	return &cp
}

// Store sentinel errors. Callers translate these into their error taxonomy.
var (
	ErrLeadNotFound         = errors.New("lead not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrVersionConflict      = errors.New("conversation version conflict")
	ErrDuplicatePhone       = errors.New("a lead with this phone number already exists")
)

// GenerateLeadID generates a new UUID for a lead.
func GenerateLeadID() string {
	return uuid.New().String()
}
