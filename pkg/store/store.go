package store

import "context"

// LeadStore is the keyed persistence surface for leads.
type LeadStore interface {
	// CreateLead inserts a new lead. Returns ErrDuplicatePhone when the phone
	// number is already registered.
	CreateLead(ctx context.Context, lead *Lead) error

	// GetLead retrieves a lead by ID. Returns ErrLeadNotFound when absent.
	GetLead(ctx context.Context, id string) (*Lead, error)

	// UpdateLeadStatus sets the lead's lifecycle status.
	UpdateLeadStatus(ctx context.Context, id, status string) error
}

// ConversationStore is the keyed persistence surface for conversations.
// At most one conversation exists per lead.
type ConversationStore interface {
	// GetConversation retrieves the conversation for a lead.
	// Returns ErrConversationNotFound when none exists yet.
	GetConversation(ctx context.Context, leadID string) (*Conversation, error)

	// CreateConversation inserts a new conversation at version 1.
	CreateConversation(ctx context.Context, conv *Conversation) error

	// UpdateConversation writes conv only if the stored version still equals
	// conv.Version, then increments it. Returns ErrVersionConflict when another
	// writer committed first; the caller must re-read and retry or fail.
	UpdateConversation(ctx context.Context, conv *Conversation) error
}

// Store combines both persistence surfaces.
type Store interface {
	LeadStore
	ConversationStore
}
