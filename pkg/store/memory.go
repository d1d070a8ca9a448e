package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store with the same compare-and-swap write
// semantics as the SQLite implementation. Used in tests and for running
// without a database file.
type MemoryStore struct {
	mu     sync.Mutex
	leads  map[string]*Lead
	phones map[string]bool
	convs  map[string]*Conversation
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		leads:  make(map[string]*Lead),
		phones: make(map[string]bool),
		convs:  make(map[string]*Conversation),
	}
}

// CreateLead inserts a new lead record.
func (m *MemoryStore) CreateLead(_ context.Context, lead *Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phones[lead.Phone] {
		return ErrDuplicatePhone
	}
	if lead.ID == "" {
		lead.ID = GenerateLeadID()
	}
	if lead.Status == "" {
		lead.Status = StatusNew
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}

	cp := *lead
	m.leads[lead.ID] = &cp
	m.phones[lead.Phone] = true
	return nil
}

// GetLead retrieves a lead by ID.
func (m *MemoryStore) GetLead(_ context.Context, id string) (*Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lead, ok := m.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	cp := *lead
	return &cp, nil
}

// UpdateLeadStatus sets the lead's lifecycle status.
func (m *MemoryStore) UpdateLeadStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lead, ok := m.leads[id]
	if !ok {
		return ErrLeadNotFound
	}
	lead.Status = status
	return nil
}

// GetConversation retrieves the conversation for a lead.
func (m *MemoryStore) GetConversation(_ context.Context, leadID string) (*Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv, ok := m.convs[leadID]
	if !ok {
		return nil, ErrConversationNotFound
	}
	return conv.Clone(), nil
}

// CreateConversation inserts a new conversation at version 1.
func (m *MemoryStore) CreateConversation(_ context.Context, conv *Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv.Version = 1
	conv.UpdatedAt = time.Now().UTC()
	m.convs[conv.LeadID] = conv.Clone()
	return nil
}

// UpdateConversation commits conv only against the version it was read at.
func (m *MemoryStore) UpdateConversation(_ context.Context, conv *Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.convs[conv.LeadID]
	if !ok || stored.Version != conv.Version {
		return ErrVersionConflict
	}
	conv.Version++
	conv.UpdatedAt = time.Now().UTC()
	m.convs[conv.LeadID] = conv.Clone()
	return nil
}
