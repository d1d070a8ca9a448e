package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"leadflow/pkg/logx"
)

const schema = `
CREATE TABLE IF NOT EXISTS leads (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	phone TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL DEFAULT '',
	message TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'New',
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS conversations (
	lead_id TEXT PRIMARY KEY REFERENCES leads(id),
	lead_name TEXT NOT NULL DEFAULT '',
	current_index INTEGER NOT NULL DEFAULT 0,
	answers TEXT NOT NULL DEFAULT '{}',
	classification TEXT NOT NULL DEFAULT '',
	version INTEGER NOT NULL DEFAULT 1,
	updated_at TIMESTAMP NOT NULL
);
`

// SQLiteStore implements Store on a SQLite database file.
type SQLiteStore struct {
	db     *sql.DB
	logger *logx.Logger
}

// OpenSQLite opens (creating if needed) the SQLite database and initializes the
// schema. Safe to call against an existing database.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf(
		"file:%s?_foreign_keys=ON&_journal_mode=WAL&_busy_timeout=5000",
		dbPath,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	logger := logx.NewLogger("store")
	logger.Info("Database initialized: %s", dbPath)

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// CreateLead inserts a new lead record.
func (s *SQLiteStore) CreateLead(ctx context.Context, lead *Lead) error {
	if lead.ID == "" {
		lead.ID = GenerateLeadID()
	}
	if lead.Status == "" {
		lead.Status = StatusNew
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leads (id, name, phone, email, source, message, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, lead.ID, lead.Name, lead.Phone, lead.Email, lead.Source, lead.Message, lead.Status, lead.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: leads.phone") {
			return ErrDuplicatePhone
		}
		return fmt.Errorf("failed to create lead %s: %w", lead.ID, err)
	}
	return nil
}

// GetLead retrieves a lead by ID.
func (s *SQLiteStore) GetLead(ctx context.Context, id string) (*Lead, error) {
	lead := &Lead{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, phone, email, source, message, status, created_at
		FROM leads WHERE id = ?
	`, id).Scan(&lead.ID, &lead.Name, &lead.Phone, &lead.Email, &lead.Source,
		&lead.Message, &lead.Status, &lead.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lead %s: %w", id, err)
	}
	return lead, nil
}

// UpdateLeadStatus sets the lead's lifecycle status.
func (s *SQLiteStore) UpdateLeadStatus(ctx context.Context, id, status string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE leads SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update lead %s status: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check lead %s status update: %w", id, err)
	}
	if rows == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// GetConversation retrieves the conversation for a lead.
func (s *SQLiteStore) GetConversation(ctx context.Context, leadID string) (*Conversation, error) {
	conv := &Conversation{}
	var answersJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT lead_id, lead_name, current_index, answers, classification, version, updated_at
		FROM conversations WHERE lead_id = ?
	`, leadID).Scan(&conv.LeadID, &conv.LeadName, &conv.CurrentIndex, &answersJSON,
		&conv.Classification, &conv.Version, &conv.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation for lead %s: %w", leadID, err)
	}

	if err := json.Unmarshal([]byte(answersJSON), &conv.Answers); err != nil {
		return nil, fmt.Errorf("failed to decode answers for lead %s: %w", leadID, err)
	}
	if conv.Answers == nil {
		conv.Answers = make(map[string]string)
	}
	return conv, nil
}

// CreateConversation inserts a new conversation at version 1.
func (s *SQLiteStore) CreateConversation(ctx context.Context, conv *Conversation) error {
	answersJSON, err := json.Marshal(conv.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers for lead %s: %w", conv.LeadID, err)
	}
	conv.Version = 1
	conv.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversations (lead_id, lead_name, current_index, answers, classification, version, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, conv.LeadID, conv.LeadName, conv.CurrentIndex, string(answersJSON),
		conv.Classification, conv.Version, conv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create conversation for lead %s: %w", conv.LeadID, err)
	}
	return nil
}

// UpdateConversation commits conv against the version it was read at.
// The WHERE clause on version is what prevents lost updates between two
// concurrent turns for the same lead.
func (s *SQLiteStore) UpdateConversation(ctx context.Context, conv *Conversation) error {
	answersJSON, err := json.Marshal(conv.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers for lead %s: %w", conv.LeadID, err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE conversations
		SET lead_name = ?, current_index = ?, answers = ?, classification = ?,
		    version = version + 1, updated_at = ?
		WHERE lead_id = ? AND version = ?
	`, conv.LeadName, conv.CurrentIndex, string(answersJSON), conv.Classification,
		time.Now().UTC(), conv.LeadID, conv.Version)
	if err != nil {
		return fmt.Errorf("failed to update conversation for lead %s: %w", conv.LeadID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check conversation update for lead %s: %w", conv.LeadID, err)
	}
	if rows == 0 {
		return ErrVersionConflict
	}
	conv.Version++
	return nil
}
