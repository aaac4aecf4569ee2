package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mailrelay/mailrelay/internal/database"
	"github.com/mailrelay/mailrelay/internal/model"
)

// MessageRepository handles stored message bodies
type MessageRepository struct {
	db *database.Postgres
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *database.Postgres) *MessageRepository {
	return &MessageRepository{db: db}
}

// GetByName retrieves a stored message by its unique name
func (r *MessageRepository) GetByName(ctx context.Context, name string) (*model.StoredMessage, error) {
	query := `
		SELECT id, name, body, created_at, updated_at
		FROM message_bodies
		WHERE name = $1
	`
	msg := &model.StoredMessage{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&msg.ID,
		&msg.Name,
		&msg.Body,
		&msg.CreatedAt,
		&msg.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message body: %w", err)
	}
	return msg, nil
}

// Body returns the body of the stored message with the given name
func (r *MessageRepository) Body(ctx context.Context, name string) (string, error) {
	msg, err := r.GetByName(ctx, name)
	if err != nil {
		return "", err
	}
	return msg.Body, nil
}

// Upsert creates the named message or replaces its body
func (r *MessageRepository) Upsert(ctx context.Context, name, body string) (*model.StoredMessage, error) {
	if name == "" {
		return nil, ErrInvalidInput
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO message_bodies (id, name, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
		RETURNING id, name, body, created_at, updated_at
	`
	msg := &model.StoredMessage{}
	err := r.db.QueryRowContext(ctx, query, uuid.New().String(), name, body, now).Scan(
		&msg.ID,
		&msg.Name,
		&msg.Body,
		&msg.CreatedAt,
		&msg.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert message body: %w", err)
	}
	return msg, nil
}
