package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single message in a conversation.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Turns is stored as a JSONB array.
type Turns []Turn

func (t Turns) Value() (driver.Value, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal turns: %w", err)
	}
	return b, nil
}

func (t *Turns) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = Turns{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type for turns: %T", src)
	}
	var out Turns
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("failed to unmarshal turns: %w", err)
	}
	*t = out
	return nil
}

type Conversation struct {
	OwnerID   string         `db:"owner_id"`
	ID        uuid.UUID      `db:"conversation_id"`
	Title     string         `db:"title"`
	Turns     Turns          `db:"turns"`
	ChatType  sql.NullString `db:"chat_type"`
	Version   int            `db:"version"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

type ConversationSummary struct {
	ID        uuid.UUID      `db:"conversation_id"`
	Title     string         `db:"title"`
	ChatType  sql.NullString `db:"chat_type"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

const sqlGetConversation = `
SELECT owner_id, conversation_id, title, turns, chat_type, version, created_at, updated_at
FROM conversations
WHERE owner_id = $1 AND conversation_id = $2
`

// GetConversation retrieves a conversation by its owner and id
func (s *Store) GetConversation(ctx context.Context, ownerID string, conversationID uuid.UUID) (Conversation, error) {
	var conversation Conversation
	err := s.db.GetContext(ctx, &conversation, sqlGetConversation, ownerID, conversationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Conversation{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get conversation", err)
		return Conversation{}, fmt.Errorf("failed to get conversation: %w", err)
	}
	return conversation, nil
}

const sqlCreateConversation = `
INSERT INTO conversations (owner_id, conversation_id, title, turns, chat_type, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, 1, $6, $6)
RETURNING owner_id, conversation_id, title, turns, chat_type, version, created_at, updated_at
`

// CreateConversation inserts a new conversation at version 1
func (s *Store) CreateConversation(ctx context.Context, conversation Conversation) (Conversation, error) {
	var created Conversation
	err := s.db.GetContext(ctx, &created, sqlCreateConversation,
		conversation.OwnerID,
		conversation.ID,
		conversation.Title,
		conversation.Turns,
		conversation.ChatType,
		conversation.CreatedAt,
	)
	if err != nil {
		s.logger.Error(ctx, "failed to create conversation", err)
		return Conversation{}, fmt.Errorf("failed to create conversation: %w", err)
	}
	return created, nil
}

const sqlUpdateConversationTurns = `
UPDATE conversations
SET turns = $4, updated_at = $5, version = version + 1
WHERE owner_id = $1 AND conversation_id = $2 AND version = $3
RETURNING owner_id, conversation_id, title, turns, chat_type, version, created_at, updated_at
`

// UpdateConversationTurns replaces the turns of a conversation if its stored version still
// equals expectedVersion. ErrVersionConflict is returned when another writer got there first.
func (s *Store) UpdateConversationTurns(ctx context.Context, ownerID string, conversationID uuid.UUID,
	expectedVersion int, turns Turns, updatedAt time.Time) (Conversation, error) {
	var updated Conversation
	err := s.db.GetContext(ctx, &updated, sqlUpdateConversationTurns,
		ownerID,
		conversationID,
		expectedVersion,
		turns,
		updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Conversation{}, ErrVersionConflict
		}
		s.logger.Error(ctx, "failed to update conversation turns", err)
		return Conversation{}, fmt.Errorf("failed to update conversation turns: %w", err)
	}
	return updated, nil
}

const sqlListConversationSummaries = `
SELECT conversation_id, title, chat_type, created_at, updated_at
FROM conversations
WHERE owner_id = $1
ORDER BY updated_at DESC, conversation_id DESC
`

// ListConversationSummaries returns the owner's conversations, most recently updated first
func (s *Store) ListConversationSummaries(ctx context.Context, ownerID string) ([]ConversationSummary, error) {
	summaries := []ConversationSummary{}
	err := s.db.SelectContext(ctx, &summaries, sqlListConversationSummaries, ownerID)
	if err != nil {
		s.logger.Error(ctx, "failed to list conversation summaries", err)
		return nil, fmt.Errorf("failed to list conversation summaries: %w", err)
	}
	return summaries, nil
}
