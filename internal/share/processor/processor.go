package processor

//go:generate go run go.uber.org/mock/mockgen@latest -source=processor.go -destination=mocks_test.go -package=processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/LegalMindAI/Backend-V2/internal/clients/gcs"
	conversationProcessor "github.com/LegalMindAI/Backend-V2/internal/conversation/processor"
	"github.com/LegalMindAI/Backend-V2/internal/observability"
	"github.com/LegalMindAI/Backend-V2/internal/store"
)

// ConversationReader loads an owner's conversation
type ConversationReader interface {
	GetFull(ctx context.Context, ownerID, rawID string) (store.Conversation, error)
}

// ObjectStore persists published snapshots
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

var (
	ErrSharedChatNotFound = errors.New("shared chat not found")
	ErrStorageUnavailable = errors.New("object storage unavailable")
)

const snapshotContentType = "application/json"

// Snapshot is the public, point-in-time copy of a conversation.
type Snapshot struct {
	ChatID       string      `json:"chat_id"`
	Title        string      `json:"title"`
	Conversation store.Turns `json:"conversation"`
	SharedAt     time.Time   `json:"shared_at"`
	SharedBy     string      `json:"shared_by"`
}

type ShareProcessor struct {
	conversations ConversationReader
	objects       ObjectStore
	logger        *observability.Logger
	now           func() time.Time
}

func New(conversations ConversationReader, objects ObjectStore, logger *observability.Logger) ShareProcessor {
	return ShareProcessor{
		conversations: conversations,
		objects:       objects,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func snapshotKey(chatID string) string {
	return "chats/" + chatID + ".json"
}

// Share publishes the current state of an owner's conversation. Sharing again overwrites the
// previous snapshot. The returned share id is the conversation id.
func (p *ShareProcessor) Share(ctx context.Context, ownerID, rawID string) (string, error) {
	conversation, err := p.conversations.GetFull(ctx, ownerID, rawID)
	if err != nil {
		return "", err
	}

	chatID := conversation.ID.String()
	ctx = observability.WithFields(ctx, observability.Field{Key: "conversation_id", Value: chatID})

	data, err := json.Marshal(Snapshot{
		ChatID:       chatID,
		Title:        conversation.Title,
		Conversation: conversation.Turns,
		SharedAt:     p.now(),
		SharedBy:     ownerID,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to encode snapshot", err)
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := p.objects.Put(ctx, snapshotKey(chatID), data, snapshotContentType); err != nil {
		p.logger.Error(ctx, "failed to publish snapshot", err)
		return "", fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	p.logger.Info(ctx, "shared conversation", observability.Field{Key: "turns", Value: len(conversation.Turns)})
	return chatID, nil
}

// FetchShared reads a published snapshot. No owner check is made.
func (p *ShareProcessor) FetchShared(ctx context.Context, rawID string) (Snapshot, error) {
	id, err := conversationProcessor.ParseConversationID(rawID)
	if err != nil {
		return Snapshot{}, err
	}
	chatID := id.String()
	ctx = observability.WithFields(ctx, observability.Field{Key: "conversation_id", Value: chatID})

	data, err := p.objects.Get(ctx, snapshotKey(chatID))
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotFound) {
			p.logger.Warn(ctx, "shared chat not found")
			return Snapshot{}, ErrSharedChatNotFound
		}
		p.logger.Error(ctx, "failed to read snapshot", err)
		return Snapshot{}, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		p.logger.Error(ctx, "failed to decode snapshot", err)
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snapshot, nil
}
