package processor

//go:generate go run go.uber.org/mock/mockgen@latest -source=processor.go -destination=mocks_test.go -package=processor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/LegalMindAI/Backend-V2/internal/observability"
	"github.com/LegalMindAI/Backend-V2/internal/store"

	"github.com/google/uuid"
)

// ConversationStore defines the database operations required by ConversationProcessor
type ConversationStore interface {
	GetConversation(ctx context.Context, ownerID string, conversationID uuid.UUID) (store.Conversation, error)
	CreateConversation(ctx context.Context, conversation store.Conversation) (store.Conversation, error)
	UpdateConversationTurns(ctx context.Context, ownerID string, conversationID uuid.UUID, expectedVersion int,
		turns store.Turns, updatedAt time.Time) (store.Conversation, error)
	ListConversationSummaries(ctx context.Context, ownerID string) ([]store.ConversationSummary, error)
}

var (
	ErrInvalidConversationID = errors.New("invalid conversation id")
	ErrConversationNotFound  = errors.New("conversation not found")
	ErrConcurrentUpdate      = errors.New("conversation was modified concurrently")
	ErrEmptyTurn             = errors.New("question and answer must not be empty")
)

const (
	titleMaxRunes     = 50
	titleEllipsis     = "..."
	userContextPrefix = "User: "

	DefaultContextWindow     = 10
	DefaultMaxAppendAttempts = 3
)

// Config tunes context assembly and write retries.
type Config struct {
	// ContextWindow is how many trailing turns feed the context. 0 means the whole history.
	ContextWindow     int
	MaxAppendAttempts int
}

type ConversationProcessor struct {
	store         ConversationStore
	logger        *observability.Logger
	contextWindow int
	maxAttempts   int
	now           func() time.Time
}

func New(store ConversationStore, cfg Config, logger *observability.Logger) ConversationProcessor {
	attempts := cfg.MaxAppendAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAppendAttempts
	}
	window := cfg.ContextWindow
	if window < 0 {
		window = DefaultContextWindow
	}
	return ConversationProcessor{
		store:         store,
		logger:        logger,
		contextWindow: window,
		maxAttempts:   attempts,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// AppendTurnParams describes one question/answer exchange to persist.
type AppendTurnParams struct {
	OwnerID string
	// ConversationID is the client supplied id. Empty starts a new conversation.
	ConversationID string
	// ChatType labels a new conversation. Ignored when appending to an existing one.
	ChatType string
	Question string
	Answer   string
}

type SaveResult struct {
	ConversationID uuid.UUID `json:"chat_id"`
	Title          string    `json:"title"`
	UpdatedAt      time.Time `json:"updated_at"`
	Created        bool      `json:"-"`
}

// DeriveTitle returns the first 50 characters of question, with "..." appended only when
// the question is longer than that.
func DeriveTitle(question string) string {
	runes := []rune(question)
	if len(runes) <= titleMaxRunes {
		return question
	}
	return string(runes[:titleMaxRunes]) + titleEllipsis
}

// ParseConversationID validates a client supplied id. Only the 36 character hyphenated form is
// accepted, case-insensitively.
func ParseConversationID(raw string) (uuid.UUID, error) {
	if len(raw) != 36 {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidConversationID, raw)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidConversationID, raw)
	}
	return id, nil
}

// AssembleContext rebuilds prompt context from the trailing window turns of a conversation.
// Only user turns are kept, one "User: <content>" line each, oldest first. A window of 0 means
// the full history.
func AssembleContext(turns store.Turns, window int) string {
	start := 0
	if window > 0 && len(turns) > window {
		start = len(turns) - window
	}
	lines := make([]string, 0, len(turns)-start)
	for _, turn := range turns[start:] {
		if turn.Role != store.RoleUser {
			continue
		}
		lines = append(lines, userContextPrefix+turn.Content)
	}
	return strings.Join(lines, "\n")
}

// AssembleContext applies the configured context window.
func (p *ConversationProcessor) AssembleContext(turns store.Turns) string {
	return AssembleContext(turns, p.contextWindow)
}

// Locate resolves the conversation a request continues. A nil record with a nil error means
// rawID was empty and a new conversation should be started.
func (p *ConversationProcessor) Locate(ctx context.Context, ownerID, rawID string) (*store.Conversation, error) {
	if rawID == "" {
		return nil, nil
	}
	id, err := ParseConversationID(rawID)
	if err != nil {
		p.logger.Warn(ctx, "rejected malformed conversation id", observability.Field{Key: "chat_id", Value: rawID})
		return nil, err
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "conversation_id", Value: id.String()})
	conversation, err := p.store.GetConversation(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			p.logger.Warn(ctx, "conversation not found for owner")
			return nil, ErrConversationNotFound
		}
		p.logger.Error(ctx, "failed to load conversation", err)
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	return &conversation, nil
}

// GetFull returns the complete record for an owner's conversation.
func (p *ConversationProcessor) GetFull(ctx context.Context, ownerID, rawID string) (store.Conversation, error) {
	if rawID == "" {
		return store.Conversation{}, fmt.Errorf("%w: empty id", ErrInvalidConversationID)
	}
	conversation, err := p.Locate(ctx, ownerID, rawID)
	if err != nil {
		return store.Conversation{}, err
	}
	return *conversation, nil
}

// ListSummaries returns the owner's conversations ordered by updated_at descending. Ties are
// broken by conversation id, descending.
func (p *ConversationProcessor) ListSummaries(ctx context.Context, ownerID string) ([]store.ConversationSummary, error) {
	summaries, err := p.store.ListConversationSummaries(ctx, ownerID)
	if err != nil {
		p.logger.Error(ctx, "failed to list conversations", err)
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		if !summaries[i].UpdatedAt.Equal(summaries[j].UpdatedAt) {
			return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
		}
		return summaries[i].ID.String() > summaries[j].ID.String()
	})
	return summaries, nil
}

// AppendTurn persists one user turn and one assistant turn. Without a conversation id a new
// record is created and titled from the question. Otherwise the turns are appended with a
// version checked write, re-reading on conflict up to the configured number of attempts.
func (p *ConversationProcessor) AppendTurn(ctx context.Context, params AppendTurnParams) (SaveResult, error) {
	if strings.TrimSpace(params.Question) == "" || strings.TrimSpace(params.Answer) == "" {
		return SaveResult{}, ErrEmptyTurn
	}

	if params.ConversationID == "" {
		return p.create(ctx, params)
	}

	id, err := ParseConversationID(params.ConversationID)
	if err != nil {
		p.logger.Warn(ctx, "rejected malformed conversation id",
			observability.Field{Key: "chat_id", Value: params.ConversationID})
		return SaveResult{}, err
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "conversation_id", Value: id.String()})

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		current, err := p.store.GetConversation(ctx, params.OwnerID, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				p.logger.Warn(ctx, "conversation not found for owner")
				return SaveResult{}, ErrConversationNotFound
			}
			p.logger.Error(ctx, "failed to load conversation", err)
			return SaveResult{}, fmt.Errorf("failed to load conversation: %w", err)
		}

		now := p.now()
		turns := make(store.Turns, 0, len(current.Turns)+2)
		turns = append(turns, current.Turns...)
		turns = append(turns, newTurnPair(params.Question, params.Answer, now)...)

		updated, err := p.store.UpdateConversationTurns(ctx, params.OwnerID, id, current.Version, turns, now)
		if err == nil {
			p.logger.Info(ctx, "appended turn to conversation",
				observability.Field{Key: "turns", Value: len(updated.Turns)},
				observability.Field{Key: "version", Value: updated.Version},
			)
			return SaveResult{ConversationID: updated.ID, Title: updated.Title, UpdatedAt: updated.UpdatedAt}, nil
		}
		if !errors.Is(err, store.ErrVersionConflict) {
			p.logger.Error(ctx, "failed to append turn", err)
			return SaveResult{}, fmt.Errorf("failed to append turn: %w", err)
		}
		p.logger.Warn(ctx, "concurrent update detected, retrying append",
			observability.Field{Key: "attempt", Value: attempt})
	}

	p.logger.Error(ctx, "giving up on append after repeated conflicts", ErrConcurrentUpdate)
	return SaveResult{}, ErrConcurrentUpdate
}

func (p *ConversationProcessor) create(ctx context.Context, params AppendTurnParams) (SaveResult, error) {
	now := p.now()
	conversation := store.Conversation{
		OwnerID:   params.OwnerID,
		ID:        uuid.New(),
		Title:     DeriveTitle(params.Question),
		Turns:     newTurnPair(params.Question, params.Answer, now),
		CreatedAt: now,
	}
	if params.ChatType != "" {
		conversation.ChatType = sql.NullString{String: params.ChatType, Valid: true}
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "conversation_id", Value: conversation.ID.String()})
	created, err := p.store.CreateConversation(ctx, conversation)
	if err != nil {
		p.logger.Error(ctx, "failed to create conversation", err)
		return SaveResult{}, fmt.Errorf("failed to create conversation: %w", err)
	}

	p.logger.Info(ctx, "created conversation")
	return SaveResult{ConversationID: created.ID, Title: created.Title, UpdatedAt: created.UpdatedAt, Created: true}, nil
}

func newTurnPair(question, answer string, at time.Time) store.Turns {
	return store.Turns{
		{Role: store.RoleUser, Content: question, Timestamp: at},
		{Role: store.RoleAssistant, Content: answer, Timestamp: at},
	}
}
