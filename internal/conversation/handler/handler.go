package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/LegalMindAI/Backend-V2/internal/apierrors"
	authHandler "github.com/LegalMindAI/Backend-V2/internal/auth/handler"
	"github.com/LegalMindAI/Backend-V2/internal/conversation/processor"
	"github.com/LegalMindAI/Backend-V2/internal/observability"
	"github.com/LegalMindAI/Backend-V2/internal/store"

	"github.com/gin-gonic/gin"
)

// DefaultChatType is reported for conversations saved without a category.
const DefaultChatType = "basic"

// ConversationService is the slice of the conversation processor the history endpoints use.
type ConversationService interface {
	AppendTurn(ctx context.Context, params processor.AppendTurnParams) (processor.SaveResult, error)
	ListSummaries(ctx context.Context, ownerID string) ([]store.ConversationSummary, error)
	GetFull(ctx context.Context, ownerID, rawID string) (store.Conversation, error)
}

type Handler struct {
	processor ConversationService
	logger    *observability.Logger
}

func New(processor ConversationService, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

type SaveChatRequest struct {
	ChatID   string `json:"chat_id"`
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
	ChatType string `json:"chat_type" binding:"omitempty,oneof=basic advanced hinglish"`
}

type ChatSummary struct {
	ChatID    string     `json:"chat_id"`
	Title     string     `json:"title"`
	UpdatedAt time.Time  `json:"updated_at"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	ChatType  string     `json:"chat_type,omitempty"`
}

type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type ChatDetail struct {
	ChatID       string        `json:"chat_id"`
	UserID       string        `json:"user_id"`
	Title        string        `json:"title"`
	Conversation []ChatMessage `json:"conversation"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// HandleSaveChat appends a client supplied question/answer pair, creating the conversation
// when no chat_id is given.
func (h *Handler) HandleSaveChat(c *gin.Context) {
	ctx := c.Request.Context()

	ownerID, ok := authHandler.UserID(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("User not authenticated"))
		return
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "owner_id", Value: ownerID})

	var req SaveChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	result, err := h.processor.AppendTurn(ctx, processor.AppendTurnParams{
		OwnerID:        ownerID,
		ConversationID: req.ChatID,
		ChatType:       req.ChatType,
		Question:       req.Question,
		Answer:         req.Answer,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ChatSummary{
		ChatID:    result.ConversationID.String(),
		Title:     result.Title,
		UpdatedAt: result.UpdatedAt,
	})
}

// HandleListTitles returns the caller's conversation summaries, newest first.
func (h *Handler) HandleListTitles(c *gin.Context) {
	ctx := c.Request.Context()

	ownerID, ok := authHandler.UserID(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("User not authenticated"))
		return
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "owner_id", Value: ownerID})

	summaries, err := h.processor.ListSummaries(ctx, ownerID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	resp := make([]ChatSummary, 0, len(summaries))
	for _, s := range summaries {
		createdAt := s.CreatedAt
		chatType := DefaultChatType
		if s.ChatType.Valid && s.ChatType.String != "" {
			chatType = s.ChatType.String
		}
		resp = append(resp, ChatSummary{
			ChatID:    s.ID.String(),
			Title:     s.Title,
			UpdatedAt: s.UpdatedAt,
			CreatedAt: &createdAt,
			ChatType:  chatType,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// HandleGetChat returns the full conversation identified by the chat_id path parameter.
func (h *Handler) HandleGetChat(c *gin.Context) {
	ctx := c.Request.Context()

	ownerID, ok := authHandler.UserID(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("User not authenticated"))
		return
	}
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "owner_id", Value: ownerID},
		observability.Field{Key: "chat_id", Value: c.Param("chat_id")},
	)

	conversation, err := h.processor.GetFull(ctx, ownerID, c.Param("chat_id"))
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toChatDetail(conversation))
}

func toChatDetail(conversation store.Conversation) ChatDetail {
	messages := make([]ChatMessage, 0, len(conversation.Turns))
	for _, turn := range conversation.Turns {
		messages = append(messages, ChatMessage{Role: turn.Role, Content: turn.Content, Timestamp: turn.Timestamp})
	}
	return ChatDetail{
		ChatID:       conversation.ID.String(),
		UserID:       conversation.OwnerID,
		Title:        conversation.Title,
		Conversation: messages,
		CreatedAt:    conversation.CreatedAt,
		UpdatedAt:    conversation.UpdatedAt,
	}
}
