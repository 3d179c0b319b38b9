package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/LegalMindAI/Backend-V2/internal/apierrors"
	authHandler "github.com/LegalMindAI/Backend-V2/internal/auth/handler"
	"github.com/LegalMindAI/Backend-V2/internal/chat/processor"
	"github.com/LegalMindAI/Backend-V2/internal/observability"

	"github.com/gin-gonic/gin"
)

type ChatService interface {
	Ask(ctx context.Context, params processor.AskParams) (processor.AskResult, error)
}

type Handler struct {
	processor ChatService
	logger    *observability.Logger
}

func New(processor ChatService, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

type AskRequest struct {
	ExtractedText string `json:"extracted_text"`
	Question      string `json:"question" binding:"required"`
	ChatID        string `json:"chat_id"`
}

type AskResponse struct {
	Answer    string    `json:"answer"`
	ChatID    string    `json:"chat_id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (h *Handler) HandleBasic(c *gin.Context) {
	h.handleAsk(c, processor.ModeBasic)
}

func (h *Handler) HandleAdvanced(c *gin.Context) {
	h.handleAsk(c, processor.ModeAdvanced)
}

func (h *Handler) HandleHinglish(c *gin.Context) {
	h.handleAsk(c, processor.ModeHinglish)
}

func (h *Handler) handleAsk(c *gin.Context, mode processor.Mode) {
	ctx := c.Request.Context()

	ownerID, ok := authHandler.UserID(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("User not authenticated"))
		return
	}

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind ask request", err)
		apierrors.RespondWithValidationError(c, err)
		return
	}

	result, err := h.processor.Ask(ctx, processor.AskParams{
		OwnerID:       ownerID,
		ChatID:        req.ChatID,
		ExtractedText: req.ExtractedText,
		Question:      req.Question,
		Mode:          mode,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, AskResponse{
		Answer:    result.Answer,
		ChatID:    result.Chat.ConversationID.String(),
		Title:     result.Chat.Title,
		UpdatedAt: result.Chat.UpdatedAt,
	})
}
