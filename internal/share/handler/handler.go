package handler

import (
	"context"
	"net/http"

	"github.com/LegalMindAI/Backend-V2/internal/apierrors"
	authHandler "github.com/LegalMindAI/Backend-V2/internal/auth/handler"
	"github.com/LegalMindAI/Backend-V2/internal/observability"
	"github.com/LegalMindAI/Backend-V2/internal/share/processor"

	"github.com/gin-gonic/gin"
)

type ShareService interface {
	Share(ctx context.Context, ownerID, rawID string) (string, error)
	FetchShared(ctx context.Context, rawID string) (processor.Snapshot, error)
}

type Handler struct {
	processor ShareService
	logger    *observability.Logger
}

func New(processor ShareService, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

type ShareRequest struct {
	ChatID string `json:"chat_id" binding:"required"`
}

type ShareResponse struct {
	ShareID string `json:"share_id"`
	Message string `json:"message"`
}

func (h *Handler) HandleShare(c *gin.Context) {
	ctx := c.Request.Context()

	ownerID, ok := authHandler.UserID(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("User not authenticated"))
		return
	}

	var req ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind share request", err)
		apierrors.RespondWithValidationError(c, err)
		return
	}

	shareID, err := h.processor.Share(ctx, ownerID, req.ChatID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ShareResponse{ShareID: shareID, Message: "Chat shared successfully"})
}

// HandleFetchShared serves a published snapshot without authentication.
func (h *Handler) HandleFetchShared(c *gin.Context) {
	snapshot, err := h.processor.FetchShared(c.Request.Context(), c.Param("chat_id"))
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
