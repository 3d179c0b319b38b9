package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/LegalMindAI/Backend-V2/internal/apierrors"
	"github.com/LegalMindAI/Backend-V2/internal/auth/processor"
	"github.com/LegalMindAI/Backend-V2/internal/observability"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey    = "User-ID"
	userEmailKey = "User-Email"
)

// AuthService is the part of the auth processor the HTTP layer depends on.
type AuthService interface {
	VerifyToken(ctx context.Context, token string) (processor.Identity, error)
	SignIn(ctx context.Context, email, password string) (processor.Token, error)
	Status() processor.Status
}

type Handler struct {
	authProcessor AuthService
	logger        *observability.Logger
}

// TokenRequest mirrors the OAuth2 password grant form.
type TokenRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func New(authProcessor AuthService, logger *observability.Logger) Handler {
	return Handler{authProcessor: authProcessor, logger: logger}
}

// UserID returns the verified owner id set by HandleAuthMiddleware.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

func (h *Handler) HandleAuthMiddleware(c *gin.Context) {
	ctx := c.Request.Context()
	header := c.GetHeader("Authorization")

	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		apierrors.RespondWithError(c, apierrors.Unauthorized("Authorization token is missing or invalid"))
		return
	}

	identity, err := h.authProcessor.VerifyToken(ctx, strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.Set(userIDKey, identity.UserID)
	c.Set(userEmailKey, identity.Email)
	c.Request = c.Request.WithContext(observability.WithFields(ctx,
		observability.Field{Key: "owner_id", Value: identity.UserID}))
	c.Next()
}

func (h *Handler) HandleToken(c *gin.Context) {
	ctx := c.Request.Context()

	var req TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Error(ctx, "failed to bind token request", err)
		apierrors.RespondWithValidationError(c, err)
		return
	}

	token, err := h.authProcessor.SignIn(ctx, req.Username, req.Password)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}

func (h *Handler) HandleMe(c *gin.Context) {
	userID, ok := UserID(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("User not authenticated"))
		return
	}

	c.JSON(http.StatusOK, processor.Identity{UserID: userID, Email: c.GetString(userEmailKey)})
}

func (h *Handler) HandleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.authProcessor.Status())
}
