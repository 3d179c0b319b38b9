package api

import (
	"net/http"

	authHandler "github.com/LegalMindAI/Backend-V2/internal/auth/handler"
	chatHandler "github.com/LegalMindAI/Backend-V2/internal/chat/handler"
	conversationHandler "github.com/LegalMindAI/Backend-V2/internal/conversation/handler"
	ingestHandler "github.com/LegalMindAI/Backend-V2/internal/ingest/handler"
	shareHandler "github.com/LegalMindAI/Backend-V2/internal/share/handler"

	"github.com/gin-gonic/gin"
)

type API struct {
	router              *gin.RouterGroup
	authHandler         authHandler.Handler
	chatHandler         chatHandler.Handler
	conversationHandler conversationHandler.Handler
	shareHandler        shareHandler.Handler
	ingestHandler       ingestHandler.Handler
	rateLimit           gin.HandlerFunc
}

func New(
	router *gin.RouterGroup,
	authHandler authHandler.Handler,
	chatHandler chatHandler.Handler,
	conversationHandler conversationHandler.Handler,
	shareHandler shareHandler.Handler,
	ingestHandler ingestHandler.Handler,
	rateLimit gin.HandlerFunc,
) API {
	return API{
		router:              router,
		authHandler:         authHandler,
		chatHandler:         chatHandler,
		conversationHandler: conversationHandler,
		shareHandler:        shareHandler,
		ingestHandler:       ingestHandler,
		rateLimit:           rateLimit,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()

	authGroup := a.router.Group("/auth")
	{
		authGroup.POST("/token", a.authHandler.HandleToken)
		authGroup.GET("/status", a.authHandler.HandleStatus)
		authGroup.GET("/users/me", a.authHandler.HandleAuthMiddleware, a.authHandler.HandleMe)
	}

	// Public
	a.router.GET("/fetch/:chat_id", a.shareHandler.HandleFetchShared)
	a.router.GET("/audio/:audio_id", a.ingestHandler.HandleAudio)

	ingestGroup := a.router.Group("/", a.rateLimit)
	{
		ingestGroup.POST("/pdf-upload", a.ingestHandler.HandlePDFUpload)
		ingestGroup.POST("/image-ocr", a.ingestHandler.HandleImageOCR)
		ingestGroup.POST("/speech-to-text", a.ingestHandler.HandleSpeechToText)
		ingestGroup.POST("/text-to-speech", a.ingestHandler.HandleTextToSpeech)
	}

	protectedGroup := a.router.Group("/", a.authHandler.HandleAuthMiddleware)
	{
		askGroup := protectedGroup.Group("/", a.rateLimit)
		askGroup.POST("/chat-basic", a.chatHandler.HandleBasic)
		askGroup.POST("/chat-advanced", a.chatHandler.HandleAdvanced)
		askGroup.POST("/chat-hinglish", a.chatHandler.HandleHinglish)

		protectedGroup.POST("/chat-history/save", a.conversationHandler.HandleSaveChat)
		protectedGroup.GET("/chat-history/titles", a.conversationHandler.HandleListTitles)
		protectedGroup.GET("/chat-history/:chat_id", a.conversationHandler.HandleGetChat)

		protectedGroup.POST("/share", a.shareHandler.HandleShare)
	}
}

func (a *API) Health() {
	a.router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the LegalAI v2 API"})
	})
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
