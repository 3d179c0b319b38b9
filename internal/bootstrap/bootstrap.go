package bootstrap

import (
	"context"
	"fmt"

	authHandler "github.com/LegalMindAI/Backend-V2/internal/auth/handler"
	authProcessor "github.com/LegalMindAI/Backend-V2/internal/auth/processor"
	chatHandler "github.com/LegalMindAI/Backend-V2/internal/chat/handler"
	chatProcessor "github.com/LegalMindAI/Backend-V2/internal/chat/processor"
	"github.com/LegalMindAI/Backend-V2/internal/clients/firebase"
	"github.com/LegalMindAI/Backend-V2/internal/clients/gcs"
	"github.com/LegalMindAI/Backend-V2/internal/clients/googleai"
	"github.com/LegalMindAI/Backend-V2/internal/clients/openai"
	"github.com/LegalMindAI/Backend-V2/internal/clients/redis"
	"github.com/LegalMindAI/Backend-V2/internal/clients/research"
	"github.com/LegalMindAI/Backend-V2/internal/config"
	conversationHandler "github.com/LegalMindAI/Backend-V2/internal/conversation/handler"
	conversationProcessor "github.com/LegalMindAI/Backend-V2/internal/conversation/processor"
	ingestHandler "github.com/LegalMindAI/Backend-V2/internal/ingest/handler"
	ingestProcessor "github.com/LegalMindAI/Backend-V2/internal/ingest/processor"
	"github.com/LegalMindAI/Backend-V2/internal/observability"
	"github.com/LegalMindAI/Backend-V2/internal/ratelimit"
	shareHandler "github.com/LegalMindAI/Backend-V2/internal/share/handler"
	shareProcessor "github.com/LegalMindAI/Backend-V2/internal/share/processor"
	"github.com/LegalMindAI/Backend-V2/internal/store"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	// Core
	Store  store.Store
	Logger *observability.Logger

	// Handlers
	AuthHandler         authHandler.Handler
	ChatHandler         chatHandler.Handler
	ConversationHandler conversationHandler.Handler
	ShareHandler        shareHandler.Handler
	IngestHandler       ingestHandler.Handler

	RateLimiter *ratelimit.Service

	// Clients (for cleanup)
	StorageClient *gcs.Client
	GeminiClient  *googleai.Client
	RedisClient   *redis.Client
}

// Generator is implemented by every LLM client
type Generator interface {
	chatProcessor.Generator
	ingestProcessor.SpeechGateway
}

// Initialize sets up all application dependencies
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: logger,
	}

	// Initialize database store
	var err error
	deps.Store, err = store.New(cfg.Database.ConnectionString(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize clients
	deps.StorageClient, err = gcs.NewClient(ctx, cfg.Storage.Bucket, logger)
	if err != nil {
		deps.Cleanup()
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	deps.RedisClient, err = redis.NewClient(cfg.Redis, logger)
	if err != nil {
		deps.Cleanup()
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	if cfg.Services.GoogleAIAPIKey != "" {
		deps.GeminiClient, err = googleai.NewClient(ctx, cfg.Services.GoogleAIAPIKey, cfg.Services.GeminiModel, logger)
		if err != nil {
			deps.Cleanup()
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
	}

	var groqClient *openai.Client
	if cfg.Services.GroqAPIKey != "" {
		groqClient = openai.NewClient(cfg.Services.GroqAPIKey, cfg.Services.GroqBaseURL, logger)
	}

	// The chat gateway follows GENERATION_PROVIDER. Speech always prefers Groq, which is the
	// only provider able to synthesize audio.
	var generator, speech Generator
	switch cfg.Services.GenerationProvider {
	case config.ProviderGemini:
		generator = deps.GeminiClient
	default:
		generator = groqClient
	}
	if groqClient != nil {
		speech = groqClient
	} else {
		speech = deps.GeminiClient
	}

	identityClient := firebase.NewClient(cfg.Auth.FirebaseWebAPIKey, logger)
	researchClient := research.NewClient(cfg.Services.ResearchAPIURL, logger)

	// Initialize auth processor and handler
	authProc := authProcessor.New(identityClient, authProcessor.AuthConfig{
		FirebaseProjectID: cfg.Auth.FirebaseProjectID,
	}, logger)
	deps.AuthHandler = authHandler.New(&authProc, logger)

	// Initialize conversation processor and handler
	conversationProc := conversationProcessor.New(&deps.Store, conversationProcessor.Config{
		ContextWindow:     cfg.Chat.ContextWindow,
		MaxAppendAttempts: cfg.Chat.MaxAppendAttempts,
	}, logger)
	deps.ConversationHandler = conversationHandler.New(&conversationProc, logger)

	// Initialize chat processor and handler
	chatProc := chatProcessor.New(&conversationProc, generator, researchClient, &deps.Store, chatProcessor.Models{
		Basic:       cfg.Models.Basic,
		Advanced:    cfg.Models.Advanced,
		Hinglish:    cfg.Models.Hinglish,
		Translation: cfg.Models.Translation,
	}, logger)
	deps.ChatHandler = chatHandler.New(&chatProc, logger)

	// Initialize share processor and handler
	shareProc := shareProcessor.New(&conversationProc, deps.StorageClient, logger)
	deps.ShareHandler = shareHandler.New(&shareProc, logger)

	// Initialize ingest processor and handler. PDF extraction needs Gemini.
	var pdfExtractor ingestProcessor.Completer
	if deps.GeminiClient != nil {
		pdfExtractor = deps.GeminiClient
	}
	ingestProc := ingestProcessor.New(generator, pdfExtractor, speech, deps.StorageClient, ingestProcessor.Config{
		Models: ingestProcessor.Models{
			OCR:           cfg.Models.OCR,
			PDF:           cfg.Services.GeminiModel,
			Speech:        cfg.Models.Speech,
			SpeechVoice:   cfg.Models.SpeechVoice,
			Transcription: cfg.Models.Transcription,
		},
		Limits: ingestProcessor.Limits{
			MaxPDFBytes:   cfg.Chat.MaxPDFSizeBytes,
			MaxImageBytes: cfg.Chat.MaxImageSizeBytes,
			MaxAudioBytes: cfg.Chat.MaxAudioSizeBytes,
		},
	}, logger)
	deps.IngestHandler = ingestHandler.New(&ingestProc, logger)

	// Initialize rate limiter, shared through Redis when it is enabled
	var windows ratelimit.WindowStore
	if deps.RedisClient.IsEnabled() {
		windows = deps.RedisClient
	}
	deps.RateLimiter = ratelimit.NewService(windows, cfg.Chat.RequestsPerMinute, logger)

	return deps, nil
}

// Cleanup closes all resources that need cleanup
func (d *Dependencies) Cleanup() {
	ctx := context.Background()
	if err := d.GeminiClient.Close(); err != nil {
		d.Logger.Error(ctx, "failed to close gemini client", err)
	}
	if err := d.StorageClient.Close(); err != nil {
		d.Logger.Error(ctx, "failed to close storage client", err)
	}
	if err := d.RedisClient.Close(); err != nil {
		d.Logger.Error(ctx, "failed to close redis client", err)
	}
	if err := d.Store.Close(); err != nil {
		d.Logger.Error(ctx, "failed to close database", err)
	}
}
