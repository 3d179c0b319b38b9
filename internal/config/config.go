package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var ErrEmptyEnvironmentVariable = errors.New("empty environment variable")

// Generation providers selectable through GENERATION_PROVIDER.
const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Auth     AuthConfig
	Services ServicesConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Chat     ChatConfig
	Models   ModelsConfig
	Server   ServerConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Username string
	Password string
	Name     string
}

// AuthConfig holds identity provider settings
type AuthConfig struct {
	FirebaseProjectID string
	FirebaseWebAPIKey string
}

// ServicesConfig holds external service API keys and configuration
type ServicesConfig struct {
	GenerationProvider string
	GroqAPIKey         string
	GroqBaseURL        string
	GoogleAIAPIKey     string
	GeminiModel        string
	ResearchAPIURL     string
	WebAppURI          string
}

// StorageConfig holds object storage settings
type StorageConfig struct {
	Bucket string
}

// RedisConfig holds Redis connection settings used for rate limiting
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// ChatConfig holds conversation and ingestion limits
type ChatConfig struct {
	// ContextWindow is the number of trailing turns considered when rebuilding context. 0 means unbounded.
	ContextWindow     int
	MaxAppendAttempts int
	RequestsPerMinute int
	MaxPDFSizeBytes   int64
	MaxAudioSizeBytes int64
	MaxImageSizeBytes int64
}

// ModelsConfig names the upstream model used by each operation
type ModelsConfig struct {
	Basic         string
	Advanced      string
	Hinglish      string
	Translation   string
	OCR           string
	Speech        string
	SpeechVoice   string
	Transcription string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int
}

// Load reads and validates all required environment variables
func Load() (*Config, error) {
	// Load env.local in non-production environments
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil {
			return nil, fmt.Errorf("failed to load env.local: %w", err)
		}
	}

	cfg := &Config{}

	var err error
	if cfg.Database.Host, err = requireEnv("DB_HOST"); err != nil {
		return nil, err
	}
	if cfg.Database.Username, err = requireEnv("DB_USERNAME"); err != nil {
		return nil, err
	}
	if cfg.Database.Password, err = requireEnv("DB_PASSWORD"); err != nil {
		return nil, err
	}
	if cfg.Database.Name, err = requireEnv("DB_NAME"); err != nil {
		return nil, err
	}

	if cfg.Auth.FirebaseProjectID, err = requireEnv("FIREBASE_PROJECT_ID"); err != nil {
		return nil, err
	}
	if cfg.Auth.FirebaseWebAPIKey, err = requireEnv("FIREBASE_WEB_API_KEY"); err != nil {
		return nil, err
	}

	cfg.Services.GenerationProvider = getEnvWithDefault("GENERATION_PROVIDER", ProviderGroq)
	switch cfg.Services.GenerationProvider {
	case ProviderGroq:
		if cfg.Services.GroqAPIKey, err = requireEnv("GROQ_API_KEY"); err != nil {
			return nil, err
		}
	case ProviderGemini:
		if cfg.Services.GoogleAIAPIKey, err = requireEnv("GOOGLE_AI_API_KEY"); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported GENERATION_PROVIDER %q", cfg.Services.GenerationProvider)
	}
	cfg.Services.GroqBaseURL = getEnvWithDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1/")
	// Both keys may be present: Gemini is still used for PDF extraction when configured.
	if cfg.Services.GroqAPIKey == "" {
		cfg.Services.GroqAPIKey = os.Getenv("GROQ_API_KEY")
	}
	if cfg.Services.GoogleAIAPIKey == "" {
		cfg.Services.GoogleAIAPIKey = os.Getenv("GOOGLE_AI_API_KEY")
	}
	cfg.Services.GeminiModel = getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash")
	if cfg.Services.ResearchAPIURL, err = requireEnv("BASE_API"); err != nil {
		return nil, err
	}
	cfg.Services.WebAppURI = getEnvWithDefault("WEBAPP_URI", "*")

	if cfg.Storage.Bucket, err = requireEnv("GCS_BUCKET_NAME"); err != nil {
		return nil, err
	}

	cfg.Redis.Enabled = getEnvWithDefault("REDIS_ENABLED", "false") == "true"
	cfg.Redis.Host = getEnvWithDefault("REDIS_HOST", "localhost")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if cfg.Redis.Port, err = getIntEnv("REDIS_PORT", "6379"); err != nil {
		return nil, err
	}
	if cfg.Redis.DB, err = getIntEnv("REDIS_DB", "0"); err != nil {
		return nil, err
	}

	if cfg.Chat.ContextWindow, err = getIntEnv("CHAT_CONTEXT_WINDOW", "10"); err != nil {
		return nil, err
	}
	if cfg.Chat.ContextWindow < 0 {
		return nil, fmt.Errorf("CHAT_CONTEXT_WINDOW must not be negative")
	}
	if cfg.Chat.MaxAppendAttempts, err = getIntEnv("CHAT_MAX_APPEND_ATTEMPTS", "3"); err != nil {
		return nil, err
	}
	if cfg.Chat.RequestsPerMinute, err = getIntEnv("CHAT_REQUESTS_PER_MINUTE", "30"); err != nil {
		return nil, err
	}
	cfg.Chat.MaxPDFSizeBytes = 4 * 1024 * 1024
	cfg.Chat.MaxAudioSizeBytes = 25 * 1024 * 1024
	cfg.Chat.MaxImageSizeBytes = 10 * 1024 * 1024

	cfg.Models = ModelsConfig{
		Basic:         getEnvWithDefault("MODEL_BASIC", "mistral-saba-24b"),
		Advanced:      getEnvWithDefault("MODEL_ADVANCED", "qwen-qwq-32b"),
		Hinglish:      getEnvWithDefault("MODEL_HINGLISH", "qwen-qwq-32b"),
		Translation:   getEnvWithDefault("MODEL_TRANSLATION", "qwen-qwq-32b"),
		OCR:           getEnvWithDefault("MODEL_OCR", "meta-llama/llama-4-scout-17b-16e-instruct"),
		Speech:        getEnvWithDefault("MODEL_SPEECH", "playai-tts-arabic"),
		SpeechVoice:   getEnvWithDefault("MODEL_SPEECH_VOICE", "Nasser-PlayAI"),
		Transcription: getEnvWithDefault("MODEL_TRANSCRIPTION", "whisper-large-v3-turbo"),
	}
	if cfg.Services.GenerationProvider == ProviderGemini {
		cfg.Models.Basic = cfg.Services.GeminiModel
		cfg.Models.Advanced = cfg.Services.GeminiModel
		cfg.Models.Hinglish = cfg.Services.GeminiModel
		cfg.Models.Translation = cfg.Services.GeminiModel
		cfg.Models.OCR = cfg.Services.GeminiModel
	}

	serverPort, err := requireEnv("SERVER_PORT")
	if err != nil {
		return nil, err
	}
	cfg.Server.Port, err = strconv.Atoi(serverPort)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SERVER_PORT: %w", err)
	}

	return cfg, nil
}

// ConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s",
		c.Username, c.Password, c.Host, c.Name)
}

// Addr returns the host:port pair for the Redis server
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// requireEnv retrieves an environment variable or returns an error if empty
func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set: %w", key, ErrEmptyEnvironmentVariable)
	}
	return value, nil
}

// getEnvWithDefault retrieves an environment variable or returns a default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntEnv(key, defaultValue string) (int, error) {
	v, err := strconv.Atoi(getEnvWithDefault(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return v, nil
}
