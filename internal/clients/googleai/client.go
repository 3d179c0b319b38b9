package googleai

import (
	"context"
	"fmt"
	"strings"

	"github.com/LegalMindAI/Backend-V2/internal/generation"
	"github.com/LegalMindAI/Backend-V2/internal/observability"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const jsonMIMEType = "application/json"

// Client generates content with Gemini. It accepts inline PDF, image and audio parts, which
// makes it the extractor for uploaded documents.
type Client struct {
	client       *genai.Client
	defaultModel string
	logger       *observability.Logger
}

// NewClient creates a Gemini client. The returned client must be closed.
func NewClient(ctx context.Context, apiKey, defaultModel string, logger *observability.Logger) (*Client, error) {
	c, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Client{
		client:       c,
		defaultModel: defaultModel,
		logger:       logger,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Complete runs a single GenerateContent call. Blocks keep their order as parts of one user turn.
func (c *Client) Complete(ctx context.Context, prompt generation.Prompt) (generation.Completion, error) {
	modelName := prompt.Params.Model
	if modelName == "" {
		modelName = c.defaultModel
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "model", Value: modelName})

	model := c.client.GenerativeModel(modelName)
	configureModel(model, prompt)

	resp, err := model.GenerateContent(ctx, toParts(prompt.Blocks)...)
	if err != nil {
		c.logger.Error(ctx, "gemini generate content failed", err)
		return generation.Completion{}, fmt.Errorf("gemini generate content failed: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		c.logger.Warn(ctx, "gemini returned no text")
		return generation.Completion{}, generation.ErrEmptyCompletion
	}

	completion := generation.Completion{Text: text, Model: modelName}
	if resp.UsageMetadata != nil {
		completion.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
		c.logger.Metrics(ctx, observability.MetricField{Key: "total_tokens", Value: completion.TotalTokens})
	}
	return completion, nil
}

// Synthesize is not offered by the Gemini text API.
func (c *Client) Synthesize(context.Context, generation.SpeechRequest) ([]byte, error) {
	return nil, fmt.Errorf("gemini speech synthesis: %w", generation.ErrUnsupported)
}

// Transcribe asks Gemini to transcribe the inline audio. Language and duration are not reported.
func (c *Client) Transcribe(ctx context.Context, req generation.TranscriptionRequest) (generation.Transcription, error) {
	instruction := "Transcribe this audio. Return only the transcript."
	if req.Prompt != "" {
		instruction = req.Prompt + ". Return only the transcript."
	}
	completion, err := c.Complete(ctx, generation.Prompt{
		Blocks: []generation.Block{
			generation.Text(instruction),
			generation.Inline(req.ContentType, req.Audio),
		},
		Params: generation.Params{Temperature: 0, MaxTokens: 4096, TopP: 1},
	})
	if err != nil {
		return generation.Transcription{}, err
	}
	return generation.Transcription{Text: completion.Text}, nil
}

func configureModel(model *genai.GenerativeModel, prompt generation.Prompt) {
	if prompt.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(prompt.System)}}
	}
	model.SetTemperature(float32(prompt.Params.Temperature))
	if prompt.Params.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(prompt.Params.MaxTokens))
	}
	if prompt.Params.TopP > 0 {
		model.SetTopP(float32(prompt.Params.TopP))
	}
	if prompt.Params.JSON {
		model.ResponseMIMEType = jsonMIMEType
	}
}

func toParts(blocks []generation.Block) []genai.Part {
	parts := make([]genai.Part, 0, len(blocks))
	for _, b := range blocks {
		if b.IsInline() {
			parts = append(parts, genai.Blob{MIMEType: b.MIMEType, Data: b.Data})
			continue
		}
		parts = append(parts, genai.Text(b.Text))
	}
	return parts
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
