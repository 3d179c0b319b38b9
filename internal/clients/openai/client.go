package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/LegalMindAI/Backend-V2/internal/generation"
	"github.com/LegalMindAI/Backend-V2/internal/observability"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/tidwall/gjson"
)

// Client talks to an OpenAI compatible endpoint. LegalMind points it at Groq.
type Client struct {
	client openai.Client
	logger *observability.Logger
}

func NewClient(apiKey, baseURL string, logger *observability.Logger) *Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{
		client: openai.NewClient(opts...),
		logger: logger,
	}
}

// Complete sends one chat completion. Text blocks become separate user messages in order;
// a prompt with inline images is sent as a single multi-part user message.
func (c *Client) Complete(ctx context.Context, prompt generation.Prompt) (generation.Completion, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "model", Value: prompt.Params.Model})

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(prompt.Blocks)+1)
	if prompt.System != "" {
		messages = append(messages, openai.SystemMessage(prompt.System))
	}
	messages = append(messages, userMessages(prompt.Blocks)...)

	params := openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(prompt.Params.Model),
		Messages:            messages,
		Temperature:         openai.Float(prompt.Params.Temperature),
		MaxCompletionTokens: openai.Int(int64(prompt.Params.MaxTokens)),
		TopP:                openai.Float(prompt.Params.TopP),
	}
	if prompt.Params.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		c.logger.Error(ctx, "groq chat completion failed", err)
		return generation.Completion{}, fmt.Errorf("groq chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		c.logger.Warn(ctx, "groq returned no choices")
		return generation.Completion{}, generation.ErrEmptyCompletion
	}

	c.logger.Metrics(ctx, observability.MetricField{Key: "total_tokens", Value: resp.Usage.TotalTokens})
	return generation.Completion{
		Text:        resp.Choices[0].Message.Content,
		Model:       resp.Model,
		TotalTokens: int(resp.Usage.TotalTokens),
	}, nil
}

func userMessages(blocks []generation.Block) []openai.ChatCompletionMessageParamUnion {
	hasInline := false
	for _, b := range blocks {
		if b.IsInline() {
			hasInline = true
			break
		}
	}

	if !hasInline {
		messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(blocks))
		for _, b := range blocks {
			messages = append(messages, openai.UserMessage(b.Text))
		}
		return messages
	}

	parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(blocks))
	for _, b := range blocks {
		if b.IsInline() {
			parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: dataURL(b.MIMEType, b.Data),
			}))
			continue
		}
		parts = append(parts, openai.TextContentPart(b.Text))
	}
	return []openai.ChatCompletionMessageParamUnion{openai.UserMessage(parts)}
}

func dataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Synthesize converts text to speech and returns the encoded audio.
func (c *Client) Synthesize(ctx context.Context, req generation.SpeechRequest) ([]byte, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "model", Value: req.Model})

	resp, err := c.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(req.Model),
		Input:          req.Text,
		Voice:          openai.AudioSpeechNewParamsVoice(req.Voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormat(req.Format),
	})
	if err != nil {
		c.logger.Error(ctx, "groq speech synthesis failed", err)
		return nil, fmt.Errorf("groq speech synthesis failed: %w", err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error(ctx, "failed to read synthesized audio", err)
		return nil, fmt.Errorf("failed to read groq speech response: %w", err)
	}
	if len(audio) == 0 {
		return nil, generation.ErrEmptyCompletion
	}
	return audio, nil
}

// Transcribe runs speech recognition with the verbose response format so the detected
// language and duration are available.
func (c *Client) Transcribe(ctx context.Context, req generation.TranscriptionRequest) (generation.Transcription, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "model", Value: req.Model},
		observability.Field{Key: "filename", Value: req.Filename},
	)

	params := openai.AudioTranscriptionNewParams{
		Model:          openai.AudioModel(req.Model),
		File:           openai.File(bytes.NewReader(req.Audio), req.Filename, req.ContentType),
		ResponseFormat: openai.AudioResponseFormatVerboseJSON,
	}
	if req.Prompt != "" {
		params.Prompt = openai.String(req.Prompt)
	}

	resp, err := c.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		c.logger.Error(ctx, "groq transcription failed", err)
		return generation.Transcription{}, fmt.Errorf("groq transcription failed: %w", err)
	}

	return parseTranscription(resp.Text, resp.RawJSON()), nil
}

// parseTranscription reads the verbose fields the SDK type does not model.
func parseTranscription(text, raw string) generation.Transcription {
	return generation.Transcription{
		Text:     text,
		Language: gjson.Get(raw, "language").String(),
		Duration: gjson.Get(raw, "duration").Float(),
	}
}
