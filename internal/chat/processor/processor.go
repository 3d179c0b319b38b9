package processor

//go:generate go run go.uber.org/mock/mockgen@latest -source=processor.go -destination=mocks_test.go -package=processor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	conversationProcessor "github.com/LegalMindAI/Backend-V2/internal/conversation/processor"
	"github.com/LegalMindAI/Backend-V2/internal/generation"
	"github.com/LegalMindAI/Backend-V2/internal/observability"
	"github.com/LegalMindAI/Backend-V2/internal/store"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

// ConversationService is the conversation history the ask flow reads from and appends to
type ConversationService interface {
	Locate(ctx context.Context, ownerID, rawID string) (*store.Conversation, error)
	AssembleContext(turns store.Turns) string
	AppendTurn(ctx context.Context, params conversationProcessor.AppendTurnParams) (conversationProcessor.SaveResult, error)
}

// Generator produces answers from a prompt
type Generator interface {
	Complete(ctx context.Context, prompt generation.Prompt) (generation.Completion, error)
}

// CaseResearcher looks up prior cases related to a question
type CaseResearcher interface {
	FetchCases(ctx context.Context, query string, topK int) (string, error)
}

// UsageStore records generation usage
type UsageStore interface {
	InsertUsageLog(ctx context.Context, usageLog store.UsageLog) (store.UsageLog, error)
}

var (
	ErrEmptyQuestion    = errors.New("question must not be empty")
	ErrGenerationFailed = errors.New("answer generation failed")
	ErrUnknownMode      = errors.New("unknown chat mode")
)

// Mode selects the prompt, model and parameters used to answer.
type Mode string

const (
	ModeBasic    Mode = "basic"
	ModeAdvanced Mode = "advanced"
	ModeHinglish Mode = "hinglish"
)

const (
	researchTopK = 2
	emptyCases   = "{}"
)

// Models names the model used by each mode, plus the one used to translate Hinglish questions.
type Models struct {
	Basic       string
	Advanced    string
	Hinglish    string
	Translation string
}

type ChatProcessor struct {
	conversations ConversationService
	generator     Generator
	research      CaseResearcher
	usage         UsageStore
	models        Models
	logger        *observability.Logger
}

func New(conversations ConversationService, generator Generator, research CaseResearcher, usage UsageStore,
	models Models, logger *observability.Logger) ChatProcessor {
	return ChatProcessor{
		conversations: conversations,
		generator:     generator,
		research:      research,
		usage:         usage,
		models:        models,
		logger:        logger,
	}
}

type AskParams struct {
	OwnerID string
	// ChatID continues an existing conversation. Empty starts a new one.
	ChatID string
	// ExtractedText is document text the question refers to, usually from a PDF upload or OCR.
	ExtractedText string
	Question      string
	Mode          Mode
}

type AskResult struct {
	Answer string
	Chat   conversationProcessor.SaveResult
}

// Ask answers a question in the given mode and records the exchange in the owner's
// conversation. Nothing is persisted unless an answer was produced.
func (p *ChatProcessor) Ask(ctx context.Context, params AskParams) (AskResult, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "owner_id", Value: params.OwnerID},
		observability.Field{Key: "chat_mode", Value: string(params.Mode)},
	)

	switch params.Mode {
	case ModeBasic, ModeAdvanced, ModeHinglish:
	default:
		return AskResult{}, fmt.Errorf("%w: %q", ErrUnknownMode, params.Mode)
	}
	if strings.TrimSpace(params.Question) == "" {
		return AskResult{}, ErrEmptyQuestion
	}
	if params.ChatID != "" {
		if _, err := conversationProcessor.ParseConversationID(params.ChatID); err != nil {
			p.logger.Warn(ctx, "rejected malformed conversation id", observability.Field{Key: "chat_id", Value: params.ChatID})
			return AskResult{}, err
		}
	}

	var (
		conversation *store.Conversation
		cases        = emptyCases
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := p.conversations.Locate(gctx, params.OwnerID, params.ChatID)
		conversation = found
		return err
	})
	if params.Mode == ModeAdvanced || params.Mode == ModeHinglish {
		g.Go(func() error {
			query := params.Question
			if params.Mode == ModeHinglish {
				query = p.translate(gctx, params.Question)
			}
			cases = p.fetchCases(gctx, query)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return AskResult{}, err
	}

	var history string
	if conversation != nil {
		history = p.conversations.AssembleContext(conversation.Turns)
		ctx = observability.WithFields(ctx, observability.Field{Key: "conversation_id", Value: conversation.ID.String()})
	}

	prompt, err := p.buildPrompt(params, history, cases)
	if err != nil {
		return AskResult{}, err
	}

	completion, err := p.generator.Complete(ctx, prompt)
	if err != nil {
		p.logger.Error(ctx, "failed to generate answer", err)
		return AskResult{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	answer := completion.Text
	if params.Mode == ModeBasic {
		answer, err = answerField(completion.Text)
		if err != nil {
			p.logger.Error(ctx, "failed to read answer from completion", err)
			return AskResult{}, err
		}
	}

	appendParams := conversationProcessor.AppendTurnParams{
		OwnerID:  params.OwnerID,
		ChatType: string(params.Mode),
		Question: params.Question,
		Answer:   answer,
	}
	if conversation != nil {
		appendParams.ConversationID = conversation.ID.String()
	}
	saved, err := p.conversations.AppendTurn(ctx, appendParams)
	if err != nil {
		return AskResult{}, err
	}

	p.recordUsage(ctx, params, saved, prompt.Params.Model, completion)

	return AskResult{Answer: answer, Chat: saved}, nil
}

func (p *ChatProcessor) buildPrompt(params AskParams, history, cases string) (generation.Prompt, error) {
	switch params.Mode {
	case ModeBasic:
		return generation.Prompt{
			System: basicSystemPrompt,
			Blocks: []generation.Block{
				generation.Text("Context:" + params.ExtractedText),
				generation.Text("Question: " + params.Question),
				generation.Text("Previous Conversation:\n" + history),
			},
			Params: generation.Params{Model: p.models.Basic, Temperature: 0.7, MaxTokens: 1024, TopP: 1, JSON: true},
		}, nil
	case ModeAdvanced, ModeHinglish:
		system, model := advancedSystemPrompt, p.models.Advanced
		if params.Mode == ModeHinglish {
			system, model = hinglishSystemPrompt, p.models.Hinglish
		}
		return generation.Prompt{
			System: system,
			Blocks: []generation.Block{
				generation.Text("Previous Cases: " + cases),
				generation.Text("Context: " + params.ExtractedText),
				generation.Text("Question: " + params.Question),
				generation.Text("Previous Conversation:\n" + history),
			},
			Params: generation.Params{Model: model, Temperature: 0.7, MaxTokens: 4096, TopP: 0.95},
		}, nil
	default:
		return generation.Prompt{}, fmt.Errorf("%w: %q", ErrUnknownMode, params.Mode)
	}
}

// translate turns a Hinglish question into English for case research. On failure the
// original question is used.
func (p *ChatProcessor) translate(ctx context.Context, question string) string {
	completion, err := p.generator.Complete(ctx, generation.Prompt{
		System: translationSystemPrompt,
		Blocks: []generation.Block{generation.Text("Translate this Hinglish text to English: " + question)},
		Params: generation.Params{Model: p.models.Translation, Temperature: 0.3, MaxTokens: 512, TopP: 0.95},
	})
	if err != nil {
		p.logger.WarnWithError(ctx, "translation failed, researching with original question", err)
		return question
	}
	translated := strings.TrimSpace(completion.Text)
	if translated == "" {
		return question
	}
	return translated
}

// fetchCases returns the research service's case set, or an empty set when it is unavailable.
func (p *ChatProcessor) fetchCases(ctx context.Context, query string) string {
	cases, err := p.research.FetchCases(ctx, query, researchTopK)
	if err != nil {
		p.logger.WarnWithError(ctx, "case research failed, continuing without prior cases", err)
		return emptyCases
	}
	return cases
}

func (p *ChatProcessor) recordUsage(ctx context.Context, params AskParams, saved conversationProcessor.SaveResult,
	model string, completion generation.Completion) {
	if completion.Model != "" {
		model = completion.Model
	}
	_, err := p.usage.InsertUsageLog(ctx, store.UsageLog{
		OwnerID:        params.OwnerID,
		ConversationID: saved.ConversationID,
		Mode:           string(params.Mode),
		Model:          model,
		TokensUsed:     completion.TotalTokens,
	})
	if err != nil {
		// Usage rows are best effort.
		p.logger.WarnWithError(ctx, "failed to record usage", err)
	}
}

// answerField extracts the "answer" member of a JSON-object completion.
func answerField(text string) (string, error) {
	if !gjson.Valid(text) {
		return "", fmt.Errorf("%w: completion is not valid JSON", ErrGenerationFailed)
	}
	answer := gjson.Get(text, "answer")
	if !answer.Exists() || strings.TrimSpace(answer.String()) == "" {
		return "", fmt.Errorf("%w: completion has no answer", ErrGenerationFailed)
	}
	return answer.String(), nil
}
