package processor

//go:generate go run go.uber.org/mock/mockgen@latest -source=processor.go -destination=mocks_test.go -package=processor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/LegalMindAI/Backend-V2/internal/clients/gcs"
	"github.com/LegalMindAI/Backend-V2/internal/generation"
	"github.com/LegalMindAI/Backend-V2/internal/observability"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// Completer answers prompts that carry inline documents or images
type Completer interface {
	Complete(ctx context.Context, prompt generation.Prompt) (generation.Completion, error)
}

// SpeechGateway converts between speech and text
type SpeechGateway interface {
	Synthesize(ctx context.Context, req generation.SpeechRequest) ([]byte, error)
	Transcribe(ctx context.Context, req generation.TranscriptionRequest) (generation.Transcription, error)
}

// ObjectStore keeps synthesized audio
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

var (
	ErrUnsupportedFileType   = errors.New("unsupported file type")
	ErrFileTooLarge          = errors.New("file too large")
	ErrEmptyFile             = errors.New("uploaded file is empty")
	ErrEmptyText             = errors.New("text must not be empty")
	ErrInvalidAudioID        = errors.New("invalid audio id")
	ErrAudioNotFound         = errors.New("audio not found")
	ErrExtractionUnavailable = errors.New("operation not available")
	ErrGenerationFailed      = errors.New("generation failed")
	ErrStorageUnavailable    = errors.New("object storage unavailable")
)

const (
	pdfContentType   = "application/pdf"
	audioContentType = "audio/wav"
	speechFormat     = "wav"

	ocrSystemPrompt = "You are a helpful Lawyer based in India. You are given an image of a document. " +
		"You need to extract the text from the image. You need to return the text in a JSON format as {text: <text>}"
	ocrUserPrompt = "Please extract all text from this document image."

	pdfSystemPrompt = "You extract text from legal documents. Return the full text of the document exactly " +
		"as written, page by page, without commentary."
	pdfUserPrompt = "Extract all text from this PDF."

	transcriptionPrompt = "Translate to english from the language in the audio"
)

// AllowedAudioTypes are the content types accepted for transcription.
var AllowedAudioTypes = []string{
	"audio/mpeg", "audio/wav", "audio/m4a", "audio/x-m4a",
	"audio/mp3", "audio/flac", "audio/ogg", "audio/webm",
	"audio/aac", "audio/mp4",
}

type Models struct {
	OCR           string
	PDF           string
	Speech        string
	SpeechVoice   string
	Transcription string
}

type Limits struct {
	MaxPDFBytes   int64
	MaxImageBytes int64
	MaxAudioBytes int64
}

type Config struct {
	Models Models
	Limits Limits
}

type IngestProcessor struct {
	vision  Completer
	pdf     Completer
	speech  SpeechGateway
	objects ObjectStore
	config  Config
	logger  *observability.Logger
}

// New builds the ingestion processor. pdf may be nil, in which case PDF uploads are refused.
func New(vision Completer, pdf Completer, speech SpeechGateway, objects ObjectStore, config Config,
	logger *observability.Logger) IngestProcessor {
	return IngestProcessor{
		vision:  vision,
		pdf:     pdf,
		speech:  speech,
		objects: objects,
		config:  config,
		logger:  logger,
	}
}

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type SpeechResult struct {
	AudioID string `json:"audio_id"`
	Text    string `json:"text"`
}

type TranscriptionResult struct {
	Transcription string   `json:"transcription"`
	Language      *string  `json:"language"`
	Duration      *float64 `json:"duration"`
	Filename      string   `json:"filename"`
}

// Limits returns the upload size limits, so callers can refuse oversized bodies before reading them.
func (p *IngestProcessor) Limits() Limits {
	return p.config.Limits
}

// TooLarge is the error for an upload over limit bytes.
func TooLarge(limit int64) error {
	return fmt.Errorf("File size exceeds %s: %w", humanSize(limit), ErrFileTooLarge)
}

func audioKey(id string) string {
	return "audio/" + id + ".wav"
}

// ExtractPDF returns the text of an uploaded PDF.
func (p *IngestProcessor) ExtractPDF(ctx context.Context, upload Upload) (string, error) {
	ctx = uploadFields(ctx, upload)

	if upload.ContentType != pdfContentType {
		return "", fmt.Errorf("File must be a PDF: %w", ErrUnsupportedFileType)
	}
	if int64(len(upload.Data)) > p.config.Limits.MaxPDFBytes {
		return "", TooLarge(p.config.Limits.MaxPDFBytes)
	}
	if len(upload.Data) == 0 {
		return "", ErrEmptyFile
	}
	if !mimetype.Detect(upload.Data).Is(pdfContentType) {
		p.logger.Warn(ctx, "upload declared as PDF does not look like one")
		return "", fmt.Errorf("File must be a PDF: %w", ErrUnsupportedFileType)
	}
	if p.pdf == nil {
		return "", fmt.Errorf("PDF text extraction is not configured: %w", ErrExtractionUnavailable)
	}

	completion, err := p.pdf.Complete(ctx, generation.Prompt{
		System: pdfSystemPrompt,
		Blocks: []generation.Block{
			generation.Inline(pdfContentType, upload.Data),
			generation.Text(pdfUserPrompt),
		},
		Params: generation.Params{Model: p.config.Models.PDF, Temperature: 0},
	})
	if err != nil {
		p.logger.Error(ctx, "failed to extract pdf text", err)
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	p.logger.Info(ctx, "extracted pdf text", observability.Field{Key: "text_length", Value: len(completion.Text)})
	return completion.Text, nil
}

// ExtractImageText runs OCR over an uploaded document image.
func (p *IngestProcessor) ExtractImageText(ctx context.Context, upload Upload) (string, error) {
	ctx = uploadFields(ctx, upload)

	if len(upload.Data) == 0 {
		return "", ErrEmptyFile
	}
	if int64(len(upload.Data)) > p.config.Limits.MaxImageBytes {
		return "", TooLarge(p.config.Limits.MaxImageBytes)
	}
	contentType := upload.ContentType
	if !strings.HasPrefix(contentType, "image/") {
		contentType = mimetype.Detect(upload.Data).String()
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("File must be an image: %w", ErrUnsupportedFileType)
	}

	completion, err := p.vision.Complete(ctx, generation.Prompt{
		System: ocrSystemPrompt,
		Blocks: []generation.Block{
			generation.Text(ocrUserPrompt),
			generation.Inline(contentType, upload.Data),
		},
		Params: generation.Params{Model: p.config.Models.OCR, Temperature: 0.7, MaxTokens: 1024, TopP: 1, JSON: true},
	})
	if err != nil {
		if errors.Is(err, generation.ErrUnsupported) {
			return "", fmt.Errorf("Image text extraction is not available: %w", ErrExtractionUnavailable)
		}
		p.logger.Error(ctx, "failed to extract image text", err)
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	text := gjson.Get(completion.Text, "text")
	if !gjson.Valid(completion.Text) || !text.Exists() {
		p.logger.Warn(ctx, "ocr completion was not the expected json object, returning it verbatim")
		return completion.Text, nil
	}
	return text.String(), nil
}

// Transcribe converts uploaded speech into text.
func (p *IngestProcessor) Transcribe(ctx context.Context, upload Upload) (TranscriptionResult, error) {
	ctx = uploadFields(ctx, upload)

	contentType := upload.ContentType
	if !slices.Contains(AllowedAudioTypes, contentType) {
		sniffed := mimetype.Detect(upload.Data).String()
		if !slices.Contains(AllowedAudioTypes, sniffed) {
			return TranscriptionResult{}, fmt.Errorf("File type '%s' not supported. Supported types: %s: %w",
				upload.ContentType, strings.Join(AllowedAudioTypes, ", "), ErrUnsupportedFileType)
		}
		contentType = sniffed
	}
	if len(upload.Data) == 0 {
		return TranscriptionResult{}, ErrEmptyFile
	}
	if int64(len(upload.Data)) > p.config.Limits.MaxAudioBytes {
		return TranscriptionResult{}, TooLarge(p.config.Limits.MaxAudioBytes)
	}

	transcription, err := p.speech.Transcribe(ctx, generation.TranscriptionRequest{
		Model:       p.config.Models.Transcription,
		Prompt:      transcriptionPrompt,
		Filename:    upload.Filename,
		ContentType: contentType,
		Audio:       upload.Data,
	})
	if err != nil {
		if errors.Is(err, generation.ErrUnsupported) {
			return TranscriptionResult{}, fmt.Errorf("Speech to text is not available: %w", ErrExtractionUnavailable)
		}
		p.logger.Error(ctx, "failed to transcribe audio", err)
		return TranscriptionResult{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	result := TranscriptionResult{Transcription: transcription.Text, Filename: upload.Filename}
	if transcription.Language != "" {
		result.Language = &transcription.Language
	}
	if transcription.Duration > 0 {
		result.Duration = &transcription.Duration
	}
	return result, nil
}

// Synthesize renders text as speech and stores the audio for later playback.
func (p *IngestProcessor) Synthesize(ctx context.Context, text string) (SpeechResult, error) {
	if strings.TrimSpace(text) == "" {
		return SpeechResult{}, ErrEmptyText
	}

	audio, err := p.speech.Synthesize(ctx, generation.SpeechRequest{
		Model:  p.config.Models.Speech,
		Voice:  p.config.Models.SpeechVoice,
		Format: speechFormat,
		Text:   text,
	})
	if err != nil {
		if errors.Is(err, generation.ErrUnsupported) {
			return SpeechResult{}, fmt.Errorf("Text to speech is not available: %w", ErrExtractionUnavailable)
		}
		p.logger.Error(ctx, "failed to synthesize speech", err)
		return SpeechResult{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	audioID := uuid.NewString()
	ctx = observability.WithFields(ctx, observability.Field{Key: "audio_id", Value: audioID})
	if err := p.objects.Put(ctx, audioKey(audioID), audio, audioContentType); err != nil {
		p.logger.Error(ctx, "failed to store synthesized audio", err)
		return SpeechResult{}, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	p.logger.Info(ctx, "synthesized speech", observability.Field{Key: "size_bytes", Value: len(audio)})
	return SpeechResult{AudioID: audioID, Text: text}, nil
}

// Audio returns previously synthesized audio.
func (p *IngestProcessor) Audio(ctx context.Context, rawID string) ([]byte, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrInvalidAudioID
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "audio_id", Value: id.String()})

	audio, err := p.objects.Get(ctx, audioKey(id.String()))
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotFound) {
			return nil, ErrAudioNotFound
		}
		p.logger.Error(ctx, "failed to read audio", err)
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return audio, nil
}

func uploadFields(ctx context.Context, upload Upload) context.Context {
	return observability.WithFields(ctx,
		observability.Field{Key: "filename", Value: upload.Filename},
		observability.Field{Key: "content_type", Value: upload.ContentType},
		observability.Field{Key: "size_bytes", Value: len(upload.Data)},
	)
}

func humanSize(n int64) string {
	const mib = 1024 * 1024
	if n%mib == 0 {
		return fmt.Sprintf("%dMB", n/mib)
	}
	return fmt.Sprintf("%d bytes", n)
}
