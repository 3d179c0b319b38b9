package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/LegalMindAI/Backend-V2/internal/apierrors"
	"github.com/LegalMindAI/Backend-V2/internal/ingest/processor"
	"github.com/LegalMindAI/Backend-V2/internal/observability"

	"github.com/gin-gonic/gin"
)

const (
	uploadField = "file"
	// multipartOverhead bounds the boundaries, part headers and other form fields around the file.
	multipartOverhead = 1 << 20
)

type IngestService interface {
	ExtractPDF(ctx context.Context, upload processor.Upload) (string, error)
	ExtractImageText(ctx context.Context, upload processor.Upload) (string, error)
	Transcribe(ctx context.Context, upload processor.Upload) (processor.TranscriptionResult, error)
	Synthesize(ctx context.Context, text string) (processor.SpeechResult, error)
	Audio(ctx context.Context, rawID string) ([]byte, error)
	Limits() processor.Limits
}

type Handler struct {
	processor IngestService
	logger    *observability.Logger
}

func New(processor IngestService, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

type TextToSpeechRequest struct {
	Text string `json:"text" binding:"required"`
}

type TextToSpeechResponse struct {
	Message  string `json:"message"`
	AudioID  string `json:"audio_id"`
	AudioURL string `json:"audio_url"`
	Text     string `json:"text"`
}

func (h *Handler) HandlePDFUpload(c *gin.Context) {
	upload, ok := h.readUpload(c, h.processor.Limits().MaxPDFBytes)
	if !ok {
		return
	}

	text, err := h.processor.ExtractPDF(c.Request.Context(), upload)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"extracted_text": text})
}

func (h *Handler) HandleImageOCR(c *gin.Context) {
	upload, ok := h.readUpload(c, h.processor.Limits().MaxImageBytes)
	if !ok {
		return
	}

	text, err := h.processor.ExtractImageText(c.Request.Context(), upload)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}

func (h *Handler) HandleSpeechToText(c *gin.Context) {
	upload, ok := h.readUpload(c, h.processor.Limits().MaxAudioBytes)
	if !ok {
		return
	}

	result, err := h.processor.Transcribe(c.Request.Context(), upload)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) HandleTextToSpeech(c *gin.Context) {
	ctx := c.Request.Context()

	var req TextToSpeechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind text to speech request", err)
		apierrors.RespondWithValidationError(c, err)
		return
	}

	result, err := h.processor.Synthesize(ctx, req.Text)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TextToSpeechResponse{
		Message:  "Speech generated successfully",
		AudioID:  result.AudioID,
		AudioURL: "/audio/" + result.AudioID,
		Text:     result.Text,
	})
}

func (h *Handler) HandleAudio(c *gin.Context) {
	audioID := c.Param("audio_id")

	audio, err := h.processor.Audio(c.Request.Context(), audioID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=speech_%s.wav", audioID))
	c.Data(http.StatusOK, "audio/wav", audio)
}

// readUpload reads the multipart "file" field, refusing uploads over limit bytes without
// buffering them. On failure the error response has been written.
func (h *Handler) readUpload(c *gin.Context, limit int64) (processor.Upload, bool) {
	ctx := c.Request.Context()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

	fileHeader, err := c.FormFile(uploadField)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.logger.Warn(ctx, "request body exceeds upload limit", observability.Field{Key: "limit_bytes", Value: limit})
			apierrors.RespondWithError(c, processor.TooLarge(limit))
			return processor.Upload{}, false
		}
		h.logger.WarnWithError(ctx, "request has no file upload", err)
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "A file must be uploaded in the 'file' field"))
		return processor.Upload{}, false
	}

	if fileHeader.Size > limit {
		h.logger.Warn(ctx, "upload exceeds limit",
			observability.Field{Key: "size_bytes", Value: fileHeader.Size},
			observability.Field{Key: "limit_bytes", Value: limit},
		)
		apierrors.RespondWithError(c, processor.TooLarge(limit))
		return processor.Upload{}, false
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.logger.Error(ctx, "failed to open uploaded file", err)
		apierrors.RespondWithError(c, fmt.Errorf("failed to open uploaded file: %w", err))
		return processor.Upload{}, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		h.logger.Error(ctx, "failed to read uploaded file", err)
		apierrors.RespondWithError(c, fmt.Errorf("failed to read uploaded file: %w", err))
		return processor.Upload{}, false
	}
	if int64(len(data)) > limit {
		apierrors.RespondWithError(c, processor.TooLarge(limit))
		return processor.Upload{}, false
	}

	return processor.Upload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, true
}
