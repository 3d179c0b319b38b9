package apierrors

import (
	"errors"
	"strings"

	authProcessor "github.com/LegalMindAI/Backend-V2/internal/auth/processor"
	chatProcessor "github.com/LegalMindAI/Backend-V2/internal/chat/processor"
	conversationProcessor "github.com/LegalMindAI/Backend-V2/internal/conversation/processor"
	ingestProcessor "github.com/LegalMindAI/Backend-V2/internal/ingest/processor"
	shareProcessor "github.com/LegalMindAI/Backend-V2/internal/share/processor"
	"github.com/LegalMindAI/Backend-V2/internal/store"
)

// MapError converts domain/processor errors to APIErrors.
//
// An error that is already an APIError is returned unchanged. Known sentinels map to their
// client-facing class. Anything else is checked for an upstream provider signature and
// otherwise becomes a sanitized InternalError (500).
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	// Conversation history
	case errors.Is(err, conversationProcessor.ErrInvalidConversationID):
		return BadRequest(CodeInvalidConversationID, "Invalid chat_id format. Must be a valid UUID.")

	case errors.Is(err, conversationProcessor.ErrConversationNotFound):
		return NotFound(CodeConversationNotFound, "Chat not found")

	case errors.Is(err, conversationProcessor.ErrConcurrentUpdate):
		return Conflict(CodeConcurrentUpdate, "The chat was updated by another request. Please retry.")

	case errors.Is(err, conversationProcessor.ErrEmptyTurn):
		return BadRequest(CodeInvalidInput, "Question and answer must not be empty")

	// Ask flow
	case errors.Is(err, chatProcessor.ErrEmptyQuestion):
		return BadRequest(CodeInvalidInput, "Question must not be empty")

	case errors.Is(err, chatProcessor.ErrGenerationFailed):
		return ServiceUnavailable(CodeAIServiceError, "AI service is temporarily unavailable. Please try again later.", err)

	// Sharing
	case errors.Is(err, shareProcessor.ErrSharedChatNotFound):
		return NotFound(CodeSharedChatNotFound, "Shared chat not found")

	case errors.Is(err, shareProcessor.ErrStorageUnavailable):
		return ServiceUnavailable(CodeStorageServiceError, "Storage service is temporarily unavailable. Please try again later.", err)

	// Ingestion
	case errors.Is(err, ingestProcessor.ErrUnsupportedFileType):
		return BadRequest(CodeUnsupportedFileType, unwrapMessage(err, "Unsupported file type"))

	case errors.Is(err, ingestProcessor.ErrFileTooLarge):
		return BadRequest(CodeFileTooLarge, unwrapMessage(err, "File is too large"))

	case errors.Is(err, ingestProcessor.ErrEmptyFile):
		return BadRequest(CodeEmptyFile, "Uploaded file is empty")

	case errors.Is(err, ingestProcessor.ErrEmptyText):
		return BadRequest(CodeInvalidInput, "Text must not be empty")

	case errors.Is(err, ingestProcessor.ErrInvalidAudioID):
		return BadRequest(CodeInvalidAudioID, "Invalid audio ID")

	case errors.Is(err, ingestProcessor.ErrAudioNotFound):
		return NotFound(CodeAudioNotFound, "Audio file not found")

	case errors.Is(err, ingestProcessor.ErrExtractionUnavailable):
		return BadRequest(CodeUnsupportedOperation, unwrapMessage(err, "This operation is not available with the configured AI provider"))

	case errors.Is(err, ingestProcessor.ErrGenerationFailed):
		return ServiceUnavailable(CodeAIServiceError, "AI service is temporarily unavailable. Please try again later.", err)

	case errors.Is(err, ingestProcessor.ErrStorageUnavailable):
		return ServiceUnavailable(CodeStorageServiceError, "Storage service is temporarily unavailable. Please try again later.", err)

	// Identity
	case errors.Is(err, authProcessor.ErrMissingToken),
		errors.Is(err, authProcessor.ErrInvalidToken),
		errors.Is(err, authProcessor.ErrExpiredToken):
		return Unauthorized("Invalid or expired token")

	case errors.Is(err, authProcessor.ErrInvalidCredentials):
		return Unauthorized("Invalid email or password")

	case errors.Is(err, authProcessor.ErrIdentityUnavailable):
		return ServiceUnavailable(CodeIdentityServiceError, "Identity service is temporarily unavailable. Please try again later.", err)

	// Store
	case errors.Is(err, store.ErrNotFound):
		return NotFound(CodeNotFound, "Resource not found")

	default:
		return mapExternalServiceError(err)
	}
}

// mapExternalServiceError attempts to identify external service errors
// and map them to appropriate service-specific error responses.
func mapExternalServiceError(err error) *APIError {
	errMsg := strings.ToLower(err.Error())

	// Generation providers (Groq through the OpenAI client, Gemini)
	if strings.Contains(errMsg, "groq") || strings.Contains(errMsg, "openai") ||
		strings.Contains(errMsg, "gemini") || strings.Contains(errMsg, "ai service") {
		return ServiceUnavailable(
			CodeAIServiceError,
			"AI service is temporarily unavailable. Please try again later.",
			err,
		)
	}

	// Object storage (GCS)
	if strings.Contains(errMsg, "storage") || strings.Contains(errMsg, "bucket") {
		return ServiceUnavailable(
			CodeStorageServiceError,
			"Storage service is temporarily unavailable. Please try again later.",
			err,
		)
	}

	// Identity provider (Firebase)
	if strings.Contains(errMsg, "identitytoolkit") || strings.Contains(errMsg, "firebase") {
		return ServiceUnavailable(
			CodeIdentityServiceError,
			"Identity service is temporarily unavailable. Please try again later.",
			err,
		)
	}

	return InternalError(err)
}

// unwrapMessage returns the detail a processor attached in front of a sentinel
// ("<detail>: <sentinel>"), or fallback when there is none.
func unwrapMessage(err error, fallback string) string {
	msg := err.Error()
	idx := strings.LastIndex(msg, ": ")
	if idx <= 0 {
		return fallback
	}
	return msg[:idx]
}
