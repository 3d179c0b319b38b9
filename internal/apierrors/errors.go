package apierrors

import (
	"fmt"
	"net/http"
)

// Machine readable error codes returned in the "code" field.
const (
	CodeInvalidInput          = "INVALID_INPUT"
	CodeInvalidConversationID = "INVALID_CHAT_ID"
	CodeInvalidAudioID        = "INVALID_AUDIO_ID"
	CodeUnsupportedFileType   = "UNSUPPORTED_FILE_TYPE"
	CodeFileTooLarge          = "FILE_TOO_LARGE"
	CodeEmptyFile             = "EMPTY_FILE"
	CodeUnsupportedOperation  = "UNSUPPORTED_OPERATION"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeNotFound              = "NOT_FOUND"
	CodeConversationNotFound  = "CHAT_NOT_FOUND"
	CodeSharedChatNotFound    = "SHARED_CHAT_NOT_FOUND"
	CodeAudioNotFound         = "AUDIO_NOT_FOUND"
	CodeConcurrentUpdate      = "CONCURRENT_UPDATE"
	CodeRateLimitExceeded     = "RATE_LIMIT_EXCEEDED"
	CodeAIServiceError        = "AI_SERVICE_ERROR"
	CodeStorageServiceError   = "STORAGE_SERVICE_ERROR"
	CodeIdentityServiceError  = "IDENTITY_SERVICE_ERROR"
	CodeInternalError         = "INTERNAL_ERROR"
)

// APIError is an error that already carries its HTTP status and client-facing message.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	// Err is the underlying cause. It is logged, never sent to the client.
	Err error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// BadRequest returns a 400 error
func BadRequest(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Code: code, Message: message}
}

// Unauthorized returns a 401 error
func Unauthorized(message string) *APIError {
	return &APIError{StatusCode: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message}
}

// NotFound returns a 404 error
func NotFound(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusNotFound, Code: code, Message: message}
}

// Conflict returns a 409 error
func Conflict(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusConflict, Code: code, Message: message}
}

// TooManyRequests returns a 429 error
func TooManyRequests(message string) *APIError {
	return &APIError{StatusCode: http.StatusTooManyRequests, Code: CodeRateLimitExceeded, Message: message}
}

// ServiceUnavailable returns a 503 error wrapping the upstream cause
func ServiceUnavailable(code, message string, err error) *APIError {
	return &APIError{StatusCode: http.StatusServiceUnavailable, Code: code, Message: message, Err: err}
}

// InternalError returns a sanitized 500 error. The cause is kept for logging only.
func InternalError(err error) *APIError {
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternalError,
		Message:    "An internal error occurred. Please try again later.",
		Err:        err,
	}
}
