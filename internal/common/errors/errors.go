// Package errors provides standardized error handling for provisioning steps.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeAuthoringRequestFailed ErrorCode = "AUTHORING_REQUEST_FAILED"
	ErrCodeAuthoringUnauthorized  ErrorCode = "AUTHORING_UNAUTHORIZED"
	ErrCodeAuthoringNotFound      ErrorCode = "AUTHORING_NOT_FOUND"
	ErrCodeAuthoringRateLimited   ErrorCode = "AUTHORING_RATE_LIMITED"
	ErrCodeAuthoringTimeout       ErrorCode = "AUTHORING_TIMEOUT"

	ErrCodeLabelValueNotFound   ErrorCode = "LABEL_VALUE_NOT_FOUND"
	ErrCodeBatchOutcomeMismatch ErrorCode = "BATCH_OUTCOME_MISMATCH"

	ErrCodeTrainingFailed  ErrorCode = "TRAINING_FAILED"
	ErrCodeTrainingTimeout ErrorCode = "TRAINING_TIMEOUT"
	ErrCodeStatusEmpty     ErrorCode = "STATUS_EMPTY"

	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"
	ErrCodeStateNotFound ErrorCode = "STATE_NOT_FOUND"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata returns e after attaching a metadata entry.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// ==========================
// 2. Error Constructors
// ==========================

// NewAuthoringRequestFailedError wraps a transport level failure.
func NewAuthoringRequestFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeAuthoringRequestFailed, "Authoring request failed",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true, err)
}

// NewAuthoringTimeoutError reports a request that ran out of time.
func NewAuthoringTimeoutError(operation string, err error) *StandardError {
	return newError(ErrCodeAuthoringTimeout, "Authoring request timed out",
		fmt.Sprintf("operation: %s", operation), true, err)
}

// FromHTTPStatus maps a non-success authoring response to a StandardError.
func FromHTTPStatus(operation string, status int, body string) *StandardError {
	details := fmt.Sprintf("operation: %s, status: %d, body: %s", operation, status, strings.TrimSpace(body))

	var e *StandardError
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e = newError(ErrCodeAuthoringUnauthorized, "Authoring key rejected", details, false, nil)
	case status == http.StatusNotFound:
		e = newError(ErrCodeAuthoringNotFound, "Authoring resource not found", details, false, nil)
	case status == http.StatusTooManyRequests:
		e = newError(ErrCodeAuthoringRateLimited, "Authoring rate limit exceeded", details, true, nil)
	case status >= 500:
		e = newError(ErrCodeAuthoringRequestFailed, "Authoring service error", details, true, nil)
	default:
		e = newError(ErrCodeAuthoringRequestFailed, "Authoring request rejected", details, false, nil)
	}
	return e.WithMetadata("httpStatus", status)
}

// NewLabelValueNotFoundError reports a label value absent from its utterance text.
func NewLabelValueNotFoundError(entity, value, text string, err error) *StandardError {
	return newError(ErrCodeLabelValueNotFound, "Label value not found in utterance",
		fmt.Sprintf("entity: %s, value: %q, text: %q", entity, value, text), false, err)
}

// NewBatchOutcomeMismatchError reports a batch response that cannot be correlated with its input.
func NewBatchOutcomeMismatchError(sent, received int) *StandardError {
	return newError(ErrCodeBatchOutcomeMismatch, "Batch outcome count does not match submitted examples",
		fmt.Sprintf("sent: %d, received: %d", sent, received), false, nil)
}

// NewTrainingFailedError reports models that finished training with a failure.
func NewTrainingFailedError(reasons []string) *StandardError {
	return newError(ErrCodeTrainingFailed, "Training failed",
		strings.Join(reasons, "; "), false, nil)
}

// NewTrainingTimeoutError reports that training did not reach a terminal state in time.
func NewTrainingTimeoutError(waited time.Duration, err error) *StandardError {
	return newError(ErrCodeTrainingTimeout, "Training did not finish in time",
		fmt.Sprintf("waited: %s", waited), true, err)
}

func NewStatusEmptyError(appID, version string) *StandardError {
	return newError(ErrCodeStatusEmpty, "Training status list is empty",
		fmt.Sprintf("appId: %s, version: %s", appID, version), true, nil)
}

func NewConfigInvalidError(details string) *StandardError {
	return newError(ErrCodeConfigInvalid, "Invalid configuration", details, false, nil)
}

func NewStateNotFoundError(key string) *StandardError {
	return newError(ErrCodeStateNotFound, "No saved application state",
		fmt.Sprintf("key: %s", key), false, nil)
}

// ==========================
// 3. Utility Functions
// ==========================

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false, err)
}

// CodeOf returns the code of err, or INTERNAL_ERROR for foreign errors.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	return Normalize(err).Code
}

// IsRetryable reports whether err is marked retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return Normalize(err).Retryable
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch {
	case strings.HasPrefix(string(code), "AUTHORING_"):
		return "remote"
	case strings.HasPrefix(string(code), "TRAINING_"), code == ErrCodeStatusEmpty:
		return "training"
	case code == ErrCodeLabelValueNotFound, code == ErrCodeBatchOutcomeMismatch:
		return "data"
	case code == ErrCodeConfigInvalid, code == ErrCodeStateNotFound:
		return "configuration"
	default:
		return "internal"
	}
}
