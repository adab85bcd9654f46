// Package errors provides the structured failure taxonomy shared by the proxy client,
// the remote proxy and the dispatcher.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Remote path failures. The first four are the RemoteError reasons seen by the
// dispatcher; the rest are produced on the proxy side or for local request checks.
const (
	ErrCodeNotConfigured     ErrorCode = "NOT_CONFIGURED"
	ErrCodeUnreachable       ErrorCode = "UNREACHABLE"
	ErrCodeBadStatus         ErrorCode = "BAD_STATUS"
	ErrCodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"

	ErrCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrCodeGenerationFailed ErrorCode = "GENERATION_FAILED"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// MissingCredentialSignal is the substring the remote side places in its error
// message when it has no usable model credential.
const MissingCredentialSignal = "API_KEY environment variable not set"

// MissingCredentialMessage is the full error text emitted by the proxy.
const MissingCredentialMessage = MissingCredentialSignal + " for the AI proxy. Please configure it in the proxy deployment settings."

// RemoteError represents a structured remote-path failure.
type RemoteError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"statusCode,omitempty"`
	Timestamp  time.Time `json:"timestamp"`

	cause error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("RemoteError[%s %d]: %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("RemoteError[%s]: %s", e.Code, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.cause
}

// NewNotConfiguredError is returned when the remote side, or the local client, has no
// credential or endpoint to fulfil a request.
func NewNotConfiguredError(details string) *RemoteError {
	return &RemoteError{
		Code:      ErrCodeNotConfigured,
		Message:   "AI backend is not configured",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingCredentialError is the proxy-side NotConfigured error; its message carries
// MissingCredentialSignal so that clients matching on text keep working.
func NewMissingCredentialError() *RemoteError {
	return &RemoteError{
		Code:      ErrCodeNotConfigured,
		Message:   MissingCredentialMessage,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnreachableError wraps a transport failure or timeout.
func NewUnreachableError(err error) *RemoteError {
	return &RemoteError{
		Code:      ErrCodeUnreachable,
		Message:   "AI backend unreachable",
		Details:   errString(err),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewBadStatusError records a non-success HTTP status and the remote error text.
func NewBadStatusError(statusCode int, remoteMessage string) *RemoteError {
	return &RemoteError{
		Code:       ErrCodeBadStatus,
		Message:    fmt.Sprintf("AI backend responded with status %d", statusCode),
		Details:    remoteMessage,
		StatusCode: statusCode,
		Timestamp:  time.Now().UTC(),
	}
}

// NewMalformedResponseError records a body that did not have the expected shape.
func NewMalformedResponseError(details string, err error) *RemoteError {
	if err != nil {
		details = fmt.Sprintf("%s: %s", details, err.Error())
	}
	return &RemoteError{
		Code:      ErrCodeMalformedResponse,
		Message:   "AI backend returned a malformed response",
		Details:   details,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewInvalidRequestError is used for requests rejected before any transport happens.
func NewInvalidRequestError(details string) *RemoteError {
	return &RemoteError{
		Code:       ErrCodeInvalidRequest,
		Message:    "Invalid generation request",
		Details:    details,
		StatusCode: 400,
		Timestamp:  time.Now().UTC(),
	}
}

// NewGenerationFailedError wraps a model invocation failure on the proxy side.
func NewGenerationFailedError(err error) *RemoteError {
	return &RemoteError{
		Code:      ErrCodeGenerationFailed,
		Message:   errString(err),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// AsRemoteError extracts a RemoteError from an error chain.
func AsRemoteError(err error) (*RemoteError, bool) {
	var re *RemoteError
	if stderrors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// CodeOf returns the error code, or ErrCodeInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if re, ok := AsRemoteError(err); ok {
		return re.Code
	}
	return ErrCodeInternal
}

// IsNotConfigured reports whether err carries the NotConfigured reason.
func IsNotConfigured(err error) bool {
	return CodeOf(err) == ErrCodeNotConfigured
}

// IsMissingCredentialMessage matches the documented wire signal for older proxies
// that do not send a code field.
func IsMissingCredentialMessage(msg string) bool {
	return strings.Contains(msg, MissingCredentialSignal)
}

// SetupGuidance returns an operator-facing instruction for NotConfigured errors and
// an empty string for every other failure.
func SetupGuidance(err error) string {
	if !IsNotConfigured(err) {
		return ""
	}
	return "Advanced AI mode is unavailable: set the API_KEY environment variable for the AI proxy " +
		"(and gateway.remote_url for the dashboard), then restart. Standard local mode remains active."
}

// ==========================
// Error Categories
// ==========================

var errorCategories = map[ErrorCode]string{
	ErrCodeNotConfigured:     "configuration",
	ErrCodeUnreachable:       "transport",
	ErrCodeBadStatus:         "remote",
	ErrCodeMalformedResponse: "protocol",
	ErrCodeInvalidRequest:    "client",
	ErrCodeGenerationFailed:  "remote",
}

// GetErrorCategory groups error codes for logging and metrics.
func GetErrorCategory(code ErrorCode) string {
	if category, ok := errorCategories[code]; ok {
		return category
	}
	return "internal"
}
