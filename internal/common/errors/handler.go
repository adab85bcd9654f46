// internal/common/errors/handler.go
package errors

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorHandler turns errors into the `{error, code}` wire body shared by the proxy
// and the dashboard API.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// ErrorBody is the JSON body written for every failed request.
type ErrorBody struct {
	Error string    `json:"error"`
	Code  ErrorCode `json:"code,omitempty"`
}

// Respond normalizes err, logs it and writes the error body.
func (h *ErrorHandler) Respond(c *gin.Context, err error) {
	re := h.normalizeError(err)
	status := HTTPStatus(re)

	h.logger.Error("request failed", map[string]interface{}{
		"path":          c.FullPath(),
		"errorCode":     string(re.Code),
		"errorCategory": GetErrorCategory(re.Code),
		"message":       re.Message,
		"details":       re.Details,
		"status":        status,
	})

	c.AbortWithStatusJSON(status, ErrorBody{Error: re.Message, Code: re.Code})
}

// normalizeError ensures we always have a RemoteError
func (h *ErrorHandler) normalizeError(err error) *RemoteError {
	if re, ok := AsRemoteError(err); ok {
		return re
	}
	return &RemoteError{
		Code:      ErrCodeInternal,
		Message:   "Internal server error during AI processing.",
		Details:   errString(err),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// HTTPStatus maps an error to the status the remote contract requires: credential
// and generation failures are 500, malformed input is 400.
func HTTPStatus(re *RemoteError) int {
	switch re.Code {
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeBadStatus:
		if re.StatusCode >= 400 {
			return re.StatusCode
		}
		return http.StatusBadGateway
	case ErrCodeUnreachable, ErrCodeMalformedResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
