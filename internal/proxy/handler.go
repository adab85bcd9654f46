// Package proxy is the remote execution environment: it holds the model credential,
// decodes the wire request and invokes the model.
package proxy

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"

	commonerrors "opsflow/internal/common/errors"
	"opsflow/internal/common/logger"
	"opsflow/internal/gateway/schema"
	"opsflow/internal/models"
)

const missingFieldsMessage = "Missing 'modelName' or 'contents' in request body."

type Handler struct {
	generator    Generator
	logger       logger.Logger
	errorHandler *commonerrors.ErrorHandler
	modelTimeout time.Duration
}

// NewHandler builds the proxy endpoint. A nil generator means no credential is
// configured; every request then fails with NotConfigured.
func NewHandler(generator Generator, modelTimeout time.Duration, log logger.Logger) *Handler {
	log = log.With(map[string]interface{}{"component": "ai_proxy"})
	return &Handler{
		generator:    generator,
		logger:       log,
		errorHandler: commonerrors.NewErrorHandler(log),
		modelTimeout: modelTimeout,
	}
}

// Register mounts the generation endpoint and /health.
func (h *Handler) Register(r gin.IRoutes, path string) {
	r.POST(path, h.Generate)
	r.GET("/health", h.Health)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"configured": h.generator != nil,
		"time":       time.Now().UTC(),
	})
}

func (h *Handler) Generate(c *gin.Context) {
	if h.generator == nil {
		h.errorHandler.Respond(c, commonerrors.NewMissingCredentialError())
		return
	}

	var req models.ProxyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorHandler.Respond(c, commonerrors.NewInvalidRequestError(err.Error()))
		return
	}

	if req.ModelName == "" || req.Contents.IsEmpty() {
		re := commonerrors.NewInvalidRequestError("modelName or contents missing")
		re.Message = missingFieldsMessage
		h.errorHandler.Respond(c, re)
		return
	}

	in, err := decodeInput(&req)
	if err != nil {
		h.errorHandler.Respond(c, commonerrors.NewInvalidRequestError(err.Error()))
		return
	}

	ctx := c.Request.Context()
	if h.modelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.modelTimeout)
		defer cancel()
	}

	start := time.Now()
	text, err := h.generator.Generate(ctx, in)
	if err != nil {
		h.errorHandler.Respond(c, commonerrors.NewGenerationFailedError(err))
		return
	}

	h.logger.Info("Generation completed", map[string]interface{}{
		"model":      req.ModelName,
		"durationMs": time.Since(start).Milliseconds(),
		"structured": in.ResponseMIMEType == models.MIMETypeJSON,
	})

	c.JSON(http.StatusOK, gin.H{"data": h.resultData(in.ResponseMIMEType, text)})
}

// resultData parses JSON output when it was requested. A parse failure is logged and
// the raw text is returned instead.
func (h *Handler) resultData(mimeType, text string) interface{} {
	if mimeType != models.MIMETypeJSON {
		return text
	}

	raw := text
	if raw == "" {
		raw = "{}"
	}
	if !json.Valid([]byte(raw)) {
		h.logger.Warn("Failed to parse AI response as JSON", map[string]interface{}{
			"text": text,
		})
		return text
	}
	return json.RawMessage(raw)
}

func decodeInput(req *models.ProxyRequest) (GenerateInput, error) {
	in := GenerateInput{ModelName: req.ModelName}

	if len(req.Contents.Parts) == 0 {
		in.Parts = []genai.Part{genai.Text(req.Contents.Text)}
	}
	for i, p := range req.Contents.Parts {
		if p.InlineData != nil && p.InlineData.Data != "" {
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return in, fmt.Errorf("contents[%d].inlineData: %w", i, err)
			}
			in.Parts = append(in.Parts, genai.Blob{MIMEType: p.InlineData.MIMEType, Data: data})
		}
		if p.Text != "" {
			in.Parts = append(in.Parts, genai.Text(p.Text))
		}
	}

	if req.Config != nil {
		in.ResponseMIMEType = req.Config.ResponseMIMEType
		in.ResponseSchema = schema.ToGenAI(req.Config.ResponseSchema)
	}
	return in, nil
}
