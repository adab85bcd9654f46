// Package dispatcher runs each capability remote-first and degrades to the local
// heuristic on any failure. It owns the "AI active" state shown by the dashboard.
package dispatcher

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"opsflow/internal/common/config"
	commonerrors "opsflow/internal/common/errors"
	"opsflow/internal/common/logger"
	"opsflow/internal/common/metrics"
	"opsflow/internal/common/validation"
	"opsflow/internal/gateway/heuristic"
	"opsflow/internal/gateway/schema"
	"opsflow/internal/models"
)

const (
	ModeAdvanced = "Advanced (AI)"
	ModeStandard = "Standard (Local)"

	defaultImageMIMEType = "image/jpeg"
	invoiceInstruction   = "Extract: Vendor, Total, Date, and Line Items."
	marketingPrompt      = "Generate multi-channel marketing for: "
	inventoryPrompt      = "Analyze inventory health: "
)

// Sender performs one remote generation attempt.
type Sender interface {
	Send(ctx context.Context, req *models.GenerationRequest) (*models.GenerationResult, error)
}

// Observer receives one record per remote attempt. outcome is metrics.OutcomeSuccess
// or the failure's error code.
type Observer interface {
	RecordAttempt(ctx context.Context, capability, outcome string, d time.Duration)
}

type Config struct {
	ModelID string
}

// Status is the mode indicator read by the presentation layer.
type Status struct {
	AIActive      bool   `json:"aiActive"`
	Mode          string `json:"mode"`
	SetupGuidance string `json:"setupGuidance,omitempty"`
	LastFailure   string `json:"lastFailure,omitempty"`
}

type failure struct {
	code     commonerrors.ErrorCode
	guidance string
}

type Dispatcher struct {
	sender    Sender
	config    Config
	logger    logger.Logger
	observers []Observer

	aiActive    atomic.Bool
	lastFailure atomic.Pointer[failure]
}

func New(sender Sender, cfg *Config, log logger.Logger, observers ...Observer) *Dispatcher {
	c := Config{}
	if cfg != nil {
		c = *cfg
	}
	if c.ModelID == "" {
		c.ModelID = config.DefaultModelID
	}

	return &Dispatcher{
		sender:    sender,
		config:    c,
		logger:    log.With(map[string]interface{}{"component": "dispatcher"}),
		observers: observers,
	}
}

// AIActive reports whether the most recent remote attempt succeeded.
func (d *Dispatcher) AIActive() bool {
	return d.aiActive.Load()
}

func (d *Dispatcher) Status() Status {
	s := Status{AIActive: d.aiActive.Load(), Mode: ModeStandard}
	if s.AIActive {
		s.Mode = ModeAdvanced
	}
	if f := d.lastFailure.Load(); f != nil && !s.AIActive {
		s.LastFailure = string(f.code)
		s.SetupGuidance = f.guidance
	}
	return s
}

// AnalyzeDocument extracts invoice data from an encoded still image.
func (d *Dispatcher) AnalyzeDocument(ctx context.Context, image []byte) string {
	if len(image) == 0 {
		d.rejectLocally(models.CapabilityInvoiceAnalysis, "image is empty")
		return heuristic.InvoiceText()
	}

	req := &models.GenerationRequest{
		Capability: models.CapabilityInvoiceAnalysis,
		ModelID:    d.config.ModelID,
		Content: models.PartsContent(
			models.Part{InlineData: &models.InlineData{
				Data:     base64.StdEncoding.EncodeToString(image),
				MIMEType: imageMIMEType(image),
			}},
			models.Part{Text: invoiceInstruction},
		),
	}

	result, ok := d.attempt(ctx, req, nil)
	if !ok || result.Text == "" {
		return heuristic.InvoiceText()
	}
	return result.Text
}

// GenerateMarketing produces three-channel copy for the brief.
func (d *Dispatcher) GenerateMarketing(ctx context.Context, brief string) models.MarketingContent {
	req := &models.GenerationRequest{
		Capability:       models.CapabilityMarketingGeneration,
		ModelID:          d.config.ModelID,
		Content:          models.TextContent(marketingPrompt + brief),
		OutputSchema:     schema.MarketingContentSchema(),
		ResponseMIMEType: models.MIMETypeJSON,
	}

	var content models.MarketingContent
	_, ok := d.attempt(ctx, req, func(result *models.GenerationResult) error {
		if !result.IsStructured() {
			return commonerrors.NewMalformedResponseError("expected a structured marketing object, got text", nil)
		}
		if err := validation.ValidateStructured(req.OutputSchema, result.Structured); err != nil {
			return commonerrors.NewMalformedResponseError("marketing object does not match schema", err)
		}
		if err := json.Unmarshal(result.Structured, &content); err != nil {
			return commonerrors.NewMalformedResponseError("decode marketing object", err)
		}
		return nil
	})
	if !ok {
		return heuristic.Marketing(brief)
	}
	return content
}

// SuggestInventoryActions returns restock advice. The critical subset is computed
// locally before any remote attempt.
func (d *Dispatcher) SuggestInventoryActions(ctx context.Context, items []models.InventoryRecord) string {
	critical := heuristic.CriticalItems(items)

	if items == nil {
		items = []models.InventoryRecord{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		d.rejectLocally(models.CapabilityInventorySuggestion, err.Error())
		return heuristic.InventoryFromCritical(critical)
	}

	req := &models.GenerationRequest{
		Capability: models.CapabilityInventorySuggestion,
		ModelID:    d.config.ModelID,
		Content:    models.TextContent(inventoryPrompt + string(payload)),
	}

	result, ok := d.attempt(ctx, req, nil)
	if !ok || strings.TrimSpace(result.Text) == "" {
		return heuristic.InventoryFromCritical(critical)
	}
	return result.Text
}

// attempt makes the single remote call and updates the capability state. accept may
// reject a successful transport result; that counts as a failed attempt.
func (d *Dispatcher) attempt(ctx context.Context, req *models.GenerationRequest, accept func(*models.GenerationResult) error) (*models.GenerationResult, bool) {
	if result := validation.ValidateGenerationRequest(*req); !result.Valid {
		d.rejectLocally(req.Capability, result.Error())
		return nil, false
	}

	start := time.Now()
	result, err := d.sender.Send(ctx, req)
	if err == nil && result == nil {
		err = commonerrors.NewMalformedResponseError("empty result", nil)
	}
	if err == nil && accept != nil {
		err = accept(result)
	}
	elapsed := time.Since(start)

	if err != nil {
		d.recordFailure(ctx, req.Capability, err, elapsed)
		return nil, false
	}

	d.aiActive.Store(true)
	d.lastFailure.Store(nil)
	d.notify(ctx, req.Capability, metrics.OutcomeSuccess, elapsed)

	d.logger.Debug("Remote generation succeeded", map[string]interface{}{
		"capability": string(req.Capability),
		"durationMs": elapsed.Milliseconds(),
	})
	return result, true
}

func (d *Dispatcher) recordFailure(ctx context.Context, capability models.Capability, err error, elapsed time.Duration) {
	code := commonerrors.CodeOf(err)
	guidance := commonerrors.SetupGuidance(err)

	d.aiActive.Store(false)
	d.lastFailure.Store(&failure{code: code, guidance: guidance})
	d.notify(ctx, capability, string(code), elapsed)

	fields := map[string]interface{}{
		"capability": string(capability),
		"reason":     string(code),
		"category":   commonerrors.GetErrorCategory(code),
		"durationMs": elapsed.Milliseconds(),
		"error":      err,
	}
	if re, ok := commonerrors.AsRemoteError(err); ok && re.StatusCode != 0 {
		fields["statusCode"] = re.StatusCode
	}
	if guidance != "" {
		fields["setupGuidance"] = guidance
	}
	d.logger.Warn("Remote generation failed, falling back to local heuristic", fields)
}

// rejectLocally handles requests that never leave the process. State is untouched.
func (d *Dispatcher) rejectLocally(capability models.Capability, reason string) {
	d.logger.Warn("Invalid request, using local heuristic", map[string]interface{}{
		"capability": string(capability),
		"reason":     reason,
	})
}

func (d *Dispatcher) notify(ctx context.Context, capability models.Capability, outcome string, elapsed time.Duration) {
	for _, o := range d.observers {
		o.RecordAttempt(ctx, string(capability), outcome, elapsed)
	}
}

func imageMIMEType(image []byte) string {
	if mt := http.DetectContentType(image); strings.HasPrefix(mt, "image/") {
		return mt
	}
	return defaultImageMIMEType
}
