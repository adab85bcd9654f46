// Package proxyclient sends generation requests to the remote execution environment
// and classifies every failure into a RemoteError.
package proxyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	commonerrors "opsflow/internal/common/errors"
	commonhttp "opsflow/internal/common/http"
	"opsflow/internal/common/logger"
	"opsflow/internal/common/validation"
	"opsflow/internal/models"
)

type Config struct {
	RemoteURL string
	Timeout   time.Duration
}

type Client struct {
	config Config
	http   *commonhttp.Client
	logger logger.Logger
}

func New(cfg Config, log logger.Logger) *Client {
	return NewWithHTTPClient(cfg, commonhttp.NewClient(cfg.Timeout), log)
}

// NewWithHTTPClient is used when the transport needs to be swapped.
func NewWithHTTPClient(cfg Config, httpClient *commonhttp.Client, log logger.Logger) *Client {
	return &Client{
		config: cfg,
		http:   httpClient,
		logger: log.With(map[string]interface{}{"component": "proxy_client"}),
	}
}

// Send performs a single attempt. Every error returned is a *errors.RemoteError.
func (c *Client) Send(ctx context.Context, req *models.GenerationRequest) (*models.GenerationResult, error) {
	if c.config.RemoteURL == "" {
		return nil, commonerrors.NewNotConfiguredError("gateway.remote_url is empty")
	}

	if result := validation.ValidateGenerationRequest(*req); !result.Valid {
		return nil, commonerrors.NewInvalidRequestError(result.Error())
	}

	payload, err := json.Marshal(models.NewProxyRequest(req))
	if err != nil {
		return nil, commonerrors.NewInvalidRequestError(fmt.Sprintf("encode request: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.RemoteURL, bytes.NewReader(payload))
	if err != nil {
		return nil, commonerrors.NewNotConfiguredError(fmt.Sprintf("invalid remote url: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("Sending generation request", map[string]interface{}{
		"capability": string(req.Capability),
		"model":      req.ModelID,
		"bytes":      len(payload),
	})

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, commonerrors.NewUnreachableError(err)
	}

	body, err := commonhttp.ReadBody(resp, commonhttp.DefaultMaxBodyBytes)
	if err != nil {
		return nil, commonerrors.NewUnreachableError(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyFailure(resp.StatusCode, body)
	}

	return decodeResult(body)
}

// classifyFailure trusts the structured code first and falls back to the documented
// message substring for proxies that only send text.
func classifyFailure(status int, body []byte) error {
	msg := gjson.GetBytes(body, "error").String()
	if msg == "" {
		msg = string(body)
	}

	code := gjson.GetBytes(body, "code").String()
	if commonerrors.ErrorCode(code) == commonerrors.ErrCodeNotConfigured || commonerrors.IsMissingCredentialMessage(msg) {
		re := commonerrors.NewNotConfiguredError(msg)
		re.StatusCode = status
		return re
	}
	return commonerrors.NewBadStatusError(status, msg)
}

func decodeResult(body []byte) (*models.GenerationResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, commonerrors.NewMalformedResponseError("response body is not valid JSON", nil)
	}

	data := gjson.GetBytes(body, "data")
	switch {
	case !data.Exists():
		return nil, commonerrors.NewMalformedResponseError("response body has no data field", nil)
	case data.Type == gjson.Null:
		return nil, commonerrors.NewMalformedResponseError("response data is null", nil)
	case data.Type == gjson.String:
		return &models.GenerationResult{Text: data.String()}, nil
	default:
		return &models.GenerationResult{Structured: json.RawMessage(data.Raw)}, nil
	}
}
