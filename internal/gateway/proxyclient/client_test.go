package proxyclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "opsflow/internal/common/errors"
	"opsflow/internal/common/logger"
	"opsflow/internal/gateway/schema"
	"opsflow/internal/models"
)

func newTestClient(t *testing.T, url string, timeout time.Duration) *Client {
	return New(Config{RemoteURL: url, Timeout: timeout}, logger.NewTestLogger(t))
}

func textRequest() *models.GenerationRequest {
	return &models.GenerationRequest{
		Capability: models.CapabilityInventorySuggestion,
		ModelID:    "gemini-3-flash-preview",
		Content:    models.TextContent("Analyze inventory health: []"),
	}
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestSend_TextSuccess(t *testing.T) {
	server := httptest.NewServer(respond(http.StatusOK, `{"data":"X"}`))
	defer server.Close()

	result, err := newTestClient(t, server.URL, time.Second).Send(context.Background(), textRequest())
	require.NoError(t, err)
	assert.Equal(t, "X", result.Text)
	assert.False(t, result.IsStructured())
}

func TestSend_StructuredSuccess(t *testing.T) {
	server := httptest.NewServer(respond(http.StatusOK, `{"data":{"instagram":"a","email":"b","twitter":"c"}}`))
	defer server.Close()

	result, err := newTestClient(t, server.URL, time.Second).Send(context.Background(), textRequest())
	require.NoError(t, err)
	require.True(t, result.IsStructured())
	assert.JSONEq(t, `{"instagram":"a","email":"b","twitter":"c"}`, string(result.Structured))
}

func TestSend_WireRequest(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = io.WriteString(w, `{"data":{"instagram":"a","email":"b","twitter":"c"}}`)
	}))
	defer server.Close()

	req := &models.GenerationRequest{
		Capability:       models.CapabilityMarketingGeneration,
		ModelID:          "gemini-3-flash-preview",
		Content:          models.TextContent("Generate multi-channel marketing for: sale"),
		OutputSchema:     schema.MarketingContentSchema(),
		ResponseMIMEType: models.MIMETypeJSON,
	}
	_, err := newTestClient(t, server.URL, time.Second).Send(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "gemini-3-flash-preview", captured["modelName"])
	assert.Equal(t, "Generate multi-channel marketing for: sale", captured["contents"])
	cfg := captured["config"].(map[string]interface{})
	assert.Equal(t, "application/json", cfg["responseMimeType"])
	rs := cfg["responseSchema"].(map[string]interface{})
	assert.Equal(t, "OBJECT", rs["type"])
	assert.Equal(t, "STRING", rs["properties"].(map[string]interface{})["twitter"].(map[string]interface{})["type"])
}

func TestSend_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantCode   commonerrors.ErrorCode
		wantStatus int
	}{
		{"missing credential by substring", 500, `{"error":"API_KEY environment variable not set for the AI proxy."}`, commonerrors.ErrCodeNotConfigured, 500},
		{"missing credential by code", 500, `{"error":"credential missing","code":"NOT_CONFIGURED"}`, commonerrors.ErrCodeNotConfigured, 500},
		{"model failure", 500, `{"error":"quota exceeded"}`, commonerrors.ErrCodeBadStatus, 500},
		{"bad request", 400, `{"error":"Missing 'modelName' or 'contents' in request body."}`, commonerrors.ErrCodeBadStatus, 400},
		{"plain text error", 502, `upstream gone`, commonerrors.ErrCodeBadStatus, 502},
		{"invalid json", 200, `{"data":`, commonerrors.ErrCodeMalformedResponse, 0},
		{"missing data", 200, `{"result":"X"}`, commonerrors.ErrCodeMalformedResponse, 0},
		{"null data", 200, `{"data":null}`, commonerrors.ErrCodeMalformedResponse, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(respond(tt.status, tt.body))
			defer server.Close()

			result, err := newTestClient(t, server.URL, time.Second).Send(context.Background(), textRequest())
			require.Error(t, err)
			assert.Nil(t, result)

			re, ok := commonerrors.AsRemoteError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, re.Code)
			assert.Equal(t, tt.wantStatus, re.StatusCode)
		})
	}
}

func TestSend_NotConfiguredCarriesGuidance(t *testing.T) {
	server := httptest.NewServer(respond(500, `{"error":"API_KEY environment variable not set for the AI proxy."}`))
	defer server.Close()

	_, err := newTestClient(t, server.URL, time.Second).Send(context.Background(), textRequest())
	assert.NotEmpty(t, commonerrors.SetupGuidance(err))

	server2 := httptest.NewServer(respond(500, `{"error":"boom"}`))
	defer server2.Close()

	_, err = newTestClient(t, server2.URL, time.Second).Send(context.Background(), textRequest())
	assert.Empty(t, commonerrors.SetupGuidance(err))
}

func TestSend_TimeoutIsUnreachable(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := newTestClient(t, server.URL, 50*time.Millisecond).Send(context.Background(), textRequest())
	assert.Equal(t, commonerrors.ErrCodeUnreachable, commonerrors.CodeOf(err))
}

func TestSend_ConnectionRefusedIsUnreachable(t *testing.T) {
	server := httptest.NewServer(respond(200, `{"data":"X"}`))
	url := server.URL
	server.Close()

	_, err := newTestClient(t, url, time.Second).Send(context.Background(), textRequest())
	assert.Equal(t, commonerrors.ErrCodeUnreachable, commonerrors.CodeOf(err))
}

func TestSend_EmptyRemoteURL(t *testing.T) {
	_, err := newTestClient(t, "", time.Second).Send(context.Background(), textRequest())
	assert.True(t, commonerrors.IsNotConfigured(err))
}

func TestSend_InvalidRequestNeverLeavesProcess(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	req := textRequest()
	req.Content = models.TextContent("")

	_, err := newTestClient(t, server.URL, time.Second).Send(context.Background(), req)
	assert.Equal(t, commonerrors.ErrCodeInvalidRequest, commonerrors.CodeOf(err))
	assert.Equal(t, 0, calls)
}
