package dashboard

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsflow/internal/common/logger"
	"opsflow/internal/gateway/dispatcher"
	"opsflow/internal/gateway/heuristic"
	"opsflow/internal/models"
	"opsflow/pkg/registry"
)

type fakeGateway struct {
	image []byte
	brief string
	items []models.InventoryRecord
}

func (f *fakeGateway) AnalyzeDocument(_ context.Context, image []byte) string {
	f.image = image
	return heuristic.InvoiceText()
}

func (f *fakeGateway) GenerateMarketing(_ context.Context, brief string) models.MarketingContent {
	f.brief = brief
	return heuristic.Marketing(brief)
}

func (f *fakeGateway) SuggestInventoryActions(_ context.Context, items []models.InventoryRecord) string {
	f.items = items
	return heuristic.Inventory(items)
}

func (f *fakeGateway) Status() dispatcher.Status {
	return dispatcher.Status{Mode: dispatcher.ModeStandard}
}

func newTestServer(t *testing.T) (*Server, *fakeGateway, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	gw := &fakeGateway{}
	s := NewServer(Options{Gateway: gw, Logger: logger.NewTestLogger(t), ActionLogSize: 3, MetricsEnabled: true})
	return s, gw, s.Router()
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStaticRoutes(t *testing.T) {
	_, _, r := newTestServer(t)

	for _, path := range []string{"/health", "/ready", "/metrics", "/api/v1/modules", "/api/v1/inventory", "/api/v1/shipments", "/api/v1/agents", "/api/v1/logs"} {
		w := do(r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := do(r, http.MethodGet, "/api/v1/status", "")
	var status dispatcher.Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, dispatcher.ModeStandard, status.Mode)
	assert.False(t, status.AIActive)
}

func TestModules(t *testing.T) {
	_, _, r := newTestServer(t)

	w := do(r, http.MethodGet, "/api/v1/modules", "")
	require.Equal(t, http.StatusOK, w.Code)

	var reg registry.ModuleRegistry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))
	assert.Equal(t, registry.Default().Modules, reg.Modules)
}

func TestAnalyzeInvoice(t *testing.T) {
	_, gw, r := newTestServer(t)
	img := []byte{0xFF, 0xD8, 0xFF, 0xE0}

	w := do(r, http.MethodPost, "/api/v1/invoice/analyze",
		`{"image":"data:image/jpeg;base64,`+base64.StdEncoding.EncodeToString(img)+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, img, gw.image)

	var body struct {
		Result string                `json:"result"`
		Log    models.ActionLogEntry `json:"log"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, heuristic.InvoiceText(), body.Result)
	assert.Equal(t, "Document scanned and intelligence extracted.", body.Log.Message)
	assert.Equal(t, models.LogInvoice, body.Log.Category)
}

func TestAnalyzeInvoice_Invalid(t *testing.T) {
	_, gw, r := newTestServer(t)

	for _, body := range []string{`{"image":""}`, `{"image":"***"}`, `not json`} {
		w := do(r, http.MethodPost, "/api/v1/invoice/analyze", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Nil(t, gw.image)
}

func TestGenerateMarketing(t *testing.T) {
	s, gw, r := newTestServer(t)

	w := do(r, http.MethodPost, "/api/v1/marketing/generate", `{"brief":"Pumpkin spice returns next Monday"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Pumpkin spice returns next Monday", gw.brief)

	var body struct {
		Content models.MarketingContent `json:"content"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, heuristic.Marketing("Pumpkin spice returns next Monday"), body.Content)
	assert.Equal(t, "Marketing campaign generated for: Pumpkin spice return...", s.Actions().Entries()[0].Message)

	w = do(r, http.MethodPost, "/api/v1/marketing/generate", `{"brief":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuggestInventory(t *testing.T) {
	_, gw, r := newTestServer(t)

	w := do(r, http.MethodPost, "/api/v1/inventory/suggest", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.SeedInventory(), gw.items)

	w = do(r, http.MethodPost, "/api/v1/inventory/suggest", `{"items":[{"id":"9","name":"Lids","stock":1,"minThreshold":5}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Suggestion string `json:"suggestion"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Suggestion, "[Lids]")
}

func TestActionLogNewestFirstAndBounded(t *testing.T) {
	s, _, r := newTestServer(t)

	do(r, http.MethodPost, "/api/v1/inventory/suggest", "")
	do(r, http.MethodPost, "/api/v1/invoice/approve", "")
	do(r, http.MethodPost, "/api/v1/marketing/generate", `{"brief":"a"}`)
	do(r, http.MethodPost, "/api/v1/invoice/approve", "")

	entries := s.Actions().Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "Document data approved and pushed to ERP.", entries[0].Message)
	assert.Equal(t, "Marketing campaign generated for: a...", entries[1].Message)
	assert.NotEqual(t, entries[0].ID, entries[2].ID)
}

func TestActionLogTimestamp(t *testing.T) {
	l := NewActionLog(0)
	l.now = func() time.Time { return time.Date(2024, 3, 1, 17, 4, 9, 0, time.UTC) }

	entry := l.Add(models.LogLogistics, "Shipment OPS-9921 updated")
	assert.Equal(t, "17:04:09", entry.Timestamp)
	assert.Equal(t, models.LogCompleted, entry.Status)
	assert.NotEmpty(t, entry.ID)
}

func TestMiddleware(t *testing.T) {
	_, _, r := newTestServer(t)

	w := do(r, http.MethodOptions, "/api/v1/marketing/generate", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))

	w = do(r, http.MethodGet, "/health", "")
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}
