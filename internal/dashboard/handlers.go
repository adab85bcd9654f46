package dashboard

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	commonerrors "opsflow/internal/common/errors"
	"opsflow/internal/gateway/heuristic"
	"opsflow/internal/models"
)

type analyzeInvoiceRequest struct {
	Image string `json:"image"`
}

type marketingRequest struct {
	Brief string `json:"brief"`
}

type inventoryRequest struct {
	Items []models.InventoryRecord `json:"items"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"uptime": time.Since(s.started).String(),
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, s.gateway.Status())
}

func (s *Server) listModules(c *gin.Context) {
	c.JSON(http.StatusOK, s.modules)
}

func (s *Server) inventory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": models.SeedInventory()})
}

func (s *Server) shipments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"shipments": models.SeedShipments()})
}

func (s *Server) agents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"agents": models.SeedAgents()})
}

func (s *Server) logs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entries": s.actions.Entries()})
}

func (s *Server) analyzeInvoice(c *gin.Context) {
	var req analyzeInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorHandler.Respond(c, commonerrors.NewInvalidRequestError(err.Error()))
		return
	}

	image, err := decodeImage(req.Image)
	if err != nil {
		s.errorHandler.Respond(c, commonerrors.NewInvalidRequestError(err.Error()))
		return
	}
	if len(image) == 0 {
		s.errorHandler.Respond(c, commonerrors.NewInvalidRequestError("image is required"))
		return
	}

	result := s.gateway.AnalyzeDocument(c.Request.Context(), image)
	entry := s.actions.Add(models.LogInvoice, "Document scanned and intelligence extracted.")

	c.JSON(http.StatusOK, gin.H{
		"result": result,
		"status": s.gateway.Status(),
		"log":    entry,
	})
}

func (s *Server) approveInvoice(c *gin.Context) {
	entry := s.actions.Add(models.LogInvoice, "Document data approved and pushed to ERP.")
	c.JSON(http.StatusOK, gin.H{"approved": true, "log": entry})
}

func (s *Server) generateMarketing(c *gin.Context) {
	var req marketingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorHandler.Respond(c, commonerrors.NewInvalidRequestError(err.Error()))
		return
	}
	if strings.TrimSpace(req.Brief) == "" {
		s.errorHandler.Respond(c, commonerrors.NewInvalidRequestError("brief is required"))
		return
	}

	content := s.gateway.GenerateMarketing(c.Request.Context(), req.Brief)
	entry := s.actions.Add(models.LogMarketing, "Marketing campaign generated for: "+heuristic.Truncate(req.Brief, 20)+"...")

	c.JSON(http.StatusOK, gin.H{
		"content": content,
		"status":  s.gateway.Status(),
		"log":     entry,
	})
}

func (s *Server) suggestInventory(c *gin.Context) {
	var req inventoryRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			s.errorHandler.Respond(c, commonerrors.NewInvalidRequestError(err.Error()))
			return
		}
	}

	items := req.Items
	if items == nil {
		items = models.SeedInventory()
	}

	suggestion := s.gateway.SuggestInventoryActions(c.Request.Context(), items)
	entry := s.actions.Add(models.LogInventory, "AI Inventory Analysis completed.")

	c.JSON(http.StatusOK, gin.H{
		"suggestion": suggestion,
		"status":     s.gateway.Status(),
		"log":        entry,
	})
}

// decodeImage accepts raw base64 or a data URL as produced by canvas.toDataURL.
func decodeImage(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "data:") {
		if i := strings.Index(raw, ","); i >= 0 {
			raw = raw[i+1:]
		}
	}
	return base64.StdEncoding.DecodeString(raw)
}
