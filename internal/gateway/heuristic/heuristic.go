// Package heuristic produces the local output used whenever the remote model path is
// unavailable. Everything here is pure and deterministic.
package heuristic

import (
	"fmt"
	"strings"

	"opsflow/internal/models"
)

const invoiceText = `[STANDARD DATA EXTRACTION - LOCAL]
------------------------------------
DOCUMENT TYPE: COMMERCIAL INVOICE
VENDOR IDENTIFIED: GENERIC SUPPLIER
CONFIDENCE SCORE: 85% (LOCAL HEURISTICS)

ESTIMATED TOTAL: $---.-- (Review image)
STATUS: READY FOR MANUAL VERIFICATION

Note: Standard Mode active. Advanced AI OCR 
is available with an API link.`

const (
	InstagramPrefix = "✨ New Update: "
	EmailPrefix     = "Subject: Operational Update: "
	TwitterPrefix   = "🚀 Latest from the floor: "

	HealthyInventoryMessage = "STANDARD ENGINE: Inventory levels appear healthy across all tracked categories."

	instagramCut = 40
	emailCut     = 30
	twitterCut   = 100
)

// InvoiceText is the fixed low-confidence extraction block.
func InvoiceText() string {
	return invoiceText
}

// Marketing embeds the trimmed brief into the three channel templates.
func Marketing(brief string) models.MarketingContent {
	clean := strings.TrimSpace(brief)

	return models.MarketingContent{
		Instagram: InstagramPrefix + Truncate(clean, instagramCut) +
			"... \n\nCheck it out at the link in our bio! \n\n#Business #Update #OpsFlow #LocalEngine",
		Email: EmailPrefix + Truncate(clean, emailCut) +
			"\n\nHi Team,\n\nPlease take note of the following update: " + clean +
			".\n\nWe are continuing to optimize our operations to serve our customers better." +
			"\n\nBest regards,\nOperations Management",
		Twitter: TwitterPrefix + Truncate(clean, twitterCut) + ". #OpsFlow #Efficiency #Business",
	}
}

// CriticalItems returns the records whose stock is below their minimum threshold,
// in input order.
func CriticalItems(items []models.InventoryRecord) []models.InventoryRecord {
	var critical []models.InventoryRecord
	for _, item := range items {
		if item.IsCritical() {
			critical = append(critical, item)
		}
	}
	return critical
}

// Inventory builds the local restock recommendation for the full item list.
func Inventory(items []models.InventoryRecord) string {
	return InventoryFromCritical(CriticalItems(items))
}

// InventoryFromCritical formats a precomputed critical subset.
func InventoryFromCritical(critical []models.InventoryRecord) string {
	if len(critical) == 0 {
		return HealthyInventoryMessage
	}

	names := make([]string, len(critical))
	for i, item := range critical {
		names[i] = item.Name
	}
	return fmt.Sprintf("STANDARD ENGINE: Low stock alert for [%s]. Recommended restock quantity: 2x current minimum threshold.",
		strings.Join(names, ", "))
}

// Truncate keeps the first n characters of s. No word boundary handling.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
