// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadRegistry reads a module catalog from a JSON file.
func LoadRegistry(path string) (*ModuleRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ModuleRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse module registry %s: %w", path, err)
	}
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("module registry %s: %w", path, err)
	}
	return &reg, nil
}

// Default is the built-in catalog shown on the dashboard home view.
func Default() *ModuleRegistry {
	return &ModuleRegistry{
		Version: "1.0.0",
		Modules: []Module{
			{ID: "inventory", Icon: "📦", Title: "Update Inventory", Description: "Monitor stock levels and run health checks.", Color: "blue", Capability: "InventorySuggestion", Endpoint: "/api/v1/inventory/suggest"},
			{ID: "invoice", Icon: "📄", Title: "Scan Documents", Description: "Extract data from invoices using computer vision.", Color: "purple", Capability: "InvoiceAnalysis", Endpoint: "/api/v1/invoice/analyze"},
			{ID: "marketing", Icon: "📣", Title: "Marketing Suite", Description: "Generate campaign copy for social and email.", Color: "orange", Capability: "MarketingGeneration", Endpoint: "/api/v1/marketing/generate"},
			{ID: "logistics", Icon: "🚚", Title: "Logistics Fleet", Description: "Track shipments and delivery status in real-time.", Color: "green", Endpoint: "/api/v1/shipments"},
		},
	}
}

func (r *ModuleRegistry) Validate() error {
	seen := make(map[string]bool, len(r.Modules))
	for i, m := range r.Modules {
		if m.ID == "" {
			return fmt.Errorf("modules[%d]: id is required", i)
		}
		if seen[m.ID] {
			return fmt.Errorf("modules[%d]: duplicate id %q", i, m.ID)
		}
		seen[m.ID] = true
	}
	return nil
}
