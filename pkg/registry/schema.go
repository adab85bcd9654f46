// pkg/registry/schema.go
package registry

// ModuleRegistry lists the dashboard modules offered as quick actions.
type ModuleRegistry struct {
	Version     string   `json:"version"`
	LastUpdated string   `json:"lastUpdated"`
	Modules     []Module `json:"modules"`
}

type Module struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"desc"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Capability  string `json:"capability,omitempty"` // empty for modules without an AI path
	Endpoint    string `json:"endpoint"`
}
