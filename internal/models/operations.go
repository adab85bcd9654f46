// internal/models/operations.go
package models

// InventoryRecord is one tracked stock line.
type InventoryRecord struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Stock        int     `json:"stock"`
	MinThreshold int     `json:"minThreshold"`
	Price        float64 `json:"price"`
}

// IsCritical reports whether stock has fallen below the minimum threshold.
func (r InventoryRecord) IsCritical() bool {
	return r.Stock < r.MinThreshold
}

type ShipmentState string

const (
	ShipmentProcessing     ShipmentState = "processing"
	ShipmentShipped        ShipmentState = "shipped"
	ShipmentOutForDelivery ShipmentState = "out-for-delivery"
	ShipmentDelivered      ShipmentState = "delivered"
)

type Shipment struct {
	ID          string        `json:"id"`
	Destination string        `json:"destination"`
	Status      ShipmentState `json:"status"`
	Timestamp   string        `json:"timestamp"`
	Location    string        `json:"location"`
}

type AgentStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"` // active, idle, busy
	Icon   string `json:"icon"`
}

type LogCategory string

const (
	LogInventory LogCategory = "inventory"
	LogInvoice   LogCategory = "invoice"
	LogMarketing LogCategory = "marketing"
	LogLogistics LogCategory = "logistics"
)

type LogStatus string

const (
	LogCompleted LogStatus = "completed"
	LogPending   LogStatus = "pending"
	LogFailed    LogStatus = "failed"
)

// ActionLogEntry is a line in the dashboard's session activity feed.
type ActionLogEntry struct {
	ID        string      `json:"id"`
	Category  LogCategory `json:"type"`
	Message   string      `json:"message"`
	Timestamp string      `json:"timestamp"`
	Status    LogStatus   `json:"status"`
}

// SeedInventory returns the static inventory shown by the dashboard.
func SeedInventory() []InventoryRecord {
	return []InventoryRecord{
		{ID: "1", Name: "Premium Coffee Beans", Category: "Raw Materials", Stock: 45, MinThreshold: 50, Price: 12.99},
		{ID: "2", Name: "Paper Cups (12oz)", Category: "Packaging", Stock: 1200, MinThreshold: 500, Price: 0.08},
		{ID: "3", Name: "Organic Soy Milk", Category: "Dairy/Alt", Stock: 12, MinThreshold: 20, Price: 3.50},
		{ID: "4", Name: "Eco-Friendly Stirrers", Category: "Packaging", Stock: 300, MinThreshold: 100, Price: 0.02},
		{ID: "5", Name: "Cold Brew Filter Bags", Category: "Equipment", Stock: 8, MinThreshold: 10, Price: 15.00},
	}
}

// SeedShipments returns the static shipments shown on the logistics timeline.
func SeedShipments() []Shipment {
	return []Shipment{
		{ID: "OPS-9921", Destination: "Warehouse A", Status: ShipmentShipped, Timestamp: "2023-10-24 14:30", Location: "Transit Hub 4"},
		{ID: "OPS-9922", Destination: "Main Store", Status: ShipmentOutForDelivery, Timestamp: "2023-10-24 09:15", Location: "Local Distribution"},
		{ID: "OPS-9923", Destination: "Warehouse B", Status: ShipmentProcessing, Timestamp: "2023-10-24 16:45", Location: "Central Packing"},
	}
}

func SeedAgents() []AgentStatus {
	return []AgentStatus{
		{Name: "Inventory AI", Status: "active", Icon: "📦"},
		{Name: "Marketing AI", Status: "busy", Icon: "📣"},
		{Name: "Logistics AI", Status: "active", Icon: "🚚"},
	}
}
