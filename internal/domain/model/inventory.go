//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "time"

// InventoryItem is a read model for stock items exposed over the API.
// Inventory business logic lives in the collaborating inventory service;
// this shape only carries what the read endpoints return.
type InventoryItem struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SupplierID string    `json:"supplier_id"`
	Quantity   int       `json:"quantity"`
	Price      float64   `json:"price"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Supplier is a read model for suppliers exposed over the API.
type Supplier struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name,omitempty"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AnalyticsSummary aggregates dashboard figures computed by the analytics
// collaborator.
type AnalyticsSummary struct {
	TotalItems    int     `json:"total_items"`
	TotalQuantity int     `json:"total_quantity"`
	TotalValue    float64 `json:"total_value"`
	SupplierCount int     `json:"supplier_count"`
	LowStockCount int     `json:"low_stock_count"`
}
