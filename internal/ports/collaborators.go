package ports

import (
	"context"

	"github.com/smartsupplypro/inventory-api/internal/domain/model"
)

// The inventory, supplier, and analytics services are external collaborators:
// this subsystem only routes to them and gates access. The interfaces below
// are the full surface this repository depends on.

// InventoryService exposes the inventory collaborator.
type InventoryService interface {
	List(ctx context.Context) ([]model.InventoryItem, error)
	Get(ctx context.Context, id string) (model.InventoryItem, error)
	Create(ctx context.Context, item model.InventoryItem) (model.InventoryItem, error)
	Update(ctx context.Context, item model.InventoryItem) (model.InventoryItem, error)
	UpdatePrice(ctx context.Context, id string, price float64) (model.InventoryItem, error)
	Delete(ctx context.Context, id string) error
}

// SupplierService exposes the supplier collaborator.
type SupplierService interface {
	List(ctx context.Context) ([]model.Supplier, error)
	Get(ctx context.Context, id string) (model.Supplier, error)
	Create(ctx context.Context, s model.Supplier) (model.Supplier, error)
	Update(ctx context.Context, s model.Supplier) (model.Supplier, error)
	Delete(ctx context.Context, id string) error
}

// AnalyticsService exposes the analytics collaborator.
type AnalyticsService interface {
	Summary(ctx context.Context) (model.AnalyticsSummary, error)
}
