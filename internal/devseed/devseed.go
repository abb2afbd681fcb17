// Package devseed provides in-memory implementations of the inventory,
// supplier, and analytics collaborators, pre-populated with demo data. The
// real collaborators live in separate services; this package stands in for
// them in local development and demo deployments so the API surface is fully
// navigable without external dependencies.
package devseed

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smartsupplypro/inventory-api/internal/domain/model"
	"github.com/smartsupplypro/inventory-api/internal/ports"
)

// ErrNotFound is returned for lookups of unknown IDs.
var ErrNotFound = errors.New("not found")

const lowStockThreshold = 10

// Ensure compile-time conformance to the collaborator ports.
var (
	_ ports.InventoryService = (*Catalog)(nil)
	_ ports.SupplierService  = supplierView{}
	_ ports.AnalyticsService = (*Catalog)(nil)
)

// Catalog is a mutex-guarded in-memory catalog of inventory items and
// suppliers. A single Catalog serves all three collaborator ports.
type Catalog struct {
	mu        sync.RWMutex
	items     map[string]model.InventoryItem
	suppliers map[string]model.Supplier
}

// NewCatalog returns a Catalog seeded with demo suppliers and items.
func NewCatalog() *Catalog {
	c := &Catalog{
		items:     make(map[string]model.InventoryItem),
		suppliers: make(map[string]model.Supplier),
	}
	c.seed()
	return c
}

func (c *Catalog) seed() {
	now := time.Now().UTC()

	suppliers := []model.Supplier{
		{ID: uuid.New().String(), Name: "Acme Industrial", ContactName: "Jo Fields", Email: "jo@acme-industrial.example", CreatedAt: now},
		{ID: uuid.New().String(), Name: "Northwind Traders", ContactName: "Sam Ortiz", Email: "sam@northwind.example", CreatedAt: now},
	}
	for _, s := range suppliers {
		c.suppliers[s.ID] = s
	}

	items := []model.InventoryItem{
		{Name: "Steel Bolt M8", SupplierID: suppliers[0].ID, Quantity: 420, Price: 0.12},
		{Name: "Copper Wire 2mm", SupplierID: suppliers[0].ID, Quantity: 35, Price: 4.50},
		{Name: "Bearing 608ZZ", SupplierID: suppliers[1].ID, Quantity: 8, Price: 1.85},
		{Name: "Hex Nut M8", SupplierID: suppliers[1].ID, Quantity: 900, Price: 0.05},
	}
	for _, item := range items {
		item.ID = uuid.New().String()
		item.CreatedAt = now
		item.UpdatedAt = now
		c.items[item.ID] = item
	}
}

// List returns all inventory items.
func (c *Catalog) List(_ context.Context) ([]model.InventoryItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items := make([]model.InventoryItem, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, item)
	}
	return items, nil
}

// Get returns one inventory item by ID.
func (c *Catalog) Get(_ context.Context, id string) (model.InventoryItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	if !ok {
		return model.InventoryItem{}, ErrNotFound
	}
	return item, nil
}

// Create inserts a new inventory item.
func (c *Catalog) Create(_ context.Context, item model.InventoryItem) (model.InventoryItem, error) {
	if item.Name == "" {
		return model.InventoryItem{}, errors.New("item name is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	item.ID = uuid.New().String()
	item.CreatedAt = time.Now().UTC()
	item.UpdatedAt = item.CreatedAt
	c.items[item.ID] = item
	return item, nil
}

// Update replaces an existing inventory item.
func (c *Catalog) Update(_ context.Context, item model.InventoryItem) (model.InventoryItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	existing, ok := c.items[item.ID]
	if !ok {
		return model.InventoryItem{}, ErrNotFound
	}
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = time.Now().UTC()
	c.items[item.ID] = item
	return item, nil
}

// UpdatePrice sets a new price on an existing item.
func (c *Catalog) UpdatePrice(_ context.Context, id string, price float64) (model.InventoryItem, error) {
	if price < 0 {
		return model.InventoryItem{}, errors.New("price must not be negative")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[id]
	if !ok {
		return model.InventoryItem{}, ErrNotFound
	}
	item.Price = price
	item.UpdatedAt = time.Now().UTC()
	c.items[id] = item
	return item, nil
}

// Delete removes an inventory item.
func (c *Catalog) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return ErrNotFound
	}
	delete(c.items, id)
	return nil
}

// Suppliers returns the catalog viewed as a SupplierService. The two List
// signatures collide on Catalog itself, so the supplier port is served
// through a view type.
//
//nolint:ireturn // the port is the contract here
func (c *Catalog) Suppliers() ports.SupplierService {
	return supplierView{c}
}

type supplierView struct {
	c *Catalog
}

func (v supplierView) List(_ context.Context) ([]model.Supplier, error) {
	v.c.mu.RLock()
	defer v.c.mu.RUnlock()
	suppliers := make([]model.Supplier, 0, len(v.c.suppliers))
	for _, s := range v.c.suppliers {
		suppliers = append(suppliers, s)
	}
	return suppliers, nil
}

func (v supplierView) Get(_ context.Context, id string) (model.Supplier, error) {
	v.c.mu.RLock()
	defer v.c.mu.RUnlock()
	s, ok := v.c.suppliers[id]
	if !ok {
		return model.Supplier{}, ErrNotFound
	}
	return s, nil
}

func (v supplierView) Create(_ context.Context, s model.Supplier) (model.Supplier, error) {
	if s.Name == "" {
		return model.Supplier{}, errors.New("supplier name is required")
	}

	v.c.mu.Lock()
	defer v.c.mu.Unlock()
	s.ID = uuid.New().String()
	s.CreatedAt = time.Now().UTC()
	v.c.suppliers[s.ID] = s
	return s, nil
}

func (v supplierView) Update(_ context.Context, s model.Supplier) (model.Supplier, error) {
	v.c.mu.Lock()
	defer v.c.mu.Unlock()
	existing, ok := v.c.suppliers[s.ID]
	if !ok {
		return model.Supplier{}, ErrNotFound
	}
	s.CreatedAt = existing.CreatedAt
	v.c.suppliers[s.ID] = s
	return s, nil
}

func (v supplierView) Delete(_ context.Context, id string) error {
	v.c.mu.Lock()
	defer v.c.mu.Unlock()
	if _, ok := v.c.suppliers[id]; !ok {
		return ErrNotFound
	}
	delete(v.c.suppliers, id)
	return nil
}

// Summary computes the dashboard aggregate over the current catalog.
func (c *Catalog) Summary(_ context.Context) (model.AnalyticsSummary, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var summary model.AnalyticsSummary
	summary.TotalItems = len(c.items)
	summary.SupplierCount = len(c.suppliers)
	for _, item := range c.items {
		summary.TotalQuantity += item.Quantity
		summary.TotalValue += float64(item.Quantity) * item.Price
		if item.Quantity < lowStockThreshold {
			summary.LowStockCount++
		}
	}
	return summary, nil
}
