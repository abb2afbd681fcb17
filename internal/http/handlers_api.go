package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/smartsupplypro/inventory-api/internal/domain/model"
	"github.com/smartsupplypro/inventory-api/internal/ports"
)

// InventoryHandlers routes inventory API calls to the collaborating service.
type InventoryHandlers struct {
	Svc ports.InventoryService
}

// List handles GET /api/inventory.
func (h *InventoryHandlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.List(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

// Get handles GET /api/inventory/{id}.
func (h *InventoryHandlers) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

// Create handles POST /api/inventory.
func (h *InventoryHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var item model.InventoryItem
	if !DecodeJSON(w, r, &item) {
		return
	}
	created, err := h.Svc.Create(r.Context(), item)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "create_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/inventory/{id}.
func (h *InventoryHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var item model.InventoryItem
	if !DecodeJSON(w, r, &item) {
		return
	}
	item.ID = r.PathValue("id")
	updated, err := h.Svc.Update(r.Context(), item)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "update_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

// UpdatePrice handles PATCH /api/inventory/{id}/price.
func (h *InventoryHandlers) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Price float64 `json:"price"`
	}
	if !DecodeJSON(w, r, &body) {
		return
	}
	updated, err := h.Svc.UpdatePrice(r.Context(), r.PathValue("id"), body.Price)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "update_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/inventory/{id}.
func (h *InventoryHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SupplierHandlers routes supplier API calls to the collaborating service.
type SupplierHandlers struct {
	Svc ports.SupplierService
}

// List handles GET /api/suppliers.
func (h *SupplierHandlers) List(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.Svc.List(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, suppliers)
}

// Get handles GET /api/suppliers/{id}.
func (h *SupplierHandlers) Get(w http.ResponseWriter, r *http.Request) {
	supplier, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, supplier)
}

// Create handles POST /api/suppliers.
func (h *SupplierHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var supplier model.Supplier
	if !DecodeJSON(w, r, &supplier) {
		return
	}
	created, err := h.Svc.Create(r.Context(), supplier)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "create_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/suppliers/{id}.
func (h *SupplierHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var supplier model.Supplier
	if !DecodeJSON(w, r, &supplier) {
		return
	}
	supplier.ID = r.PathValue("id")
	updated, err := h.Svc.Update(r.Context(), supplier)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "update_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/suppliers/{id}.
func (h *SupplierHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AnalyticsHandlers serves the dashboard summary.
type AnalyticsHandlers struct {
	Svc ports.AnalyticsService
}

// Summary handles GET /api/analytics/summary.
func (h *AnalyticsHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Svc.Summary(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "summary_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

// AdminHandlers serves admin-only endpoints. Routing to these paths is gated
// by the authorization rule table, so no extra role check happens here.
type AdminHandlers struct {
	UserCount func(ctx context.Context) (int64, error)
}

// Ping handles GET /api/admin/ping.
func (h *AdminHandlers) Ping(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	if h.UserCount == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "stats_unavailable",
			Err:     errors.New("user count unavailable"),
		})
		return
	}
	count, err := h.UserCount(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "stats_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int64{"registered_users": count})
}
