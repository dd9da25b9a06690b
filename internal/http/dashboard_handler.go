package http

import (
	"net/http"

	"github.com/Jiommy31313/jimmyyy/internal/analytics"
)

// DashboardHandler serves the owner dashboard figures.
type DashboardHandler struct {
	analytics *analytics.Service
}

func NewDashboardHandler(analyticsService *analytics.Service) *DashboardHandler {
	return &DashboardHandler{analytics: analyticsService}
}

func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.analytics.GetDashboard(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

func (h *DashboardHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.analytics.LowStockProducts(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *DashboardHandler) NewProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.analytics.NewProducts(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}
