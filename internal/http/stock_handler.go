package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Jiommy31313/jimmyyy/internal/domain"
	"github.com/Jiommy31313/jimmyyy/internal/service"
)

// StockHandler covers the stocking page: product creation, stock receipts
// and the direct record-a-sale action.
type StockHandler struct {
	stock *service.StockService
	sales service.SaleProcessor
}

func NewStockHandler(stock *service.StockService, sales service.SaleProcessor) *StockHandler {
	return &StockHandler{
		stock: stock,
		sales: sales,
	}
}

type CreateProductRequestDTO struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Cost  decimal.Decimal `json:"cost"`
	Stock int             `json:"stock"`
}

type ReceiveStockRequestDTO struct {
	Quantity int `json:"quantity"`
}

type ReceiveStockResponseDTO struct {
	ProductID string `json:"product_id"`
	Stock     int    `json:"stock"`
}

type RecordSaleRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type RecordSaleResponseDTO struct {
	Sale  *domain.SaleRecord `json:"sale"`
	Stock int                `json:"stock"`
}

func (h *StockHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.stock.ListProducts(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *StockHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	product := &domain.Product{
		ID:    req.ID,
		Name:  req.Name,
		Price: req.Price,
		Cost:  req.Cost,
		Stock: req.Stock,
	}
	if err := h.stock.CreateProduct(r.Context(), product); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, product)
}

func (h *StockHandler) ReceiveStock(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")

	var req ReceiveStockRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	newStock, err := h.stock.ReceiveStock(r.Context(), productID, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ReceiveStockResponseDTO{
		ProductID: productID,
		Stock:     newStock,
	})
}

// RecordSale sells directly without a cart, the way the stocking page's
// record-sale button does.
func (h *StockHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var req RecordSaleRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	sale, newStock, err := h.sales.ProcessSale(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, RecordSaleResponseDTO{
		Sale:  sale,
		Stock: newStock,
	})
}
