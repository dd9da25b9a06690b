package http

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Jiommy31313/jimmyyy/internal/service"
)

// SellHandler covers the selling page: the cart and the checkout.
type SellHandler struct {
	carts   *service.CartService
	catalog *service.StockService
}

func NewSellHandler(carts *service.CartService, catalog *service.StockService) *SellHandler {
	return &SellHandler{
		carts:   carts,
		catalog: catalog,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CheckoutRequestDTO struct {
	CashReceived decimal.Decimal `json:"cash_received"`
}

func (h *SellHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())

	cart := h.carts.Get(session.Token)
	respondJSON(w, http.StatusOK, cart)
}

// AddItem is the scan action: look the product up and put it in the cart.
// Scanning the same product again increments the line's quantity.
func (h *SellHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1 // a scan without a quantity means one unit
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	cart, err := h.carts.Add(session.Token, product, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, cart)
}

func (h *SellHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())

	h.carts.Clear(session.Token)
	respondJSON(w, http.StatusOK, h.carts.Get(session.Token))
}

func (h *SellHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.CashReceived.IsNegative() {
		respondError(w, http.StatusBadRequest, "invalid_request", "cash_received must not be negative")
		return
	}

	result, err := h.carts.Checkout(r.Context(), session.Token, req.CashReceived)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
