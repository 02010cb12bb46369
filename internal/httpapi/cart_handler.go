package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/veldt/go_storefront/internal/cart"
)

type CartHandler struct {
	catalog cart.ProductCatalog
}

func NewCartHandler(catalog cart.ProductCatalog) *CartHandler {
	return &CartHandler{catalog: catalog}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"productId"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	respondJSON(w, http.StatusOK, s.Engine.Lines())
}

// AddItem resolves the product and applies a +1 add to the session's cart
// view. The view comes back immediately; storage is reconciled behind it.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be positive")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	view := s.Engine.AddItem(product)
	respondJSON(w, http.StatusCreated, view)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productID must be a positive integer")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity < 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must not be negative")
		return
	}

	if err := s.Engine.UpdateQuantity(r.Context(), productID, req.Quantity); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, s.Engine.Lines())
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productID must be a positive integer")
		return
	}

	s.Engine.RemoveItem(productID)
	respondJSON(w, http.StatusOK, s.Engine.Lines())
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	s.Engine.ClearRemote()
	s.Engine.ClearLocal()
	respondJSON(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}
