package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/veldt/go_storefront/internal/domain"
	"github.com/veldt/go_storefront/internal/repository"
)

type OrderHandler struct {
	orders repository.OrderStore
}

func NewOrderHandler(orders repository.OrderStore) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type SubmitOrderRequestDTO struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// SubmitOrder runs the checkout workflow against the session's current cart
// view. Failures leave the cart untouched and are surfaced for retry.
func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req SubmitOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := s.Checkout.SubmitOrder(r.Context(), domain.ShippingAddress{
		Street:     req.Street,
		City:       req.City,
		Region:     req.Region,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	orders, err := h.orders.ListByAccount(r.Context(), s.AccountID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// LastOrder serves the order-confirmation view: the order this session most
// recently placed.
func (h *OrderHandler) LastOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	order, ok := s.Checkout.LastOrder()
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "no order placed in this session")
		return
	}

	respondJSON(w, http.StatusOK, order)
}
