package handlers

import (
	"net/http"
	"strings"

	"vendorconnect/internal/domain"
	"vendorconnect/internal/logx"
)

// OrderHandler serves vendor orders.
type OrderHandler struct {
	logger logx.Logger
	uc     orderUsecase
}

// NewOrderHandler wires an orderUsecase into HTTP handlers.
func NewOrderHandler(logger logx.Logger, uc orderUsecase) *OrderHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &OrderHandler{logger: logger, uc: uc}
}

// List handles GET /orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(h.logger, w, r)
	if !ok {
		return
	}
	var f domain.OrderFilter
	if s := strings.TrimSpace(r.URL.Query().Get("status")); s != "" {
		status := domain.OrderStatus(s)
		f.Status = &status
	}
	page, err := queryPage(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.uc.List(r.Context(), actor, f, page)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, ordersFromDomain(list))
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(h.logger, w, r)
	if !ok {
		return
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	o, err := h.uc.Get(r.Context(), actor, id)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderFromDomain(*o))
}

// Create handles POST /orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(h.logger, w, r)
	if !ok {
		return
	}
	var req createOrderRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	o, err := h.uc.Create(r.Context(), actor, req.toDomain())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusCreated, orderFromDomain(*o))
}

// UpdateStatus handles PATCH /orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(h.logger, w, r)
	if !ok {
		return
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req statusRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	o, err := h.uc.UpdateStatus(r.Context(), actor, id, domain.OrderStatus(req.Status))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderFromDomain(*o))
}
