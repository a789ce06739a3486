package handlers

import (
	"net/http"

	"vendorconnect/internal/domain"
	"vendorconnect/internal/logx"
)

// DeliveryHandler serves group order delivery tracking.
type DeliveryHandler struct {
	logger logx.Logger
	uc     deliveryUsecase
}

// NewDeliveryHandler wires a deliveryUsecase into HTTP handlers.
func NewDeliveryHandler(logger logx.Logger, uc deliveryUsecase) *DeliveryHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &DeliveryHandler{logger: logger, uc: uc}
}

// Get handles GET /deliveries/{id}.
func (h *DeliveryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	d, err := h.uc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, deliveryFromDomain(*d))
}

// UpdateStatus handles PATCH /deliveries/{id}/status.
func (h *DeliveryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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

	d, err := h.uc.UpdateStatus(r.Context(), actor, id, domain.DeliveryStatus(req.Status))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, deliveryFromDomain(*d))
}
