package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"vendorconnect/internal/domain"
	"vendorconnect/internal/logx"
)

// GroupOrderHandler serves group order endpoints.
type GroupOrderHandler struct {
	logger logx.Logger
	uc     groupOrderUsecase
	nearby nearbyUsecase
}

// NewGroupOrderHandler wires group order and nearby usecases into HTTP handlers.
func NewGroupOrderHandler(logger logx.Logger, uc groupOrderUsecase, nearby nearbyUsecase) *GroupOrderHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &GroupOrderHandler{logger: logger, uc: uc, nearby: nearby}
}

// Nearby handles GET /group-orders/nearby.
func (h *GroupOrderHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	q, err := nearbyQuery(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}
	ms, err := h.nearby.GroupOrders(r.Context(), q)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, nearbyGroupOrdersFromDomain(ms))
}

// MyInitiated handles GET /group-orders/my-initiated.
func (h *GroupOrderHandler) MyInitiated(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(h.logger, w, r)
	if !ok {
		return
	}
	page, err := queryPage(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}
	var status *domain.GroupOrderStatus
	if s := strings.TrimSpace(r.URL.Query().Get("status")); s != "" {
		st := domain.GroupOrderStatus(s)
		status = &st
	}

	list, err := h.uc.ListInitiated(r.Context(), actor, status, page)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, groupOrdersFromDomain(list))
}

// Create handles POST /group-orders.
func (h *GroupOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(h.logger, w, r)
	if !ok {
		return
	}
	var req createGroupOrderRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	g, err := h.uc.Create(r.Context(), actor, req.toDomain())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	w.Header().Set("Location", "/group-orders/"+strconv.FormatInt(g.ID, 10))
	writeJSON(h.logger, w, r, http.StatusCreated, groupOrderFromDomain(*g))
}

// Get handles GET /group-orders/{id}.
func (h *GroupOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	g, err := h.uc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, groupOrderFromDomain(*g))
}

// Join handles POST /group-orders/{id}/join.
func (h *GroupOrderHandler) Join(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(h.logger, w, r)
	if !ok {
		return
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req joinGroupOrderRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	p, err := h.uc.Join(r.Context(), actor, id, req.Amount)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusCreated, groupOrderParticipantFromDomain(p))
}

// CancelParticipation handles DELETE /group-orders/{id}/participants/{pid}.
func (h *GroupOrderHandler) CancelParticipation(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(h.logger, w, r)
	if !ok {
		return
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	pid, err := idFromURL(r, "pid")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid participant id")
		return
	}

	p, err := h.uc.CancelParticipation(r.Context(), actor, id, pid)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, groupOrderParticipantFromDomain(p))
}

// UpdateStatus handles PATCH /group-orders/{id}/status.
func (h *GroupOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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

	g, err := h.uc.TransitionStatus(r.Context(), actor, id, domain.GroupOrderStatus(req.Status))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, groupOrderFromDomain(*g))
}
