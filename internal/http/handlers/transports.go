package handlers

import (
	"net/http"
	"strconv"

	"vendorconnect/internal/domain"
	"vendorconnect/internal/logx"
)

// TransportHandler serves shared transport endpoints.
type TransportHandler struct {
	logger logx.Logger
	uc     transportUsecase
	nearby nearbyUsecase
}

// NewTransportHandler wires transport and nearby usecases into HTTP handlers.
func NewTransportHandler(logger logx.Logger, uc transportUsecase, nearby nearbyUsecase) *TransportHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &TransportHandler{logger: logger, uc: uc, nearby: nearby}
}

// Available handles GET /transports/available.
func (h *TransportHandler) Available(w http.ResponseWriter, r *http.Request) {
	q, err := transportQuery(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}
	ms, err := h.nearby.Transports(r.Context(), q)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, nearbyTransportsFromDomain(ms))
}

func transportQuery(r *http.Request) (domain.TransportQuery, error) {
	src, err := queryLocation(r, "sourceLatitude", "sourceLongitude")
	if err != nil {
		return domain.TransportQuery{}, err
	}
	q := domain.TransportQuery{Source: src}

	destLat, err := queryFloat(r, "destinationLatitude")
	if err != nil {
		return domain.TransportQuery{}, err
	}
	destLon, err := queryFloat(r, "destinationLongitude")
	if err != nil {
		return domain.TransportQuery{}, err
	}
	switch {
	case destLat != nil && destLon != nil:
		q.Destination = &domain.Location{Latitude: *destLat, Longitude: *destLon}
	case destLat != nil || destLon != nil:
		return domain.TransportQuery{}, queryError("destinationLatitude and destinationLongitude must be set together")
	}

	if q.DepartureDate, err = queryDate(r, "departureDate"); err != nil {
		return domain.TransportQuery{}, err
	}
	radius, err := queryFloat(r, "radius")
	if err != nil {
		return domain.TransportQuery{}, err
	}
	q.RadiusKm = radius
	if q.Page, err = queryPage(r); err != nil {
		return domain.TransportQuery{}, err
	}
	return q, nil
}

// MyInitiated handles GET /transports/my-initiated.
func (h *TransportHandler) MyInitiated(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(h.logger, w, r)
	if !ok {
		return
	}
	page, err := queryPage(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}
	list, err := h.uc.ListInitiated(r.Context(), actor, page)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, transportsFromDomain(list))
}

// MyParticipations handles GET /transports/my-participations.
func (h *TransportHandler) MyParticipations(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(h.logger, w, r)
	if !ok {
		return
	}
	page, err := queryPage(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}
	list, err := h.uc.ListParticipations(r.Context(), actor, page)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, transportsFromDomain(list))
}

// Create handles POST /transports.
func (h *TransportHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(h.logger, w, r)
	if !ok {
		return
	}
	var req createTransportRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	t, err := h.uc.Create(r.Context(), actor, req.toDomain())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	w.Header().Set("Location", "/transports/"+strconv.FormatInt(t.ID, 10))
	writeJSON(h.logger, w, r, http.StatusCreated, transportFromDomain(*t))
}

// Get handles GET /transports/{id}.
func (h *TransportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	t, err := h.uc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, transportFromDomain(*t))
}

// Join handles POST /transports/{id}/join.
func (h *TransportHandler) Join(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(h.logger, w, r)
	if !ok {
		return
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req joinTransportRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	p, err := h.uc.Join(r.Context(), actor, id, req.toDomain())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusCreated, transportParticipantFromDomain(p))
}

// UpdateParticipant handles PATCH /transports/{id}/participants/{pid}.
func (h *TransportHandler) UpdateParticipant(w http.ResponseWriter, r *http.Request) {
	actor, id, pid, ok := h.participantParams(w, r)
	if !ok {
		return
	}
	var req participantStatusRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	p, err := h.uc.SetParticipantStatus(r.Context(), actor, id, pid, domain.ParticipationStatus(req.Status))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, transportParticipantFromDomain(p))
}

// CancelParticipation handles DELETE /transports/{id}/participants/{pid}.
func (h *TransportHandler) CancelParticipation(w http.ResponseWriter, r *http.Request) {
	actor, id, pid, ok := h.participantParams(w, r)
	if !ok {
		return
	}
	p, err := h.uc.CancelParticipation(r.Context(), actor, id, pid)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, transportParticipantFromDomain(p))
}

func (h *TransportHandler) participantParams(w http.ResponseWriter, r *http.Request) (domain.Actor, int64, int64, bool) {
	actor, ok := actorFrom(h.logger, w, r)
	if !ok {
		return domain.Actor{}, 0, 0, false
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return domain.Actor{}, 0, 0, false
	}
	pid, err := idFromURL(r, "pid")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid participant id")
		return domain.Actor{}, 0, 0, false
	}
	return actor, id, pid, true
}

// UpdateStatus handles PATCH /transports/{id}/status.
func (h *TransportHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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

	t, err := h.uc.TransitionStatus(r.Context(), actor, id, domain.TransportStatus(req.Status))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, transportFromDomain(*t))
}
