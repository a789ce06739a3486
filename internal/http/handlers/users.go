package handlers

import (
	"context"
	"net/http"

	"vendorconnect/internal/domain"
	"vendorconnect/internal/geo"
	"vendorconnect/internal/logx"
	"vendorconnect/internal/service/nearby"
)

// UserHandler serves the current user's profile and user proximity searches.
type UserHandler struct {
	logger logx.Logger
	users  userUsecase
	nearby nearbyUsecase
}

// NewUserHandler wires user and nearby usecases into HTTP handlers.
func NewUserHandler(logger logx.Logger, users userUsecase, nearby nearbyUsecase) *UserHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &UserHandler{logger: logger, users: users, nearby: nearby}
}

// Me handles GET /users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(h.logger, w, r)
	if !ok {
		return
	}
	u, err := h.users.Get(r.Context(), actor.ID)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, userFromDomain(*u))
}

// UpdateLocation handles PUT /users/me/location.
func (h *UserHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(h.logger, w, r)
	if !ok {
		return
	}
	var req updateLocationRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	loc := domain.Location{Latitude: *req.Latitude, Longitude: *req.Longitude}
	u, err := h.users.UpdateLocation(r.Context(), actor, loc, req.Address)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, userFromDomain(*u))
}

// NearbySuppliers handles GET /users/nearby-suppliers.
func (h *UserHandler) NearbySuppliers(w http.ResponseWriter, r *http.Request) {
	h.searchUsers(w, r, h.nearby.Suppliers)
}

// NearbyVendors handles GET /users/nearby-vendors.
func (h *UserHandler) NearbyVendors(w http.ResponseWriter, r *http.Request) {
	h.searchUsers(w, r, h.nearby.Vendors)
}

func (h *UserHandler) searchUsers(
	w http.ResponseWriter,
	r *http.Request,
	search func(ctx context.Context, actor domain.Actor, q nearby.Query) ([]geo.Match[domain.User], error),
) {
	actor, ok := actorFrom(h.logger, w, r)
	if !ok {
		return
	}
	q, err := nearbyQuery(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}
	ms, err := search(r.Context(), actor, q)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, nearbyUsersFromDomain(ms))
}

// nearbyQuery reads latitude, longitude, radius, page and limit.
func nearbyQuery(r *http.Request) (nearby.Query, error) {
	loc, err := queryLocation(r, "latitude", "longitude")
	if err != nil {
		return nearby.Query{}, err
	}
	radius, err := queryFloat(r, "radius")
	if err != nil {
		return nearby.Query{}, err
	}
	page, err := queryPage(r)
	if err != nil {
		return nearby.Query{}, err
	}
	q := nearby.Query{Location: loc, Page: page}
	q.RadiusKm = radius
	return q, nil
}
