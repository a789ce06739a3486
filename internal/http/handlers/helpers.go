package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"vendorconnect/internal/apperr"
	"vendorconnect/internal/domain"
	mw "vendorconnect/internal/http/middleware"
	"vendorconnect/internal/logx"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func reqID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return "-"
}

func writeJSON(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logger.Error("json encode failed",
			logx.String("request_id", reqID(r.Context())),
			logx.Err(err),
		)
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func writeError(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, msg string) {
	fields := []logx.Field{
		logx.String("request_id", reqID(r.Context())),
		logx.Int("status", status),
		logx.String("msg", msg),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("http error", fields...)
	} else {
		logger.Debug("http error", fields...)
	}
	writeJSON(logger, w, r, status, errResponse{Error: msg})
}

// writeServiceError maps a service error onto the HTTP status table.
func writeServiceError(logger logx.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeError(logger, w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrForbidden):
		writeError(logger, w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, apperr.ErrInvalidArgument),
		errors.Is(err, apperr.ErrNotJoinable),
		errors.Is(err, apperr.ErrCapacityExceeded),
		errors.Is(err, apperr.ErrParticipantLimitReached),
		errors.Is(err, apperr.ErrAlreadyJoined),
		errors.Is(err, apperr.ErrAlreadyCancelled),
		errors.Is(err, apperr.ErrInvalidTransition):
		writeError(logger, w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("request timed out", logx.String("request_id", reqID(r.Context())), logx.Err(err))
		writeError(logger, w, r, http.StatusServiceUnavailable, "request timed out")
	default:
		logger.Error("request failed", logx.String("request_id", reqID(r.Context())), logx.Err(err))
		writeError(logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

const (
	bodyLimit = 1 << 20
)

// decodeJSON reads a single JSON document into dst and runs its validate tags.
func decodeJSON[T any](logger logx.Logger, w http.ResponseWriter, r *http.Request, dst *T) bool {
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(logger, w, r, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		writeError(logger, w, r, http.StatusBadRequest, "invalid json: trailing data")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(logger, w, r, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid input"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Field()+" failed "+fe.Tag())
	}
	return "invalid input: " + strings.Join(msgs, ", ")
}

func idFromURL(r *http.Request, name string) (int64, error) {
	idStr := chi.URLParam(r, name)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// actorFrom returns the authenticated actor. The router mounts auth in front of
// every handler that calls it.
func actorFrom(logger logx.Logger, w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	a, ok := mw.ActorFromContext(r.Context())
	if !ok {
		writeError(logger, w, r, http.StatusUnauthorized, "unauthorized")
	}
	return a, ok
}

type queryError string

func (e queryError) Error() string { return string(e) }

func queryFloat(r *http.Request, name string) (*float64, error) {
	s := strings.TrimSpace(r.URL.Query().Get(name))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, queryError("invalid " + name)
	}
	return &v, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	s := strings.TrimSpace(r.URL.Query().Get(name))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, queryError("invalid " + name)
	}
	return v, nil
}

// queryPage reads 1-based page and limit parameters.
func queryPage(r *http.Request) (domain.Page, error) {
	page, err := queryInt(r, "page")
	if err != nil {
		return domain.Page{}, err
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		return domain.Page{}, err
	}
	p := domain.Page{Limit: limit}.Normalize()
	if page > 1 {
		if page-1 > math.MaxInt/p.Limit {
			return domain.Page{}, queryError("invalid page")
		}
		p.Offset = (page - 1) * p.Limit
	}
	return p, nil
}

// queryLocation reads a required latitude/longitude pair.
func queryLocation(r *http.Request, latName, lonName string) (domain.Location, error) {
	lat, err := queryFloat(r, latName)
	if err != nil {
		return domain.Location{}, err
	}
	lon, err := queryFloat(r, lonName)
	if err != nil {
		return domain.Location{}, err
	}
	if lat == nil || lon == nil {
		return domain.Location{}, queryError(latName + " and " + lonName + " are required")
	}
	return domain.Location{Latitude: *lat, Longitude: *lon}, nil
}

func queryDate(r *http.Request, name string) (*time.Time, error) {
	s := strings.TrimSpace(r.URL.Query().Get(name))
	if s == "" {
		return nil, nil
	}
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return &d, nil
	}
	d, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, queryError("invalid " + name)
	}
	return &d, nil
}
