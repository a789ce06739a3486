package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"vendorconnect/internal/apperr"
)

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewPublishRetriesTotal returns a Prometheus counter for the number of retry attempts performed by event publishers
func NewPublishRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "event_publish_retries_total",
		Help: "Total number of retry attempts performed by event publishers",
	})
}

// Participation counts join and cancel outcomes per aggregate kind.
type Participation struct {
	vec *prometheus.CounterVec
}

// NewParticipation returns an unregistered participation counter.
func NewParticipation() *Participation {
	return &Participation{vec: prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "participation_outcomes_total",
		Help: "Total number of participation attempts by aggregate and outcome",
	}, []string{"aggregate", "outcome"})}
}

// Inc records one outcome. A nil receiver is a no-op.
func (p *Participation) Inc(aggregate, outcome string) {
	if p == nil {
		return
	}
	p.vec.WithLabelValues(aggregate, outcome).Inc()
}

// Collector exposes the underlying vector for registration.
func (p *Participation) Collector() prometheus.Collector { return p.vec }

// Outcome maps a participation error to a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperr.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, apperr.ErrParticipantLimitReached):
		return "participant_limit_reached"
	case errors.Is(err, apperr.ErrAlreadyJoined):
		return "already_joined"
	case errors.Is(err, apperr.ErrAlreadyCancelled):
		return "already_cancelled"
	case errors.Is(err, apperr.ErrNotJoinable):
		return "not_joinable"
	case errors.Is(err, apperr.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, apperr.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperr.ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}
