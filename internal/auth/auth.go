package auth

import (
	"golang.org/x/time/rate"

	"warden/internal/logging"
	"warden/internal/metrics"
	"warden/internal/store"
)

// Rejection reasons returned to the host
const (
	ReasonMissingIdentifier = "missing identifier"
	ReasonNotWhitelisted    = "not whitelisted"
)

// Decision is the outcome of a connection authorization check. The host
// translates it into its own accept/defer/kick protocol.
type Decision struct {
	Allowed bool
	Reason  string
}

// String renders the decision in the wire form "authorize" or
// "reject: <reason>".
func (d Decision) String() string {
	if d.Allowed {
		return "authorize"
	}
	return "reject: " + d.Reason
}

// Authorizer gates connection attempts against the whitelist store
type Authorizer struct {
	store     *store.Store
	logger    *logging.Logger
	metrics   *metrics.Collector
	rejectLog *rate.Limiter
}

// Dependencies contains everything required to create an Authorizer
type Dependencies struct {
	Store   *store.Store
	Logger  *logging.Logger
	Metrics *metrics.Collector

	// RejectLogPerSecond throttles rejection log lines so join spam
	// cannot flood the log. Decisions themselves are never throttled.
	// Zero disables throttling.
	RejectLogPerSecond float64
	RejectLogBurst     int
}

// New creates an Authorizer
func New(deps Dependencies) *Authorizer {
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}
	var limiter *rate.Limiter
	if deps.RejectLogPerSecond > 0 {
		burst := deps.RejectLogBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(deps.RejectLogPerSecond), burst)
	}
	return &Authorizer{
		store:     deps.Store,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
		rejectLog: limiter,
	}
}

// Authorize decides whether a connecting identity may proceed. An empty
// identifier is always the missing-identifier rejection, never
// "not whitelisted".
func (a *Authorizer) Authorize(id string) Decision {
	if id == "" {
		return a.reject(id, ReasonMissingIdentifier)
	}

	if a.store.IsAuthorized(id) {
		a.metrics.RecordDecision("authorize", "")
		a.logger.Debug("Connection authorized", logging.String("id", id))
		return Decision{Allowed: true}
	}

	return a.reject(id, ReasonNotWhitelisted)
}

func (a *Authorizer) reject(id, reason string) Decision {
	a.metrics.RecordDecision("reject", reason)
	if a.rejectLog == nil || a.rejectLog.Allow() {
		a.logger.Warn("Connection rejected",
			logging.String("id", id),
			logging.String("reason", reason))
	}
	return Decision{Allowed: false, Reason: reason}
}
