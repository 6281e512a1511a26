// Package httpapi is the HTTP layer of the timetrack service.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"timetrack.org/internal/auth"
	"timetrack.org/internal/config"
	"timetrack.org/internal/obs"
	"timetrack.org/internal/tracker"
)

// ReadyProbe reports readiness (pings the database when one is wired).
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API wires routes to handlers and carries the per-route auth policy.
type API struct {
	mux        *http.ServeMux
	auth       *auth.Service
	tracker    *tracker.Service
	readyProbe ReadyProbe
	version    string

	corsOrigins []string
	rateBurst   int
	ratePerSec  int
	maxBody     int64
}

// New constructs the API. Every route declares its own policy: anonymous
// only, authenticated, self-or-admin or admin-only — evaluated before the
// handler runs.
func New(rp ReadyProbe, version string, authSvc *auth.Service, trackerSvc *tracker.Service, cfg config.Config) *API {
	a := &API{
		mux:         http.NewServeMux(),
		auth:        authSvc,
		tracker:     trackerSvc,
		readyProbe:  rp,
		version:     version,
		corsOrigins: cfg.CORSOrigins,
		rateBurst:   cfg.RateBurst,
		ratePerSec:  cfg.RatePerSec,
		maxBody:     cfg.MaxBodyKB * 1024,
	}
	if a.rateBurst <= 0 {
		a.rateBurst = 20
	}
	if a.ratePerSec <= 0 {
		a.ratePerSec = 10
	}
	if a.maxBody <= 0 {
		a.maxBody = 64 * 1024
	}

	// health/ready/metrics
	a.mux.HandleFunc("GET /healthz", a.Healthz)
	a.mux.HandleFunc("GET /readyz", a.Ready)
	a.mux.Handle("GET /metrics", obs.Handler())

	// auth
	a.mux.HandleFunc("POST /api/login", a.anonymousOnly(a.handleLogin))
	a.mux.HandleFunc("GET /api/loginValidate", a.authenticated(a.handleLoginValidate))

	// accounts
	a.mux.HandleFunc("POST /api/users", a.anonymousOnly(a.handleRegister))
	a.mux.HandleFunc("GET /api/users", a.authenticated(a.adminOnly(a.handleListAccounts)))
	a.mux.HandleFunc("GET /api/users/{id}", a.authenticated(a.selfOrAdmin(a.handleGetAccount)))

	// activities
	a.mux.HandleFunc("PUT /api/users/{id}/addActivity", a.authenticated(a.selfOrAdmin(a.handleAddActivity)))
	a.mux.HandleFunc("DELETE /api/users/{id}/removeActivity/{activityId}", a.authenticated(a.selfOrAdmin(a.handleRemoveActivity)))
	a.mux.HandleFunc("PUT /api/users/{id}/activities/{activityId}", a.authenticated(a.selfOrAdmin(a.handleUpdateActivity)))

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the fully wrapped http.Handler for the server.
func (a *API) Handler() http.Handler {
	h := http.Handler(a.mux)
	h = MaxBodyBytes(h, a.maxBody)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = CORS(h, a.corsOrigins)
	h = SecurityHeaders(h)
	h = Logging(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

// --- ops handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "timetrack-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
