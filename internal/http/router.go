package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"account-service/internal/domain/account"
	"account-service/internal/metrics"
	jwtpkg "account-service/internal/platform/jwt"
	"account-service/internal/worker"
)

type Handler struct {
	accountSvc *account.Service
	jwtMgr     *jwtpkg.Manager
	events     chan<- worker.AccountEvent
	db         *sql.DB
}

func NewRouter(
	accountSvc *account.Service,
	jwtMgr *jwtpkg.Manager,
	events chan<- worker.AccountEvent,
	db *sql.DB,
) http.Handler {
	metrics.Register()

	h := &Handler{
		accountSvc: accountSvc,
		jwtMgr:     jwtMgr,
		events:     events,
		db:         db,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(RequestLogger)
	r.Use(CORSMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", h.handleReady)
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users/register", h.handleRegister)
		r.Post("/users/login", h.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(jwtMgr, accountSvc))

			r.Get("/users", h.handleListUsers)
			r.Patch("/users/status", h.handleUpdateStatus)
			r.Delete("/users", h.handleDeleteUsers)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// emit hands an event to the audit worker without ever blocking the request.
func (h *Handler) emit(ev worker.AccountEvent) {
	if h.events == nil {
		return
	}
	select {
	case h.events <- ev:
	default:
	}
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not ready",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
