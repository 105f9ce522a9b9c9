package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"account-service/internal/domain/account"
	"account-service/internal/metrics"
	"account-service/internal/platform/apperr"
	jwtpkg "account-service/internal/platform/jwt"
)

type ctxKey string

const (
	ctxKeyUserID   ctxKey = "user_id"
	ctxKeyUserName ctxKey = "user_name"
)

var slogLogger = slog.Default()

func SetLogger(l *slog.Logger) {
	if l != nil {
		slogLogger = l
	}
}

// AuthMiddleware validates the bearer token and re-checks the account's live
// status on every request. A structurally valid token is not enough: the user
// must still exist and must not be blocked.
func AuthMiddleware(jm *jwtpkg.Manager, accounts *account.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			parts := strings.SplitN(h, " ", 2)
			if h == "" || len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				metrics.IncAuthRejected("missing_credential")
				errorResponse(w, apperr.BadRequest("missing_token", "valid bearer token is required", nil))
				return
			}

			claims, err := jm.Parse(parts[1])
			if err != nil {
				if errors.Is(err, jwtpkg.ErrExpired) {
					metrics.IncAuthRejected("expired")
					errorResponse(w, apperr.Unauthorized("token_expired", "token has expired, please login again", err))
					return
				}
				metrics.IncAuthRejected("invalid")
				errorResponse(w, apperr.Unauthorized("invalid_token", "invalid token", err))
				return
			}

			u, err := accounts.GetByID(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, account.ErrUserNotFound) {
					metrics.IncAuthRejected("unknown_user")
					errorResponse(w, apperr.Unauthorized("unknown_user", "user not found", err))
					return
				}
				errorResponse(w, err)
				return
			}
			if u.Status == account.StatusBlocked {
				metrics.IncAuthRejected("blocked")
				errorResponse(w, apperr.Forbidden("account_blocked", "this user id has been blocked", nil))
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, ctxKeyUserName, claims.Name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userIDFromCtx(r *http.Request) int64 {
	if v := r.Context().Value(ctxKeyUserID); v != nil {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(rw, r)

		status := rw.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}

		metrics.IncRequest(r.Method, route, status)

		slogLogger.Info("request",
			"method", r.Method,
			"path", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
