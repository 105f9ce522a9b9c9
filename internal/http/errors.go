package api

import (
	"database/sql"
	"errors"
	"net/http"

	"account-service/internal/domain/account"
	"account-service/internal/platform/apperr"
)

func errorResponse(w http.ResponseWriter, err error) {
	appErr := mapError(err)
	if appErr.StatusCode() >= http.StatusInternalServerError {
		// Internal detail stays in the log, never in the response body.
		slogLogger.Error("request failed", "error", appErr.Unwrap())
	}
	writeJSON(w, appErr.StatusCode(), map[string]string{
		"error":   appErr.Code,
		"message": appErr.Message,
	})
}

func mapError(err error) *apperr.AppError {
	if err == nil {
		return apperr.Internal("internal_error", "internal server error", nil)
	}

	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, account.ErrEmptyPassword):
		return apperr.BadRequest("invalid_input", "password cannot be empty", err)
	case errors.Is(err, account.ErrEmptyIDList):
		return apperr.BadRequest("invalid_input", "user ids must be a non-empty list", err)
	case errors.Is(err, account.ErrInvalidStatus):
		return apperr.BadRequest("invalid_input", "status must be 'active' or 'blocked'", err)
	case errors.Is(err, account.ErrInvalidCredentials):
		return apperr.Unauthorized("invalid_credentials", "invalid credentials", err)
	case errors.Is(err, account.ErrAccountBlocked):
		return apperr.Forbidden("account_blocked", "your account has been blocked", err)
	case errors.Is(err, account.ErrNoUsersMatched):
		return apperr.NotFound("not_found", "no matching users found to delete", err)
	case errors.Is(err, account.ErrRegistrationFailed):
		// Duplicate email and genuine store failures collapse on purpose.
		return apperr.Internal("registration_failed", "registration failed", err)
	case errors.Is(err, account.ErrUserNotFound):
		return apperr.NotFound("not_found", "user not found", err)
	case errors.Is(err, sql.ErrNoRows):
		return apperr.NotFound("not_found", "resource not found", err)
	default:
		return apperr.Internal("internal_error", http.StatusText(http.StatusInternalServerError), err)
	}
}
