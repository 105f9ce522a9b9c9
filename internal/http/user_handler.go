package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"account-service/internal/platform/apperr"
	"account-service/internal/worker"
)

type updateStatusRequest struct {
	UserIDs []int64 `json:"userIds"`
	Status  string  `json:"status"`
}

type deleteUsersRequest struct {
	UserIDs []int64 `json:"userIds"`
}

// @Summary     List users
// @Tags        users
// @Security    BearerAuth
// @Produce     json
// @Success     200  {array}   account.User
// @Failure     401  {object}  map[string]string  "unauthorized"
// @Failure     403  {object}  map[string]string  "blocked"
// @Failure     500  {object}  map[string]string  "server error"
// @Router      /api/v1/users [get]
func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accountSvc.List(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// @Summary     Update status for a set of users
// @Tags        users
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       request  body      updateStatusRequest  true  "User ids and new status"
// @Success     200      {object}  map[string]any  "message, selfBlocked"
// @Failure     400      {object}  map[string]string  "invalid input"
// @Failure     401      {object}  map[string]string  "unauthorized"
// @Failure     403      {object}  map[string]string  "blocked"
// @Failure     500      {object}  map[string]string  "server error"
// @Router      /api/v1/users/status [patch]
func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	actorID := userIDFromCtx(r)
	updated, selfBlocked, err := h.accountSvc.UpdateStatus(r.Context(), actorID, req.UserIDs, req.Status)
	if err != nil {
		errorResponse(w, err)
		return
	}

	h.emit(worker.AccountEvent{Type: worker.EventStatusUpdate, UserIDs: req.UserIDs, ActorID: actorID})

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     fmt.Sprintf("Successfully updated %d users.", updated),
		"selfBlocked": selfBlocked,
	})
}

// @Summary     Delete a set of users
// @Tags        users
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       request  body      deleteUsersRequest  true  "User ids"
// @Success     200      {object}  map[string]any  "message, selfDeleted"
// @Failure     400      {object}  map[string]string  "invalid input"
// @Failure     401      {object}  map[string]string  "unauthorized"
// @Failure     403      {object}  map[string]string  "blocked"
// @Failure     404      {object}  map[string]string  "no users matched"
// @Failure     500      {object}  map[string]string  "server error"
// @Router      /api/v1/users [delete]
func (h *Handler) handleDeleteUsers(w http.ResponseWriter, r *http.Request) {
	var req deleteUsersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	actorID := userIDFromCtx(r)
	deleted, selfDeleted, err := h.accountSvc.Delete(r.Context(), actorID, req.UserIDs)
	if err != nil {
		errorResponse(w, err)
		return
	}

	h.emit(worker.AccountEvent{Type: worker.EventDelete, UserIDs: req.UserIDs, ActorID: actorID})

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     fmt.Sprintf("Successfully deleted %d users.", deleted),
		"selfDeleted": selfDeleted,
	})
}
