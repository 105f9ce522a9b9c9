package api

import (
	"encoding/json"
	"net/http"
	"time"

	"account-service/internal/platform/apperr"
	"account-service/internal/worker"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	RegistrationTime time.Time `json:"registration_time"`
}

// @Summary     Register a new user
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request  body      registerRequest  true  "New user"
// @Success     201      {object}  registerResponse
// @Failure     400      {object}  map[string]string  "empty password"
// @Failure     500      {object}  map[string]string  "registration failed"
// @Router      /api/v1/users/register [post]
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	u, err := h.accountSvc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		errorResponse(w, err)
		return
	}

	h.emit(worker.AccountEvent{Type: worker.EventRegistered, UserIDs: []int64{u.ID}})

	writeJSON(w, http.StatusCreated, registerResponse{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		RegistrationTime: u.RegistrationTime,
	})
}

// @Summary     Login with email and password
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request  body      loginRequest  true  "Credentials"
// @Success     200      {object}  map[string]any  "token, userId, name"
// @Failure     401      {object}  map[string]string  "invalid credentials"
// @Failure     403      {object}  map[string]string  "account blocked"
// @Failure     500      {object}  map[string]string  "server error"
// @Router      /api/v1/users/login [post]
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	u, err := h.accountSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		errorResponse(w, err)
		return
	}

	token, err := h.jwtMgr.Generate(u.ID, u.Name)
	if err != nil {
		errorResponse(w, err)
		return
	}

	h.emit(worker.AccountEvent{Type: worker.EventLogin, UserIDs: []int64{u.ID}, ActorID: u.ID})

	writeJSON(w, http.StatusOK, map[string]any{
		"token":  token,
		"userId": u.ID,
		"name":   u.Name,
	})
}
