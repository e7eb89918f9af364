package httpapi

import (
	"net/http"

	"github.com/memoryengine/backend/internal/server/services"
)

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	user, pair, err := h.users.Register(r.Context(), req.Email, req.Password, req.Name, req.Username)
	if err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	h.log.Info(r.Context(), "user registered", "user_id", user.ID, "role", user.Role)
	writeJSON(r.Context(), h.log, w, http.StatusCreated, toAuthResponse(user, pair))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	user, pair, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(r.Context(), h.log, w, http.StatusOK, toAuthResponse(user, pair))
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	access, expiresIn, err := h.users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(r.Context(), h.log, w, http.StatusOK, accessTokenResponse{
		AccessToken: access,
		TokenType:   "bearer",
		ExpiresIn:   expiresIn,
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), h.log, w, http.StatusOK, toUserResponse(currentUser(r.Context())))
}

func (h *Handler) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), currentUser(r.Context()).ID, services.ProfileUpdate{
		Name:     req.Name,
		Username: req.Username,
	})
	if err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(r.Context(), h.log, w, http.StatusOK, toUserResponse(user))
}
