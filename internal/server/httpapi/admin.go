package httpapi

import (
	"net/http"

	"github.com/memoryengine/backend/internal/server/models"
)

func (h *Handler) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	writeJSON(r.Context(), h.log, w, http.StatusOK, out)
}

func (h *Handler) handleAdminCreateUser(w http.ResponseWriter, r *http.Request) {
	var req adminCreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	role := models.UserRole(req.Role)
	if req.Role == "" {
		role = models.RoleUser
	}

	user, err := h.users.AdminCreateUser(r.Context(), req.Email, req.Password, req.Name, req.Username, role)
	if err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	h.log.Info(r.Context(), "user created by admin", "user_id", user.ID, "role", user.Role)
	writeJSON(r.Context(), h.log, w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	targetID := r.PathValue("id")

	if err := h.users.DeleteUser(r.Context(), currentUser(r.Context()).ID, targetID); err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	h.log.Info(r.Context(), "user deleted", "user_id", targetID)
	w.WriteHeader(http.StatusNoContent)
}
