package httpapi

import (
	"net/http"

	"github.com/memoryengine/backend/internal/server/models"
)

func (h *Handler) handleSharePage(w http.ResponseWriter, r *http.Request) {
	var req sharePageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	if req.PermissionLevel == "" {
		req.PermissionLevel = string(models.PermissionViewOnly)
	}
	level, err := models.ParsePermissionLevel(req.PermissionLevel)
	if err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	share, err := h.sharing.Share(r.Context(), r.PathValue("id"), currentUser(r.Context()).ID, req.SharedWithUserID, level)
	if err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(r.Context(), h.log, w, http.StatusCreated, toShareResponse(share, ""))
}

func (h *Handler) handleRevokeShare(w http.ResponseWriter, r *http.Request) {
	err := h.sharing.Revoke(r.Context(), r.PathValue("id"), currentUser(r.Context()).ID, r.PathValue("userID"))
	if err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListShares(w http.ResponseWriter, r *http.Request) {
	shares, err := h.sharing.ListForPage(r.Context(), r.PathValue("id"), currentUser(r.Context()).ID)
	if err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	out := make([]shareResponse, 0, len(shares))
	for _, s := range shares {
		out = append(out, toShareResponse(&s.PageShare, s.SharedWithEmail))
	}
	writeJSON(r.Context(), h.log, w, http.StatusOK, out)
}
