package httpapi

import (
	"net/http"

	"github.com/memoryengine/backend/internal/server/services"
)

func (h *Handler) handleListPages(w http.ResponseWriter, r *http.Request) {
	var parentID *string
	if v := r.URL.Query().Get("parent_id"); v != "" {
		parentID = &v
	}

	forest, err := h.pages.ListTrees(r.Context(), currentUser(r.Context()).ID, parentID)
	if err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(r.Context(), h.log, w, http.StatusOK, toForestResponse(forest))
}

func (h *Handler) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	var req createPageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	page, err := h.pages.Create(r.Context(), currentUser(r.Context()).ID, req.Title, req.Content, req.ParentID)
	if err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(r.Context(), h.log, w, http.StatusCreated, toPageResponse(page))
}

func (h *Handler) handleGetPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.pages.Get(r.Context(), currentUser(r.Context()).ID, r.PathValue("id"))
	if err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(r.Context(), h.log, w, http.StatusOK, toPageResponse(page))
}

func (h *Handler) handleGetPageChildren(w http.ResponseWriter, r *http.Request) {
	children, err := h.pages.GetChildren(r.Context(), currentUser(r.Context()).ID, r.PathValue("id"))
	if err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	out := make([]pageResponse, 0, len(children))
	for _, p := range children {
		out = append(out, toPageResponse(p))
	}
	writeJSON(r.Context(), h.log, w, http.StatusOK, out)
}

func (h *Handler) handleUpdatePage(w http.ResponseWriter, r *http.Request) {
	var req updatePageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	page, err := h.pages.Update(r.Context(), currentUser(r.Context()).ID, r.PathValue("id"), services.PageUpdate{
		Title:      req.titleUpdate(),
		SetContent: req.Content.Set,
		Content:    req.Content.Value,
		SetParent:  req.ParentID.Set,
		ParentID:   req.ParentID.Value,
	})
	if err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(r.Context(), h.log, w, http.StatusOK, toPageResponse(page))
}

func (h *Handler) handleDeletePage(w http.ResponseWriter, r *http.Request) {
	if err := h.pages.Delete(r.Context(), currentUser(r.Context()).ID, r.PathValue("id")); err != nil {
		writeError(r.Context(), h.log, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
