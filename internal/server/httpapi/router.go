// Package httpapi is the HTTP/JSON boundary: routing, authentication
// middleware, request/response DTOs, and the mapping from service errors
// to status codes.
package httpapi

import (
	"net/http"

	"github.com/memoryengine/backend/internal/logging"
	"github.com/memoryengine/backend/internal/server/services"
)

// Handler bundles the services behind the HTTP routes.
type Handler struct {
	log     logging.Logger
	users   *services.UserService
	pages   *services.PageService
	sharing *services.SharingService
	cards   *services.FlashcardService
}

func NewHandler(log logging.Logger, users *services.UserService, pages *services.PageService, sharing *services.SharingService, cards *services.FlashcardService) *Handler {
	return &Handler{log: log, users: users, pages: pages, sharing: sharing, cards: cards}
}

// Routes builds the API router. corsOrigins is the comma-separated allow
// list from config.
func (h *Handler) Routes(corsOrigins string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.handleHealth)

	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.HandleFunc("POST /api/auth/refresh", h.handleRefresh)
	mux.HandleFunc("GET /api/auth/me", h.authenticated(h.handleMe))
	mux.HandleFunc("PATCH /api/auth/me", h.authenticated(h.handleUpdateMe))

	mux.HandleFunc("GET /api/admin/users", h.adminOnly(h.handleAdminListUsers))
	mux.HandleFunc("POST /api/admin/users", h.adminOnly(h.handleAdminCreateUser))
	mux.HandleFunc("DELETE /api/admin/users/{id}", h.adminOnly(h.handleAdminDeleteUser))

	mux.HandleFunc("GET /api/pages", h.authenticated(h.handleListPages))
	mux.HandleFunc("POST /api/pages", h.authenticated(h.handleCreatePage))
	mux.HandleFunc("GET /api/pages/{id}", h.authenticated(h.handleGetPage))
	mux.HandleFunc("PUT /api/pages/{id}", h.authenticated(h.handleUpdatePage))
	mux.HandleFunc("DELETE /api/pages/{id}", h.authenticated(h.handleDeletePage))
	mux.HandleFunc("GET /api/pages/{id}/children", h.authenticated(h.handleGetPageChildren))

	mux.HandleFunc("POST /api/pages/{id}/share", h.authenticated(h.handleSharePage))
	mux.HandleFunc("DELETE /api/pages/{id}/share/{userID}", h.authenticated(h.handleRevokeShare))
	mux.HandleFunc("GET /api/pages/{id}/shares", h.authenticated(h.handleListShares))

	mux.HandleFunc("POST /api/pages/{id}/flashcards", h.authenticated(h.handleCreateFlashcard))
	mux.HandleFunc("GET /api/pages/{id}/flashcards", h.authenticated(h.handleListFlashcards))
	mux.HandleFunc("PUT /api/flashcards/{id}", h.authenticated(h.handleUpdateFlashcard))
	mux.HandleFunc("DELETE /api/flashcards/{id}", h.authenticated(h.handleDeleteFlashcard))

	return corsMiddleware(corsOrigins, mux)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), h.log, w, http.StatusOK, map[string]string{"status": "ok"})
}
