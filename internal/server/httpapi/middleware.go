package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/memoryengine/backend/internal/common"
	"github.com/memoryengine/backend/internal/server/models"
)

type contextKey int

const userContextKey contextKey = iota

// currentUser returns the authenticated user stored by the auth middleware.
func currentUser(ctx context.Context) *models.User {
	u, _ := ctx.Value(userContextKey).(*models.User)
	return u
}

// authenticated resolves the bearer access token and stores the user in the
// request context. Requests without a valid token get 401.
func (h *Handler) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(r.Context(), h.log, w, fmt.Errorf("%w: missing bearer token", common.ErrorUnauthorized))
			return
		}

		user, err := h.users.ResolveAccessToken(r.Context(), token)
		if err != nil {
			writeError(r.Context(), h.log, w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// adminOnly additionally requires the admin role.
func (h *Handler) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return h.authenticated(func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r.Context()).Role != models.RoleAdmin {
			writeError(r.Context(), h.log, w, fmt.Errorf("%w: admin access required", common.ErrorForbidden))
			return
		}
		next(w, r)
	})
}

// corsMiddleware reflects the configured origins and answers preflight
// requests. origins is the comma-separated allow list from config.
func corsMiddleware(origins string, next http.Handler) http.Handler {
	allowed := map[string]bool{}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed[o] = true
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
