package http

import (
	"net/http"

	"github.com/akopyan/override-keeper/internal/logger"
	"github.com/akopyan/override-keeper/internal/utils"
	"github.com/akopyan/override-keeper/models"
)

// adminOnly rejects requests whose authenticated role is not admin.
//
// It must be mounted after the auth middleware: the role is read from the
// request context where auth stored it. A missing role means the middleware
// chain is miswired and is treated the same as an insufficient role.
//
// Rejections use HTTP 403 Forbidden: the caller is authenticated, just not
// allowed to manage override codes.
func (h *Handler) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		role, ok := utils.GetRoleFromContext(r.Context())
		if !ok || role != models.RoleAdmin {
			userID, _ := utils.GetUserIDFromContext(r.Context())
			log.Warn().Int64("userID", userID).Str("role", role).Msg("admin role required")
			utils.WriteJSONError(w, "admin role required", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
