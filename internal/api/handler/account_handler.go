package handler

import (
	"net/http"

	"codequiz/internal/api/middleware"
	"codequiz/internal/app/service"
	"codequiz/internal/common"

	"github.com/go-chi/chi/v5"
)

type AccountHandler struct {
	authService *service.AuthService
}

func NewAccountHandler(authService *service.AuthService) *AccountHandler {
	return &AccountHandler{authService: authService}
}

func (h *AccountHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
}

// dashboard returns the session's identity as JSON. Auth failures get a bare
// 401 from the middleware, not a login redirect: this endpoint serves
// programmatic callers.
func (h *AccountHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	user, err := h.authService.CurrentUser(r.Context(), username)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Could not validate credentials")
		return
	}

	common.RespondWithJSON(w, http.StatusOK, map[string]string{
		"username": user.Username,
		"email":    user.Email,
	})
}
