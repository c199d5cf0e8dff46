package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"codequiz/internal/api/middleware"
	"codequiz/internal/api/view"
	"codequiz/internal/app/service"
	"codequiz/internal/common"
	"codequiz/internal/common/security"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

type AuthHandler struct {
	authService  *service.AuthService
	renderer     *view.Renderer
	cookieSecure bool
	logger       *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, renderer *view.Renderer, cookieSecure bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		renderer:     renderer,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/login", h.loginForm)
	r.Post("/login", h.login)
	r.Get("/register", h.registerForm)
	r.Post("/register", h.register)
	r.Get("/logout", h.logout)
}

func (h *AuthHandler) loginForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "login.html", map[string]any{
		"Error": r.URL.Query().Get("error"),
	})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		common.RedirectWithMessage(w, r, "/login", "Invalid login credentials")
		return
	}

	resp, err := h.authService.Login(r.Context(), service.LoginRequest{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			// One message for both unknown user and wrong password.
			common.RedirectWithMessage(w, r, "/login", "Invalid login credentials")
			return
		}
		h.logger.Error("login failed", "err", err)
		common.RedirectWithMessage(w, r, "/login", "Database Error")
		return
	}

	h.setSessionCookie(w, resp.Token, resp.ExpiresAt)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) registerForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "register.html", map[string]any{
		"Error": r.URL.Query().Get("error"),
	})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		common.RedirectWithMessage(w, r, "/register", "Invalid registration details")
		return
	}

	err := h.authService.Register(r.Context(), service.RegisterRequest{
		Username:        r.PostFormValue("username"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		PasswordConfirm: r.PostFormValue("password_confirm"),
	})
	switch {
	case err == nil:
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case errors.Is(err, service.ErrPasswordsMismatch):
		common.RedirectWithMessage(w, r, "/register", "Passwords do not match!")
	case errors.Is(err, service.ErrUsernameTaken):
		common.RedirectWithMessage(w, r, "/register", "Username already exists!")
	case errors.Is(err, common.ErrConflict):
		// The unique constraint fired at insert time.
		common.RedirectWithMessage(w, r, "/register", "Username or email already exists")
	case errors.Is(err, common.ErrValidation):
		common.RedirectWithMessage(w, r, "/register", "Invalid registration details")
	default:
		h.logger.Error("registration failed", "err", err)
		common.RedirectWithMessage(w, r, "/register", "Database Error")
	}
}

// logout revokes the session if a valid token came with the request, then
// clears the cookie and redirects unconditionally.
func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	token, claims, err := jwtauth.FromContext(r.Context())
	if err == nil && token != nil {
		jti, jtiErr := security.GetTokenIDFromClaims(claims)
		expiresAt, expErr := security.GetExpiryFromClaims(claims)
		if jtiErr == nil && expErr == nil {
			if err := h.authService.Logout(r.Context(), jti, expiresAt); err != nil {
				h.logger.Error("logout revocation failed", "err", err)
			}
		}
	}

	h.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cookieSecure,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cookieSecure,
	})
}
