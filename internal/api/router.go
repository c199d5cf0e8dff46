package api

import (
	"log/slog"
	"net/http"
	"time"

	"codequiz/internal/api/handler"
	"codequiz/internal/api/middleware"
	"codequiz/internal/api/view"
	"codequiz/internal/app/service"
	"codequiz/internal/common/security"
	"codequiz/internal/platform/session"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	catalogService *service.CatalogService,
	evaluationService *service.EvaluationService,
	revoker session.TokenRevoker,
	renderer *view.Renderer,
	cookieSecure bool,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies the token from the access_token cookie and puts claims in
	// context; rejection happens in the Authenticator on protected routes.
	r.Use(jwtauth.Verify(security.TokenAuth, middleware.TokenFromSessionCookie))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handler.NewAuthHandler(authService, renderer, cookieSecure, logger)
	taskHandler := handler.NewTaskHandler(catalogService, evaluationService, renderer, logger)
	accountHandler := handler.NewAccountHandler(authService)

	// Public routes: browsing and the auth forms.
	authHandler.RegisterRoutes(r)
	taskHandler.RegisterRoutes(r)

	// Protected routes: submissions and the dashboard.
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.Authenticator(revoker, logger))
		taskHandler.RegisterProtectedRoutes(protected)
		accountHandler.RegisterRoutes(protected)
	})

	return r
}
