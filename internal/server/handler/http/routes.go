package http

import (
	"net/http"

	"github.com/dkoval/authkit/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// authentication API. It applies JSON content-type enforcement on
// bodies, request logging, and bearer-token authentication, and mounts
// the login and privilege endpoints under /api.
//
// Routes:
//
//	POST /api/authenticate → authHandler.Authenticate (public)
//	GET  /api/privileges   → privilegesHandler.Privileges (token-protected)
func NewRouter(
	authHandler *AuthHandler,
	privilegesHandler *PrivilegesHandler,
	tokenSecret []byte,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	// Enforce bearer-token authentication
	r.Use(middleware.TokenAuth(tokenSecret))

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		// Public endpoint; only requests with JSON bodies are accepted
		r.With(chiMiddleware.AllowContentType("application/json")).
			Post("/authenticate", authHandler.Authenticate)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Get("/privileges", privilegesHandler.Privileges)
		})
	})

	return r
}
