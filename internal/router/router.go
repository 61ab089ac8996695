package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // the Echo web framework handles routing

	"github.com/iliyamo/movie-review-api/internal/handler"    // handlers implement the business logic
	"github.com/iliyamo/movie-review-api/internal/middleware" // middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that require no authentication and no
// repositories.  Currently it exposes only a health check, used by load
// balancers and monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Register, login
// and logout are open; /api/auth/me requires a valid access token.  The
// middleware chain is fixed at registration time and never reordered.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Logout is stateless (no revocation list); it does not require a
	// token so that clients with an expired token can still "log out".
	g.POST("/logout", a.Logout)
	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
}
