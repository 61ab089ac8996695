package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-api/internal/handler"
	"github.com/iliyamo/movie-review-api/internal/middleware"
	"github.com/iliyamo/movie-review-api/internal/model"
)

// RegisterMovies registers the movie catalog endpoints.  Browsing is
// public (and response-cached when Redis is available); mutation requires
// a valid token plus the owner role.  The predicate order per route is
// fixed: JWTAuth then RequireRole then the handler.
func RegisterMovies(e *echo.Echo, m *handler.MovieHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	// Public browse.  Echo prefers static segments over params, so these
	// coexist with the /api/:movieId/reviews routes.
	e.GET("/api/movies", m.List, cache)
	e.GET("/api/movies/:id", m.Get, cache)

	g := e.Group(
		"/api/movies",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOwner),
	)
	g.POST("", m.Create)
	g.PUT("/:id", m.Update)
	g.DELETE("/:id", m.Delete)
}
