package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-api/internal/handler"
	"github.com/iliyamo/movie-review-api/internal/middleware"
	"github.com/iliyamo/movie-review-api/internal/repository"
)

// RegisterReviews registers the review endpoints.  Creating a review
// requires authentication only; any role may review.  Editing and
// deleting go through the ReviewOwner middleware, which loads the target
// review (404 when absent, before any identity comparison) and authorizes
// the author or an owner-role account in one step.
func RegisterReviews(e *echo.Echo, r *handler.ReviewHandler, reviews *repository.ReviewRepo, jwtSecret string, cache echo.MiddlewareFunc) {
	e.POST("/api/:movieId/reviews", r.Create, middleware.JWTAuth(jwtSecret))
	e.GET("/api/:movieId/reviews", r.ListByMovie, cache)

	g := e.Group(
		"/api/reviews",
		middleware.JWTAuth(jwtSecret),
		middleware.ReviewOwner(reviews),
	)
	g.PUT("/:id", r.Update)
	g.DELETE("/:id", r.Delete)
}
