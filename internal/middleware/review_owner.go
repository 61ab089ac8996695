package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-api/internal/model"
	"github.com/iliyamo/movie-review-api/internal/repository"
)

// CtxReview is the context key under which ReviewOwner stores the loaded
// review for the handler.
const CtxReview = "review"

// ReviewOwner returns a middleware that loads the review addressed by the
// :id path parameter and authorizes the mutation in one step.  Lookup runs
// before any identity comparison, so a missing review answers 404 even for
// a caller who would not be allowed to touch it.  Mutation is permitted to
// the review's author and to owner-role accounts; anyone else gets 403.
// On success the review is attached under CtxReview so the handler does not
// load it again.
func ReviewOwner(reviews *repository.ReviewRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := strconv.ParseUint(c.Param("id"), 10, 64)
			if err != nil {
				return c.JSON(http.StatusNotFound, echo.Map{"message": "Review not found"})
			}
			rv, err := reviews.GetByID(c.Request().Context(), id)
			if err != nil {
				if err == repository.ErrReviewNotFound {
					return c.JSON(http.StatusNotFound, echo.Map{"message": "Review not found"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
			}

			userID, ok := c.Get(CtxUserID).(uint64)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
			}
			role, _ := c.Get(CtxRole).(string)
			if rv.AuthorID != userID && role != model.RoleOwner {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden"})
			}

			c.Set(CtxReview, &rv)
			return next(c)
		}
	}
}
