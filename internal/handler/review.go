package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-api/internal/middleware"
	"github.com/iliyamo/movie-review-api/internal/model"
	"github.com/iliyamo/movie-review-api/internal/queue"
	"github.com/iliyamo/movie-review-api/internal/repository"
)

// ReviewHandler bundles the repositories for review endpoints.  Events is
// the best-effort publisher fired after a review is created; a nil Events
// disables publishing (tests construct the handler that way).
type ReviewHandler struct {
	Movies  *repository.MovieRepo
	Reviews *repository.ReviewRepo
	Events  func(context.Context, queue.ReviewPostedEvent) error
}

func NewReviewHandler(movies *repository.MovieRepo, reviews *repository.ReviewRepo, events func(context.Context, queue.ReviewPostedEvent) error) *ReviewHandler {
	if movies == nil || reviews == nil {
		panic("nil repository passed to NewReviewHandler")
	}
	return &ReviewHandler{Movies: movies, Reviews: reviews, Events: events}
}

type reviewReq struct {
	Rating *int    `json:"rating"`
	Text   *string `json:"text"`
}

// Create handles POST /api/:movieId/reviews.  Any authenticated user may
// review; the movie must exist and the author must not have reviewed it
// before.  The unique key in the reviews table backs the pre-check, so a
// racing duplicate insert surfaces as the same 400.
func (h *ReviewHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	movieID, err := strconv.ParseUint(c.Param("movieId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Movie not found"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	if req.Rating == nil || *req.Rating < 1 || *req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Rating must be between 1 and 5"})
	}

	ctx := c.Request().Context()
	movie, err := h.Movies.GetByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	exists, err := h.Reviews.ExistsByMovieAndAuthor(ctx, movieID, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if exists {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "You have already reviewed this movie"})
	}

	rv := model.Review{MovieID: movieID, AuthorID: userID, Rating: *req.Rating}
	if req.Text != nil {
		rv.Text = *req.Text
	}
	if err := h.Reviews.Create(ctx, &rv); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "You have already reviewed this movie"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Could not create review"})
	}

	if h.Events != nil {
		// Best effort: a broker outage must not fail the request.
		_ = h.Events(ctx, queue.ReviewPostedEvent{
			ReviewID:   rv.ID,
			MovieID:    movie.ID,
			MovieTitle: movie.Title,
			AuthorID:   userID,
			Rating:     rv.Rating,
			PostedAt:   time.Now().UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusCreated, rv)
}

// ListByMovie handles GET /api/:movieId/reviews.  Public; authors are
// resolved to id and display name.
func (h *ReviewHandler) ListByMovie(c echo.Context) error {
	movieID, err := strconv.ParseUint(c.Param("movieId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Movie not found"})
	}
	reviews, err := h.Reviews.ListByMovie(c.Request().Context(), movieID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, reviews)
}

// Update handles PUT /api/reviews/:id.  The ReviewOwner middleware already
// loaded and authorized the review; rating and text are optional and keep
// their prior value when absent.
func (h *ReviewHandler) Update(c echo.Context) error {
	rv, ok := c.Get(middleware.CtxReview).(*model.Review)
	if !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Rating must be between 1 and 5"})
		}
		rv.Rating = *req.Rating
	}
	if req.Text != nil {
		rv.Text = *req.Text
	}

	if err := h.Reviews.Update(c.Request().Context(), rv); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Update failed"})
	}
	return c.JSON(http.StatusOK, rv)
}

// Delete handles DELETE /api/reviews/:id, guarded by ReviewOwner.
func (h *ReviewHandler) Delete(c echo.Context) error {
	rv, ok := c.Get(middleware.CtxReview).(*model.Review)
	if !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if err := h.Reviews.Delete(c.Request().Context(), rv.ID); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Review deleted"})
}
