package handler // handler package contains the movie catalog handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-api/internal/model"
	"github.com/iliyamo/movie-review-api/internal/repository"
)

// MovieHandler bundles the catalog repository for movie endpoints.  The
// browse endpoints are public; mutation requires the owner role and is
// scoped to the creating account via the repository's ownership filters.
type MovieHandler struct {
	Movies *repository.MovieRepo
}

func NewMovieHandler(movies *repository.MovieRepo) *MovieHandler {
	if movies == nil {
		panic("nil repository passed to NewMovieHandler")
	}
	return &MovieHandler{Movies: movies}
}

// movieReq binds create and update bodies.  Pointer fields distinguish
// "absent" from zero values so updates keep partial-replacement semantics.
type movieReq struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	ReleaseYear *int      `json:"releaseYear"`
	PosterURL   *string   `json:"posterUrl"`
	Genres      *[]string `json:"genres"`
}

// List handles GET /api/movies.  Public; newest first.
func (h *MovieHandler) List(c echo.Context) error {
	movies, err := h.Movies.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, movies)
}

// Get handles GET /api/movies/:id.  Public.
func (h *MovieHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Movie not found"})
	}
	m, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, m)
}

// Create handles POST /api/movies.  Requires owner role (enforced by route
// middleware); createdBy is always the caller, never taken from the body.
func (h *MovieHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" || req.ReleaseYear == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Title and releaseYear are required"})
	}

	m := model.Movie{
		Title:       strings.TrimSpace(*req.Title),
		ReleaseYear: *req.ReleaseYear,
		Genres:      []string{},
		CreatedBy:   userID,
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.PosterURL != nil {
		m.PosterURL = *req.PosterURL
	}
	if req.Genres != nil {
		m.Genres = *req.Genres
	}

	if err := h.Movies.Create(c.Request().Context(), &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Could not create movie"})
	}
	return c.JSON(http.StatusCreated, m)
}

// Update handles PUT /api/movies/:id.  Fields present in the body replace
// the stored values; absent fields keep their prior value.  The movie must
// exist (404) and belong to the caller (403 otherwise).
func (h *MovieHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Movie not found"})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}

	ctx := c.Request().Context()
	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if m.CreatedBy != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden"})
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Title cannot be empty"})
		}
		m.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.ReleaseYear != nil {
		m.ReleaseYear = *req.ReleaseYear
	}
	if req.PosterURL != nil {
		m.PosterURL = *req.PosterURL
	}
	if req.Genres != nil {
		m.Genres = *req.Genres
	}

	if err := h.Movies.Update(ctx, &m, userID); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Update failed"})
	}
	return c.JSON(http.StatusOK, m)
}

// Delete handles DELETE /api/movies/:id.  Creator-scoped: deleting an id
// that does not resolve to a movie of the caller answers 404 rather than
// succeeding silently.
func (h *MovieHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Movie not found"})
	}

	ctx := c.Request().Context()
	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if m.CreatedBy != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden"})
	}

	if err := h.Movies.DeleteByIDAndOwner(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Deleted"})
}
