// Package repository implements data access on top of database/sql.  This
// file defines sentinel error values shared across repositories so that
// handlers can map failures onto HTTP status codes with errors.Is instead
// of inspecting driver errors.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned when registering with an email that is
// already taken.  Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrMovieNotFound indicates that a movie id did not resolve to a row.
var ErrMovieNotFound = errors.New("movie not found")

// ErrReviewNotFound indicates that a review id did not resolve to a row.
var ErrReviewNotFound = errors.New("review not found")

// ErrDuplicateReview is returned when a (movie, author) pair already has a
// review.  The uniqueness lives in a compound unique key, so the error is
// raised both by the pre-check and by the insert itself when two requests
// race.  Handlers translate it into HTTP 400.
var ErrDuplicateReview = errors.New("review already exists for this movie and author")

// isDuplicateKey reports whether err is a MySQL duplicate-key violation
// (error 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
