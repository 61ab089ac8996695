package middleware

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/movie-review-api/internal/model"
	"github.com/iliyamo/movie-review-api/internal/repository"
)

const selectReviewByID = "SELECT id,movie_id,author_id,rating,text,created_at,updated_at FROM reviews WHERE id=? LIMIT 1"

func reviewRows(id, movieID, authorID uint64, rating int, text string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "movie_id", "author_id", "rating", "text", "created_at", "updated_at"}).
		AddRow(id, movieID, authorID, rating, text, now, now)
}

func newReviewRepo(t *testing.T) (*repository.ReviewRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.NewReviewRepo(db), mock
}

// serveReviewPut drives PUT /api/reviews/:id through ReviewOwner, with an
// optional identity middleware standing in for JWTAuth.
func serveReviewPut(t *testing.T, identity echo.MiddlewareFunc, repo *repository.ReviewRepo, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	mws := []echo.MiddlewareFunc{}
	if identity != nil {
		mws = append(mws, identity)
	}
	mws = append(mws, ReviewOwner(repo))
	e.PUT("/api/reviews/:id", func(c echo.Context) error {
		rv, ok := c.Get(CtxReview).(*model.Review)
		if !ok {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "missing review in context"})
		}
		return c.JSON(http.StatusOK, rv)
	}, mws...)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, target, nil))
	return rec
}

func TestReviewOwner_MissingReviewIs404BeforeIdentity(t *testing.T) {
	repo, mock := newReviewRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectReviewByID)).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	// No identity middleware at all: the lookup still runs first and a
	// missing review answers 404, not 401.
	rec := serveReviewPut(t, nil, repo, "/api/reviews/99")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewOwner_AuthorAllowed(t *testing.T) {
	repo, mock := newReviewRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectReviewByID)).
		WithArgs(5).
		WillReturnRows(reviewRows(5, 10, 42, 4, "great"))

	rec := serveReviewPut(t, withIdentity(42, "user"), repo, "/api/reviews/5")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rating":4`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewOwner_StrangerForbidden(t *testing.T) {
	repo, mock := newReviewRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectReviewByID)).
		WithArgs(5).
		WillReturnRows(reviewRows(5, 10, 42, 4, "great"))

	rec := serveReviewPut(t, withIdentity(7, "user"), repo, "/api/reviews/5")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewOwner_OwnerRoleAllowed(t *testing.T) {
	repo, mock := newReviewRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectReviewByID)).
		WithArgs(5).
		WillReturnRows(reviewRows(5, 10, 42, 4, "great"))

	rec := serveReviewPut(t, withIdentity(7, "owner"), repo, "/api/reviews/5")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewOwner_ExistsButNoIdentity(t *testing.T) {
	repo, mock := newReviewRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectReviewByID)).
		WithArgs(5).
		WillReturnRows(reviewRows(5, 10, 42, 4, "great"))

	rec := serveReviewPut(t, nil, repo, "/api/reviews/5")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewOwner_NonNumericID(t *testing.T) {
	repo, _ := newReviewRepo(t)

	rec := serveReviewPut(t, withIdentity(42, "user"), repo, "/api/reviews/abc")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
