package handler_test

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

const selectMovieByID = "SELECT id,title,description,release_year,poster_url,genres,created_by,created_at,updated_at FROM movies WHERE id=? LIMIT 1"

func TestUserRoleCannotMutateMovies(t *testing.T) {
	e, mock := newTestApp(t)
	token := issueToken(t, 42, "user")

	for _, tc := range []struct{ method, target string }{
		{http.MethodPost, "/api/movies"},
		{http.MethodPut, "/api/movies/1"},
		{http.MethodDelete, "/api/movies/1"},
	} {
		rec := doJSON(e, tc.method, tc.target, token, `{"title":"X","releaseYear":2000}`)
		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", tc.method, tc.target)
	}
	// The role predicate rejects before any persistence call.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieMutationRequiresToken(t *testing.T) {
	e, mock := newTestApp(t)

	rec := doJSON(e, http.MethodPost, "/api/movies", "", `{"title":"X","releaseYear":2000}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Register owner Alice, create Inception, list the catalog: the created
// movie comes back with createdBy set to Alice's id.
func TestOwnerCreatesMovieAndListsIt(t *testing.T) {
	e, mock := newTestApp(t)

	mock.ExpectExec(regexp.QuoteMeta(insertUser)).
		WithArgs("Alice", "alice@example.com", sqlmock.AnyArg(), "owner").
		WillReturnResult(sqlmock.NewResult(1, 1))
	rec := doJSON(e, http.MethodPost, "/api/auth/register", "",
		`{"name":"Alice","email":"alice@example.com","password":"s3cret","role":"owner"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	var reg struct {
		AccessToken string `json:"accessToken"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reg))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO movies")).
		WithArgs("Inception", "", 2010, "", "[]", 1).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectMovieByID)).
		WithArgs(7).
		WillReturnRows(movieRows(7, "Inception", 2010, "[]", 1))

	rec = doJSON(e, http.MethodPost, "/api/movies", reg.AccessToken,
		`{"title":"Inception","releaseYear":2010}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC, id DESC")).
		WillReturnRows(movieRows(7, "Inception", 2010, "[]", 1))

	rec = doJSON(e, http.MethodGet, "/api/movies", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var movies []struct {
		ID        uint64 `json:"id"`
		Title     string `json:"title"`
		CreatedBy uint64 `json:"createdBy"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &movies))
	assert.Len(t, movies, 1)
	assert.Equal(t, "Inception", movies[0].Title)
	assert.Equal(t, uint64(1), movies[0].CreatedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMovie_MissingRequiredFields(t *testing.T) {
	e, mock := newTestApp(t)
	token := issueToken(t, 1, "owner")

	for _, body := range []string{`{"releaseYear":2010}`, `{"title":"Inception"}`, `{"title":"  ","releaseYear":2010}`} {
		rec := doJSON(e, http.MethodPost, "/api/movies", token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMovie_NotFound(t *testing.T) {
	e, mock := newTestApp(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectMovieByID)).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rec := doJSON(e, http.MethodGet, "/api/movies/99", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMovie_PartialFields(t *testing.T) {
	e, mock := newTestApp(t)
	token := issueToken(t, 1, "owner")

	mock.ExpectQuery(regexp.QuoteMeta(selectMovieByID)).
		WithArgs(7).
		WillReturnRows(movieRows(7, "Inception", 2010, `["Sci-Fi"]`, 1))
	// Only posterUrl was sent; title, year and genres keep prior values.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE movies SET")).
		WithArgs("Inception", "", 2010, "https://img/inception.jpg", `["Sci-Fi"]`, 7, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectMovieByID)).
		WithArgs(7).
		WillReturnRows(movieRows(7, "Inception", 2010, `["Sci-Fi"]`, 1))

	rec := doJSON(e, http.MethodPut, "/api/movies/7", token,
		`{"posterUrl":"https://img/inception.jpg"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMovie_OtherOwnersMovieForbidden(t *testing.T) {
	e, mock := newTestApp(t)
	token := issueToken(t, 1, "owner")

	// The movie exists but belongs to owner 2.
	mock.ExpectQuery(regexp.QuoteMeta(selectMovieByID)).
		WithArgs(7).
		WillReturnRows(movieRows(7, "Inception", 2010, "[]", 2))

	rec := doJSON(e, http.MethodPut, "/api/movies/7", token, `{"title":"Hijacked"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMovie(t *testing.T) {
	e, mock := newTestApp(t)
	token := issueToken(t, 1, "owner")

	mock.ExpectQuery(regexp.QuoteMeta(selectMovieByID)).
		WithArgs(7).
		WillReturnRows(movieRows(7, "Inception", 2010, "[]", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM movies WHERE id=? AND created_by=?")).
		WithArgs(7, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := doJSON(e, http.MethodDelete, "/api/movies/7", token, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Deleted")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMovie_MissingIs404(t *testing.T) {
	// Pinned decision: deleting an id that does not resolve answers 404
	// rather than succeeding silently.
	e, mock := newTestApp(t)
	token := issueToken(t, 1, "owner")

	mock.ExpectQuery(regexp.QuoteMeta(selectMovieByID)).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rec := doJSON(e, http.MethodDelete, "/api/movies/99", token, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
