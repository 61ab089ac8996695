// This file contains data access for the movie catalog.  Movies are owned
// by the owner account that created them: mutation queries are scoped by
// created_by so that one owner cannot edit another owner's entries.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/iliyamo/movie-review-api/internal/model"
)

// MovieRepo manages persistence for movies.
type MovieRepo struct{ DB *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{DB: db} }

const movieColumns = "id,title,description,release_year,poster_url,genres,created_by,created_at,updated_at"

// scanMovie reads one movie row.  The genres column holds a JSON array and
// may be NULL for rows created before the column existed.
func scanMovie(row interface{ Scan(...any) error }) (model.Movie, error) {
	var (
		m      model.Movie
		desc   sql.NullString
		genres sql.NullString
	)
	err := row.Scan(&m.ID, &m.Title, &desc, &m.ReleaseYear, &m.PosterURL, &genres, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return model.Movie{}, err
	}
	m.Description = desc.String
	m.Genres = []string{}
	if genres.Valid && genres.String != "" {
		if err := json.Unmarshal([]byte(genres.String), &m.Genres); err != nil {
			return model.Movie{}, err
		}
	}
	return m, nil
}

// Create inserts a movie and re-reads the row so DB defaults (timestamps)
// are populated on the struct.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	genres, err := json.Marshal(m.Genres)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO movies (title, description, release_year, poster_url, genres, created_by) VALUES (?,?,?,?,?,?)",
		m.Title, m.Description, m.ReleaseYear, m.PosterURL, string(genres), m.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*m = created
	return nil
}

// GetByID fetches a movie by id, mapping sql.ErrNoRows to ErrMovieNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (model.Movie, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+movieColumns+" FROM movies WHERE id=? LIMIT 1", id)
	m, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Movie{}, ErrMovieNotFound
	}
	return m, err
}

// ListAll returns every movie, newest first.
func (r *MovieRepo) ListAll(ctx context.Context) ([]model.Movie, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+movieColumns+" FROM movies ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Update writes all mutable columns of a movie that belongs to ownerID.
// The handler merges partial request fields into the loaded struct first.
// ErrMovieNotFound is returned when no owned row matched.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie, ownerID uint64) error {
	genres, err := json.Marshal(m.Genres)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE movies SET title=?, description=?, release_year=?, poster_url=?, genres=? WHERE id=? AND created_by=?",
		m.Title, m.Description, m.ReleaseYear, m.PosterURL, string(genres), m.ID, ownerID)
	if err != nil {
		return err
	}
	// RowsAffected is 0 both for a missing row and for a no-op update, so
	// re-read instead of checking the count; the reload also refreshes
	// updated_at for the response.
	_ = res
	updated, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*m = updated
	return nil
}

// DeleteByIDAndOwner removes a movie owned by ownerID.  ErrMovieNotFound is
// returned when nothing was deleted.
func (r *MovieRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM movies WHERE id=? AND created_by=?", id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMovieNotFound
	}
	return nil
}
