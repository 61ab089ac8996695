// This file contains data access for movie reviews.  A review is owned by
// its author; the one-review-per-(movie, author) invariant is enforced by
// the uq_reviews_movie_author unique key, so concurrent create requests
// cannot slip past the handler's pre-check.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-review-api/internal/model"
)

// ReviewRepo manages persistence for reviews.
type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

const reviewColumns = "id,movie_id,author_id,rating,text,created_at,updated_at"

func scanReview(row interface{ Scan(...any) error }) (model.Review, error) {
	var (
		rv   model.Review
		text sql.NullString
	)
	err := row.Scan(&rv.ID, &rv.MovieID, &rv.AuthorID, &rv.Rating, &text, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		return model.Review{}, err
	}
	rv.Text = text.String
	return rv, nil
}

// Create inserts a review and re-reads the row to populate timestamps.
// A duplicate-key violation maps to ErrDuplicateReview.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reviews (movie_id, author_id, rating, text) VALUES (?,?,?,?)",
		rv.MovieID, rv.AuthorID, rv.Rating, rv.Text)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateReview
		}
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
	*rv = created
	return nil
}

// GetByID fetches a review by id, mapping sql.ErrNoRows to ErrReviewNotFound.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (model.Review, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE id=? LIMIT 1", id)
	rv, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Review{}, ErrReviewNotFound
	}
	return rv, err
}

// ExistsByMovieAndAuthor reports whether the author already reviewed the
// movie.  Used as a pre-check for a friendly error; the unique key remains
// the authority when two requests race.
func (r *ReviewRepo) ExistsByMovieAndAuthor(ctx context.Context, movieID, authorID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM reviews WHERE movie_id=? AND author_id=? LIMIT 1",
		movieID, authorID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Update writes rating and text of a review and re-reads the row.
func (r *ReviewRepo) Update(ctx context.Context, rv *model.Review) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE reviews SET rating=?, text=? WHERE id=?",
		rv.Rating, rv.Text, rv.ID)
	if err != nil {
		return err
	}
	updated, err := r.GetByID(ctx, rv.ID)
	if err != nil {
		return err
	}
	*rv = updated
	return nil
}

// Delete removes a review by id.  ErrReviewNotFound is returned when no row
// matched.
func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM reviews WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// ListByMovie returns a movie's reviews with the author identity resolved
// to id and display name, oldest first.
func (r *ReviewRepo) ListByMovie(ctx context.Context, movieID uint64) ([]model.ReviewWithAuthor, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT r.id, r.movie_id, r.author_id, u.name, r.rating, r.text, r.created_at, r.updated_at
		 FROM reviews r JOIN users u ON u.id = r.author_id
		 WHERE r.movie_id = ? ORDER BY r.created_at ASC, r.id ASC`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ReviewWithAuthor{}
	for rows.Next() {
		var (
			rv   model.ReviewWithAuthor
			text sql.NullString
		)
		if err := rows.Scan(&rv.ID, &rv.MovieID, &rv.Author.ID, &rv.Author.Name, &rv.Rating, &text, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
			return nil, err
		}
		rv.Text = text.String
		out = append(out, rv)
	}
	return out, rows.Err()
}
