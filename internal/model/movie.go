package model

import "time"

// Movie mirrors a row of the `movies` table.  Genres is an ordered list;
// the repository stores it as a JSON-encoded TEXT column.  CreatedBy is the
// id of the owner account that created the movie and is immutable after
// creation.
type Movie struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ReleaseYear int       `json:"releaseYear"`
	PosterURL   string    `json:"posterUrl"`
	Genres      []string  `json:"genres"`
	CreatedBy   uint64    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
