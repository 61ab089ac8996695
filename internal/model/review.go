package model

import "time"

// Review mirrors a row of the `reviews` table.  The movie/author JSON keys
// carry the referenced ids; clients needing the author's display name use
// the per-movie listing which returns ReviewWithAuthor.
// Invariant: at most one review per (movie, author) pair, enforced by a
// compound unique key in the reviews table.
type Review struct {
	ID        uint64    `json:"id"`
	MovieID   uint64    `json:"movie"`
	AuthorID  uint64    `json:"author"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReviewAuthor is the resolved identity attached to listed reviews.
type ReviewAuthor struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ReviewWithAuthor is a review joined with its author's public identity,
// returned by the public per-movie listing.
type ReviewWithAuthor struct {
	ID        uint64       `json:"id"`
	MovieID   uint64       `json:"movie"`
	Author    ReviewAuthor `json:"author"`
	Rating    int          `json:"rating"`
	Text      string       `json:"text"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}
