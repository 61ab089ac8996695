// Package queue defines message payloads exchanged over the message broker.
package queue

// ReviewPostedEvent is published when a review is successfully created.
// It carries enough information for downstream consumers to log or notify
// without querying the primary database.
type ReviewPostedEvent struct {
	ReviewID   uint64 `json:"review_id"`
	MovieID    uint64 `json:"movie_id"`
	MovieTitle string `json:"movie_title"`
	AuthorID   uint64 `json:"author_id"`
	Rating     int    `json:"rating"`
	PostedAt   string `json:"posted_at"`
}
