package model

import "time"

// Role values stored in users.role.  A role is a coarse capability class:
// owners manage the movie catalog, plain users post reviews.
const (
	RoleUser  = "user"
	RoleOwner = "owner"
)

// User mirrors a row of the `users` table.  PasswordHash is never
// serialized; handlers build explicit response DTOs for the public fields.
type User struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsOwner reports whether the user belongs to the owner capability class.
func (u User) IsOwner() bool { return u.Role == RoleOwner }
