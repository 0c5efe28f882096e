package models

// Friendship states.
const (
	FriendPending  = "PENDING"
	FriendAccepted = "ACCEPTED"
)

// Friend represents a friendship edge between two users.
// UserID is the sender of the request, FriendID the receiver; once accepted
// the edge is treated as symmetric.
type Friend struct {
	// ID is the unique identifier for the friendship (UUID format).
	ID string

	// UserID is the user who sent the friend request.
	UserID string

	// FriendID is the user who received the friend request.
	FriendID string

	// Status is FriendPending or FriendAccepted.
	Status string

	// CreatedAt is the Unix timestamp when the request was sent.
	CreatedAt int64
}
