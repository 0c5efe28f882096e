package models

// Group represents a set of users who share expenses.
// Membership is many-to-many: a user can belong to any number of groups.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Goa Trip").
	Name string

	// Description is an optional longer description.
	Description string

	// CreatedByID is the user who created the group. The creator is always
	// a member and cannot be removed.
	CreatedByID string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}
