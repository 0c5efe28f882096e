// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/splitease/splitease/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
// Implementations wrap it with detail; callers match with errors.Is.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface the services depend on.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// Users.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// Groups and membership.
	CreateGroup(ctx context.Context, group *models.Group, memberIDs []string) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error)
	ListGroupMembers(ctx context.Context, groupID string) ([]*models.User, error)
	IsGroupMember(ctx context.Context, groupID, userID string) (bool, error)
	AddGroupMember(ctx context.Context, groupID, userID string) error
	RemoveGroupMember(ctx context.Context, groupID, userID string) error
	CountGroupsByUser(ctx context.Context, userID string) (int, error)

	// Expenses. CreateExpense persists the expense and every share in one
	// transaction so a failure cannot leave an orphaned expense behind.
	// DeleteExpense cascades to the expense's shares.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)
	DeleteExpense(ctx context.Context, expenseID string) error
	ListSharesByUser(ctx context.Context, userID string) ([]models.UserShare, error)

	// Friends.
	CreateFriend(ctx context.Context, friend *models.Friend) error
	GetFriend(ctx context.Context, friendshipID string) (*models.Friend, error)
	FindFriendship(ctx context.Context, userID, otherID string) (*models.Friend, error)
	UpdateFriendStatus(ctx context.Context, friendshipID, status string) error
	DeleteFriend(ctx context.Context, friendshipID string) error
	ListFriendsByUser(ctx context.Context, userID string) ([]*models.Friend, error)
	ListPendingRequests(ctx context.Context, userID string) ([]*models.Friend, error)
	ListSentRequests(ctx context.Context, userID string) ([]*models.Friend, error)

	// Close releases any resources held by the store.
	Close() error
}
