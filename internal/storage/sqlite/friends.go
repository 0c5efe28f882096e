package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/splitease/splitease/internal/models"
	"github.com/splitease/splitease/internal/storage"
)

// CreateFriend persists a new friendship edge.
func (s *SQLiteStore) CreateFriend(ctx context.Context, friend *models.Friend) error {
	if friend.ID == "" {
		friend.ID = uuid.New().String()
	}
	if friend.CreatedAt == 0 {
		friend.CreatedAt = time.Now().Unix()
	}

	query := qb.Insert("friends").
		Columns("id", "user_id", "friend_id", "status", "created_at").
		Values(friend.ID, friend.UserID, friend.FriendID, friend.Status, friend.CreatedAt)

	if _, err := query.RunWith(s.db).ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to create friend: %w", err)
	}
	return nil
}

// GetFriend retrieves a friendship by ID.
func (s *SQLiteStore) GetFriend(ctx context.Context, friendshipID string) (*models.Friend, error) {
	query := qb.Select("id", "user_id", "friend_id", "status", "created_at").
		From("friends").
		Where(sq.Eq{"id": friendshipID})
	return scanFriendRow(query.RunWith(s.db).QueryRowContext(ctx))
}

// FindFriendship retrieves the edge between two users in either direction.
func (s *SQLiteStore) FindFriendship(ctx context.Context, userID, otherID string) (*models.Friend, error) {
	query := qb.Select("id", "user_id", "friend_id", "status", "created_at").
		From("friends").
		Where(sq.Or{
			sq.Eq{"user_id": userID, "friend_id": otherID},
			sq.Eq{"user_id": otherID, "friend_id": userID},
		})
	return scanFriendRow(query.RunWith(s.db).QueryRowContext(ctx))
}

func scanFriendRow(row sq.RowScanner) (*models.Friend, error) {
	friend := &models.Friend{}
	err := row.Scan(&friend.ID, &friend.UserID, &friend.FriendID, &friend.Status, &friend.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("friendship %w", storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}
	return friend, nil
}

// UpdateFriendStatus sets the status of a friendship.
func (s *SQLiteStore) UpdateFriendStatus(ctx context.Context, friendshipID, status string) error {
	query := qb.Update("friends").
		Set("status", status).
		Where(sq.Eq{"id": friendshipID})

	result, err := query.RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to update friend status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("friendship %w", storage.ErrNotFound)
	}
	return nil
}

// DeleteFriend removes a friendship edge.
func (s *SQLiteStore) DeleteFriend(ctx context.Context, friendshipID string) error {
	query := qb.Delete("friends").Where(sq.Eq{"id": friendshipID})

	result, err := query.RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete friend: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deletion: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("friendship %w", storage.ErrNotFound)
	}
	return nil
}

// ListFriendsByUser retrieves accepted friendships touching the user, in
// either direction.
func (s *SQLiteStore) ListFriendsByUser(ctx context.Context, userID string) ([]*models.Friend, error) {
	query := qb.Select("id", "user_id", "friend_id", "status", "created_at").
		From("friends").
		Where(sq.And{
			sq.Eq{"status": models.FriendAccepted},
			sq.Or{sq.Eq{"user_id": userID}, sq.Eq{"friend_id": userID}},
		}).
		OrderBy("created_at DESC")
	return s.listFriends(ctx, query)
}

// ListPendingRequests retrieves pending requests sent TO the user.
func (s *SQLiteStore) ListPendingRequests(ctx context.Context, userID string) ([]*models.Friend, error) {
	query := qb.Select("id", "user_id", "friend_id", "status", "created_at").
		From("friends").
		Where(sq.Eq{"friend_id": userID, "status": models.FriendPending}).
		OrderBy("created_at DESC")
	return s.listFriends(ctx, query)
}

// ListSentRequests retrieves pending requests sent BY the user.
func (s *SQLiteStore) ListSentRequests(ctx context.Context, userID string) ([]*models.Friend, error) {
	query := qb.Select("id", "user_id", "friend_id", "status", "created_at").
		From("friends").
		Where(sq.Eq{"user_id": userID, "status": models.FriendPending}).
		OrderBy("created_at DESC")
	return s.listFriends(ctx, query)
}

func (s *SQLiteStore) listFriends(ctx context.Context, query sq.SelectBuilder) ([]*models.Friend, error) {
	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	var friends []*models.Friend
	for rows.Next() {
		friend := &models.Friend{}
		if err := rows.Scan(&friend.ID, &friend.UserID, &friend.FriendID, &friend.Status, &friend.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, friend)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friends: %w", err)
	}
	return friends, nil
}
