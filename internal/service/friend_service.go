package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/splitease/splitease/internal/models"
	"github.com/splitease/splitease/internal/storage"
)

// FriendService manages friend requests and the friends list.
type FriendService struct {
	store storage.Store
}

// NewFriendService creates a new FriendService with the given storage backend.
func NewFriendService(store storage.Store) *FriendService {
	return &FriendService{store: store}
}

// resolveFriend finds the target user of a request by ID or email.
func (s *FriendService) resolveFriend(ctx context.Context, req *SendFriendRequestRequest) (*models.User, error) {
	switch {
	case req.FriendID != "":
		return s.store.GetUserByID(ctx, req.FriendID)
	case req.FriendEmail != "":
		return s.store.GetUserByEmail(ctx, req.FriendEmail)
	default:
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("friend_id or friend_email required"))
	}
}

// toFriendEntry shapes a friendship from the caller's point of view: User is
// always the other person on the edge.
func (s *FriendService) toFriendEntry(ctx context.Context, callerID string, friend *models.Friend) (FriendEntry, error) {
	otherID := friend.FriendID
	if otherID == callerID {
		otherID = friend.UserID
	}
	other, err := s.store.GetUserByID(ctx, otherID)
	if err != nil {
		return FriendEntry{}, err
	}
	return FriendEntry{
		ID:        friend.ID,
		User:      userRef(other),
		Status:    friend.Status,
		CreatedAt: friend.CreatedAt,
	}, nil
}

// SendFriendRequest creates a pending friendship edge toward another user,
// addressed by ID or email. Duplicate edges in either direction are rejected.
func (s *FriendService) SendFriendRequest(ctx context.Context, req *connect.Request[SendFriendRequestRequest]) (*connect.Response[FriendResponse], error) {
	userID, err := authedUserID(ctx)
	if err != nil {
		return nil, err
	}

	target, err := s.resolveFriend(ctx, req.Msg)
	if err != nil {
		return nil, asConnectError(err)
	}
	if target.ID == userID {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("cannot send a friend request to yourself"))
	}

	existing, err := s.store.FindFriendship(ctx, userID, target.ID)
	if err == nil {
		return nil, connect.NewError(connect.CodeAlreadyExists,
			fmt.Errorf("friendship already %s", existing.Status))
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, asConnectError(err)
	}

	friend := &models.Friend{
		UserID:   userID,
		FriendID: target.ID,
		Status:   models.FriendPending,
	}
	if err := s.store.CreateFriend(ctx, friend); err != nil {
		slog.Error("SendFriendRequest failed", "user_id", userID, "error", err)
		return nil, asConnectError(err)
	}

	slog.Info("Friend request sent", "request_id", friend.ID, "from", userID, "to", target.ID)
	return connect.NewResponse(&FriendResponse{Friend: FriendEntry{
		ID:        friend.ID,
		User:      userRef(target),
		Status:    friend.Status,
		CreatedAt: friend.CreatedAt,
	}}), nil
}

// pendingRequestFor loads a request and checks the caller is its receiver and
// it is still pending.
func (s *FriendService) pendingRequestFor(ctx context.Context, userID, requestID string) (*models.Friend, error) {
	friend, err := s.store.GetFriend(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if friend.FriendID != userID {
		return nil, fmt.Errorf("only the receiver can act on a friend request: %w", ErrForbidden)
	}
	if friend.Status != models.FriendPending {
		return nil, connect.NewError(connect.CodeFailedPrecondition,
			fmt.Errorf("friend request is not pending"))
	}
	return friend, nil
}

// AcceptFriendRequest marks a pending request as accepted. Only the receiver
// may accept.
func (s *FriendService) AcceptFriendRequest(ctx context.Context, req *connect.Request[FriendRequestID]) (*connect.Response[FriendResponse], error) {
	userID, err := authedUserID(ctx)
	if err != nil {
		return nil, err
	}

	friend, err := s.pendingRequestFor(ctx, userID, req.Msg.RequestID)
	if err != nil {
		return nil, asConnectError(err)
	}
	if err := s.store.UpdateFriendStatus(ctx, friend.ID, models.FriendAccepted); err != nil {
		slog.Error("AcceptFriendRequest failed", "request_id", friend.ID, "error", err)
		return nil, asConnectError(err)
	}
	friend.Status = models.FriendAccepted

	entry, err := s.toFriendEntry(ctx, userID, friend)
	if err != nil {
		return nil, asConnectError(err)
	}
	slog.Info("Friend request accepted", "request_id", friend.ID)
	return connect.NewResponse(&FriendResponse{Friend: entry}), nil
}

// RejectFriendRequest removes a pending request. Only the receiver may reject.
func (s *FriendService) RejectFriendRequest(ctx context.Context, req *connect.Request[FriendRequestID]) (*connect.Response[Empty], error) {
	userID, err := authedUserID(ctx)
	if err != nil {
		return nil, err
	}

	friend, err := s.pendingRequestFor(ctx, userID, req.Msg.RequestID)
	if err != nil {
		return nil, asConnectError(err)
	}
	if err := s.store.DeleteFriend(ctx, friend.ID); err != nil {
		slog.Error("RejectFriendRequest failed", "request_id", friend.ID, "error", err)
		return nil, asConnectError(err)
	}

	slog.Info("Friend request rejected", "request_id", friend.ID)
	return connect.NewResponse(&Empty{}), nil
}

// RemoveFriend deletes the friendship between the caller and another user,
// whichever direction the original request went.
func (s *FriendService) RemoveFriend(ctx context.Context, req *connect.Request[RemoveFriendRequest]) (*connect.Response[Empty], error) {
	userID, err := authedUserID(ctx)
	if err != nil {
		return nil, err
	}

	friend, err := s.store.FindFriendship(ctx, userID, req.Msg.FriendID)
	if err != nil {
		return nil, asConnectError(err)
	}
	if err := s.store.DeleteFriend(ctx, friend.ID); err != nil {
		slog.Error("RemoveFriend failed", "friendship_id", friend.ID, "error", err)
		return nil, asConnectError(err)
	}

	slog.Info("Friend removed", "friendship_id", friend.ID)
	return connect.NewResponse(&Empty{}), nil
}

func (s *FriendService) listEntries(ctx context.Context, userID string, friends []*models.Friend) ([]FriendEntry, error) {
	entries := make([]FriendEntry, len(friends))
	for i, friend := range friends {
		entry, err := s.toFriendEntry(ctx, userID, friend)
		if err != nil {
			return nil, err
		}
		entries[i] = entry
	}
	return entries, nil
}

// ListFriends retrieves the caller's accepted friendships.
func (s *FriendService) ListFriends(ctx context.Context, req *connect.Request[ListFriendsRequest]) (*connect.Response[ListFriendsResponse], error) {
	userID, err := authedUserID(ctx)
	if err != nil {
		return nil, err
	}

	friends, err := s.store.ListFriendsByUser(ctx, userID)
	if err != nil {
		slog.Error("ListFriends failed", "user_id", userID, "error", err)
		return nil, asConnectError(err)
	}
	entries, err := s.listEntries(ctx, userID, friends)
	if err != nil {
		return nil, asConnectError(err)
	}
	return connect.NewResponse(&ListFriendsResponse{Friends: entries}), nil
}

// ListPendingRequests retrieves pending requests awaiting the caller's answer.
func (s *FriendService) ListPendingRequests(ctx context.Context, req *connect.Request[ListFriendsRequest]) (*connect.Response[ListFriendsResponse], error) {
	userID, err := authedUserID(ctx)
	if err != nil {
		return nil, err
	}

	friends, err := s.store.ListPendingRequests(ctx, userID)
	if err != nil {
		slog.Error("ListPendingRequests failed", "user_id", userID, "error", err)
		return nil, asConnectError(err)
	}
	entries, err := s.listEntries(ctx, userID, friends)
	if err != nil {
		return nil, asConnectError(err)
	}
	return connect.NewResponse(&ListFriendsResponse{Friends: entries}), nil
}

// ListSentRequests retrieves pending requests the caller has sent.
func (s *FriendService) ListSentRequests(ctx context.Context, req *connect.Request[ListFriendsRequest]) (*connect.Response[ListFriendsResponse], error) {
	userID, err := authedUserID(ctx)
	if err != nil {
		return nil, err
	}

	friends, err := s.store.ListSentRequests(ctx, userID)
	if err != nil {
		slog.Error("ListSentRequests failed", "user_id", userID, "error", err)
		return nil, asConnectError(err)
	}
	entries, err := s.listEntries(ctx, userID, friends)
	if err != nil {
		return nil, asConnectError(err)
	}
	return connect.NewResponse(&ListFriendsResponse{Friends: entries}), nil
}
