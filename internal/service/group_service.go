package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/splitease/splitease/internal/models"
	"github.com/splitease/splitease/internal/storage"
)

// GroupService manages groups and their membership.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// toGroup assembles the full group response, members included.
func (s *GroupService) toGroup(ctx context.Context, group *models.Group) (Group, error) {
	members, err := s.store.ListGroupMembers(ctx, group.ID)
	if err != nil {
		return Group{}, err
	}
	creator, err := s.store.GetUserByID(ctx, group.CreatedByID)
	if err != nil {
		return Group{}, err
	}

	memberRefs := make([]UserRef, len(members))
	for i, m := range members {
		memberRefs[i] = userRef(m)
	}
	return Group{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		CreatedBy:   userRef(creator),
		CreatedAt:   group.CreatedAt,
		Members:     memberRefs,
		MemberCount: len(memberRefs),
	}, nil
}

// CreateGroup creates a group with the caller as creator and first member.
// Every listed member must resolve to an existing user.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[GroupResponse], error) {
	userID, err := authedUserID(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.Name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group name required"))
	}

	memberIDs := []string{userID}
	if len(req.Msg.MemberIDs) > 0 {
		found, err := s.store.GetUsersByIDs(ctx, req.Msg.MemberIDs)
		if err != nil {
			return nil, asConnectError(err)
		}
		for _, id := range req.Msg.MemberIDs {
			if _, ok := found[id]; !ok {
				return nil, connect.NewError(connect.CodeNotFound,
					fmt.Errorf("user %s %w", id, storage.ErrNotFound))
			}
			if id != userID {
				memberIDs = append(memberIDs, id)
			}
		}
	}

	group := &models.Group{
		Name:        req.Msg.Name,
		Description: req.Msg.Description,
		CreatedByID: userID,
	}
	if err := s.store.CreateGroup(ctx, group, memberIDs); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, asConnectError(err)
	}
	slog.Info("Group created", "group_id", group.ID, "members", len(memberIDs))

	resp, err := s.toGroup(ctx, group)
	if err != nil {
		return nil, asConnectError(err)
	}
	return connect.NewResponse(&GroupResponse{Group: resp}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GroupResponse], error) {
	if _, err := authedUserID(ctx); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Warn("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, asConnectError(err)
	}

	resp, err := s.toGroup(ctx, group)
	if err != nil {
		return nil, asConnectError(err)
	}
	return connect.NewResponse(&GroupResponse{Group: resp}), nil
}

// ListGroups retrieves every group the caller belongs to.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	userID, err := authedUserID(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroupsByUser(ctx, userID)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, asConnectError(err)
	}

	out := make([]Group, len(groups))
	for i, group := range groups {
		out[i], err = s.toGroup(ctx, group)
		if err != nil {
			return nil, asConnectError(err)
		}
	}
	return connect.NewResponse(&ListGroupsResponse{Groups: out}), nil
}

// AddMember adds a user to a group. Any existing member may add people.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[AddMemberRequest]) (*connect.Response[Empty], error) {
	userID, err := authedUserID(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, asConnectError(err)
	}
	isMember, err := s.store.IsGroupMember(ctx, group.ID, userID)
	if err != nil {
		return nil, asConnectError(err)
	}
	if !isMember {
		return nil, asConnectError(ErrNotAMember)
	}

	if _, err := s.store.GetUserByID(ctx, req.Msg.UserID); err != nil {
		return nil, asConnectError(err)
	}
	if err := s.store.AddGroupMember(ctx, group.ID, req.Msg.UserID); err != nil {
		slog.Error("AddMember failed", "group_id", group.ID, "error", err)
		return nil, asConnectError(err)
	}

	slog.Info("Member added", "group_id", group.ID, "user_id", req.Msg.UserID)
	return connect.NewResponse(&Empty{}), nil
}

// RemoveMember removes a user from a group. Only the group creator may remove
// members, and the creator cannot be removed.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[RemoveMemberRequest]) (*connect.Response[Empty], error) {
	userID, err := authedUserID(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, asConnectError(err)
	}
	if group.CreatedByID != userID {
		return nil, asConnectError(fmt.Errorf("only the group creator can remove members: %w", ErrForbidden))
	}
	if req.Msg.UserID == group.CreatedByID {
		return nil, asConnectError(fmt.Errorf("cannot remove the group creator: %w", ErrForbidden))
	}

	if err := s.store.RemoveGroupMember(ctx, group.ID, req.Msg.UserID); err != nil {
		slog.Warn("RemoveMember failed", "group_id", group.ID, "error", err)
		return nil, asConnectError(err)
	}

	slog.Info("Member removed", "group_id", group.ID, "user_id", req.Msg.UserID)
	return connect.NewResponse(&Empty{}), nil
}
