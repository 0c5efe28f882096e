package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"connectrpc.com/connect"

	"github.com/splitease/splitease/internal/ledger"
	"github.com/splitease/splitease/internal/models"
	"github.com/splitease/splitease/internal/storage"
)

// ExpenseService manages expenses, their shares, and group-scoped balances.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// refLookup builds UserRefs for a set of user IDs.
func (s *ExpenseService) refLookup(ctx context.Context, ids []string) (map[string]UserRef, error) {
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	refs := make(map[string]UserRef, len(users))
	for id, user := range users {
		refs[id] = userRef(user)
	}
	return refs, nil
}

func (s *ExpenseService) toExpense(ctx context.Context, expense *models.Expense, groupName string) (Expense, error) {
	ids := []string{expense.PaidByID}
	for _, share := range expense.Shares {
		ids = append(ids, share.UserID)
	}
	refs, err := s.refLookup(ctx, ids)
	if err != nil {
		return Expense{}, err
	}

	shares := make([]ShareOutput, len(expense.Shares))
	for i, share := range expense.Shares {
		shares[i] = ShareOutput{User: refs[share.UserID], Amount: ledger.Round2(share.ShareAmount)}
	}
	return Expense{
		ID:          expense.ID,
		Description: expense.Description,
		Amount:      ledger.Round2(expense.Amount),
		PaidBy:      refs[expense.PaidByID],
		GroupID:     expense.GroupID,
		GroupName:   groupName,
		SplitType:   expense.SplitType,
		CreatedAt:   expense.CreatedAt,
		Shares:      shares,
	}, nil
}

// allocateShares turns the request's split policy into concrete share rows.
func (s *ExpenseService) allocateShares(ctx context.Context, req *CreateExpenseRequest) ([]ledger.Share, error) {
	switch req.SplitType {
	case models.SplitEqual:
		members, err := s.store.ListGroupMembers(ctx, req.GroupID)
		if err != nil {
			return nil, err
		}
		memberIDs := make([]string, len(members))
		for i, m := range members {
			memberIDs[i] = m.ID
		}
		return ledger.EqualShares(req.Amount, memberIDs)

	case models.SplitCustom:
		shares := make([]ledger.Share, len(req.Shares))
		ids := make([]string, len(req.Shares))
		for i, in := range req.Shares {
			shares[i] = ledger.Share{UserID: in.UserID, Amount: in.Amount}
			ids[i] = in.UserID
		}
		found, err := s.store.GetUsersByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if _, ok := found[id]; !ok {
				return nil, fmt.Errorf("share user %s %w", id, storage.ErrNotFound)
			}
		}
		return ledger.CustomShares(req.Amount, shares)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSplitType, req.SplitType)
	}
}

// CreateExpense records an expense and allocates its shares per the split
// policy. The expense and every share are persisted in a single transaction.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	userID, err := authedUserID(ctx)
	if err != nil {
		return nil, err
	}

	if req.Msg.Amount <= 0 {
		return nil, asConnectError(ErrAmountNotPositive)
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

	if _, err := s.store.GetUserByID(ctx, req.Msg.PaidByID); err != nil {
		return nil, asConnectError(fmt.Errorf("payer: %w", err))
	}
	payerIsMember, err := s.store.IsGroupMember(ctx, group.ID, req.Msg.PaidByID)
	if err != nil {
		return nil, asConnectError(err)
	}
	if !payerIsMember {
		return nil, asConnectError(fmt.Errorf("payer is %w", ErrNotAMember))
	}

	allocated, err := s.allocateShares(ctx, req.Msg)
	if err != nil {
		slog.Warn("CreateExpense share allocation failed", "group_id", group.ID, "error", err)
		return nil, asConnectError(err)
	}

	expense := &models.Expense{
		GroupID:     group.ID,
		Description: req.Msg.Description,
		Amount:      req.Msg.Amount,
		PaidByID:    req.Msg.PaidByID,
		SplitType:   req.Msg.SplitType,
	}
	expense.Shares = make([]models.ExpenseShare, len(allocated))
	for i, share := range allocated {
		expense.Shares[i] = models.ExpenseShare{UserID: share.UserID, ShareAmount: share.Amount}
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "group_id", group.ID, "error", err)
		return nil, asConnectError(err)
	}
	slog.Info("Expense created",
		"expense_id", expense.ID,
		"group_id", group.ID,
		"amount", expense.Amount,
		"split_type", expense.SplitType,
	)

	out, err := s.toExpense(ctx, expense, group.Name)
	if err != nil {
		return nil, asConnectError(err)
	}
	return connect.NewResponse(&ExpenseResponse{Expense: out}), nil
}

// ListExpensesByGroup retrieves all expenses in a group, newest first.
func (s *ExpenseService) ListExpensesByGroup(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
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

	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		slog.Error("ListExpensesByGroup failed", "group_id", group.ID, "error", err)
		return nil, asConnectError(err)
	}

	out := make([]Expense, len(expenses))
	for i, expense := range expenses {
		out[i], err = s.toExpense(ctx, expense, group.Name)
		if err != nil {
			return nil, asConnectError(err)
		}
	}
	return connect.NewResponse(&ListExpensesResponse{Expenses: out}), nil
}

// DeleteExpense removes an expense and all of its shares. Only the payer or
// the group creator may delete an expense.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[Empty], error) {
	userID, err := authedUserID(ctx)
	if err != nil {
		return nil, err
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, asConnectError(err)
	}
	group, err := s.store.GetGroup(ctx, expense.GroupID)
	if err != nil {
		return nil, asConnectError(err)
	}
	if userID != expense.PaidByID && userID != group.CreatedByID {
		return nil, asConnectError(fmt.Errorf("only the payer or group creator can delete an expense: %w", ErrForbidden))
	}

	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expense.ID, "error", err)
		return nil, asConnectError(err)
	}

	slog.Info("Expense deleted", "expense_id", expense.ID, "group_id", expense.GroupID)
	return connect.NewResponse(&Empty{}), nil
}

// CalculateGroupBalances computes every member's net balance across the
// group's expenses and a simplified set of settling payments. Balances are
// recomputed from a fresh snapshot on every call.
func (s *ExpenseService) CalculateGroupBalances(ctx context.Context, req *connect.Request[GroupBalancesRequest]) (*connect.Response[GroupBalancesResponse], error) {
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

	members, err := s.store.ListGroupMembers(ctx, group.ID)
	if err != nil {
		return nil, asConnectError(err)
	}
	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		return nil, asConnectError(err)
	}

	memberIDs := make([]string, len(members))
	refs := make(map[string]UserRef, len(members))
	for i, m := range members {
		memberIDs[i] = m.ID
		refs[m.ID] = userRef(m)
	}

	forBalance := make([]ledger.ExpenseForBalance, len(expenses))
	for i, expense := range expenses {
		shares := make([]ledger.Share, len(expense.Shares))
		for j, share := range expense.Shares {
			shares[j] = ledger.Share{UserID: share.UserID, Amount: share.ShareAmount}
		}
		forBalance[i] = ledger.ExpenseForBalance{
			ID:       expense.ID,
			Amount:   expense.Amount,
			PaidByID: expense.PaidByID,
			Shares:   shares,
		}
	}

	balances := ledger.GroupBalances(memberIDs, forBalance)

	netBalances := make([]NetBalance, 0, len(balances))
	for id, balance := range balances {
		netBalances = append(netBalances, NetBalance{User: refs[id], Balance: ledger.Round2(balance)})
	}
	sort.Slice(netBalances, func(i, j int) bool { return netBalances[i].User.ID < netBalances[j].User.ID })

	simplified := ledger.SimplifyBalances(balances)
	settlements := make([]Settlement, len(simplified))
	for i, tx := range simplified {
		settlements[i] = Settlement{From: refs[tx.From], To: refs[tx.To], Amount: tx.Amount}
	}

	slog.Info("Group balances calculated",
		"group_id", group.ID,
		"members", len(netBalances),
		"settlements", len(settlements),
	)
	return connect.NewResponse(&GroupBalancesResponse{
		NetBalances:        netBalances,
		SimplifiedBalances: settlements,
	}), nil
}
