package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/splitease/splitease/internal/ledger"
	"github.com/splitease/splitease/internal/models"
	"github.com/splitease/splitease/internal/storage"
)

// BalanceService exposes cross-group balance views: the per-user summary,
// minimum-settlement planning, and the dashboard.
type BalanceService struct {
	store storage.Store
}

// NewBalanceService creates a new BalanceService with the given storage backend.
func NewBalanceService(store storage.Store) *BalanceService {
	return &BalanceService{store: store}
}

func toShareLines(shares []models.UserShare) []ledger.ShareLine {
	lines := make([]ledger.ShareLine, len(shares))
	for i, share := range shares {
		lines[i] = ledger.ShareLine{
			ExpenseID:     share.ExpenseID,
			UserID:        share.UserID,
			ShareAmount:   share.ShareAmount,
			ExpenseAmount: share.ExpenseAmount,
			PaidByID:      share.PaidByID,
		}
	}
	return lines
}

func (s *BalanceService) summarize(ctx context.Context, userID string) (ledger.UserSummary, []models.UserShare, error) {
	shares, err := s.store.ListSharesByUser(ctx, userID)
	if err != nil {
		return ledger.UserSummary{}, nil, err
	}
	return ledger.SummarizeUser(userID, toShareLines(shares)), shares, nil
}

// GetUserBalanceSummary computes the caller's position across all groups.
func (s *BalanceService) GetUserBalanceSummary(ctx context.Context, req *connect.Request[BalanceSummaryRequest]) (*connect.Response[BalanceSummaryResponse], error) {
	userID, err := authedUserID(ctx)
	if err != nil {
		return nil, err
	}

	summary, _, err := s.summarize(ctx, userID)
	if err != nil {
		slog.Error("GetUserBalanceSummary failed", "user_id", userID, "error", err)
		return nil, asConnectError(err)
	}

	return connect.NewResponse(&BalanceSummaryResponse{
		TotalPaid:  summary.TotalPaid,
		TotalShare: summary.TotalShare,
		TotalOwed:  summary.TotalOwed,
		TotalOwing: summary.TotalOwing,
		NetBalance: summary.NetBalance,
	}), nil
}

// GetMinimumSettlements plans the fewest payments that settle the given users
// against each other. Users whose balance is within the rounding tolerance are
// left out of the plan.
func (s *BalanceService) GetMinimumSettlements(ctx context.Context, req *connect.Request[MinimumSettlementsRequest]) (*connect.Response[MinimumSettlementsResponse], error) {
	if _, err := authedUserID(ctx); err != nil {
		return nil, err
	}
	if len(req.Msg.UserIDs) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("user_ids required"))
	}

	users, err := s.store.GetUsersByIDs(ctx, req.Msg.UserIDs)
	if err != nil {
		return nil, asConnectError(err)
	}
	refs := make(map[string]UserRef, len(users))
	for _, id := range req.Msg.UserIDs {
		user, ok := users[id]
		if !ok {
			return nil, connect.NewError(connect.CodeNotFound,
				fmt.Errorf("user %s %w", id, storage.ErrNotFound))
		}
		refs[id] = userRef(user)
	}

	linesByUser := make(map[string][]ledger.ShareLine, len(req.Msg.UserIDs))
	for _, id := range req.Msg.UserIDs {
		shares, err := s.store.ListSharesByUser(ctx, id)
		if err != nil {
			slog.Error("GetMinimumSettlements failed", "user_id", id, "error", err)
			return nil, asConnectError(err)
		}
		linesByUser[id] = toShareLines(shares)
	}

	balances := ledger.NetBalances(linesByUser)
	transactions := ledger.MinimumSettlements(balances)

	settlements := make([]Settlement, len(transactions))
	for i, tx := range transactions {
		settlements[i] = Settlement{From: refs[tx.From], To: refs[tx.To], Amount: tx.Amount}
	}

	slog.Info("Minimum settlements planned", "users", len(req.Msg.UserIDs), "settlements", len(settlements))
	return connect.NewResponse(&MinimumSettlementsResponse{Settlements: settlements}), nil
}

// GetDashboard assembles the caller's home view: balance summary, group count,
// and how many distinct expenses they are part of.
func (s *BalanceService) GetDashboard(ctx context.Context, req *connect.Request[DashboardRequest]) (*connect.Response[DashboardResponse], error) {
	userID, err := authedUserID(ctx)
	if err != nil {
		return nil, err
	}

	summary, shares, err := s.summarize(ctx, userID)
	if err != nil {
		slog.Error("GetDashboard summary failed", "user_id", userID, "error", err)
		return nil, asConnectError(err)
	}

	groupCount, err := s.store.CountGroupsByUser(ctx, userID)
	if err != nil {
		slog.Error("GetDashboard group count failed", "user_id", userID, "error", err)
		return nil, asConnectError(err)
	}

	seen := make(map[string]struct{}, len(shares))
	for _, share := range shares {
		seen[share.ExpenseID] = struct{}{}
	}

	return connect.NewResponse(&DashboardResponse{
		BalanceSummary: BalanceSummaryResponse{
			TotalPaid:  summary.TotalPaid,
			TotalShare: summary.TotalShare,
			TotalOwed:  summary.TotalOwed,
			TotalOwing: summary.TotalOwing,
			NetBalance: summary.NetBalance,
		},
		ActiveGroups:  groupCount,
		TotalExpenses: len(seen),
	}), nil
}
