package service

import (
	"context"
	"encoding/json"
	"net/http"

	"connectrpc.com/connect"
)

// Procedure names for every RPC, shared by the server and test clients.
const (
	AuthRegisterProcedure = "/splitease.v1.AuthService/Register"
	AuthLoginProcedure    = "/splitease.v1.AuthService/Login"

	GroupCreateProcedure       = "/splitease.v1.GroupService/CreateGroup"
	GroupGetProcedure          = "/splitease.v1.GroupService/GetGroup"
	GroupListProcedure         = "/splitease.v1.GroupService/ListGroups"
	GroupAddMemberProcedure    = "/splitease.v1.GroupService/AddMember"
	GroupRemoveMemberProcedure = "/splitease.v1.GroupService/RemoveMember"

	ExpenseCreateProcedure        = "/splitease.v1.ExpenseService/CreateExpense"
	ExpenseListByGroupProcedure   = "/splitease.v1.ExpenseService/ListExpensesByGroup"
	ExpenseDeleteProcedure        = "/splitease.v1.ExpenseService/DeleteExpense"
	ExpenseGroupBalancesProcedure = "/splitease.v1.ExpenseService/CalculateGroupBalances"

	BalanceSummaryProcedure     = "/splitease.v1.BalanceService/GetUserBalanceSummary"
	BalanceSettlementsProcedure = "/splitease.v1.BalanceService/GetMinimumSettlements"
	BalanceDashboardProcedure   = "/splitease.v1.BalanceService/GetDashboard"

	FriendSendProcedure        = "/splitease.v1.FriendService/SendFriendRequest"
	FriendAcceptProcedure      = "/splitease.v1.FriendService/AcceptFriendRequest"
	FriendRejectProcedure      = "/splitease.v1.FriendService/RejectFriendRequest"
	FriendRemoveProcedure      = "/splitease.v1.FriendService/RemoveFriend"
	FriendListProcedure        = "/splitease.v1.FriendService/ListFriends"
	FriendListPendingProcedure = "/splitease.v1.FriendService/ListPendingRequests"
	FriendListSentProcedure    = "/splitease.v1.FriendService/ListSentRequests"
)

// jsonCodec lets Connect exchange plain Go structs as JSON. The repo carries
// no generated protobuf types, so handlers and clients register this codec
// explicitly.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(m any) ([]byte, error) { return json.Marshal(m) }

func (jsonCodec) Unmarshal(data []byte, m any) error { return json.Unmarshal(data, m) }

// WithJSONCodec returns the client option matching the handlers' codec.
// Exported for tests and in-process clients.
func WithJSONCodec() connect.ClientOption {
	return connect.WithCodec(jsonCodec{})
}

// handle mounts one unary procedure on the mux with the JSON codec and the
// given interceptors.
func handle[Req, Res any](
	mux *http.ServeMux,
	procedure string,
	fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
	opts ...connect.HandlerOption,
) {
	handlerOpts := append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, handlerOpts...))
}

// Services bundles every RPC service for route registration.
type Services struct {
	Auth     *AuthService
	Groups   *GroupService
	Expenses *ExpenseService
	Balances *BalanceService
	Friends  *FriendService
}

// RegisterRoutes mounts every procedure on the mux. The given handler options
// (interceptors) apply to all of them; auth enforcement is per-procedure via
// the context, so public auth procedures share the same chain.
func RegisterRoutes(mux *http.ServeMux, svcs Services, opts ...connect.HandlerOption) {
	handle(mux, AuthRegisterProcedure, svcs.Auth.Register, opts...)
	handle(mux, AuthLoginProcedure, svcs.Auth.Login, opts...)

	handle(mux, GroupCreateProcedure, svcs.Groups.CreateGroup, opts...)
	handle(mux, GroupGetProcedure, svcs.Groups.GetGroup, opts...)
	handle(mux, GroupListProcedure, svcs.Groups.ListGroups, opts...)
	handle(mux, GroupAddMemberProcedure, svcs.Groups.AddMember, opts...)
	handle(mux, GroupRemoveMemberProcedure, svcs.Groups.RemoveMember, opts...)

	handle(mux, ExpenseCreateProcedure, svcs.Expenses.CreateExpense, opts...)
	handle(mux, ExpenseListByGroupProcedure, svcs.Expenses.ListExpensesByGroup, opts...)
	handle(mux, ExpenseDeleteProcedure, svcs.Expenses.DeleteExpense, opts...)
	handle(mux, ExpenseGroupBalancesProcedure, svcs.Expenses.CalculateGroupBalances, opts...)

	handle(mux, BalanceSummaryProcedure, svcs.Balances.GetUserBalanceSummary, opts...)
	handle(mux, BalanceSettlementsProcedure, svcs.Balances.GetMinimumSettlements, opts...)
	handle(mux, BalanceDashboardProcedure, svcs.Balances.GetDashboard, opts...)

	handle(mux, FriendSendProcedure, svcs.Friends.SendFriendRequest, opts...)
	handle(mux, FriendAcceptProcedure, svcs.Friends.AcceptFriendRequest, opts...)
	handle(mux, FriendRejectProcedure, svcs.Friends.RejectFriendRequest, opts...)
	handle(mux, FriendRemoveProcedure, svcs.Friends.RemoveFriend, opts...)
	handle(mux, FriendListProcedure, svcs.Friends.ListFriends, opts...)
	handle(mux, FriendListPendingProcedure, svcs.Friends.ListPendingRequests, opts...)
	handle(mux, FriendListSentProcedure, svcs.Friends.ListSentRequests, opts...)
}
