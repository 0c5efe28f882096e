package service

import (
	"math"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
)

func createExpense(t *testing.T, server *httptest.Server, token string, req *CreateExpenseRequest) Expense {
	t.Helper()

	resp, err := call[CreateExpenseRequest, ExpenseResponse](t, server, ExpenseCreateProcedure, token, req)
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	return resp.Msg.Expense
}

func TestCreateExpenseEqualSplit(t *testing.T) {
	server := newTestServer(t)

	aliceToken, alice := registerUser(t, server, "Alice", "alice@example.com")
	_, bob := registerUser(t, server, "Bob", "bob@example.com")
	_, carol := registerUser(t, server, "Carol", "carol@example.com")
	group := createGroup(t, server, aliceToken, "Trip", bob.ID, carol.ID)

	expense := createExpense(t, server, aliceToken, &CreateExpenseRequest{
		GroupID:     group.ID,
		Description: "Hotel",
		Amount:      100.0,
		PaidByID:    alice.ID,
		SplitType:   "EQUAL",
	})

	if expense.ID == "" {
		t.Error("expected non-empty expense ID")
	}
	if expense.PaidBy.ID != alice.ID {
		t.Errorf("expected payer %s, got %s", alice.ID, expense.PaidBy.ID)
	}
	if len(expense.Shares) != 3 {
		t.Fatalf("expected 3 shares, got %d", len(expense.Shares))
	}
	for _, share := range expense.Shares {
		if share.Amount != 33.33 {
			t.Errorf("share for %s: expected 33.33, got %v", share.User.ID, share.Amount)
		}
	}
}

func TestCreateExpenseCustomSplit(t *testing.T) {
	server := newTestServer(t)

	aliceToken, alice := registerUser(t, server, "Alice", "alice@example.com")
	_, bob := registerUser(t, server, "Bob", "bob@example.com")
	group := createGroup(t, server, aliceToken, "Dinner", bob.ID)

	t.Run("shares matching the amount are accepted", func(t *testing.T) {
		expense := createExpense(t, server, aliceToken, &CreateExpenseRequest{
			GroupID:   group.ID,
			Amount:    100.0,
			PaidByID:  alice.ID,
			SplitType: "CUSTOM",
			Shares: []ShareInput{
				{UserID: alice.ID, Amount: 60.0},
				{UserID: bob.ID, Amount: 40.0},
			},
		})
		if len(expense.Shares) != 2 {
			t.Fatalf("expected 2 shares, got %d", len(expense.Shares))
		}
	})

	t.Run("mismatched shares are rejected", func(t *testing.T) {
		_, err := call[CreateExpenseRequest, ExpenseResponse](t, server, ExpenseCreateProcedure, aliceToken, &CreateExpenseRequest{
			GroupID:   group.ID,
			Amount:    100.0,
			PaidByID:  alice.ID,
			SplitType: "CUSTOM",
			Shares: []ShareInput{
				{UserID: alice.ID, Amount: 60.0},
				{UserID: bob.ID, Amount: 50.0},
			},
		})
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("missing shares are rejected", func(t *testing.T) {
		_, err := call[CreateExpenseRequest, ExpenseResponse](t, server, ExpenseCreateProcedure, aliceToken, &CreateExpenseRequest{
			GroupID:   group.ID,
			Amount:    100.0,
			PaidByID:  alice.ID,
			SplitType: "CUSTOM",
		})
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("unknown share user is NotFound", func(t *testing.T) {
		_, err := call[CreateExpenseRequest, ExpenseResponse](t, server, ExpenseCreateProcedure, aliceToken, &CreateExpenseRequest{
			GroupID:   group.ID,
			Amount:    100.0,
			PaidByID:  alice.ID,
			SplitType: "CUSTOM",
			Shares: []ShareInput{
				{UserID: alice.ID, Amount: 60.0},
				{UserID: "no-such-user", Amount: 40.0},
			},
		})
		assertCode(t, err, connect.CodeNotFound)
	})
}

func TestCreateExpenseValidation(t *testing.T) {
	server := newTestServer(t)

	aliceToken, alice := registerUser(t, server, "Alice", "alice@example.com")
	_, bob := registerUser(t, server, "Bob", "bob@example.com")
	outsiderToken, outsider := registerUser(t, server, "Oscar", "oscar@example.com")
	group := createGroup(t, server, aliceToken, "Trip", bob.ID)

	t.Run("unsupported split type is InvalidArgument", func(t *testing.T) {
		_, err := call[CreateExpenseRequest, ExpenseResponse](t, server, ExpenseCreateProcedure, aliceToken, &CreateExpenseRequest{
			GroupID:   group.ID,
			Amount:    50.0,
			PaidByID:  alice.ID,
			SplitType: "PERCENTAGE",
		})
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("non-positive amount is InvalidArgument", func(t *testing.T) {
		_, err := call[CreateExpenseRequest, ExpenseResponse](t, server, ExpenseCreateProcedure, aliceToken, &CreateExpenseRequest{
			GroupID:   group.ID,
			Amount:    0,
			PaidByID:  alice.ID,
			SplitType: "EQUAL",
		})
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("unknown group is NotFound", func(t *testing.T) {
		_, err := call[CreateExpenseRequest, ExpenseResponse](t, server, ExpenseCreateProcedure, aliceToken, &CreateExpenseRequest{
			GroupID:   "no-such-group",
			Amount:    50.0,
			PaidByID:  alice.ID,
			SplitType: "EQUAL",
		})
		assertCode(t, err, connect.CodeNotFound)
	})

	t.Run("outsider cannot add expenses", func(t *testing.T) {
		_, err := call[CreateExpenseRequest, ExpenseResponse](t, server, ExpenseCreateProcedure, outsiderToken, &CreateExpenseRequest{
			GroupID:   group.ID,
			Amount:    50.0,
			PaidByID:  outsider.ID,
			SplitType: "EQUAL",
		})
		assertCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("payer outside the group is PermissionDenied", func(t *testing.T) {
		_, err := call[CreateExpenseRequest, ExpenseResponse](t, server, ExpenseCreateProcedure, aliceToken, &CreateExpenseRequest{
			GroupID:   group.ID,
			Amount:    50.0,
			PaidByID:  outsider.ID,
			SplitType: "EQUAL",
		})
		assertCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("unknown payer is NotFound", func(t *testing.T) {
		_, err := call[CreateExpenseRequest, ExpenseResponse](t, server, ExpenseCreateProcedure, aliceToken, &CreateExpenseRequest{
			GroupID:   group.ID,
			Amount:    50.0,
			PaidByID:  "no-such-user",
			SplitType: "EQUAL",
		})
		assertCode(t, err, connect.CodeNotFound)
	})
}

func TestListAndDeleteExpense(t *testing.T) {
	server := newTestServer(t)

	aliceToken, _ := registerUser(t, server, "Alice", "alice@example.com")
	bobToken, bob := registerUser(t, server, "Bob", "bob@example.com")
	carolToken, carol := registerUser(t, server, "Carol", "carol@example.com")
	outsiderToken, _ := registerUser(t, server, "Oscar", "oscar@example.com")
	group := createGroup(t, server, aliceToken, "Trip", bob.ID)

	expense := createExpense(t, server, bobToken, &CreateExpenseRequest{
		GroupID:     group.ID,
		Description: "Gas",
		Amount:      40.0,
		PaidByID:    bob.ID,
		SplitType:   "EQUAL",
	})

	t.Run("members can list expenses", func(t *testing.T) {
		resp, err := call[ListExpensesRequest, ListExpensesResponse](t, server, ExpenseListByGroupProcedure, aliceToken, &ListExpensesRequest{
			GroupID: group.ID,
		})
		if err != nil {
			t.Fatalf("ListExpensesByGroup failed: %v", err)
		}
		if len(resp.Msg.Expenses) != 1 {
			t.Fatalf("expected 1 expense, got %d", len(resp.Msg.Expenses))
		}
		if resp.Msg.Expenses[0].GroupName != "Trip" {
			t.Errorf("expected group name 'Trip', got %q", resp.Msg.Expenses[0].GroupName)
		}
	})

	t.Run("outsiders cannot list expenses", func(t *testing.T) {
		_, err := call[ListExpensesRequest, ListExpensesResponse](t, server, ExpenseListByGroupProcedure, outsiderToken, &ListExpensesRequest{
			GroupID: group.ID,
		})
		assertCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("other members cannot delete", func(t *testing.T) {
		// Carol joins but is neither payer nor creator.
		if _, err := call[AddMemberRequest, Empty](t, server, GroupAddMemberProcedure, aliceToken, &AddMemberRequest{
			GroupID: group.ID,
			UserID:  carol.ID,
		}); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
		_, err := call[DeleteExpenseRequest, Empty](t, server, ExpenseDeleteProcedure, carolToken, &DeleteExpenseRequest{
			ExpenseID: expense.ID,
		})
		assertCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("the payer can delete", func(t *testing.T) {
		_, err := call[DeleteExpenseRequest, Empty](t, server, ExpenseDeleteProcedure, bobToken, &DeleteExpenseRequest{
			ExpenseID: expense.ID,
		})
		if err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
	})

	t.Run("the group creator can delete", func(t *testing.T) {
		other := createExpense(t, server, bobToken, &CreateExpenseRequest{
			GroupID:   group.ID,
			Amount:    15.0,
			PaidByID:  bob.ID,
			SplitType: "EQUAL",
		})
		_, err := call[DeleteExpenseRequest, Empty](t, server, ExpenseDeleteProcedure, aliceToken, &DeleteExpenseRequest{
			ExpenseID: other.ID,
		})
		if err != nil {
			t.Fatalf("DeleteExpense by creator failed: %v", err)
		}
	})

	t.Run("deleting twice is NotFound", func(t *testing.T) {
		_, err := call[DeleteExpenseRequest, Empty](t, server, ExpenseDeleteProcedure, aliceToken, &DeleteExpenseRequest{
			ExpenseID: expense.ID,
		})
		assertCode(t, err, connect.CodeNotFound)
	})
}

func TestCalculateGroupBalances(t *testing.T) {
	server := newTestServer(t)

	aliceToken, alice := registerUser(t, server, "Alice", "alice@example.com")
	bobToken, bob := registerUser(t, server, "Bob", "bob@example.com")
	_, carol := registerUser(t, server, "Carol", "carol@example.com")
	group := createGroup(t, server, aliceToken, "Trip", bob.ID, carol.ID)

	createExpense(t, server, aliceToken, &CreateExpenseRequest{
		GroupID:     group.ID,
		Description: "Cabin",
		Amount:      90.0,
		PaidByID:    alice.ID,
		SplitType:   "EQUAL",
	})

	resp, err := call[GroupBalancesRequest, GroupBalancesResponse](t, server, ExpenseGroupBalancesProcedure, bobToken, &GroupBalancesRequest{
		GroupID: group.ID,
	})
	if err != nil {
		t.Fatalf("CalculateGroupBalances failed: %v", err)
	}

	if len(resp.Msg.NetBalances) != 3 {
		t.Fatalf("expected 3 net balances, got %d", len(resp.Msg.NetBalances))
	}

	byUser := make(map[string]float64, len(resp.Msg.NetBalances))
	total := 0.0
	for _, nb := range resp.Msg.NetBalances {
		byUser[nb.User.ID] = nb.Balance
		total += nb.Balance
	}
	if math.Abs(total) > 0.01 {
		t.Errorf("net balances should sum to ~0, got %v", total)
	}
	if byUser[alice.ID] != 60.0 {
		t.Errorf("alice: expected +60.0, got %v", byUser[alice.ID])
	}
	if byUser[bob.ID] != -30.0 {
		t.Errorf("bob: expected -30.0, got %v", byUser[bob.ID])
	}
	if byUser[carol.ID] != -30.0 {
		t.Errorf("carol: expected -30.0, got %v", byUser[carol.ID])
	}

	if len(resp.Msg.SimplifiedBalances) != 2 {
		t.Fatalf("expected 2 settlements, got %d", len(resp.Msg.SimplifiedBalances))
	}
	for _, s := range resp.Msg.SimplifiedBalances {
		if s.To.ID != alice.ID {
			t.Errorf("expected settlements toward alice, got %s", s.To.ID)
		}
		if s.Amount != 30.0 {
			t.Errorf("expected settlement of 30.0, got %v", s.Amount)
		}
	}

	t.Run("outsiders cannot see balances", func(t *testing.T) {
		outsiderToken, _ := registerUser(t, server, "Oscar", "oscar@example.com")
		_, err := call[GroupBalancesRequest, GroupBalancesResponse](t, server, ExpenseGroupBalancesProcedure, outsiderToken, &GroupBalancesRequest{
			GroupID: group.ID,
		})
		assertCode(t, err, connect.CodePermissionDenied)
	})
}
