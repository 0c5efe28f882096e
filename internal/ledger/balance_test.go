package ledger

import (
	"math"
	"testing"
)

func TestSummarizeUser(t *testing.T) {
	tests := []struct {
		name  string
		user  string
		lines []ShareLine
		want  UserSummary
	}{
		{
			name: "paid 100, owes 40 of it",
			user: "alice",
			lines: []ShareLine{
				{ExpenseID: "e1", UserID: "alice", ShareAmount: 40.00, ExpenseAmount: 100.00, PaidByID: "alice"},
			},
			want: UserSummary{TotalPaid: 100.00, TotalShare: 40.00, TotalOwed: 60.00, TotalOwing: 0, NetBalance: 60.00},
		},
		{
			name: "only owes",
			user: "bob",
			lines: []ShareLine{
				{ExpenseID: "e1", UserID: "bob", ShareAmount: 30.00, ExpenseAmount: 100.00, PaidByID: "alice"},
				{ExpenseID: "e2", UserID: "bob", ShareAmount: 12.50, ExpenseAmount: 25.00, PaidByID: "carol"},
			},
			want: UserSummary{TotalPaid: 0, TotalShare: 42.50, TotalOwed: 0, TotalOwing: 42.50, NetBalance: -42.50},
		},
		{
			name:  "no shares",
			user:  "dave",
			lines: nil,
			want:  UserSummary{},
		},
		{
			name: "mixed paid and owed across expenses",
			user: "alice",
			lines: []ShareLine{
				{ExpenseID: "e1", UserID: "alice", ShareAmount: 33.33, ExpenseAmount: 100.00, PaidByID: "alice"},
				{ExpenseID: "e2", UserID: "alice", ShareAmount: 20.00, ExpenseAmount: 60.00, PaidByID: "bob"},
			},
			want: UserSummary{TotalPaid: 100.00, TotalShare: 53.33, TotalOwed: 46.67, TotalOwing: 0, NetBalance: 46.67},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SummarizeUser(tt.user, tt.lines)
			if got != tt.want {
				t.Errorf("SummarizeUser() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSummarizeUser_Idempotent(t *testing.T) {
	lines := []ShareLine{
		{ExpenseID: "e1", UserID: "alice", ShareAmount: 33.33, ExpenseAmount: 100.00, PaidByID: "alice"},
		{ExpenseID: "e2", UserID: "alice", ShareAmount: 7.77, ExpenseAmount: 23.31, PaidByID: "bob"},
	}
	first := SummarizeUser("alice", lines)
	second := SummarizeUser("alice", lines)
	if first != second {
		t.Errorf("two calls over the same snapshot differ: %+v vs %+v", first, second)
	}
}

func TestGroupBalances(t *testing.T) {
	members := []string{"alice", "bob", "carol"}
	expenses := []ExpenseForBalance{
		{
			ID: "e1", Amount: 90.00, PaidByID: "alice",
			Shares: []Share{{"alice", 30.00}, {"bob", 30.00}, {"carol", 30.00}},
		},
		{
			ID: "e2", Amount: 30.00, PaidByID: "bob",
			Shares: []Share{{"bob", 15.00}, {"carol", 15.00}},
		},
	}

	balances := GroupBalances(members, expenses)

	if len(balances) != 3 {
		t.Fatalf("expected balance entry for every member, got %d", len(balances))
	}
	want := map[string]float64{"alice": 60.00, "bob": -15.00, "carol": -45.00}
	var sum float64
	for id, balance := range balances {
		if math.Abs(balance-want[id]) > Epsilon {
			t.Errorf("%s balance = %v, want %v", id, balance, want[id])
		}
		sum += balance
	}
	if math.Abs(sum) > Epsilon {
		t.Errorf("balances sum = %v, want 0 within epsilon", sum)
	}
}

func TestGroupBalances_ZeroMembersIncluded(t *testing.T) {
	balances := GroupBalances([]string{"alice", "bob"}, nil)
	if len(balances) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(balances))
	}
	for id, balance := range balances {
		if balance != 0 {
			t.Errorf("%s balance = %v, want 0", id, balance)
		}
	}
}

func TestNetBalances_DropsSettledUsers(t *testing.T) {
	linesByUser := map[string][]ShareLine{
		"alice": {
			{ExpenseID: "e1", UserID: "alice", ShareAmount: 50.00, ExpenseAmount: 100.00, PaidByID: "alice"},
		},
		"bob": {
			{ExpenseID: "e1", UserID: "bob", ShareAmount: 50.00, ExpenseAmount: 100.00, PaidByID: "alice"},
		},
		// carol paid exactly her own share: settled, must be dropped
		"carol": {
			{ExpenseID: "e2", UserID: "carol", ShareAmount: 20.00, ExpenseAmount: 20.00, PaidByID: "carol"},
		},
	}

	balances := NetBalances(linesByUser)

	if _, ok := balances["carol"]; ok {
		t.Error("settled user should be dropped from net balances")
	}
	if math.Abs(balances["alice"]-50.00) > Epsilon {
		t.Errorf("alice balance = %v, want 50.00", balances["alice"])
	}
	if math.Abs(balances["bob"]+50.00) > Epsilon {
		t.Errorf("bob balance = %v, want -50.00", balances["bob"])
	}
}
