package ledger

import (
	"math"
	"testing"
)

// applyTransactions replays settlements against a copy of the balances and
// returns the residual map.
func applyTransactions(balances map[string]float64, transactions []Transaction) map[string]float64 {
	residual := make(map[string]float64, len(balances))
	for id, b := range balances {
		residual[id] = b
	}
	for _, tx := range transactions {
		residual[tx.From] += tx.Amount
		residual[tx.To] -= tx.Amount
	}
	return residual
}

func TestMinimumSettlements(t *testing.T) {
	balances := map[string]float64{
		"alice": -30.00,
		"bob":   -20.00,
		"carol": 50.00,
	}

	transactions := MinimumSettlements(balances)

	if len(transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d: %+v", len(transactions), transactions)
	}

	var total float64
	for _, tx := range transactions {
		if tx.To != "carol" {
			t.Errorf("transaction directed to %s, want carol", tx.To)
		}
		if tx.Amount <= 0 {
			t.Errorf("transaction amount %v must be positive", tx.Amount)
		}
		total += tx.Amount
	}
	if math.Abs(total-50.00) > Epsilon {
		t.Errorf("settled total = %v, want 50.00", total)
	}

	for id, residual := range applyTransactions(balances, transactions) {
		if math.Abs(residual) > Epsilon {
			t.Errorf("%s left with residual balance %v", id, residual)
		}
	}
}

func TestMinimumSettlements_LargestPairsFirst(t *testing.T) {
	balances := map[string]float64{
		"alice": 80.00,
		"bob":   20.00,
		"carol": -50.00,
		"dave":  -50.00,
	}

	transactions := MinimumSettlements(balances)

	// First match: largest debt (carol, tie broken by id) against largest
	// credit (alice).
	if transactions[0].From != "carol" || transactions[0].To != "alice" {
		t.Errorf("first transaction = %+v, want carol -> alice", transactions[0])
	}
	if math.Abs(transactions[0].Amount-50.00) > Epsilon {
		t.Errorf("first amount = %v, want 50.00", transactions[0].Amount)
	}

	for id, residual := range applyTransactions(balances, transactions) {
		if math.Abs(residual) > Epsilon {
			t.Errorf("%s left with residual balance %v", id, residual)
		}
	}
}

func TestMinimumSettlements_Deterministic(t *testing.T) {
	balances := map[string]float64{
		"zed":  -10.00,
		"amy":  -10.00,
		"cora": 20.00,
	}

	first := MinimumSettlements(balances)
	for i := 0; i < 10; i++ {
		again := MinimumSettlements(balances)
		if len(again) != len(first) {
			t.Fatalf("run %d produced %d transactions, first run %d", i, len(again), len(first))
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("run %d transaction %d = %+v, first run %+v", i, j, again[j], first[j])
			}
		}
	}

	// Equal debts are matched in user ID order.
	if first[0].From != "amy" {
		t.Errorf("first debtor = %s, want amy (ID tie-break)", first[0].From)
	}
}

func TestMinimumSettlements_AtMostNMinusOne(t *testing.T) {
	balances := map[string]float64{
		"a": 10.00, "b": 25.00, "c": -5.00, "d": -12.00, "e": -18.00,
	}
	transactions := MinimumSettlements(balances)
	if len(transactions) > len(balances)-1 {
		t.Errorf("got %d transactions for %d parties, want at most %d",
			len(transactions), len(balances), len(balances)-1)
	}
}

func TestMinimumSettlements_AllSettled(t *testing.T) {
	balances := map[string]float64{"alice": 0.004, "bob": -0.004}
	if got := MinimumSettlements(balances); len(got) != 0 {
		t.Errorf("expected no transactions for balances within epsilon, got %+v", got)
	}
}

func TestSimplifyBalances(t *testing.T) {
	balances := map[string]float64{
		"alice": 60.00,
		"bob":   -15.00,
		"carol": -45.00,
	}

	transactions := SimplifyBalances(balances)

	// carol has the larger debt so settles first; bob follows against the
	// same creditor.
	want := []Transaction{
		{From: "carol", To: "alice", Amount: 45.00},
		{From: "bob", To: "alice", Amount: 15.00},
	}
	if len(transactions) != len(want) {
		t.Fatalf("expected %d transactions, got %d: %+v", len(want), len(transactions), transactions)
	}
	for i := range want {
		if transactions[i] != want[i] {
			t.Errorf("transaction %d = %+v, want %+v", i, transactions[i], want[i])
		}
	}

	for id, residual := range applyTransactions(balances, transactions) {
		if math.Abs(residual) > Epsilon {
			t.Errorf("%s left with residual balance %v", id, residual)
		}
	}
}

func TestSimplifyBalances_DebtSpansCreditors(t *testing.T) {
	balances := map[string]float64{
		"alice": 30.00,
		"bob":   30.00,
		"carol": -60.00,
	}

	transactions := SimplifyBalances(balances)

	want := []Transaction{
		{From: "carol", To: "alice", Amount: 30.00},
		{From: "carol", To: "bob", Amount: 30.00},
	}
	if len(transactions) != len(want) {
		t.Fatalf("expected %d transactions, got %d: %+v", len(want), len(transactions), transactions)
	}
	for i := range want {
		if transactions[i] != want[i] {
			t.Errorf("transaction %d = %+v, want %+v", i, transactions[i], want[i])
		}
	}
}

func TestSimplifyBalances_Empty(t *testing.T) {
	if got := SimplifyBalances(map[string]float64{}); len(got) != 0 {
		t.Errorf("expected no transactions, got %+v", got)
	}
}
