package ledger

import (
	"container/heap"
	"math"
	"sort"
)

// Transaction is a proposed payment from a debtor to a creditor that moves
// both balances toward zero. From and To are user IDs.
type Transaction struct {
	From   string
	To     string
	Amount float64
}

// party is a user with a remaining signed balance during settlement.
type party struct {
	id      string
	balance float64
}

// partyHeap is a priority queue of parties with a pluggable ordering.
type partyHeap struct {
	parties []party
	less    func(a, b party) bool
}

func (h *partyHeap) Len() int           { return len(h.parties) }
func (h *partyHeap) Less(i, j int) bool { return h.less(h.parties[i], h.parties[j]) }
func (h *partyHeap) Swap(i, j int)      { h.parties[i], h.parties[j] = h.parties[j], h.parties[i] }
func (h *partyHeap) Push(x any)         { h.parties = append(h.parties, x.(party)) }
func (h *partyHeap) Pop() any {
	old := h.parties
	n := len(old)
	p := old[n-1]
	h.parties = old[:n-1]
	return p
}

// byCreditDesc orders creditors largest credit first, user ID breaking ties.
func byCreditDesc(a, b party) bool {
	if a.balance != b.balance {
		return a.balance > b.balance
	}
	return a.id < b.id
}

// byDebtDesc orders debtors most negative balance first, user ID breaking ties.
func byDebtDesc(a, b party) bool {
	if a.balance != b.balance {
		return a.balance < b.balance
	}
	return a.id < b.id
}

// MinimumSettlements reduces a set of net balances to a short list of
// settling payments by greedy matching: repeatedly pair the largest
// outstanding credit with the largest outstanding debt and settle the smaller
// of the two. At most n-1 transactions are produced for n unsettled parties.
//
// The result is a heuristic, not a guaranteed minimum — the true minimum
// transaction count is NP-hard. Output order is deterministic: equal-magnitude
// balances are broken by user ID.
func MinimumSettlements(balances map[string]float64) []Transaction {
	creditors := &partyHeap{less: byCreditDesc}
	debtors := &partyHeap{less: byDebtDesc}

	for id, balance := range balances {
		switch {
		case balance > Epsilon:
			creditors.parties = append(creditors.parties, party{id: id, balance: balance})
		case balance < -Epsilon:
			debtors.parties = append(debtors.parties, party{id: id, balance: balance})
		}
	}
	heap.Init(creditors)
	heap.Init(debtors)

	var transactions []Transaction
	for debtors.Len() > 0 && creditors.Len() > 0 {
		debtor := heap.Pop(debtors).(party)
		creditor := heap.Pop(creditors).(party)

		amount := Round2(math.Min(-debtor.balance, creditor.balance))
		transactions = append(transactions, Transaction{
			From:   debtor.id,
			To:     creditor.id,
			Amount: amount,
		})

		debtor.balance += amount
		creditor.balance -= amount
		if math.Abs(debtor.balance) > Epsilon {
			heap.Push(debtors, debtor)
		}
		if math.Abs(creditor.balance) > Epsilon {
			heap.Push(creditors, creditor)
		}
	}
	return transactions
}

// SimplifyBalances reduces a group's net balance map to settling payments
// with a two-pointer greedy pass: debtors (most indebted first) are walked in
// order and drained into a creditor cursor that advances once the current
// creditor is made whole. It can produce a different transaction set than
// MinimumSettlements for the same balances; both leave every balance within
// Epsilon of zero.
func SimplifyBalances(balances map[string]float64) []Transaction {
	var creditors, debtors []party
	for id, balance := range balances {
		switch {
		case balance > Epsilon:
			creditors = append(creditors, party{id: id, balance: balance})
		case balance < -Epsilon:
			debtors = append(debtors, party{id: id, balance: balance})
		}
	}
	sort.Slice(creditors, func(i, j int) bool { return byCreditDesc(creditors[i], creditors[j]) })
	sort.Slice(debtors, func(i, j int) bool { return byDebtDesc(debtors[i], debtors[j]) })

	var transactions []Transaction
	cursor := 0
	for _, debtor := range debtors {
		debt := -debtor.balance
		for debt > Epsilon && cursor < len(creditors) {
			credit := creditors[cursor].balance
			amount := math.Min(debt, credit)

			transactions = append(transactions, Transaction{
				From:   debtor.id,
				To:     creditors[cursor].id,
				Amount: Round2(amount),
			})

			debt -= amount
			creditors[cursor].balance = credit - amount
			if creditors[cursor].balance <= Epsilon {
				cursor++
			}
		}
	}
	return transactions
}
