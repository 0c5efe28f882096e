package ledger

import "math"

// ShareLine is one share row joined with its owning expense, the unit of
// input for balance aggregation. Callers build these from a storage snapshot.
type ShareLine struct {
	ExpenseID     string
	UserID        string
	ShareAmount   float64
	ExpenseAmount float64
	PaidByID      string
}

// ExpenseForBalance carries the slice of an expense needed for group balance
// calculation: who paid how much, and every participant's share.
type ExpenseForBalance struct {
	ID       string
	Amount   float64
	PaidByID string
	Shares   []Share
}

// UserSummary is a user's aggregate position across every expense touching
// them. All amounts are rounded to 2 decimals.
type UserSummary struct {
	TotalPaid  float64
	TotalShare float64
	TotalOwed  float64 // max(NetBalance, 0): what others owe this user
	TotalOwing float64 // max(-NetBalance, 0): what this user owes others
	NetBalance float64 // TotalPaid - TotalShare
}

// SummarizeUser computes the double-entry summary for one user from that
// user's own share rows: the payer is credited the full expense amount, every
// share is a debit. NetBalance is rounded before the owed/owing fields are
// derived from it, so the three values are always consistent.
func SummarizeUser(userID string, lines []ShareLine) UserSummary {
	var totalPaid, totalShare float64
	for _, line := range lines {
		totalShare += line.ShareAmount
		if line.PaidByID == userID {
			totalPaid += line.ExpenseAmount
		}
	}

	net := Round2(totalPaid - totalShare)
	summary := UserSummary{
		TotalPaid:  Round2(totalPaid),
		TotalShare: Round2(totalShare),
		NetBalance: net,
	}
	if net > 0 {
		summary.TotalOwed = net
	} else {
		summary.TotalOwing = -net
	}
	return summary
}

// GroupBalances computes the net balance of every group member across the
// given expenses. Each payer is credited the full expense amount and each
// share's participant is debited their share. The result always contains an
// entry for every member, including those with zero balance; for balanced
// double-entry data the values sum to zero within Epsilon.
func GroupBalances(memberIDs []string, expenses []ExpenseForBalance) map[string]float64 {
	balances := make(map[string]float64, len(memberIDs))
	for _, id := range memberIDs {
		balances[id] = 0
	}

	for _, e := range expenses {
		balances[e.PaidByID] += e.Amount
		for _, s := range e.Shares {
			balances[s.UserID] -= s.Amount
		}
	}
	return balances
}

// NetBalances computes global net balances for an arbitrary set of users from
// each user's own share rows (not scoped to one group). Entries within
// Epsilon of zero are dropped: those users are already settled.
func NetBalances(linesByUser map[string][]ShareLine) map[string]float64 {
	balances := make(map[string]float64, len(linesByUser))
	for userID, lines := range linesByUser {
		var balance float64
		for _, line := range lines {
			balance -= line.ShareAmount
			if line.PaidByID == userID {
				balance += line.ExpenseAmount
			}
		}
		if math.Abs(balance) > Epsilon {
			balances[userID] = balance
		}
	}
	return balances
}
