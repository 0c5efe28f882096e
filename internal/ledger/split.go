package ledger

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrSharesRequired is returned for a custom split with no share entries.
	ErrSharesRequired = errors.New("custom split requires shares")

	// ErrShareSumMismatch is returned when custom shares do not add up to the
	// expense amount within Epsilon.
	ErrShareSumMismatch = errors.New("shares must sum to amount")

	// ErrNoParticipants is returned for an equal split over zero members.
	ErrNoParticipants = errors.New("split requires at least one participant")
)

// Share is one user's allocated portion of an expense.
type Share struct {
	UserID string
	Amount float64
}

// EqualShares divides amount evenly among the given members.
// Each share is rounded to 2 decimals independently; the rounding residue is
// NOT redistributed, so the shares may sum to slightly more or less than
// amount (100.00 across 3 members yields three shares of 33.33). Callers that
// need exactness must compare against Epsilon, as the rest of the engine does.
func EqualShares(amount float64, memberIDs []string) ([]Share, error) {
	if len(memberIDs) == 0 {
		return nil, ErrNoParticipants
	}

	per := Round2(amount / float64(len(memberIDs)))
	shares := make([]Share, len(memberIDs))
	for i, id := range memberIDs {
		shares[i] = Share{UserID: id, Amount: per}
	}
	return shares, nil
}

// CustomShares validates caller-supplied shares against the expense amount.
// The shares must be non-empty and sum to amount within Epsilon.
func CustomShares(amount float64, shares []Share) ([]Share, error) {
	if len(shares) == 0 {
		return nil, ErrSharesRequired
	}

	var sum float64
	for _, s := range shares {
		sum += s.Amount
	}
	if math.Abs(sum-amount) > Epsilon {
		return nil, fmt.Errorf("%w: shares total %.2f, amount %.2f", ErrShareSumMismatch, sum, amount)
	}

	out := make([]Share, len(shares))
	copy(out, shares)
	return out, nil
}
