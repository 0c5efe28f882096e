package ledger

import "math"

// Epsilon is the tolerance for treating a floating-point balance as settled.
// Balances with |b| <= Epsilon are considered zero everywhere in the engine.
const Epsilon = 0.01

// Round2 rounds a monetary amount half-up to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
