// Package estimator computes loyalty discounts from entitlement token
// payloads alone. It runs as its own process and never touches the
// seat ledger: the signed token is its only source of truth.
package estimator

import (
	"math"
	"math/rand"
)

// Discount bounds and the random bonus range. The result is always
// clamped into [MinDiscount, MaxDiscount].
const (
	MinDiscount = 5
	MaxDiscount = 50
	minBonus    = 5
	maxBonus    = 20
)

// RandInt returns a uniformly distributed integer in [min, max]. The
// estimator takes it as a dependency so tests can pin the bonus.
type RandInt func(min, max int) int

// DefaultRandInt draws from math/rand's global source.
func DefaultRandInt(min, max int) int {
	return min + rand.Intn(max-min+1)
}

// SeatSum sums the reserved row numbers. Loyal users keep the full
// sum; regular users get it divided by three.
func SeatSum(rowNumbers []int, loyal bool) float64 {
	sum := 0
	for _, n := range rowNumbers {
		sum += n
	}
	if loyal {
		return float64(sum)
	}
	return float64(sum) / 3
}

// Discount adds a random bonus in [5, 20] to the seat sum, rounds, and
// clamps the result into [5, 50]. Two calls with the same input can
// return different values; that randomness is intentional product
// behavior, so callers must not memoize the result.
func Discount(seatSum float64, rnd RandInt) int {
	d := int(math.Round(seatSum + float64(rnd(minBonus, maxBonus))))
	if d < MinDiscount {
		return MinDiscount
	}
	if d > MaxDiscount {
		return MaxDiscount
	}
	return d
}
