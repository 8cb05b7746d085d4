// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reward computes staking rewards with integer arithmetic only.
package reward

import (
	"math/big"

	"github.com/impactnet/impact/impact"
)

var scale = new(big.Int).SetUint64(impact.BasisPoints * impact.YearScale)

// Rate returns the annual rate in basis points for a stake of the given duration.
// Both bonuses apply at or above their thresholds and add up.
func Rate(baseRate, duration uint64) uint64 {
	rate := baseRate
	if duration >= impact.MediumTermDuration {
		rate += impact.MediumTermBonus
	}
	if duration >= impact.LongTermDuration {
		rate += impact.LongTermBonus
	}
	return rate
}

// YearsScaled returns the duration in years, scaled by impact.YearScale and floored.
func YearsScaled(duration uint64) *big.Int {
	d := new(big.Int).SetUint64(duration)
	d.Mul(d, new(big.Int).SetUint64(impact.YearScale))
	return d.Div(d, new(big.Int).SetUint64(impact.SecondsPerYear))
}

// Calculate returns the full-term reward of principal locked from start to end:
//
//	principal * rate * yearsScaled / (BasisPoints * YearScale)
//
// The final division truncates. A zero, negative or nil principal, or an
// inverted time range, yields zero.
func Calculate(principal *big.Int, start, end, baseRate uint64) *big.Int {
	if principal == nil || principal.Sign() <= 0 || end <= start {
		return new(big.Int)
	}
	duration := end - start

	r := new(big.Int).Mul(principal, new(big.Int).SetUint64(Rate(baseRate, duration)))
	r.Mul(r, YearsScaled(duration))
	return r.Quo(r, scale)
}
