// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"math/big"

	"github.com/impactnet/impact/builtin/staker/reward"
)

// Record is a single time-locked stake. Principal is fixed at creation and
// Withdrawn only ever moves from false to true.
type Record struct {
	Principal *big.Int
	StartTime uint64
	EndTime   uint64
	Withdrawn bool
}

// IsEmpty returns whether the record was never created.
func (r *Record) IsEmpty() bool {
	return r.Principal == nil || r.Principal.Sign() == 0
}

// Duration returns the lock duration in seconds.
func (r *Record) Duration() uint64 {
	return r.EndTime - r.StartTime
}

// Matured returns whether the lock has expired at now.
func (r *Record) Matured(now uint64) bool {
	return now >= r.EndTime
}

// Reward returns the full-term reward of the record, zero once withdrawn.
func (r *Record) Reward(baseRate uint64) *big.Int {
	if r.Withdrawn {
		return new(big.Int)
	}
	return reward.Calculate(r.Principal, r.StartTime, r.EndTime, baseRate)
}
