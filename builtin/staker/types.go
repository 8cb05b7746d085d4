// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/impactnet/impact/impact"
)

// Ledger is the balance ledger the staker moves value through.
// Each call is atomic and fails with reverts.ErrInsufficientBalance if unsatisfiable.
type Ledger interface {
	BalanceOf(addr impact.Address) (*big.Int, error)
	Transfer(from, to impact.Address, amount *big.Int) error
	Mint(to impact.Address, amount *big.Int) error
	Burn(from impact.Address, amount *big.Int) error
}

// EventSink receives events of successful operations only.
type EventSink interface {
	Emit(ev *impact.Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(ev *impact.Event)

func (f EventSinkFunc) Emit(ev *impact.Event) { f(ev) }

// Params are the global staking parameters.
type Params struct {
	MinStakeDuration uint64 // seconds
	MaxStakeDuration uint64 // seconds
	BaseRewardRate   uint64 // basis points
}

// StakeInfo is a read view of a stake. All fields are zero for an unknown stake.
type StakeInfo struct {
	Principal     *big.Int
	StartTime     uint64
	EndTime       uint64
	CurrentReward *big.Int
	Withdrawn     bool
}

// Withdrawal is what a withdraw paid out.
type Withdrawal struct {
	Principal            *big.Int // returned from escrow
	Reward               *big.Int // minted
	SlashedFromPrincipal *big.Int // burned from escrow
	SlashedFromReward    *big.Int // never minted
	Matured              bool
}

// Slash is the outcome of a slashing.
type Slash struct {
	FromBalance *big.Int // burned from the liquid balance
	Shortfall   *big.Int // recorded as owed
}
