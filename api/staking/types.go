// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/impactnet/impact/impact"
)

// StakeRequest locks amount of the caller's balance for duration seconds.
type StakeRequest struct {
	Caller   impact.Address        `json:"caller"`
	Amount   *math.HexOrDecimal256 `json:"amount"`
	Duration uint64                `json:"duration"`
}

type StakeResponse struct {
	ID uint64 `json:"id"`
}

type WithdrawRequest struct {
	Caller impact.Address `json:"caller"`
}

type WithdrawResponse struct {
	Principal            *math.HexOrDecimal256 `json:"principal"`
	Reward               *math.HexOrDecimal256 `json:"reward"`
	SlashedFromPrincipal *math.HexOrDecimal256 `json:"slashedFromPrincipal"`
	SlashedFromReward    *math.HexOrDecimal256 `json:"slashedFromReward"`
	Matured              bool                  `json:"matured"`
}

type SlashRequest struct {
	Caller    impact.Address        `json:"caller"`
	Validator impact.Address        `json:"validator"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
	Reason    string                `json:"reason"`
}

type SlashResponse struct {
	FromBalance *math.HexOrDecimal256 `json:"fromBalance"`
	Shortfall   *math.HexOrDecimal256 `json:"shortfall"`
}

type Params struct {
	MinStakeDuration uint64 `json:"minStakeDuration"`
	MaxStakeDuration uint64 `json:"maxStakeDuration"`
	BaseRewardRate   uint64 `json:"baseRewardRate"`
}

type UpdateParamsRequest struct {
	Caller impact.Address `json:"caller"`
	Params
}

func hex(v *big.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(v)
}

// amount returns nil for an absent amount, which the ledger rejects as invalid.
func amount(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return nil
	}
	return (*big.Int)(v)
}
