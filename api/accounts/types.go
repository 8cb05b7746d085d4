// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/impactnet/impact/builtin/staker"
)

type Account struct {
	Balance     *math.HexOrDecimal256 `json:"balance"`
	TotalStaked *math.HexOrDecimal256 `json:"totalStaked"`
	VotingPower *math.HexOrDecimal256 `json:"votingPower"`
	Slashed     *math.HexOrDecimal256 `json:"slashed"`
	StakeCount  uint64                `json:"stakeCount"`
}

type Stake struct {
	ID            uint64                `json:"id"`
	Principal     *math.HexOrDecimal256 `json:"principal"`
	StartTime     uint64                `json:"startTime"`
	EndTime       uint64                `json:"endTime"`
	CurrentReward *math.HexOrDecimal256 `json:"currentReward"`
	Withdrawn     bool                  `json:"withdrawn"`
}

type Reward struct {
	Reward *math.HexOrDecimal256 `json:"reward"`
}

func hex(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(v)
}

func convertStake(id uint64, info *staker.StakeInfo) *Stake {
	return &Stake{
		ID:            id,
		Principal:     hex(info.Principal),
		StartTime:     info.StartTime,
		EndTime:       info.EndTime,
		CurrentReward: hex(info.CurrentReward),
		Withdrawn:     info.Withdrawn,
	}
}
