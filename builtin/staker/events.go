// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/impactnet/impact/impact"
)

type StakedEvent struct {
	StakeID   uint64                `json:"stakeId"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
	StartTime uint64                `json:"startTime"`
	EndTime   uint64                `json:"endTime"`
}

type WithdrawnEvent struct {
	StakeID              uint64                `json:"stakeId"`
	Principal            *math.HexOrDecimal256 `json:"principal"`
	Reward               *math.HexOrDecimal256 `json:"reward"`
	SlashedFromPrincipal *math.HexOrDecimal256 `json:"slashedFromPrincipal"`
	SlashedFromReward    *math.HexOrDecimal256 `json:"slashedFromReward"`
	Matured              bool                  `json:"matured"`
}

type SlashedEvent struct {
	Amount      *math.HexOrDecimal256 `json:"amount"`
	Reason      string                `json:"reason"`
	FromBalance *math.HexOrDecimal256 `json:"fromBalance"`
	Shortfall   *math.HexOrDecimal256 `json:"shortfall"`
}

type ParamsUpdatedEvent struct {
	MinStakeDuration uint64 `json:"minStakeDuration"`
	MaxStakeDuration uint64 `json:"maxStakeDuration"`
	BaseRewardRate   uint64 `json:"baseRewardRate"`
}

func hex(v *big.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}

// pending collects the events of an operation until it succeeds.
type pending struct {
	time   uint64
	events []*impact.Event
}

func (p *pending) emit(kind string, subject impact.Address, payload any) error {
	ev, err := impact.NewEvent(kind, subject, p.time, payload)
	if err != nil {
		return err
	}
	p.events = append(p.events, ev)
	return nil
}
