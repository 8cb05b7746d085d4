// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package impact

import "math/big"

// Time constants, in seconds.
const (
	Day            uint64 = 24 * 60 * 60
	SecondsPerYear uint64 = 365 * Day
)

// Reward constants.
const (
	BasisPoints uint64 = 10000 // 100%
	YearScale   uint64 = 10000 // fixed-point scale for fractional years

	MaxBaseRewardRate uint64 = 5000 // 50% APR

	MediumTermDuration uint64 = 180 * Day
	MediumTermBonus    uint64 = 100
	LongTermDuration   uint64 = 365 * Day
	LongTermBonus      uint64 = 200
)

// Built-in storage namespaces.
var (
	TokenAddress  = BytesToAddress([]byte("Token"))
	AccessAddress = BytesToAddress([]byte("Access"))
	ParamsAddress = BytesToAddress([]byte("Params"))
	StakerAddress = BytesToAddress([]byte("Staker"))
)

// Keys of staking params.
var (
	KeyMinStakeDuration = BytesToBytes32([]byte("staker-min-duration"))
	KeyMaxStakeDuration = BytesToBytes32([]byte("staker-max-duration"))
	KeyBaseRewardRate   = BytesToBytes32([]byte("staker-base-rate"))

	InitialMinStakeDuration = new(big.Int).SetUint64(7 * Day)
	InitialMaxStakeDuration = new(big.Int).SetUint64(4 * 365 * Day)
	InitialBaseRewardRate   = big.NewInt(500) // 5% APR
)
