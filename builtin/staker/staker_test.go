// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"encoding/json"
	"math/big"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impactnet/impact/builtin/reverts"
	"github.com/impactnet/impact/builtin/token"
	"github.com/impactnet/impact/impact"
	"github.com/impactnet/impact/xenv"
)

func TestStakeAndWithdrawMatured(t *testing.T) {
	tl := newTestLedger(t)
	alice := impact.BytesToAddress([]byte("alice"))
	tl.mint(t, alice, 1_000_000)

	id, err := tl.staker.Stake(tl.env(alice, 100), big.NewInt(1_000_000), impact.SecondsPerYear)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)
	assert.Equal(t, 0, tl.balance(t, alice).Sign())
	assert.Equal(t, big.NewInt(1_000_000), tl.totalStaked(t, alice))

	reward, err := tl.staker.CalculateReward(alice, id)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(80_000), reward)

	info, err := tl.staker.StakeInfo(alice, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), info.StartTime)
	assert.Equal(t, uint64(100)+impact.SecondsPerYear, info.EndTime)
	assert.Equal(t, big.NewInt(80_000), info.CurrentReward)

	w, err := tl.staker.Withdraw(tl.env(alice, 100+impact.SecondsPerYear), id)
	require.NoError(t, err)
	assert.True(t, w.Matured)
	assert.Equal(t, big.NewInt(1_000_000), w.Principal)
	assert.Equal(t, big.NewInt(80_000), w.Reward)
	assert.Equal(t, big.NewInt(1_080_000), tl.balance(t, alice))
	assert.Equal(t, 0, tl.totalStaked(t, alice).Sign())

	reward, err = tl.staker.CalculateReward(alice, id)
	require.NoError(t, err)
	assert.Equal(t, 0, reward.Sign())

	require.Len(t, tl.events, 2)
	assert.Equal(t, impact.EventStaked, tl.events[0].Kind)
	assert.Equal(t, impact.EventWithdrawn, tl.events[1].Kind)
	assert.Equal(t, alice, tl.events[1].Subject)

	var payload WithdrawnEvent
	require.NoError(t, json.Unmarshal(tl.events[1].Data, &payload))
	assert.Equal(t, uint64(80_000), (*big.Int)(payload.Reward).Uint64())

	tl.assertConservation(t, []impact.Address{alice})
}

func TestEarlyWithdrawalForfeitsReward(t *testing.T) {
	tl := newTestLedger(t)
	alice := impact.BytesToAddress([]byte("alice"))
	tl.mint(t, alice, 1000)

	id, err := tl.staker.Stake(tl.env(alice, 0), big.NewInt(1000), 30*impact.Day)
	require.NoError(t, err)

	w, err := tl.staker.Withdraw(tl.env(alice, 10*impact.Day), id)
	require.NoError(t, err)
	assert.False(t, w.Matured)
	assert.Equal(t, 0, w.Reward.Sign())
	assert.Equal(t, big.NewInt(1000), w.Principal)
	assert.Equal(t, big.NewInt(1000), tl.balance(t, alice))
}

func TestNoDoubleWithdrawal(t *testing.T) {
	tl := newTestLedger(t)
	alice := impact.BytesToAddress([]byte("alice"))
	tl.mint(t, alice, 5000)

	id, err := tl.staker.Stake(tl.env(alice, 0), big.NewInt(1000), 30*impact.Day)
	require.NoError(t, err)
	_, err = tl.staker.Withdraw(tl.env(alice, 30*impact.Day), id)
	require.NoError(t, err)

	before := tl.balance(t, alice)
	events := len(tl.events)

	_, err = tl.staker.Withdraw(tl.env(alice, 31*impact.Day), id)
	assert.ErrorIs(t, err, reverts.ErrAlreadyWithdrawn)
	assert.Equal(t, before, tl.balance(t, alice))
	assert.Len(t, tl.events, events)

	_, err = tl.staker.Withdraw(tl.env(alice, 31*impact.Day), id+1)
	assert.ErrorIs(t, err, reverts.ErrStakeNotFound)

	// another account cannot reach alice's stake
	bob := impact.BytesToAddress([]byte("bob"))
	_, err = tl.staker.Withdraw(tl.env(bob, 31*impact.Day), id)
	assert.ErrorIs(t, err, reverts.ErrStakeNotFound)
}

func TestDurationBounds(t *testing.T) {
	tl := newTestLedger(t)
	alice := impact.BytesToAddress([]byte("alice"))
	tl.mint(t, alice, 100)

	minDuration := impact.InitialMinStakeDuration.Uint64()
	maxDuration := impact.InitialMaxStakeDuration.Uint64()

	tests := []struct {
		name     string
		amount   int64
		duration uint64
		err      error
	}{
		{"below min", 10, minDuration - 1, reverts.ErrDurationTooShort},
		{"above max", 10, maxDuration + 1, reverts.ErrDurationTooLong},
		{"zero amount", 0, minDuration, reverts.ErrInvalidAmount},
		{"over balance", 101, minDuration, reverts.ErrInsufficientBalance},
		{"at min", 10, minDuration, nil},
		{"at max", 10, maxDuration, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tl.staker.Stake(tl.env(alice, 0), big.NewInt(tt.amount), tt.duration)
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}

	count, err := tl.staker.StakeCount(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
	assert.Equal(t, big.NewInt(80), tl.balance(t, alice))
}

func TestFailedStakeChangesNothing(t *testing.T) {
	tl := newTestLedger(t)
	alice := impact.BytesToAddress([]byte("alice"))
	tl.mint(t, alice, 50)

	_, err := tl.staker.Stake(tl.env(alice, 0), big.NewInt(60), 30*impact.Day)
	assert.ErrorIs(t, err, reverts.ErrInsufficientBalance)

	count, err := tl.staker.StakeCount(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
	assert.Equal(t, 0, tl.totalStaked(t, alice).Sign())
	assert.Empty(t, tl.events)

	// the id is not consumed by the failed attempt
	id, err := tl.staker.Stake(tl.env(alice, 0), big.NewInt(50), 30*impact.Day)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)
}

func TestSlashingOrder(t *testing.T) {
	tl := newTestLedger(t)
	validator := impact.BytesToAddress([]byte("validator"))
	tl.mint(t, validator, 1300)
	_, err := tl.staker.Stake(tl.env(validator, 0), big.NewInt(1000), 30*impact.Day)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(300), tl.balance(t, validator))

	res, err := tl.staker.SlashValidator(tl.env(slasher, 1), validator, big.NewInt(900), "double sign")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(300), res.FromBalance)
	assert.Equal(t, big.NewInt(600), res.Shortfall)
	assert.Equal(t, 0, tl.balance(t, validator).Sign())
	assert.Equal(t, big.NewInt(1000), tl.totalStaked(t, validator))

	owed, err := tl.staker.SlashedAmount(validator)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(600), owed)

	ev := tl.events[len(tl.events)-1]
	assert.Equal(t, impact.EventSlashed, ev.Kind)
	var payload SlashedEvent
	require.NoError(t, json.Unmarshal(ev.Data, &payload))
	assert.Equal(t, "double sign", payload.Reason)

	tl.assertConservation(t, []impact.Address{validator})
}

func TestSlashValidation(t *testing.T) {
	tl := newTestLedger(t)
	validator := impact.BytesToAddress([]byte("validator"))
	tl.mint(t, validator, 100)

	_, err := tl.staker.SlashValidator(tl.env(validator, 0), validator, big.NewInt(10), "self")
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)

	_, err = tl.staker.SlashValidator(tl.env(slasher, 0), validator, new(big.Int), "zero")
	assert.ErrorIs(t, err, reverts.ErrInvalidAmount)

	_, err = tl.staker.SlashValidator(tl.env(slasher, 0), validator, big.NewInt(101), "too much")
	assert.ErrorIs(t, err, reverts.ErrSlashExceedsHoldings)

	assert.Equal(t, big.NewInt(100), tl.balance(t, validator))
	assert.Empty(t, tl.events)
}

func TestSlashCountsOwedShortfall(t *testing.T) {
	tl := newTestLedger(t)
	validator := impact.BytesToAddress([]byte("validator"))
	tl.mint(t, validator, 1000)
	_, err := tl.staker.Stake(tl.env(validator, 0), big.NewInt(1000), 30*impact.Day)
	require.NoError(t, err)

	_, err = tl.staker.SlashValidator(tl.env(slasher, 1), validator, big.NewInt(700), "downtime")
	require.NoError(t, err)

	// 700 is already owed against the 1000 staked
	_, err = tl.staker.SlashValidator(tl.env(slasher, 2), validator, big.NewInt(301), "downtime")
	assert.ErrorIs(t, err, reverts.ErrSlashExceedsHoldings)

	res, err := tl.staker.SlashValidator(tl.env(slasher, 2), validator, big.NewInt(300), "downtime")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(300), res.Shortfall)

	owed, err := tl.staker.SlashedAmount(validator)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), owed)
	tl.assertConservation(t, []impact.Address{validator})
}

func TestEscrowAccountRefused(t *testing.T) {
	tl := newTestLedger(t)
	alice := impact.BytesToAddress([]byte("alice"))
	tl.mint(t, alice, 1000)
	id, err := tl.staker.Stake(tl.env(alice, 0), big.NewInt(1000), impact.SecondsPerYear)
	require.NoError(t, err)
	events := len(tl.events)

	_, err = tl.staker.SlashValidator(tl.env(slasher, 1), impact.StakerAddress, big.NewInt(1000), "escrow")
	assert.ErrorIs(t, err, reverts.ErrInvalidAccount)

	_, err = tl.staker.Stake(tl.env(impact.StakerAddress, 1), big.NewInt(1000), impact.SecondsPerYear)
	assert.ErrorIs(t, err, reverts.ErrInvalidAccount)

	_, err = tl.staker.Withdraw(tl.env(impact.StakerAddress, 1), 0)
	assert.ErrorIs(t, err, reverts.ErrInvalidAccount)

	assert.Len(t, tl.events, events)
	assert.Equal(t, big.NewInt(1000), tl.balance(t, impact.StakerAddress))
	global, err := tl.staker.GlobalStaked()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), global)
	tl.assertConservation(t, []impact.Address{alice})

	w, err := tl.staker.Withdraw(tl.env(alice, impact.SecondsPerYear), id)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), w.Principal)
	tl.assertConservation(t, []impact.Address{alice})
}

func TestShortfallCollectedAtWithdrawal(t *testing.T) {
	tl := newTestLedger(t)
	validator := impact.BytesToAddress([]byte("validator"))
	tl.mint(t, validator, 1300)

	id, err := tl.staker.Stake(tl.env(validator, 0), big.NewInt(1000), 30*impact.Day)
	require.NoError(t, err)
	_, err = tl.staker.SlashValidator(tl.env(slasher, 1), validator, big.NewInt(900), "downtime")
	require.NoError(t, err)

	// matured reward of 1000 over 30 days is 4, the rest of the 600 owed comes out of principal
	w, err := tl.staker.Withdraw(tl.env(validator, 30*impact.Day), id)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(4), w.SlashedFromReward)
	assert.Equal(t, big.NewInt(596), w.SlashedFromPrincipal)
	assert.Equal(t, big.NewInt(404), w.Principal)
	assert.Equal(t, 0, w.Reward.Sign())
	assert.Equal(t, big.NewInt(404), tl.balance(t, validator))

	owed, err := tl.staker.SlashedAmount(validator)
	require.NoError(t, err)
	assert.Equal(t, 0, owed.Sign())

	burned, err := tl.token.TotalBurned()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(896), burned)

	tl.assertConservation(t, []impact.Address{validator})
}

func TestPartialShortfallCarriesOver(t *testing.T) {
	tl := newTestLedger(t)
	validator := impact.BytesToAddress([]byte("validator"))
	tl.mint(t, validator, 300)

	first, err := tl.staker.Stake(tl.env(validator, 0), big.NewInt(100), 30*impact.Day)
	require.NoError(t, err)
	second, err := tl.staker.Stake(tl.env(validator, 0), big.NewInt(200), 30*impact.Day)
	require.NoError(t, err)

	_, err = tl.staker.SlashValidator(tl.env(slasher, 1), validator, big.NewInt(250), "downtime")
	require.NoError(t, err)

	w, err := tl.staker.Withdraw(tl.env(validator, 2*impact.Day), first)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), w.SlashedFromPrincipal)
	assert.Equal(t, 0, w.Principal.Sign())

	owed, _ := tl.staker.SlashedAmount(validator)
	assert.Equal(t, big.NewInt(150), owed)

	w, err = tl.staker.Withdraw(tl.env(validator, 2*impact.Day), second)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(150), w.SlashedFromPrincipal)
	assert.Equal(t, big.NewInt(50), w.Principal)

	owed, _ = tl.staker.SlashedAmount(validator)
	assert.Equal(t, 0, owed.Sign())
	tl.assertConservation(t, []impact.Address{validator})
}

func TestVotingPower(t *testing.T) {
	tl := newTestLedger(t)
	alice := impact.BytesToAddress([]byte("alice"))
	tl.mint(t, alice, 250)
	_, err := tl.staker.Stake(tl.env(alice, 0), big.NewInt(200), 30*impact.Day)
	require.NoError(t, err)

	assert.Equal(t, big.NewInt(50), tl.balance(t, alice))
	power, err := tl.staker.VotingPower(alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(250), power)
}

func TestUpdateStakingParams(t *testing.T) {
	tl := newTestLedger(t)
	before, err := tl.staker.Params()
	require.NoError(t, err)

	err = tl.staker.UpdateStakingParams(tl.env(operator, 0), 20, 10, 500)
	assert.ErrorIs(t, err, reverts.ErrInvalidRange)

	err = tl.staker.UpdateStakingParams(tl.env(operator, 0), 10, 20, impact.MaxBaseRewardRate+1)
	assert.ErrorIs(t, err, reverts.ErrRateTooHigh)

	err = tl.staker.UpdateStakingParams(tl.env(slasher, 0), 10, 20, 500)
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)

	after, err := tl.staker.Params()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	require.NoError(t, tl.staker.UpdateStakingParams(tl.env(operator, 0), impact.Day, 2*impact.Day, impact.MaxBaseRewardRate))
	after, err = tl.staker.Params()
	require.NoError(t, err)
	assert.Equal(t, &Params{impact.Day, 2 * impact.Day, impact.MaxBaseRewardRate}, after)

	// new bounds apply to new stakes
	alice := impact.BytesToAddress([]byte("alice"))
	tl.mint(t, alice, 10)
	_, err = tl.staker.Stake(tl.env(alice, 0), big.NewInt(1), 3*impact.Day)
	assert.ErrorIs(t, err, reverts.ErrDurationTooLong)
}

func TestHaltedRejectsStateChanges(t *testing.T) {
	tl := newTestLedger(t)
	alice := impact.BytesToAddress([]byte("alice"))
	tl.mint(t, alice, 1000)
	id, err := tl.staker.Stake(tl.env(alice, 0), big.NewInt(500), 30*impact.Day)
	require.NoError(t, err)

	require.NoError(t, tl.access.SetHalted(true))

	_, err = tl.staker.Stake(tl.env(alice, 0), big.NewInt(100), 30*impact.Day)
	assert.ErrorIs(t, err, reverts.ErrSystemHalted)
	assert.True(t, reverts.Retryable(err))

	_, err = tl.staker.Withdraw(tl.env(alice, 30*impact.Day), id)
	assert.ErrorIs(t, err, reverts.ErrSystemHalted)

	_, err = tl.staker.SlashValidator(tl.env(slasher, 0), alice, big.NewInt(1), "x")
	assert.ErrorIs(t, err, reverts.ErrSystemHalted)

	err = tl.staker.UpdateStakingParams(tl.env(operator, 0), 1, 2, 3)
	assert.ErrorIs(t, err, reverts.ErrSystemHalted)

	// reads still work
	power, err := tl.staker.VotingPower(alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), power)

	require.NoError(t, tl.access.SetHalted(false))
	_, err = tl.staker.Withdraw(tl.env(alice, 30*impact.Day), id)
	assert.NoError(t, err)
}

// hostileLedger re-enters the staker from inside value-moving calls.
type hostileLedger struct {
	*token.Token
	staker  *Staker
	env     *xenv.Environment
	stakeID uint64
	errs    []error
}

func (h *hostileLedger) reenter() {
	if h.staker == nil {
		return
	}
	_, err := h.staker.Withdraw(h.env, h.stakeID)
	h.errs = append(h.errs, err)
	_, err = h.staker.Stake(h.env, big.NewInt(1), 30*impact.Day)
	h.errs = append(h.errs, err)
}

func (h *hostileLedger) Transfer(from, to impact.Address, amount *big.Int) error {
	h.reenter()
	return h.Token.Transfer(from, to, amount)
}

func (h *hostileLedger) Mint(to impact.Address, amount *big.Int) error {
	h.reenter()
	return h.Token.Mint(to, amount)
}

func TestReentrantWithdrawRefused(t *testing.T) {
	var hostile *hostileLedger
	tl := newTestLedgerWith(t, func(tok *token.Token) Ledger {
		hostile = &hostileLedger{Token: tok}
		return hostile
	})
	attacker := impact.BytesToAddress([]byte("attacker"))
	tl.mint(t, attacker, 1_000_000)

	id, err := tl.staker.Stake(tl.env(attacker, 0), big.NewInt(1_000_000), impact.SecondsPerYear)
	require.NoError(t, err)

	hostile.staker = tl.staker
	hostile.env = tl.env(attacker, impact.SecondsPerYear)
	hostile.stakeID = id

	w, err := tl.staker.Withdraw(tl.env(attacker, impact.SecondsPerYear), id)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(80_000), w.Reward)

	require.NotEmpty(t, hostile.errs)
	for _, err := range hostile.errs {
		assert.ErrorIs(t, err, reverts.ErrReentrantCall)
	}

	// paid exactly once
	assert.Equal(t, big.NewInt(1_080_000), tl.balance(t, attacker))
	count, err := tl.staker.StakeCount(attacker)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
	tl.assertConservation(t, []impact.Address{attacker})
}

func TestConservationRandomSequence(t *testing.T) {
	tl := newTestLedger(t)
	rng := rand.New(rand.NewPCG(1, 2)) // #nosec G404

	accounts := make([]impact.Address, 5)
	for i := range accounts {
		accounts[i] = impact.BytesToAddress([]byte{'a', byte(i)})
		tl.mint(t, accounts[i], 1_000_000)
	}

	now := uint64(0)
	for range 300 {
		now += rng.Uint64N(20 * impact.Day)
		acc := accounts[rng.IntN(len(accounts))]

		switch rng.IntN(3) {
		case 0:
			amount := big.NewInt(rng.Int64N(200_000) + 1)
			duration := impact.Day * (rng.Uint64N(400) + 7)
			_, err := tl.staker.Stake(tl.env(acc, now), amount, duration)
			if err != nil {
				assert.ErrorIs(t, err, reverts.ErrInsufficientBalance)
			}
		case 1:
			count, err := tl.staker.StakeCount(acc)
			require.NoError(t, err)
			if count == 0 {
				continue
			}
			_, err = tl.staker.Withdraw(tl.env(acc, now), rng.Uint64N(count))
			if err != nil {
				assert.ErrorIs(t, err, reverts.ErrAlreadyWithdrawn)
			}
		case 2:
			amount := big.NewInt(rng.Int64N(100_000) + 1)
			_, err := tl.staker.SlashValidator(tl.env(slasher, now), acc, amount, "random")
			if err != nil {
				assert.ErrorIs(t, err, reverts.ErrSlashExceedsHoldings)
			}
		}
		tl.assertConservation(t, accounts)
	}
}
