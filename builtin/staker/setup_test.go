// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impactnet/impact/builtin/access"
	"github.com/impactnet/impact/builtin/params"
	"github.com/impactnet/impact/builtin/token"
	"github.com/impactnet/impact/impact"
	"github.com/impactnet/impact/lvldb"
	"github.com/impactnet/impact/state"
	"github.com/impactnet/impact/xenv"
)

var (
	slasher  = impact.BytesToAddress([]byte("slasher"))
	operator = impact.BytesToAddress([]byte("operator"))
)

type testLedger struct {
	state  *state.State
	token  *token.Token
	access *access.Access
	staker *Staker
	events []*impact.Event
}

func newTestLedger(t *testing.T) *testLedger {
	return newTestLedgerWith(t, nil)
}

// newTestLedgerWith builds a ledger whose staker moves value through wrap(token), if given.
func newTestLedgerWith(t *testing.T, wrap func(*token.Token) Ledger) *testLedger {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	tl := &testLedger{
		state:  st,
		token:  token.New(impact.TokenAddress, st),
		access: access.New(impact.AccessAddress, st),
	}

	p := params.New(impact.ParamsAddress, st)
	p.Set(impact.KeyMinStakeDuration, impact.InitialMinStakeDuration)
	p.Set(impact.KeyMaxStakeDuration, impact.InitialMaxStakeDuration)
	p.Set(impact.KeyBaseRewardRate, impact.InitialBaseRewardRate)

	_, err = tl.access.Grant(impact.RoleSlasher, slasher)
	require.NoError(t, err)
	_, err = tl.access.Grant(impact.RoleParams, operator)
	require.NoError(t, err)

	var ledger Ledger = tl.token
	if wrap != nil {
		ledger = wrap(tl.token)
	}
	tl.staker = New(impact.StakerAddress, st, p, ledger, EventSinkFunc(func(ev *impact.Event) {
		tl.events = append(tl.events, ev)
	}))
	return tl
}

func (tl *testLedger) env(caller impact.Address, time uint64) *xenv.Environment {
	return xenv.New(caller, time, tl.access)
}

func (tl *testLedger) mint(t *testing.T, to impact.Address, amount int64) {
	require.NoError(t, tl.token.Mint(to, big.NewInt(amount)))
}

func (tl *testLedger) balance(t *testing.T, addr impact.Address) *big.Int {
	bal, err := tl.token.BalanceOf(addr)
	require.NoError(t, err)
	return bal
}

func (tl *testLedger) totalStaked(t *testing.T, addr impact.Address) *big.Int {
	total, err := tl.staker.TotalStaked(addr)
	require.NoError(t, err)
	return total
}

// assertConservation checks that every unit in circulation is either liquid or in
// escrow, and that the staked totals match the active records.
func (tl *testLedger) assertConservation(t *testing.T, accounts []impact.Address) {
	sum := new(big.Int)
	for _, acc := range accounts {
		sum.Add(sum, tl.balance(t, acc))

		infos, err := tl.staker.Stakes(acc)
		require.NoError(t, err)
		active := new(big.Int)
		for _, info := range infos {
			assert.Positive(t, info.Principal.Sign())
			if !info.Withdrawn {
				active.Add(active, info.Principal)
			}
		}
		assert.Equal(t, active, tl.totalStaked(t, acc), "total staked of %v", acc)
	}

	escrow := tl.balance(t, impact.StakerAddress)
	global, err := tl.staker.GlobalStaked()
	require.NoError(t, err)
	assert.Equal(t, global, escrow, "escrow holds exactly the active principal")

	sum.Add(sum, escrow)
	minted, err := tl.token.TotalMinted()
	require.NoError(t, err)
	burned, err := tl.token.TotalBurned()
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Sub(minted, burned), sum, "liquid plus escrow equals minted minus burned")

	p, err := tl.staker.Params()
	require.NoError(t, err)
	assert.LessOrEqual(t, p.MinStakeDuration, p.MaxStakeDuration)
}
