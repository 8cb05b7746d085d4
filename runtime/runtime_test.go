// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"context"
	"math/big"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/impactnet/impact/builtin/reverts"
	"github.com/impactnet/impact/genesis"
	"github.com/impactnet/impact/impact"
	"github.com/impactnet/impact/kv"
	"github.com/impactnet/impact/logdb"
	"github.com/impactnet/impact/lvldb"
	"github.com/impactnet/impact/runtime"
)

type clock struct{ now atomic.Uint64 }

func (c *clock) Now() uint64         { return c.now.Load() }
func (c *clock) Advance(secs uint64) { c.now.Add(secs) }

var (
	accs  = genesis.DevAccounts()
	admin = accs[0]
	alice = accs[1]
	bob   = accs[2]
)

func newRuntime(t *testing.T, db kv.Store, logDB *logdb.LogDB, c *clock) *runtime.Runtime {
	rt, err := runtime.New(db, logDB, genesis.NewDevnet(), c.Now)
	require.NoError(t, err)
	return rt
}

func newMemRuntime(t *testing.T) (*runtime.Runtime, *clock) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { logDB.Close() })

	c := &clock{}
	c.now.Store(1_000)
	return newRuntime(t, db, logDB, c), c
}

func TestGenesis(t *testing.T) {
	rt, _ := newMemRuntime(t)
	ctx := context.Background()

	acc, err := rt.Account(alice)
	require.NoError(t, err)
	assert.Equal(t, genesis.DevBalance, acc.Balance)
	assert.Equal(t, genesis.DevBalance, acc.VotingPower)

	supply, err := rt.Supply()
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Mul(genesis.DevBalance, big.NewInt(10)), supply.Supply)

	events, err := rt.Events(ctx, &logdb.EventFilter{Kinds: []string{impact.EventMint}})
	require.NoError(t, err)
	assert.Len(t, events, 10)

	p, err := rt.StakingParams()
	require.NoError(t, err)
	assert.Equal(t, impact.InitialBaseRewardRate.Uint64(), p.BaseRewardRate)
}

func TestStakeLifecycle(t *testing.T) {
	rt, c := newMemRuntime(t)
	ctx := context.Background()

	id, err := rt.Stake(ctx, alice, big.NewInt(1_000_000), impact.SecondsPerYear)
	require.NoError(t, err)

	info, err := rt.StakeInfo(alice, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), info.StartTime)
	reward, err := rt.CalculateReward(alice, id)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(80_000), reward)

	c.Advance(impact.SecondsPerYear)
	w, err := rt.Withdraw(ctx, alice, id)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(80_000), w.Reward)

	acc, err := rt.Account(alice)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Add(genesis.DevBalance, big.NewInt(80_000)), acc.Balance)

	stakes, err := rt.Stakes(alice)
	require.NoError(t, err)
	require.Len(t, stakes, 1)
	assert.True(t, stakes[0].Withdrawn)

	events, err := rt.Events(ctx, &logdb.EventFilter{Subject: &alice, Order: logdb.DESC})
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, impact.EventWithdrawn, events[0].Kind)
	assert.Equal(t, impact.EventStaked, events[1].Kind)
}

func TestFailedCallLeavesNoTrace(t *testing.T) {
	rt, _ := newMemRuntime(t)
	ctx := context.Background()

	before, err := rt.NewestEventSeq(ctx)
	require.NoError(t, err)

	_, err = rt.Stake(ctx, alice, new(big.Int).Add(genesis.DevBalance, big.NewInt(1)), 30*impact.Day)
	assert.ErrorIs(t, err, reverts.ErrInsufficientBalance)
	err = rt.Transfer(ctx, alice, bob, big.NewInt(0))
	assert.ErrorIs(t, err, reverts.ErrInvalidAmount)
	err = rt.Mint(ctx, alice, alice, big.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)
	_, err = rt.SlashValidator(ctx, alice, bob, big.NewInt(1), "")
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)

	after, err := rt.NewestEventSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	acc, err := rt.Account(alice)
	require.NoError(t, err)
	assert.Equal(t, genesis.DevBalance, acc.Balance)
	assert.Equal(t, uint64(0), acc.StakeCount)
}

func TestTokenAndRoles(t *testing.T) {
	rt, _ := newMemRuntime(t)
	ctx := context.Background()

	require.NoError(t, rt.Transfer(ctx, alice, bob, big.NewInt(100)))
	require.NoError(t, rt.Mint(ctx, admin, alice, big.NewInt(5)))

	require.NoError(t, rt.GrantRole(ctx, admin, impact.RoleMinter, alice))
	require.NoError(t, rt.Mint(ctx, alice, alice, big.NewInt(5)))
	require.NoError(t, rt.RevokeRole(ctx, admin, impact.RoleMinter, alice))
	assert.ErrorIs(t, rt.Mint(ctx, alice, alice, big.NewInt(5)), reverts.ErrUnauthorized)

	assert.ErrorIs(t, rt.GrantRole(ctx, alice, impact.RoleMinter, alice), reverts.ErrUnauthorized)
	assert.ErrorIs(t, rt.GrantRole(ctx, admin, impact.Role("king"), alice), reverts.ErrInvalidRole)

	acc, err := rt.Account(alice)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Sub(genesis.DevBalance, big.NewInt(90)), acc.Balance)

	has, err := rt.HasRole(impact.RoleMinter, alice)
	require.NoError(t, err)
	assert.False(t, has)

	// granting twice emits once
	seq, err := rt.NewestEventSeq(ctx)
	require.NoError(t, err)
	require.NoError(t, rt.GrantRole(ctx, admin, impact.RolePauser, bob))
	require.NoError(t, rt.GrantRole(ctx, admin, impact.RolePauser, bob))
	events, err := rt.Events(ctx, &logdb.EventFilter{Range: &logdb.Range{Unit: logdb.Seq, From: seq + 1}})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, impact.EventRoleGranted, events[0].Kind)
}

func TestEscrowAccountRefused(t *testing.T) {
	rt, c := newMemRuntime(t)
	ctx := context.Background()

	_, err := rt.Stake(ctx, alice, big.NewInt(1000), impact.SecondsPerYear)
	require.NoError(t, err)

	assert.ErrorIs(t, rt.Transfer(ctx, impact.StakerAddress, bob, big.NewInt(1000)), reverts.ErrInvalidAccount)
	assert.ErrorIs(t, rt.Transfer(ctx, bob, impact.StakerAddress, big.NewInt(1)), reverts.ErrInvalidAccount)
	assert.ErrorIs(t, rt.Mint(ctx, admin, impact.StakerAddress, big.NewInt(1)), reverts.ErrInvalidAccount)
	_, err = rt.SlashValidator(ctx, admin, impact.StakerAddress, big.NewInt(1000), "escrow")
	assert.ErrorIs(t, err, reverts.ErrInvalidAccount)

	escrow, err := rt.Account(impact.StakerAddress)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), escrow.Balance)

	c.Advance(impact.SecondsPerYear)
	w, err := rt.Withdraw(ctx, alice, 0)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), w.Principal)
}

func TestPause(t *testing.T) {
	rt, _ := newMemRuntime(t)
	ctx := context.Background()

	assert.ErrorIs(t, rt.Pause(ctx, alice), reverts.ErrUnauthorized)
	require.NoError(t, rt.Pause(ctx, admin))
	assert.ErrorIs(t, rt.Pause(ctx, admin), reverts.ErrAlreadyHalted)

	halted, err := rt.IsHalted()
	require.NoError(t, err)
	assert.True(t, halted)

	_, err = rt.Stake(ctx, alice, big.NewInt(10), 30*impact.Day)
	assert.ErrorIs(t, err, reverts.ErrSystemHalted)
	assert.ErrorIs(t, rt.Transfer(ctx, alice, bob, big.NewInt(1)), reverts.ErrSystemHalted)
	assert.ErrorIs(t, rt.Mint(ctx, admin, bob, big.NewInt(1)), reverts.ErrSystemHalted)
	assert.ErrorIs(t, rt.UpdateStakingParams(ctx, admin, 1, 2, 3), reverts.ErrSystemHalted)

	// the system stays administrable
	require.NoError(t, rt.GrantRole(ctx, admin, impact.RolePauser, bob))
	require.NoError(t, rt.Unpause(ctx, bob))
	assert.ErrorIs(t, rt.Unpause(ctx, bob), reverts.ErrNotHalted)
	require.NoError(t, rt.Transfer(ctx, alice, bob, big.NewInt(1)))
}

func TestCanceledContext(t *testing.T) {
	rt, _ := newMemRuntime(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := rt.Transfer(ctx, alice, bob, big.NewInt(1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConcurrentCallers(t *testing.T) {
	rt, _ := newMemRuntime(t)
	ctx := context.Background()

	var g errgroup.Group
	for _, acc := range accs[1:] {
		g.Go(func() error {
			for range 20 {
				if _, err := rt.Stake(ctx, acc, big.NewInt(1000), 30*impact.Day); err != nil {
					return err
				}
				if _, err := rt.Account(acc); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	supply, err := rt.Supply()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(9*20*1000), supply.Staked)
	for _, acc := range accs[1:] {
		a, err := rt.Account(acc)
		require.NoError(t, err)
		assert.Equal(t, uint64(20), a.StakeCount)
		assert.Equal(t, genesis.DevBalance, a.VotingPower)
	}
}

func TestEventWaiter(t *testing.T) {
	rt, _ := newMemRuntime(t)
	ctx := context.Background()

	w := rt.NewEventWaiter()
	go func() {
		_ = rt.Transfer(ctx, alice, bob, big.NewInt(1))
	}()
	select {
	case <-w.C():
	case <-time.After(time.Second):
		t.Fatal("not woken by the committed transfer")
	}
}

func TestRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	c := &clock{}

	open := func() (*runtime.Runtime, func()) {
		db, err := lvldb.New(filepath.Join(dir, "main.db"), lvldb.Options{})
		require.NoError(t, err)
		logDB, err := logdb.New(filepath.Join(dir, "logs.db"))
		require.NoError(t, err)
		return newRuntime(t, db, logDB, c), func() {
			logDB.Close()
			db.Close()
		}
	}

	rt, closeFn := open()
	id, err := rt.Stake(ctx, alice, big.NewInt(500), 30*impact.Day)
	require.NoError(t, err)
	_, err = rt.SlashValidator(ctx, admin, bob, new(big.Int).Add(genesis.DevBalance, big.NewInt(0)), "offline")
	require.NoError(t, err)
	seq, err := rt.NewestEventSeq(ctx)
	require.NoError(t, err)
	closeFn()

	rt, closeFn = open()
	defer closeFn()

	acc, err := rt.Account(alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(500), acc.TotalStaked)
	acc, err = rt.Account(bob)
	require.NoError(t, err)
	assert.Equal(t, 0, acc.Balance.Sign())

	again, err := rt.NewestEventSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, seq, again, "genesis is not applied twice")

	c.Advance(30 * impact.Day)
	_, err = rt.Withdraw(ctx, alice, id)
	require.NoError(t, err)
}

func TestGenesisMismatch(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	defer logDB.Close()

	_, err = runtime.New(db, logDB, genesis.NewDevnet(), nil)
	require.NoError(t, err)

	other := genesis.NewDevnet()
	other.LaunchTime = 42
	_, err = runtime.New(db, logDB, other, nil)
	assert.ErrorIs(t, err, runtime.ErrGenesisMismatch)
}
