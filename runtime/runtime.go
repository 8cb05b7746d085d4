// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes ledger operations one at a time on top of a persistent state.
// Every successful call is committed to the kv store in one batch, its events are
// appended to the log db and subscribers are woken.
package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/impactnet/impact/builtin/access"
	"github.com/impactnet/impact/builtin/params"
	"github.com/impactnet/impact/builtin/staker"
	"github.com/impactnet/impact/builtin/token"
	"github.com/impactnet/impact/co"
	"github.com/impactnet/impact/genesis"
	"github.com/impactnet/impact/impact"
	"github.com/impactnet/impact/kv"
	"github.com/impactnet/impact/log"
	"github.com/impactnet/impact/logdb"
	"github.com/impactnet/impact/state"
	"github.com/impactnet/impact/xenv"
)

var (
	logger = log.WithContext("pkg", "runtime")

	keyGenesisID = impact.BytesToBytes32([]byte("genesis-id"))
)

// ErrGenesisMismatch is returned when the database was initialized by another genesis.
var ErrGenesisMismatch = errors.New("genesis mismatch")

// SystemClock returns the current unix time in seconds.
func SystemClock() uint64 {
	return uint64(time.Now().Unix())
}

// Runtime is the single writer of the ledger. Calls from any number of goroutines
// are serialized, each one observing a consistent state.
type Runtime struct {
	mu      sync.RWMutex
	state   *state.State
	logDB   *logdb.LogDB
	clock   func() uint64
	pending []*impact.Event
	signal  co.Signal

	token  *token.Token
	access *access.Access
	params *params.Params
	staker *staker.Staker

	genesisID impact.Bytes32
}

// New opens the ledger kept in db. An empty db is initialized from gen.
// clock defaults to SystemClock.
func New(db kv.Store, logDB *logdb.LogDB, gen *genesis.Genesis, clock func() uint64) (*Runtime, error) {
	if clock == nil {
		clock = SystemClock
	}
	st := state.New(db)
	rt := &Runtime{
		state:     st,
		logDB:     logDB,
		clock:     clock,
		token:     token.New(impact.TokenAddress, st),
		access:    access.New(impact.AccessAddress, st),
		params:    params.New(impact.ParamsAddress, st),
		genesisID: gen.ID(),
	}
	rt.staker = staker.New(impact.StakerAddress, st, rt.params, rt.token, staker.EventSinkFunc(rt.emit))

	stored, err := st.GetStorage(impact.ParamsAddress, keyGenesisID)
	if err != nil {
		return nil, err
	}
	switch {
	case stored.IsZero():
		if err := rt.applyGenesis(gen); err != nil {
			return nil, errors.Wrap(err, "apply genesis")
		}
	case stored != rt.genesisID:
		return nil, errors.Wrapf(ErrGenesisMismatch, "want %v, have %v", rt.genesisID, stored)
	default:
		logger.Info("ledger loaded", "genesis", rt.genesisID.AbbrevString())
	}
	return rt, nil
}

func (rt *Runtime) applyGenesis(gen *genesis.Genesis) error {
	events, err := gen.Builder().Build(rt.state)
	if err != nil {
		return err
	}
	rt.state.SetStorage(impact.ParamsAddress, keyGenesisID, rt.genesisID)
	if err := rt.state.Commit(); err != nil {
		return err
	}
	if _, err := rt.logDB.Insert(events); err != nil {
		return err
	}
	logger.Info("genesis applied", "id", rt.genesisID.AbbrevString(), "accounts", len(gen.Accounts))
	return nil
}

func (rt *Runtime) GenesisID() impact.Bytes32 { return rt.genesisID }

// emit is the event sink of every binder, it buffers events of the running call.
func (rt *Runtime) emit(ev *impact.Event) {
	rt.pending = append(rt.pending, ev)
}

func (rt *Runtime) emitNew(env *xenv.Environment, kind string, subject impact.Address, payload any) error {
	ev, err := impact.NewEvent(kind, subject, env.Time(), payload)
	if err != nil {
		return err
	}
	rt.emit(ev)
	return nil
}

// execute runs fn as one call. The state is committed only if fn succeeds,
// otherwise it is reverted and the buffered events are dropped.
func (rt *Runtime) execute(ctx context.Context, op string, caller impact.Address, fn func(env *xenv.Environment) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	start := time.Now()
	defer func() {
		metricCallDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"op": op})
	}()

	env := xenv.New(caller, rt.clock(), rt.access)
	chk := rt.state.NewCheckpoint()
	rt.pending = rt.pending[:0]

	if err := fn(env); err != nil {
		rt.state.RevertTo(chk)
		rt.pending = rt.pending[:0]
		return err
	}
	if err := rt.state.Commit(); err != nil {
		rt.state.RevertTo(chk)
		rt.pending = rt.pending[:0]
		logger.Error("commit failed", "op", op, "error", err)
		return err
	}

	if len(rt.pending) > 0 {
		// the ledger is committed, a failure here only loses audit records
		if _, err := rt.logDB.Insert(rt.pending); err != nil {
			logger.Error("failed to record events", "op", op, "count", len(rt.pending), "error", err)
		}
		rt.pending = rt.pending[:0]
		rt.signal.Broadcast()
	}
	return nil
}

// read runs fn under the read lock.
func (rt *Runtime) read(fn func() error) error {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return fn()
}

// NewEventWaiter returns a waiter woken after each call that committed events.
func (rt *Runtime) NewEventWaiter() co.Waiter {
	return rt.signal.NewWaiter()
}

// Events queries the committed events.
func (rt *Runtime) Events(ctx context.Context, filter *logdb.EventFilter) ([]*logdb.Event, error) {
	return rt.logDB.FilterEvents(ctx, filter)
}

// NewestEventSeq returns the sequence of the last committed event.
func (rt *Runtime) NewestEventSeq(ctx context.Context) (uint64, error) {
	return rt.logDB.NewestSeq(ctx)
}
