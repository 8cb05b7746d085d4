// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/impactnet/impact/builtin/access"
	"github.com/impactnet/impact/builtin/params"
	"github.com/impactnet/impact/builtin/token"
	"github.com/impactnet/impact/impact"
	"github.com/impactnet/impact/state"
)

type emitFunc func(kind string, subject impact.Address, payload any) error

// Builder applies the initial state through the builtin binders.
type Builder struct {
	launchTime uint64
	procs      []func(st *state.State, emit emitFunc) error
}

func (b *Builder) LaunchTime(t uint64) *Builder {
	b.launchTime = t
	return b
}

// State appends a raw state procedure.
func (b *Builder) State(proc func(st *state.State) error) *Builder {
	b.procs = append(b.procs, func(st *state.State, _ emitFunc) error {
		return proc(st)
	})
	return b
}

func (b *Builder) Params(minDuration, maxDuration, baseRate uint64) *Builder {
	b.procs = append(b.procs, func(st *state.State, _ emitFunc) error {
		p := params.New(impact.ParamsAddress, st)
		p.Set(impact.KeyMinStakeDuration, new(big.Int).SetUint64(minDuration))
		p.Set(impact.KeyMaxStakeDuration, new(big.Int).SetUint64(maxDuration))
		p.Set(impact.KeyBaseRewardRate, new(big.Int).SetUint64(baseRate))
		return nil
	})
	return b
}

func (b *Builder) Grant(role impact.Role, addr impact.Address) *Builder {
	b.procs = append(b.procs, func(st *state.State, emit emitFunc) error {
		changed, err := access.New(impact.AccessAddress, st).Grant(role, addr)
		if err != nil || !changed {
			return err
		}
		return emit(impact.EventRoleGranted, addr, &access.RoleEvent{Role: role, Account: addr})
	})
	return b
}

func (b *Builder) Mint(to impact.Address, amount *big.Int) *Builder {
	amount = new(big.Int).Set(amount)
	b.procs = append(b.procs, func(st *state.State, emit emitFunc) error {
		if amount.Sign() == 0 {
			return nil
		}
		if err := token.New(impact.TokenAddress, st).Mint(to, amount); err != nil {
			return err
		}
		return emit(impact.EventMint, to, &token.MintEvent{To: to, Amount: (*math.HexOrDecimal256)(amount)})
	})
	return b
}

// Build applies all procedures to st in order and returns the events they emitted.
// The state is left uncommitted.
func (b *Builder) Build(st *state.State) ([]*impact.Event, error) {
	var events []*impact.Event
	emit := func(kind string, subject impact.Address, payload any) error {
		ev, err := impact.NewEvent(kind, subject, b.launchTime, payload)
		if err != nil {
			return err
		}
		events = append(events, ev)
		return nil
	}
	for _, proc := range b.procs {
		if err := proc(st, emit); err != nil {
			return nil, errors.Wrap(err, "state process")
		}
	}
	return events, nil
}
