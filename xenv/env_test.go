// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/impactnet/impact/builtin/reverts"
	"github.com/impactnet/impact/impact"
)

type fakeGate struct {
	roles  map[impact.Role]bool
	halted bool
	err    error
}

func (g *fakeGate) RequireCapability(_ impact.Address, role impact.Role) error {
	if !g.roles[role] {
		return reverts.ErrUnauthorized
	}
	return nil
}

func (g *fakeGate) IsHalted() (bool, error) { return g.halted, g.err }

func TestEnvironment(t *testing.T) {
	caller := impact.BytesToAddress([]byte("caller"))
	gate := &fakeGate{roles: map[impact.Role]bool{impact.RoleSlasher: true}}
	env := New(caller, 1000, gate)

	assert.Equal(t, caller, env.Caller())
	assert.Equal(t, uint64(1000), env.Time())

	assert.NoError(t, env.Require(impact.RoleSlasher))
	assert.ErrorIs(t, env.Require(impact.RoleParams), reverts.ErrUnauthorized)

	assert.NoError(t, env.RequireRunning())
	gate.halted = true
	assert.ErrorIs(t, env.RequireRunning(), reverts.ErrSystemHalted)

	gate.err = errors.New("storage")
	assert.EqualError(t, env.RequireRunning(), "storage")
}

func TestEnvironmentWithoutGate(t *testing.T) {
	env := New(impact.Address{}, 0, nil)
	assert.ErrorIs(t, env.Require(impact.RoleAdmin), reverts.ErrUnauthorized)
	assert.NoError(t, env.RequireRunning())
}
