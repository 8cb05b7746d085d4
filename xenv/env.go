// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/impactnet/impact/builtin/reverts"
	"github.com/impactnet/impact/impact"
)

// Gate answers capability checks and reports the global halt flag.
type Gate interface {
	RequireCapability(caller impact.Address, role impact.Role) error
	IsHalted() (bool, error)
}

// Environment an env to execute a state-changing operation.
// It is passed explicitly to every entry point that needs a caller or a clock.
type Environment struct {
	caller impact.Address
	time   uint64
	gate   Gate
}

// New create a new env.
func New(caller impact.Address, time uint64, gate Gate) *Environment {
	return &Environment{
		caller: caller,
		time:   time,
		gate:   gate,
	}
}

func (env *Environment) Caller() impact.Address { return env.caller }
func (env *Environment) Time() uint64           { return env.time }

// Require fails unless the caller holds role.
func (env *Environment) Require(role impact.Role) error {
	if env.gate == nil {
		return reverts.ErrUnauthorized
	}
	return env.gate.RequireCapability(env.caller, role)
}

// RequireRunning fails with ErrSystemHalted while the system is halted.
func (env *Environment) RequireRunning() error {
	if env.gate == nil {
		return nil
	}
	halted, err := env.gate.IsHalted()
	if err != nil {
		return err
	}
	if halted {
		return reverts.ErrSystemHalted
	}
	return nil
}
