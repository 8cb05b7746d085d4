// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package access implements the access gate: role membership and the global halt flag.
package access

import (
	"github.com/impactnet/impact/builtin/reverts"
	"github.com/impactnet/impact/builtin/solidity"
	"github.com/impactnet/impact/impact"
	"github.com/impactnet/impact/log"
	"github.com/impactnet/impact/state"
)

var (
	logger = log.WithContext("pkg", "access")

	slotRoles  = impact.BytesToBytes32([]byte("roles"))
	slotHalted = impact.BytesToBytes32([]byte("halted"))
)

type memberKey impact.Bytes32

func (k memberKey) Bytes() []byte { return k[:] }

func roleMember(role impact.Role, addr impact.Address) memberKey {
	return memberKey(impact.Blake2b(role.Bytes(), addr.Bytes()))
}

// Access binder of the access contract.
type Access struct {
	roles  *solidity.Mapping[memberKey, bool]
	halted *solidity.Bool
}

func New(addr impact.Address, state *state.State) *Access {
	sctx := solidity.NewContext(addr, state)
	return &Access{
		roles:  solidity.NewMapping[memberKey, bool](sctx, slotRoles),
		halted: solidity.NewBool(sctx, slotHalted),
	}
}

// HasRole reports whether addr holds role.
func (a *Access) HasRole(role impact.Role, addr impact.Address) (bool, error) {
	return a.roles.Get(roleMember(role, addr))
}

// RequireCapability fails with ErrUnauthorized unless caller holds role.
func (a *Access) RequireCapability(caller impact.Address, role impact.Role) error {
	ok, err := a.HasRole(role, caller)
	if err != nil {
		return err
	}
	if !ok {
		logger.Debug("capability check failed", "caller", caller, "role", role)
		return reverts.ErrUnauthorized
	}
	return nil
}

// Grant gives role to addr. It returns false if addr already held it.
func (a *Access) Grant(role impact.Role, addr impact.Address) (bool, error) {
	if _, err := impact.ParseRole(string(role)); err != nil {
		return false, reverts.ErrInvalidRole
	}
	key := roleMember(role, addr)
	has, err := a.roles.Get(key)
	if err != nil || has {
		return false, err
	}
	return true, a.roles.Set(key, true)
}

// Revoke removes role from addr. It returns false if addr did not hold it.
func (a *Access) Revoke(role impact.Role, addr impact.Address) (bool, error) {
	if _, err := impact.ParseRole(string(role)); err != nil {
		return false, reverts.ErrInvalidRole
	}
	key := roleMember(role, addr)
	has, err := a.roles.Get(key)
	if err != nil || !has {
		return false, err
	}
	a.roles.Delete(key)
	return true, nil
}

// IsHalted reports the global halt flag.
func (a *Access) IsHalted() (bool, error) {
	return a.halted.Get()
}

// SetHalted sets the global halt flag.
func (a *Access) SetHalted(halted bool) error {
	cur, err := a.halted.Get()
	if err != nil {
		return err
	}
	if cur == halted {
		if halted {
			return reverts.ErrAlreadyHalted
		}
		return reverts.ErrNotHalted
	}
	a.halted.Set(halted)
	return nil
}
