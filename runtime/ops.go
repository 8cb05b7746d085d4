// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/impactnet/impact/builtin/access"
	"github.com/impactnet/impact/builtin/reverts"
	"github.com/impactnet/impact/builtin/staker"
	"github.com/impactnet/impact/builtin/token"
	"github.com/impactnet/impact/impact"
	"github.com/impactnet/impact/xenv"
)

//
// Staking
//

func (rt *Runtime) Stake(ctx context.Context, caller impact.Address, amount *big.Int, duration uint64) (id uint64, err error) {
	err = rt.execute(ctx, "stake", caller, func(env *xenv.Environment) (err error) {
		id, err = rt.staker.Stake(env, amount, duration)
		return err
	})
	return id, err
}

func (rt *Runtime) Withdraw(ctx context.Context, caller impact.Address, id uint64) (w *staker.Withdrawal, err error) {
	err = rt.execute(ctx, "withdraw", caller, func(env *xenv.Environment) (err error) {
		w, err = rt.staker.Withdraw(env, id)
		return err
	})
	return w, err
}

func (rt *Runtime) SlashValidator(ctx context.Context, caller, validator impact.Address, amount *big.Int, reason string) (s *staker.Slash, err error) {
	err = rt.execute(ctx, "slash", caller, func(env *xenv.Environment) (err error) {
		s, err = rt.staker.SlashValidator(env, validator, amount, reason)
		return err
	})
	return s, err
}

func (rt *Runtime) UpdateStakingParams(ctx context.Context, caller impact.Address, minDuration, maxDuration, baseRate uint64) error {
	return rt.execute(ctx, "update-params", caller, func(env *xenv.Environment) error {
		return rt.staker.UpdateStakingParams(env, minDuration, maxDuration, baseRate)
	})
}

//
// Token
//

// Transfer moves amount from the caller to recipient.
func (rt *Runtime) Transfer(ctx context.Context, caller, recipient impact.Address, amount *big.Int) error {
	return rt.execute(ctx, "transfer", caller, func(env *xenv.Environment) error {
		if err := env.RequireRunning(); err != nil {
			return err
		}
		if amount == nil || amount.Sign() <= 0 {
			return reverts.ErrInvalidAmount
		}
		if caller == impact.StakerAddress || recipient == impact.StakerAddress {
			return reverts.ErrInvalidAccount
		}
		if err := rt.token.Transfer(caller, recipient, amount); err != nil {
			return err
		}
		return rt.emitNew(env, impact.EventTransfer, caller, &token.TransferEvent{
			From:   caller,
			To:     recipient,
			Amount: (*math.HexOrDecimal256)(new(big.Int).Set(amount)),
		})
	})
}

// Mint creates amount for recipient. The caller must hold the minter role.
func (rt *Runtime) Mint(ctx context.Context, caller, recipient impact.Address, amount *big.Int) error {
	return rt.execute(ctx, "mint", caller, func(env *xenv.Environment) error {
		if err := env.RequireRunning(); err != nil {
			return err
		}
		if err := env.Require(impact.RoleMinter); err != nil {
			return err
		}
		if amount == nil || amount.Sign() <= 0 {
			return reverts.ErrInvalidAmount
		}
		if recipient == impact.StakerAddress {
			return reverts.ErrInvalidAccount
		}
		if err := rt.token.Mint(recipient, amount); err != nil {
			return err
		}
		return rt.emitNew(env, impact.EventMint, recipient, &token.MintEvent{
			To:     recipient,
			Amount: (*math.HexOrDecimal256)(new(big.Int).Set(amount)),
		})
	})
}

//
// Access, not subject to the halt so that a halted system can be administered
//

// GrantRole grants role to account. Granting a held role changes nothing and emits nothing.
func (rt *Runtime) GrantRole(ctx context.Context, caller impact.Address, role impact.Role, account impact.Address) error {
	return rt.execute(ctx, "grant-role", caller, func(env *xenv.Environment) error {
		if err := env.Require(impact.RoleAdmin); err != nil {
			return err
		}
		changed, err := rt.access.Grant(role, account)
		if err != nil || !changed {
			return err
		}
		return rt.emitNew(env, impact.EventRoleGranted, account, &access.RoleEvent{Role: role, Account: account, Sender: caller})
	})
}

// RevokeRole revokes role from account.
func (rt *Runtime) RevokeRole(ctx context.Context, caller impact.Address, role impact.Role, account impact.Address) error {
	return rt.execute(ctx, "revoke-role", caller, func(env *xenv.Environment) error {
		if err := env.Require(impact.RoleAdmin); err != nil {
			return err
		}
		changed, err := rt.access.Revoke(role, account)
		if err != nil || !changed {
			return err
		}
		return rt.emitNew(env, impact.EventRoleRevoked, account, &access.RoleEvent{Role: role, Account: account, Sender: caller})
	})
}

// Pause halts every state-changing operation but role management and Unpause.
func (rt *Runtime) Pause(ctx context.Context, caller impact.Address) error {
	return rt.setHalted(ctx, caller, true)
}

func (rt *Runtime) Unpause(ctx context.Context, caller impact.Address) error {
	return rt.setHalted(ctx, caller, false)
}

func (rt *Runtime) setHalted(ctx context.Context, caller impact.Address, halted bool) error {
	op, kind := "pause", impact.EventHalted
	if !halted {
		op, kind = "unpause", impact.EventResumed
	}
	return rt.execute(ctx, op, caller, func(env *xenv.Environment) error {
		if err := env.Require(impact.RolePauser); err != nil {
			return err
		}
		if err := rt.access.SetHalted(halted); err != nil {
			return err
		}
		logger.Warn("halt flag changed", "halted", halted, "by", caller)
		return rt.emitNew(env, kind, caller, &access.HaltEvent{Sender: caller})
	})
}
