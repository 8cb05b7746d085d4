// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/impactnet/impact/builtin/params"
	"github.com/impactnet/impact/builtin/reverts"
	"github.com/impactnet/impact/builtin/solidity"
	"github.com/impactnet/impact/builtin/staker/slashing"
	"github.com/impactnet/impact/builtin/staker/stakes"
	"github.com/impactnet/impact/impact"
	"github.com/impactnet/impact/log"
	"github.com/impactnet/impact/state"
	"github.com/impactnet/impact/xenv"
)

var logger = log.WithContext("pkg", "staker")

func SetLogger(l log.Logger) {
	logger = l
}

// Staker implements native methods of the `Staker` contract.
type Staker struct {
	addr   impact.Address
	state  *state.State
	params *params.Params
	ledger Ledger
	sink   EventSink
	guard  guard

	stakesService   *stakes.Service
	slashingService *slashing.Service
}

// New create a new instance. Principal in escrow is held by addr.
func New(addr impact.Address, state *state.State, params *params.Params, ledger Ledger, sink EventSink) *Staker {
	sctx := solidity.NewContext(addr, state)
	return &Staker{
		addr:   addr,
		state:  state,
		params: params,
		ledger: ledger,
		sink:   sink,

		stakesService:   stakes.New(sctx),
		slashingService: slashing.New(sctx),
	}
}

// Address returns the escrow account.
func (s *Staker) Address() impact.Address {
	return s.addr
}

//
// Getters - no state change
//

// Params returns the global staking parameters.
func (s *Staker) Params() (*Params, error) {
	var out Params
	for _, p := range []struct {
		key impact.Bytes32
		dst *uint64
	}{
		{impact.KeyMinStakeDuration, &out.MinStakeDuration},
		{impact.KeyMaxStakeDuration, &out.MaxStakeDuration},
		{impact.KeyBaseRewardRate, &out.BaseRewardRate},
	} {
		v, err := s.params.Get(p.key)
		if err != nil {
			return nil, err
		}
		if !v.IsUint64() {
			return nil, errors.Errorf("param %v out of range", p.key)
		}
		*p.dst = v.Uint64()
	}
	return &out, nil
}

// TotalStaked returns the principal of all active stakes of account.
func (s *Staker) TotalStaked(account impact.Address) (*big.Int, error) {
	return s.stakesService.TotalStaked(account)
}

// GlobalStaked returns the principal held in escrow.
func (s *Staker) GlobalStaked() (*big.Int, error) {
	return s.stakesService.GlobalStaked()
}

// VotingPower returns liquid balance plus active staked principal.
func (s *Staker) VotingPower(account impact.Address) (*big.Int, error) {
	bal, err := s.ledger.BalanceOf(account)
	if err != nil {
		return nil, err
	}
	staked, err := s.stakesService.TotalStaked(account)
	if err != nil {
		return nil, err
	}
	return bal.Add(bal, staked), nil
}

// SlashedAmount returns the shortfall account still owes.
func (s *Staker) SlashedAmount(account impact.Address) (*big.Int, error) {
	return s.slashingService.Owed(account)
}

// StakeCount returns the number of stakes ever created by account.
func (s *Staker) StakeCount(account impact.Address) (uint64, error) {
	return s.stakesService.Count(account)
}

// StakeInfo returns a stake with its projected full-term reward.
// An unknown stake yields zero values.
func (s *Staker) StakeInfo(account impact.Address, id uint64) (*StakeInfo, error) {
	rec, err := s.stakesService.Get(account, id)
	if err != nil {
		if errors.Is(err, reverts.ErrStakeNotFound) {
			return &StakeInfo{Principal: new(big.Int), CurrentReward: new(big.Int)}, nil
		}
		return nil, err
	}
	p, err := s.Params()
	if err != nil {
		return nil, err
	}
	return &StakeInfo{
		Principal:     rec.Principal,
		StartTime:     rec.StartTime,
		EndTime:       rec.EndTime,
		CurrentReward: rec.Reward(p.BaseRewardRate),
		Withdrawn:     rec.Withdrawn,
	}, nil
}

// Stakes lists all stakes of account in id order.
func (s *Staker) Stakes(account impact.Address) ([]*StakeInfo, error) {
	list, err := s.stakesService.List(account)
	if err != nil {
		return nil, err
	}
	p, err := s.Params()
	if err != nil {
		return nil, err
	}
	infos := make([]*StakeInfo, 0, len(list))
	for _, rec := range list {
		infos = append(infos, &StakeInfo{
			Principal:     rec.Principal,
			StartTime:     rec.StartTime,
			EndTime:       rec.EndTime,
			CurrentReward: rec.Reward(p.BaseRewardRate),
			Withdrawn:     rec.Withdrawn,
		})
	}
	return infos, nil
}

// CalculateReward returns the full-term reward of a stake of account,
// zero if it does not exist or is withdrawn.
func (s *Staker) CalculateReward(account impact.Address, id uint64) (*big.Int, error) {
	info, err := s.StakeInfo(account, id)
	if err != nil {
		return nil, err
	}
	return info.CurrentReward, nil
}

//
// Setters - state change
//

// exec runs fn as one all-or-nothing transition. It holds the guard for the
// whole call, refuses to run while halted, and reverts every state change
// and drops every event if fn fails.
func (s *Staker) exec(op string, env *xenv.Environment, fn func(p *pending) error) (err error) {
	if !s.guard.enter() {
		logger.Warn("reentrant call refused", "op", op, "caller", env.Caller())
		metricOps().AddWithLabel(1, map[string]string{"op": op, "result": "reentrant"})
		return reverts.ErrReentrantCall
	}
	defer s.guard.exit()

	defer func() {
		result := "ok"
		if err != nil {
			result = reverts.KindOf(err).String()
		}
		metricOps().AddWithLabel(1, map[string]string{"op": op, "result": result})
	}()

	if err := env.RequireRunning(); err != nil {
		return err
	}

	chk := s.state.NewCheckpoint()
	p := &pending{time: env.Time()}
	if err := fn(p); err != nil {
		s.state.RevertTo(chk)
		return err
	}

	if global, err := s.stakesService.GlobalStaked(); err == nil && global.IsInt64() {
		metricGlobalStaked().Set(global.Int64())
	}
	if s.sink != nil {
		for _, ev := range p.events {
			s.sink.Emit(ev)
		}
	}
	return nil
}

// Stake locks amount of the caller's balance for duration seconds and returns the new stake id.
func (s *Staker) Stake(env *xenv.Environment, amount *big.Int, duration uint64) (id uint64, err error) {
	caller := env.Caller()
	logger.Debug("staking", "account", caller, "amount", amount, "duration", duration)

	err = s.exec("stake", env, func(p *pending) error {
		if caller == s.addr {
			return reverts.ErrInvalidAccount
		}
		cfg, err := s.Params()
		if err != nil {
			return err
		}
		bounds := stakes.Bounds{Min: cfg.MinStakeDuration, Max: cfg.MaxStakeDuration}
		if id, err = s.stakesService.Create(caller, amount, duration, env.Time(), bounds); err != nil {
			return err
		}
		// record is in place, now move principal into escrow
		if err := s.ledger.Transfer(caller, s.addr, amount); err != nil {
			return err
		}
		return p.emit(impact.EventStaked, caller, &StakedEvent{
			StakeID:   id,
			Amount:    hex(amount),
			StartTime: env.Time(),
			EndTime:   env.Time() + duration,
		})
	})
	if err != nil {
		logger.Info("stake failed", "account", caller, "error", err)
		return 0, err
	}
	logger.Info("staked", "account", caller, "id", id, "amount", amount, "duration", duration)
	return id, nil
}

// Withdraw closes a stake of the caller. Principal is returned from escrow and,
// if matured, the reward is minted. An outstanding slashing shortfall is collected
// first from the reward and then from the principal.
func (s *Staker) Withdraw(env *xenv.Environment, id uint64) (*Withdrawal, error) {
	caller := env.Caller()
	logger.Debug("withdrawing", "account", caller, "id", id)

	var w *Withdrawal
	err := s.exec("withdraw", env, func(p *pending) error {
		if caller == s.addr {
			return reverts.ErrInvalidAccount
		}
		cfg, err := s.Params()
		if err != nil {
			return err
		}
		fin, err := s.stakesService.Finalize(caller, id, env.Time(), cfg.BaseRewardRate)
		if err != nil {
			return err
		}

		owed, err := s.slashingService.Owed(caller)
		if err != nil {
			return err
		}
		fromReward, fromPrincipal := slashing.Collect(owed, fin.Reward, fin.Principal)
		if err := s.slashingService.Settle(caller, new(big.Int).Add(fromReward, fromPrincipal)); err != nil {
			return err
		}

		w = &Withdrawal{
			Principal:            new(big.Int).Sub(fin.Principal, fromPrincipal),
			Reward:               new(big.Int).Sub(fin.Reward, fromReward),
			SlashedFromPrincipal: fromPrincipal,
			SlashedFromReward:    fromReward,
			Matured:              fin.Matured,
		}

		// bookkeeping is final, value moves last
		if err := s.ledger.Burn(s.addr, w.SlashedFromPrincipal); err != nil {
			return err
		}
		if err := s.ledger.Transfer(s.addr, caller, w.Principal); err != nil {
			return err
		}
		if err := s.ledger.Mint(caller, w.Reward); err != nil {
			return err
		}
		if fromPrincipal.Sign() > 0 {
			metricSlashed().AddWithLabel(1, map[string]string{"source": "principal"})
		}
		return p.emit(impact.EventWithdrawn, caller, &WithdrawnEvent{
			StakeID:              id,
			Principal:            hex(w.Principal),
			Reward:               hex(w.Reward),
			SlashedFromPrincipal: hex(w.SlashedFromPrincipal),
			SlashedFromReward:    hex(w.SlashedFromReward),
			Matured:              w.Matured,
		})
	})
	if err != nil {
		logger.Info("withdraw failed", "account", caller, "id", id, "error", err)
		return nil, err
	}
	logger.Info("withdrawn", "account", caller, "id", id, "principal", w.Principal, "reward", w.Reward, "slashed", w.SlashedFromPrincipal)
	return w, nil
}

// SlashValidator burns amount from the validator's liquid balance and records
// what the balance could not cover as a shortfall. The caller needs the slasher role.
func (s *Staker) SlashValidator(env *xenv.Environment, validator impact.Address, amount *big.Int, reason string) (*Slash, error) {
	logger.Debug("slashing", "validator", validator, "amount", amount, "reason", reason)

	var out *Slash
	err := s.exec("slash", env, func(p *pending) error {
		if err := env.Require(impact.RoleSlasher); err != nil {
			return err
		}
		if amount == nil || amount.Sign() <= 0 {
			return reverts.ErrInvalidAmount
		}
		// escrow holds every staker's principal
		if validator == s.addr {
			return reverts.ErrInvalidAccount
		}
		bal, err := s.ledger.BalanceOf(validator)
		if err != nil {
			return err
		}
		staked, err := s.stakesService.TotalStaked(validator)
		if err != nil {
			return err
		}
		owed, err := s.slashingService.Owed(validator)
		if err != nil {
			return err
		}
		// shortfall already owed is a claim on the same stakes
		if new(big.Int).Add(bal, staked).Cmp(new(big.Int).Add(amount, owed)) < 0 {
			return reverts.ErrSlashExceedsHoldings
		}

		fromBalance, shortfall := slashing.Split(amount, bal)
		if err := s.slashingService.Record(validator, shortfall); err != nil {
			return err
		}
		if err := s.ledger.Burn(validator, fromBalance); err != nil {
			return err
		}
		out = &Slash{FromBalance: fromBalance, Shortfall: shortfall}
		if fromBalance.Sign() > 0 {
			metricSlashed().AddWithLabel(1, map[string]string{"source": "balance"})
		}
		return p.emit(impact.EventSlashed, validator, &SlashedEvent{
			Amount:      hex(amount),
			Reason:      reason,
			FromBalance: hex(fromBalance),
			Shortfall:   hex(shortfall),
		})
	})
	if err != nil {
		logger.Info("slash failed", "validator", validator, "error", err)
		return nil, err
	}
	logger.Info("validator slashed", "validator", validator, "amount", amount, "fromBalance", out.FromBalance, "shortfall", out.Shortfall, "reason", reason)
	return out, nil
}

// UpdateStakingParams replaces the global staking parameters. The caller needs the params role.
func (s *Staker) UpdateStakingParams(env *xenv.Environment, minDuration, maxDuration, baseRate uint64) error {
	logger.Debug("updating staking params", "min", minDuration, "max", maxDuration, "rate", baseRate)

	err := s.exec("params", env, func(p *pending) error {
		if err := env.Require(impact.RoleParams); err != nil {
			return err
		}
		if minDuration > maxDuration {
			return reverts.ErrInvalidRange
		}
		if baseRate > impact.MaxBaseRewardRate {
			return reverts.ErrRateTooHigh
		}
		s.params.Set(impact.KeyMinStakeDuration, new(big.Int).SetUint64(minDuration))
		s.params.Set(impact.KeyMaxStakeDuration, new(big.Int).SetUint64(maxDuration))
		s.params.Set(impact.KeyBaseRewardRate, new(big.Int).SetUint64(baseRate))
		return p.emit(impact.EventParamsUpdated, env.Caller(), &ParamsUpdatedEvent{
			MinStakeDuration: minDuration,
			MaxStakeDuration: maxDuration,
			BaseRewardRate:   baseRate,
		})
	})
	if err != nil {
		logger.Info("params update failed", "error", err)
		return err
	}
	logger.Info("staking params updated", "min", minDuration, "max", maxDuration, "rate", baseRate)
	return nil
}
