// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"

	"github.com/impactnet/impact/builtin/staker"
	"github.com/impactnet/impact/impact"
)

// Account is a read view of an account.
type Account struct {
	Balance     *big.Int
	TotalStaked *big.Int
	VotingPower *big.Int
	Slashed     *big.Int
	StakeCount  uint64
}

// Supply is a read view of the unit supply.
type Supply struct {
	Minted *big.Int
	Burned *big.Int
	Supply *big.Int
	Staked *big.Int // held in escrow
}

func (rt *Runtime) Account(addr impact.Address) (acc *Account, err error) {
	err = rt.read(func() error {
		a := &Account{}
		if a.Balance, err = rt.token.BalanceOf(addr); err != nil {
			return err
		}
		if a.TotalStaked, err = rt.staker.TotalStaked(addr); err != nil {
			return err
		}
		if a.VotingPower, err = rt.staker.VotingPower(addr); err != nil {
			return err
		}
		if a.Slashed, err = rt.staker.SlashedAmount(addr); err != nil {
			return err
		}
		if a.StakeCount, err = rt.staker.StakeCount(addr); err != nil {
			return err
		}
		acc = a
		return nil
	})
	return acc, err
}

// Stakes lists every stake of addr in id order, withdrawn ones included.
func (rt *Runtime) Stakes(addr impact.Address) (infos []*staker.StakeInfo, err error) {
	err = rt.read(func() error {
		infos, err = rt.staker.Stakes(addr)
		return err
	})
	return infos, err
}

func (rt *Runtime) StakeInfo(addr impact.Address, id uint64) (info *staker.StakeInfo, err error) {
	err = rt.read(func() error {
		info, err = rt.staker.StakeInfo(addr, id)
		return err
	})
	return info, err
}

func (rt *Runtime) CalculateReward(addr impact.Address, id uint64) (reward *big.Int, err error) {
	err = rt.read(func() error {
		reward, err = rt.staker.CalculateReward(addr, id)
		return err
	})
	return reward, err
}

func (rt *Runtime) StakingParams() (p *staker.Params, err error) {
	err = rt.read(func() error {
		p, err = rt.staker.Params()
		return err
	})
	return p, err
}

func (rt *Runtime) Supply() (s *Supply, err error) {
	err = rt.read(func() error {
		out := &Supply{}
		if out.Minted, err = rt.token.TotalMinted(); err != nil {
			return err
		}
		if out.Burned, err = rt.token.TotalBurned(); err != nil {
			return err
		}
		if out.Supply, err = rt.token.TotalSupply(); err != nil {
			return err
		}
		if out.Staked, err = rt.staker.GlobalStaked(); err != nil {
			return err
		}
		s = out
		return nil
	})
	return s, err
}

func (rt *Runtime) HasRole(role impact.Role, addr impact.Address) (has bool, err error) {
	err = rt.read(func() error {
		has, err = rt.access.HasRole(role, addr)
		return err
	})
	return has, err
}

func (rt *Runtime) IsHalted() (halted bool, err error) {
	err = rt.read(func() error {
		halted, err = rt.access.IsHalted()
		return err
	})
	return halted, err
}
