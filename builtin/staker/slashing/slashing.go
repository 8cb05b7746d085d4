// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package slashing tracks penalties a validator still owes after its liquid
// balance was exhausted.
package slashing

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/impactnet/impact/builtin/solidity"
	"github.com/impactnet/impact/impact"
)

var slotSlashed = impact.BytesToBytes32([]byte("slashed-amounts"))

// Service manages outstanding shortfalls.
type Service struct {
	owed *solidity.Mapping[impact.Address, *big.Int]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		owed: solidity.NewMapping[impact.Address, *big.Int](sctx, slotSlashed),
	}
}

// Owed returns the shortfall still owed by validator.
func (s *Service) Owed(validator impact.Address) (*big.Int, error) {
	return s.owed.Get(validator)
}

// Record adds amount to the shortfall of validator.
func (s *Service) Record(validator impact.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	owed, err := s.owed.Get(validator)
	if err != nil {
		return err
	}
	return s.owed.Set(validator, owed.Add(owed, amount))
}

// Settle removes a collected amount from the shortfall of validator.
func (s *Service) Settle(validator impact.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	owed, err := s.owed.Get(validator)
	if err != nil {
		return err
	}
	if owed.Cmp(amount) < 0 {
		return errors.Errorf("settling %v above owed %v", amount, owed)
	}
	return s.owed.Set(validator, owed.Sub(owed, amount))
}

// Split divides a penalty into the part taken from the liquid balance and the shortfall.
func Split(amount, balance *big.Int) (fromBalance, shortfall *big.Int) {
	fromBalance = new(big.Int).Set(amount)
	if balance.Cmp(amount) < 0 {
		fromBalance.Set(balance)
	}
	return fromBalance, new(big.Int).Sub(amount, fromBalance)
}

// Collect takes an owed shortfall out of a withdrawal, reward first, then principal.
func Collect(owed, reward, principal *big.Int) (fromReward, fromPrincipal *big.Int) {
	fromReward = new(big.Int).Set(owed)
	if reward.Cmp(owed) < 0 {
		fromReward.Set(reward)
	}
	rest := new(big.Int).Sub(owed, fromReward)
	fromPrincipal = rest
	if principal.Cmp(rest) < 0 {
		fromPrincipal = new(big.Int).Set(principal)
	}
	return fromReward, fromPrincipal
}
