// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the balance ledger of the native unit.
// Balances live in account state, supply counters in the token contract storage.
package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/impactnet/impact/builtin/reverts"
	"github.com/impactnet/impact/builtin/solidity"
	"github.com/impactnet/impact/impact"
	"github.com/impactnet/impact/state"
)

var (
	slotTotalMinted = impact.BytesToBytes32([]byte("total-minted"))
	slotTotalBurned = impact.BytesToBytes32([]byte("total-burned"))
)

// Token binder of the token contract.
type Token struct {
	state       *state.State
	totalMinted *solidity.Uint256
	totalBurned *solidity.Uint256
}

func New(addr impact.Address, state *state.State) *Token {
	sctx := solidity.NewContext(addr, state)
	return &Token{
		state:       state,
		totalMinted: solidity.NewUint256(sctx, slotTotalMinted),
		totalBurned: solidity.NewUint256(sctx, slotTotalBurned),
	}
}

// BalanceOf returns the liquid balance of addr.
func (t *Token) BalanceOf(addr impact.Address) (*big.Int, error) {
	return t.state.GetBalance(addr)
}

func (t *Token) addBalance(addr impact.Address, amount *big.Int) error {
	bal, err := t.state.GetBalance(addr)
	if err != nil {
		return err
	}
	return t.state.SetBalance(addr, bal.Add(bal, amount))
}

func (t *Token) subBalance(addr impact.Address, amount *big.Int) error {
	bal, err := t.state.GetBalance(addr)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return reverts.ErrInsufficientBalance
	}
	return t.state.SetBalance(addr, bal.Sub(bal, amount))
}

// Transfer moves amount from one account to another.
// Nothing changes when the sender's balance is insufficient.
func (t *Token) Transfer(from, to impact.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.ErrInvalidAmount
	}
	if err := t.subBalance(from, amount); err != nil {
		return err
	}
	return t.addBalance(to, amount)
}

// Mint creates amount units for to.
func (t *Token) Mint(to impact.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.ErrInvalidAmount
	}
	if amount.Sign() == 0 {
		return nil
	}
	if err := t.addBalance(to, amount); err != nil {
		return err
	}
	return errors.WithMessage(t.totalMinted.Add(amount), "total minted")
}

// Burn destroys amount units held by from.
func (t *Token) Burn(from impact.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.ErrInvalidAmount
	}
	if amount.Sign() == 0 {
		return nil
	}
	if err := t.subBalance(from, amount); err != nil {
		return err
	}
	return errors.WithMessage(t.totalBurned.Add(amount), "total burned")
}

// TotalMinted returns all units ever minted, genesis allocations included.
func (t *Token) TotalMinted() (*big.Int, error) {
	return t.totalMinted.Get()
}

// TotalBurned returns all units ever burned.
func (t *Token) TotalBurned() (*big.Int, error) {
	return t.totalBurned.Get()
}

// TotalSupply returns units in circulation, escrowed units included.
func (t *Token) TotalSupply() (*big.Int, error) {
	minted, err := t.totalMinted.Get()
	if err != nil {
		return nil, err
	}
	burned, err := t.totalBurned.Get()
	if err != nil {
		return nil, err
	}
	return minted.Sub(minted, burned), nil
}
