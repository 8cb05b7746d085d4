// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"

	"github.com/impactnet/impact/builtin/solidity"
	"github.com/impactnet/impact/impact"
	"github.com/impactnet/impact/state"
)

// Params binder of the params contract.
// Each key holds one uint256 value.
type Params struct {
	sctx *solidity.Context
}

func New(addr impact.Address, state *state.State) *Params {
	return &Params{solidity.NewContext(addr, state)}
}

// Get native way to get param.
func (p *Params) Get(key impact.Bytes32) (*big.Int, error) {
	return solidity.NewUint256(p.sctx, key).Get()
}

// Set native way to set param.
func (p *Params) Set(key impact.Bytes32, value *big.Int) {
	solidity.NewUint256(p.sctx, key).Set(value)
}
