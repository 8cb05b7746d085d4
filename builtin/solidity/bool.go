// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"errors"

	"github.com/impactnet/impact/impact"
)

// ErrUnderflow is returned when a stored counter would go below zero.
var ErrUnderflow = errors.New("solidity: uint256 underflow")

// Bool is a wrapper for storage and retrieval of a flag.
type Bool struct {
	context *Context
	pos     impact.Bytes32
}

func NewBool(context *Context, slot impact.Bytes32) *Bool {
	return &Bool{context: context, pos: slot}
}

func (b *Bool) Get() (bool, error) {
	storage, err := b.context.state.GetStorage(b.context.address, b.pos)
	if err != nil {
		return false, err
	}
	return !storage.IsZero(), nil
}

func (b *Bool) Set(v bool) {
	var storage impact.Bytes32
	if v {
		storage[31] = 1
	}
	b.context.state.SetStorage(b.context.address, b.pos, storage)
}
