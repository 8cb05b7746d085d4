// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/impactnet/impact/impact"
)

// TransferEvent is emitted with the sender as subject.
type TransferEvent struct {
	From   impact.Address        `json:"from"`
	To     impact.Address        `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// MintEvent is emitted with the recipient as subject.
type MintEvent struct {
	To     impact.Address        `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}
