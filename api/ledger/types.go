// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/impactnet/impact/impact"
)

// TransferRequest is used by both transfers and mints.
type TransferRequest struct {
	Caller impact.Address        `json:"caller"`
	To     impact.Address        `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type RoleRequest struct {
	Caller  impact.Address `json:"caller"`
	Role    string         `json:"role"`
	Account impact.Address `json:"account"`
}

type PauseRequest struct {
	Caller impact.Address `json:"caller"`
}

type Supply struct {
	Minted *math.HexOrDecimal256 `json:"minted"`
	Burned *math.HexOrDecimal256 `json:"burned"`
	Supply *math.HexOrDecimal256 `json:"supply"`
	Staked *math.HexOrDecimal256 `json:"staked"`
}

type Status struct {
	GenesisID impact.Bytes32 `json:"genesisId"`
	Halted    bool           `json:"halted"`
}
