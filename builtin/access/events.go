// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package access

import (
	"github.com/impactnet/impact/impact"
)

type RoleEvent struct {
	Role    impact.Role    `json:"role"`
	Account impact.Address `json:"account"`
	Sender  impact.Address `json:"sender"`
}

type HaltEvent struct {
	Sender impact.Address `json:"sender"`
}
