// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/impactnet/impact/impact"
)

// DevBalance is the initial balance of each dev account.
var DevBalance = big.NewInt(1_000_000_000)

// DevAccounts returns the deterministic dev accounts. The first one holds every role.
func DevAccounts() []impact.Address {
	accs := make([]impact.Address, 0, 10)
	for i := range 10 {
		h := impact.Blake2b([]byte(fmt.Sprintf("impact-dev-%d", i)))
		accs = append(accs, impact.BytesToAddress(h.Bytes()))
	}
	return accs
}

// NewDevnet returns the genesis used when no genesis file is given.
func NewDevnet() *Genesis {
	accs := DevAccounts()
	gen := &Genesis{}
	for _, addr := range accs {
		gen.Accounts = append(gen.Accounts, Account{
			Address: addr,
			Balance: (*math.HexOrDecimal256)(new(big.Int).Set(DevBalance)),
		})
	}
	for _, role := range impact.Roles {
		gen.Roles = append(gen.Roles, RoleGrant{Role: role, Accounts: accs[:1]})
	}
	return gen
}
