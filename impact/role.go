// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package impact

import "errors"

// Role names a capability checked by the access gate.
type Role string

const (
	RoleAdmin   Role = "admin"   // grants and revokes roles
	RoleMinter  Role = "minter"  // mints units
	RoleSlasher Role = "slasher" // slashes validators
	RolePauser  Role = "pauser"  // halts and resumes the system
	RoleParams  Role = "params"  // updates staking params
)

// Roles lists every known role.
var Roles = []Role{RoleAdmin, RoleMinter, RoleSlasher, RolePauser, RoleParams}

// Bytes returns the role name bytes.
func (r Role) Bytes() []byte {
	return []byte(r)
}

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", errors.New("unknown role")
}
