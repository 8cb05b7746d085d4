// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis describes the initial ledger: allocations, role grants and staking params.
package genesis

import (
	"bytes"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/impactnet/impact/impact"
)

// Genesis is the user customized initial ledger.
type Genesis struct {
	LaunchTime uint64      `yaml:"launchTime"`
	Accounts   []Account   `yaml:"accounts"`
	Roles      []RoleGrant `yaml:"roles"`
	Params     Params      `yaml:"params"`
}

// Account is an initial allocation.
type Account struct {
	Address impact.Address        `yaml:"address"`
	Balance *math.HexOrDecimal256 `yaml:"balance"`
}

// RoleGrant grants one role to several accounts.
type RoleGrant struct {
	Role     impact.Role      `yaml:"role"`
	Accounts []impact.Address `yaml:"accounts"`
}

// Params are the staking params. Absent values take the defaults.
type Params struct {
	MinStakeDuration *uint64 `yaml:"minStakeDuration,omitempty"`
	MaxStakeDuration *uint64 `yaml:"maxStakeDuration,omitempty"`
	BaseRewardRate   *uint64 `yaml:"baseRewardRate,omitempty"`
}

func orDefault(v *uint64, def *big.Int) uint64 {
	if v != nil {
		return *v
	}
	return def.Uint64()
}

func (p *Params) values() (minDuration, maxDuration, baseRate uint64) {
	return orDefault(p.MinStakeDuration, impact.InitialMinStakeDuration),
		orDefault(p.MaxStakeDuration, impact.InitialMaxStakeDuration),
		orDefault(p.BaseRewardRate, impact.InitialBaseRewardRate)
}

// Load reads and validates a yaml genesis file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return Parse(data)
}

// Parse decodes and validates a yaml genesis. Unknown fields are rejected.
func Parse(data []byte) (*Genesis, error) {
	var gen Genesis
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}

func (g *Genesis) Validate() error {
	seen := make(map[impact.Address]bool, len(g.Accounts))
	for i, acc := range g.Accounts {
		if acc.Address.IsZero() {
			return fmt.Errorf("accounts[%d]: zero address", i)
		}
		if acc.Address == impact.StakerAddress {
			return fmt.Errorf("accounts[%d]: escrow address %v", i, acc.Address)
		}
		if seen[acc.Address] {
			return fmt.Errorf("accounts[%d]: duplicated address %v", i, acc.Address)
		}
		seen[acc.Address] = true
		if acc.Balance != nil && (*big.Int)(acc.Balance).Sign() < 0 {
			return fmt.Errorf("accounts[%d]: negative balance", i)
		}
	}
	for i, grant := range g.Roles {
		if _, err := impact.ParseRole(string(grant.Role)); err != nil {
			return fmt.Errorf("roles[%d]: %w: %q", i, err, grant.Role)
		}
		for j, addr := range grant.Accounts {
			if addr.IsZero() {
				return fmt.Errorf("roles[%d].accounts[%d]: zero address", i, j)
			}
		}
	}

	minDuration, maxDuration, baseRate := g.Params.values()
	if minDuration > maxDuration {
		return fmt.Errorf("params: min stake duration %d exceeds max %d", minDuration, maxDuration)
	}
	if baseRate > impact.MaxBaseRewardRate {
		return fmt.Errorf("params: base reward rate %d exceeds %d", baseRate, impact.MaxBaseRewardRate)
	}
	return nil
}

// ID identifies the genesis by the hash of its canonical encoding.
func (g *Genesis) ID() impact.Bytes32 {
	data, err := yaml.Marshal(g)
	if err != nil {
		// every field has a text or scalar form
		panic(err)
	}
	return impact.Blake2b(data)
}

// Builder returns the builder that applies g.
func (g *Genesis) Builder() *Builder {
	b := new(Builder).LaunchTime(g.LaunchTime)
	b.Params(g.Params.values())
	for _, grant := range g.Roles {
		for _, addr := range grant.Accounts {
			b.Grant(grant.Role, addr)
		}
	}
	for _, acc := range g.Accounts {
		if acc.Balance != nil {
			b.Mint(acc.Address, (*big.Int)(acc.Balance))
		}
	}
	return b
}
