// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/impactnet/impact/impact"
)

// ParseAddress parses a path or query address, failing with a bad request.
func ParseAddress(s string, name string) (impact.Address, error) {
	addr, err := impact.ParseAddress(s)
	if err != nil {
		return impact.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

// ParseUint64 parses a decimal path or query value. An empty string yields def.
func ParseUint64(s string, name string, def uint64) (uint64, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}
