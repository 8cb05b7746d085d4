// Copyright 2017 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"bytes"
	"log/slog"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func TestAppendUint64(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{99999, "99999"},
		{100000, "100,000"},
		{-1234567, "-1,234,567"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(appendInt64(nil, tt.n)))
	}
}

func TestTerminalHandler(t *testing.T) {
	var out bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(slog.LevelInfo)

	l := NewLogger(NewTerminalHandlerWithLevel(&out, &lvl, false)).With("pkg", "staker")
	l.Debug("hidden")
	l.Info("staked", "amount", big.NewInt(1000), "reward", uint256.NewInt(80000), "id", 3)

	line := out.String()
	assert.NotContains(t, line, "hidden")
	assert.Contains(t, line, "INFO ")
	assert.Contains(t, line, "staked")
	assert.Contains(t, line, "pkg=staker")
	assert.Contains(t, line, "amount=1000")
	assert.Contains(t, line, "reward=80000")
	assert.Contains(t, line, "id=3")
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelCrit, FromLegacyLevel(0))
	assert.Equal(t, slog.LevelInfo, FromLegacyLevel(3))
	assert.Equal(t, LevelTrace, FromLegacyLevel(5))
	assert.Equal(t, LevelTrace, FromLegacyLevel(9))
}

func TestWithContextFollowsRoot(t *testing.T) {
	pkgLogger := WithContext("pkg", "test")

	var out bytes.Buffer
	prev := Root()
	SetDefault(NewLogger(NewTerminalHandler(&out, false)))
	defer SetDefault(prev)

	pkgLogger.Warn("late binding")
	assert.Contains(t, out.String(), "late binding")
	assert.Contains(t, out.String(), "pkg=test")
}
