// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checker struct {
	halted bool
	err    error
}

func (p *checker) IsHalted() (bool, error) { return p.halted, p.err }

func TestHealth_Committed(t *testing.T) {
	h := New(&checker{})

	status, err := h.Status()
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.Nil(t, status.Commits)

	h.Committed(7)
	status, err = h.Status()
	require.NoError(t, err)
	require.NotNil(t, status.Commits)
	assert.Equal(t, uint64(7), *status.Commits.NewestEvent)
	assert.WithinDuration(t, time.Now(), *status.Commits.Timestamp, time.Second)
}

func TestHealth_Halted(t *testing.T) {
	p := &checker{halted: true}
	h := New(p)

	status, err := h.Status()
	require.NoError(t, err)
	assert.False(t, status.Healthy)
	assert.True(t, status.Halted)

	p.halted = false
	status, err = h.Status()
	require.NoError(t, err)
	assert.True(t, status.Healthy)
}

func TestHealth_StorageError(t *testing.T) {
	h := New(&checker{err: errors.New("leveldb: closed")})

	status, err := h.Status()
	require.NoError(t, err)
	assert.False(t, status.Healthy)
	assert.Equal(t, "leveldb: closed", status.Storage)
}
