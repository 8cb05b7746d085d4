// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impactnet/impact/impact"
	"github.com/impactnet/impact/lvldb"
	"github.com/impactnet/impact/state"
)

type TestStruct struct {
	Field1 uint64
	Field2 *big.Int
	Addr1  impact.Address
}

func newTestContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(impact.Address{1}, state.New(db))
}

func TestMappingStruct(t *testing.T) {
	ctx := newTestContext(t)
	mapping := NewMapping[impact.Bytes32, *TestStruct](ctx, impact.Bytes32{1})
	key := impact.Bytes32{2}

	// missing entry yields an allocated zero value
	v, err := mapping.Get(key)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, uint64(0), v.Field1)

	exists, err := mapping.Exists(key)
	require.NoError(t, err)
	assert.False(t, exists)

	value := &TestStruct{Field1: 7, Field2: big.NewInt(1000), Addr1: impact.Address{9}}
	require.NoError(t, mapping.Set(key, value))

	v, err = mapping.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, v)

	exists, err = mapping.Exists(key)
	require.NoError(t, err)
	assert.True(t, exists)

	mapping.Delete(key)
	exists, err = mapping.Exists(key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMappingsDoNotCollide(t *testing.T) {
	ctx := newTestContext(t)
	a := NewMapping[impact.Bytes32, uint64](ctx, impact.Bytes32{1})
	b := NewMapping[impact.Bytes32, uint64](ctx, impact.Bytes32{2})

	require.NoError(t, a.Set(impact.Bytes32{5}, 1))
	require.NoError(t, b.Set(impact.Bytes32{5}, 2))

	va, err := a.Get(impact.Bytes32{5})
	require.NoError(t, err)
	vb, err := b.Get(impact.Bytes32{5})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), va)
	assert.Equal(t, uint64(2), vb)
}

func TestUint256(t *testing.T) {
	ctx := newTestContext(t)
	u := NewUint256(ctx, impact.Bytes32{3})

	v, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	require.NoError(t, u.Add(big.NewInt(100)))
	require.NoError(t, u.Sub(big.NewInt(40)))
	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(60), v)

	assert.ErrorIs(t, u.Sub(big.NewInt(61)), ErrUnderflow)
	v, _ = u.Get()
	assert.Equal(t, big.NewInt(60), v)
}

func TestBool(t *testing.T) {
	ctx := newTestContext(t)
	b := NewBool(ctx, impact.Bytes32{4})

	v, err := b.Get()
	require.NoError(t, err)
	assert.False(t, v)

	b.Set(true)
	v, _ = b.Get()
	assert.True(t, v)

	b.Set(false)
	v, _ = b.Get()
	assert.False(t, v)
}
