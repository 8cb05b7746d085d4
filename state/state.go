// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/impactnet/impact/cache"
	"github.com/impactnet/impact/impact"
	"github.com/impactnet/impact/kv"
	"github.com/impactnet/impact/stackedmap"
)

const (
	balancePrefix = 'b'
	storagePrefix = 's'

	cacheSize = 4096
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type balanceKey impact.Address

type storageKey struct {
	addr impact.Address
	key  impact.Bytes32
}

// dbKey returns the kv store key of a state key.
func dbKey(key any) []byte {
	switch k := key.(type) {
	case balanceKey:
		return append([]byte{balancePrefix}, k[:]...)
	case storageKey:
		buf := make([]byte, 0, 1+len(k.addr)+len(k.key))
		buf = append(buf, storagePrefix)
		buf = append(buf, k.addr[:]...)
		return append(buf, k.key[:]...)
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

// State manages the ledger state.
type State struct {
	db    kv.Store
	cache *cache.LRU // committed values
	sm    *stackedmap.StackedMap
}

// New create state object over the given kv store.
func New(db kv.Store) *State {
	c, _ := cache.NewLRU(cacheSize)
	s := &State{db: db, cache: c}
	s.sm = stackedmap.New(s.cacheGetter)
	return s
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key any) (any, bool, error) {
	label := "storage"
	if _, ok := key.(balanceKey); ok {
		label = "balance"
	}
	hit := true
	v, err := s.cache.GetOrLoad(key, func(key any) (any, error) {
		hit = false
		return s.load(key)
	}, nil)
	if err != nil {
		return nil, false, err
	}
	if hit {
		metricCacheAccess().AddWithLabel(1, map[string]string{"type": label, "result": "hit"})
	} else {
		metricCacheAccess().AddWithLabel(1, map[string]string{"type": label, "result": "miss"})
	}
	return v, true, nil
}

// load reads the committed value of key, zero value if absent.
func (s *State) load(key any) (any, error) {
	data, err := s.db.Get(dbKey(key))
	if err != nil {
		if !s.db.IsNotFound(err) {
			return nil, errors.Wrap(err, "load")
		}
		data = nil
	}
	switch key.(type) {
	case balanceKey:
		return new(big.Int).SetBytes(data), nil
	default:
		return rlp.RawValue(data), nil
	}
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr impact.Address) (*big.Int, error) {
	v, _, err := s.sm.Get(balanceKey(addr))
	if err != nil {
		return nil, &Error{err}
	}
	return new(big.Int).Set(v.(*big.Int)), nil
}

// SetBalance set balance for the given address.
func (s *State) SetBalance(addr impact.Address, balance *big.Int) error {
	if balance.Sign() < 0 {
		return &Error{errors.New("negative balance")}
	}
	s.sm.Put(balanceKey(addr), new(big.Int).Set(balance))
	return nil
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr impact.Address, key impact.Bytes32) (impact.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return impact.Bytes32{}, err
	}
	if len(raw) == 0 {
		return impact.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return impact.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// customized storage value, return hash of raw data
		return impact.Blake2b(raw), nil
	}
	return impact.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr impact.Address, key, value impact.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr impact.Address, key impact.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr impact.Address, key impact.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr impact.Address, key impact.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr impact.Address, key impact.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Dirty reports whether there are uncommitted changes.
func (s *State) Dirty() bool {
	dirty := false
	s.sm.Journal(func(_, _ any) bool {
		dirty = true
		return false
	})
	return dirty
}

// Commit writes all pending changes into the kv store in one batch.
// Checkpoints are dropped afterwards.
func (s *State) Commit() error {
	type change struct {
		key   any
		value any
	}
	var (
		latest = make(map[any]int)
		seq    []change
	)
	s.sm.Journal(func(k, v any) bool {
		if i, ok := latest[k]; ok {
			seq[i].value = v
		} else {
			latest[k] = len(seq)
			seq = append(seq, change{k, v})
		}
		return true
	})
	if len(seq) == 0 {
		return nil
	}

	batch := s.db.NewBatch()
	for _, c := range seq {
		var data []byte
		switch v := c.value.(type) {
		case *big.Int:
			data = v.Bytes()
		case rlp.RawValue:
			data = v
		}
		var err error
		if len(data) == 0 {
			err = batch.Delete(dbKey(c.key))
		} else {
			err = batch.Put(dbKey(c.key), data)
		}
		if err != nil {
			return &Error{errors.Wrap(err, "commit")}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{errors.Wrap(err, "commit")}
	}

	for _, c := range seq {
		s.cache.Add(c.key, c.value)
	}
	metricCommitWrites().Add(int64(len(seq)))
	s.sm = stackedmap.New(s.cacheGetter)
	return nil
}
