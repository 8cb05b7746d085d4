// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stakes is the stake registry: a per-account append-only arena of
// records indexed by a sequential id, plus the derived staked totals.
package stakes

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/impactnet/impact/builtin/reverts"
	"github.com/impactnet/impact/builtin/solidity"
	"github.com/impactnet/impact/impact"
)

var (
	slotRecords      = impact.BytesToBytes32([]byte("stake-records"))
	slotCounts       = impact.BytesToBytes32([]byte("stake-counts"))
	slotTotalStaked  = impact.BytesToBytes32([]byte("total-staked"))
	slotGlobalStaked = impact.BytesToBytes32([]byte("global-staked"))
)

type recordKey impact.Bytes32

func (k recordKey) Bytes() []byte { return k[:] }

func keyOf(account impact.Address, id uint64) recordKey {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	return recordKey(impact.Blake2b(account.Bytes(), b[:]))
}

// Bounds are the accepted stake durations, inclusive.
type Bounds struct {
	Min uint64
	Max uint64
}

// Finalized is the outcome of closing a stake.
type Finalized struct {
	Principal *big.Int
	Reward    *big.Int // zero unless matured
	Matured   bool
}

// Service manages stake records of all accounts.
type Service struct {
	records      *solidity.Mapping[recordKey, *Record]
	counts       *solidity.Mapping[impact.Address, uint64]
	totalStaked  *solidity.Mapping[impact.Address, *big.Int]
	globalStaked *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		records:      solidity.NewMapping[recordKey, *Record](sctx, slotRecords),
		counts:       solidity.NewMapping[impact.Address, uint64](sctx, slotCounts),
		totalStaked:  solidity.NewMapping[impact.Address, *big.Int](sctx, slotTotalStaked),
		globalStaked: solidity.NewUint256(sctx, slotGlobalStaked),
	}
}

// Count returns the number of stakes ever created by account, which is also the next id.
func (s *Service) Count(account impact.Address) (uint64, error) {
	return s.counts.Get(account)
}

// TotalStaked returns the principal of all non-withdrawn stakes of account.
func (s *Service) TotalStaked(account impact.Address) (*big.Int, error) {
	return s.totalStaked.Get(account)
}

// GlobalStaked returns the principal of all non-withdrawn stakes.
func (s *Service) GlobalStaked() (*big.Int, error) {
	return s.globalStaked.Get()
}

// Get returns the record with id, failing with ErrStakeNotFound if id was never allocated.
func (s *Service) Get(account impact.Address, id uint64) (*Record, error) {
	count, err := s.counts.Get(account)
	if err != nil {
		return nil, err
	}
	if id >= count {
		return nil, reverts.ErrStakeNotFound
	}
	rec, err := s.records.Get(keyOf(account, id))
	if err != nil {
		return nil, err
	}
	if rec.IsEmpty() {
		return nil, errors.Errorf("stake %d of %v is allocated but empty", id, account)
	}
	return rec, nil
}

// List returns all records of account in id order.
func (s *Service) List(account impact.Address) ([]*Record, error) {
	count, err := s.counts.Get(account)
	if err != nil {
		return nil, err
	}
	list := make([]*Record, 0, count)
	for id := range count {
		rec, err := s.records.Get(keyOf(account, id))
		if err != nil {
			return nil, err
		}
		list = append(list, rec)
	}
	return list, nil
}

// Create appends a new record and returns its id. The caller moves the
// principal into escrow within the same checkpoint.
func (s *Service) Create(account impact.Address, principal *big.Int, duration, now uint64, bounds Bounds) (uint64, error) {
	if principal == nil || principal.Sign() <= 0 {
		return 0, reverts.ErrInvalidAmount
	}
	if duration < bounds.Min {
		return 0, reverts.ErrDurationTooShort
	}
	if duration > bounds.Max || now+duration < now {
		return 0, reverts.ErrDurationTooLong
	}

	id, err := s.counts.Get(account)
	if err != nil {
		return 0, err
	}
	rec := &Record{
		Principal: new(big.Int).Set(principal),
		StartTime: now,
		EndTime:   now + duration,
	}
	if err := s.records.Set(keyOf(account, id), rec); err != nil {
		return 0, err
	}
	if err := s.counts.Set(account, id+1); err != nil {
		return 0, err
	}
	if err := s.addStaked(account, principal); err != nil {
		return 0, err
	}
	return id, nil
}

// Finalize marks the record withdrawn and releases its principal from the totals.
// The reward is computed only for a matured stake. All bookkeeping is done
// before returning, so the caller may move value afterwards.
func (s *Service) Finalize(account impact.Address, id uint64, now, baseRate uint64) (*Finalized, error) {
	rec, err := s.Get(account, id)
	if err != nil {
		return nil, err
	}
	if rec.Withdrawn {
		return nil, reverts.ErrAlreadyWithdrawn
	}

	out := &Finalized{
		Principal: new(big.Int).Set(rec.Principal),
		Reward:    new(big.Int),
		Matured:   rec.Matured(now),
	}
	if out.Matured {
		out.Reward = rec.Reward(baseRate)
	}

	rec.Withdrawn = true
	if err := s.records.Set(keyOf(account, id), rec); err != nil {
		return nil, err
	}
	if err := s.subStaked(account, rec.Principal); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) addStaked(account impact.Address, amount *big.Int) error {
	total, err := s.totalStaked.Get(account)
	if err != nil {
		return err
	}
	if err := s.totalStaked.Set(account, total.Add(total, amount)); err != nil {
		return err
	}
	return s.globalStaked.Add(amount)
}

func (s *Service) subStaked(account impact.Address, amount *big.Int) error {
	total, err := s.totalStaked.Get(account)
	if err != nil {
		return err
	}
	if total.Cmp(amount) < 0 {
		return errors.Errorf("total staked of %v below released principal", account)
	}
	if err := s.totalStaked.Set(account, total.Sub(total, amount)); err != nil {
		return err
	}
	return s.globalStaked.Sub(amount)
}
