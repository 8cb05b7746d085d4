// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"
)

// Checker reports whether the ledger can serve state-changing calls.
type Checker interface {
	IsHalted() (bool, error)
}

type Commits struct {
	NewestEvent *uint64    `json:"newestEvent"`
	Timestamp   *time.Time `json:"timestamp"`
}

type Status struct {
	Healthy bool     `json:"healthy"`
	Halted  bool     `json:"halted"`
	Storage string   `json:"storage"`
	Commits *Commits `json:"commits"`
}

type Health struct {
	lock       sync.RWMutex
	checker    Checker
	lastCommit time.Time
	newestSeq  *uint64
}

func New(checker Checker) *Health {
	return &Health{checker: checker}
}

// Committed records the newest event sequence written to the log store.
func (h *Health) Committed(seq uint64) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.lastCommit = time.Now()
	h.newestSeq = &seq
}

// Status is unhealthy when state cannot be read or the system is halted.
func (h *Health) Status() (*Status, error) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	status := &Status{Storage: "ok"}
	if h.newestSeq != nil {
		seq, ts := *h.newestSeq, h.lastCommit
		status.Commits = &Commits{NewestEvent: &seq, Timestamp: &ts}
	}

	halted, err := h.checker.IsHalted()
	if err != nil {
		status.Storage = err.Error()
		return status, nil
	}
	status.Halted = halted
	status.Healthy = !halted
	return status, nil
}
