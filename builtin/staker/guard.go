// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import "sync/atomic"

// guard admits one state-changing operation at a time. A call arriving while
// another is in flight, including one re-entering from a ledger callback, is refused.
type guard struct {
	busy atomic.Bool
}

func (g *guard) enter() bool {
	return g.busy.CompareAndSwap(false, true)
}

func (g *guard) exit() {
	g.busy.Store(false)
}
