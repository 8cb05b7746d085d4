// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/impactnet/impact/metrics"

var (
	metricCacheAccess  = metrics.LazyLoadCounterVec("state_cache_access_count", []string{"type", "result"})
	metricCommitWrites = metrics.LazyLoadCounter("state_commit_writes_count")
)
