// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import "github.com/impactnet/impact/metrics"

var (
	metricOps          = metrics.LazyLoadCounterVec("staker_ops_count", []string{"op", "result"})
	metricGlobalStaked = metrics.LazyLoadGauge("staker_global_staked")
	metricSlashed      = metrics.LazyLoadCounterVec("staker_slashed_count", []string{"source"})
)
