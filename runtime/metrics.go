// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/impactnet/impact/metrics"
)

var metricCallDuration = metrics.LazyLoadHistogramVec(
	"runtime_call_duration_ms", []string{"op"}, []int64{0, 1, 2, 5, 10, 25, 50, 100, 250, 1000},
)
