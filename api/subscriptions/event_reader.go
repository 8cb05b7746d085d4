// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"

	"github.com/impactnet/impact/logdb"
	"github.com/impactnet/impact/runtime"
)

// eventReader reads the committed events after a position, optionally filtered.
type eventReader struct {
	rt      *runtime.Runtime
	filter  logdb.EventFilter
	next    uint64
	backlog uint64
}

func newEventReader(rt *runtime.Runtime, filter logdb.EventFilter, from uint64, backlog uint64) *eventReader {
	return &eventReader{rt: rt, filter: filter, next: from, backlog: backlog}
}

// Read returns the next batch of at most backlog events, and whether more are pending.
func (r *eventReader) Read(ctx context.Context) ([]*logdb.Event, bool, error) {
	filter := r.filter
	filter.Range = &logdb.Range{Unit: logdb.Seq, From: r.next}
	filter.Options = &logdb.Options{Limit: r.backlog}
	filter.Order = logdb.ASC

	events, err := r.rt.Events(ctx, filter)
	if err != nil {
		return nil, false, err
	}
	if len(events) > 0 {
		r.next = events[len(events)-1].Seq + 1
	}
	return events, uint64(len(events)) == r.backlog, nil
}
