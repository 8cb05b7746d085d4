// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/impactnet/impact/api/utils"
	"github.com/impactnet/impact/logdb"
	"github.com/impactnet/impact/runtime"
)

const defaultLimit = 100

type Events struct {
	rt    *runtime.Runtime
	limit uint64
}

// New creates the events api. limit caps the page size of a query.
func New(rt *runtime.Runtime, limit uint64) *Events {
	return &Events{rt, limit}
}

// ParseFilter builds a filter from the query values
// kind (repeatable), subject, unit (seq or time), from, to, offset, limit and order.
func ParseFilter(q url.Values, maxLimit uint64) (*logdb.EventFilter, error) {
	filter := &logdb.EventFilter{
		Kinds: q["kind"],
		Order: logdb.ASC,
	}
	if s := q.Get("subject"); s != "" {
		subject, err := utils.ParseAddress(s, "subject")
		if err != nil {
			return nil, err
		}
		filter.Subject = &subject
	}

	if q.Has("from") || q.Has("to") {
		unit := logdb.RangeType(q.Get("unit"))
		switch unit {
		case "":
			unit = logdb.Seq
		case logdb.Seq, logdb.Time:
		default:
			return nil, utils.BadRequest(errors.New("unit: expected seq or time"))
		}
		from, err := utils.ParseUint64(q.Get("from"), "from", 0)
		if err != nil {
			return nil, err
		}
		to, err := utils.ParseUint64(q.Get("to"), "to", 0)
		if err != nil {
			return nil, err
		}
		filter.Range = &logdb.Range{Unit: unit, From: from, To: to}
	}

	switch order := logdb.Order(q.Get("order")); order {
	case "", logdb.ASC:
	case logdb.DESC:
		filter.Order = logdb.DESC
	default:
		return nil, utils.BadRequest(errors.New("order: expected asc or desc"))
	}

	offset, err := utils.ParseUint64(q.Get("offset"), "offset", 0)
	if err != nil {
		return nil, err
	}
	limit, err := utils.ParseUint64(q.Get("limit"), "limit", min(defaultLimit, maxLimit))
	if err != nil {
		return nil, err
	}
	if limit > maxLimit {
		return nil, utils.Forbidden(fmt.Errorf("limit: exceeds %d", maxLimit))
	}
	filter.Options = &logdb.Options{Offset: offset, Limit: limit}
	return filter, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	filter, err := ParseFilter(req.URL.Query(), e.limit)
	if err != nil {
		return err
	}
	events, err := e.rt.Events(req.Context(), filter)
	if err != nil {
		return err
	}
	if events == nil {
		events = []*logdb.Event{}
	}
	return utils.WriteJSON(w, events)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
