// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"encoding/json"

	"github.com/impactnet/impact/impact"
)

// Event is a committed event with its position in the log.
type Event struct {
	Seq     uint64          `json:"seq"`
	Kind    string          `json:"kind"`
	Subject impact.Address  `json:"subject"`
	Time    uint64          `json:"time"`
	Data    json.RawMessage `json:"data"`
}

type RangeType string

const (
	Seq  RangeType = "seq"
	Time RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range bounds are inclusive. To is ignored when it is less than From.
type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventFilter struct {
	Kinds   []string // any of
	Subject *impact.Address
	Range   *Range
	Options *Options
	Order   Order // default asc
}
