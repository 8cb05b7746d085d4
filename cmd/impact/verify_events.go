// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/impactnet/impact/builtin/staker"
	"github.com/impactnet/impact/builtin/token"
	"github.com/impactnet/impact/impact"
	"github.com/impactnet/impact/logdb"
	"github.com/impactnet/impact/runtime"
)

const verifyPageSize = 1000

type stakeView struct {
	ID        uint64                `json:"id"`
	Principal *math.HexOrDecimal256 `json:"principal"`
	StartTime uint64                `json:"startTime"`
	EndTime   uint64                `json:"endTime"`
	Withdrawn bool                  `json:"withdrawn"`
}

// stakesFromEvents rebuilds the stake records of known accounts and of every
// account the event log mentions. An account without stake events gets an empty list.
func stakesFromEvents(ctx context.Context, rt *runtime.Runtime, known []impact.Address) (map[impact.Address][]*stakeView, error) {
	byAccount := make(map[impact.Address]map[uint64]*stakeView)
	touch := func(addr impact.Address) map[uint64]*stakeView {
		stakes := byAccount[addr]
		if stakes == nil {
			stakes = make(map[uint64]*stakeView)
			byAccount[addr] = stakes
		}
		return stakes
	}
	for _, addr := range known {
		touch(addr)
	}

	next := uint64(0)
	for {
		events, err := rt.Events(ctx, &logdb.EventFilter{
			Range:   &logdb.Range{Unit: logdb.Seq, From: next},
			Options: &logdb.Options{Limit: verifyPageSize},
		})
		if err != nil {
			return nil, err
		}
		for _, ev := range events {
			stakes := touch(ev.Subject)
			switch ev.Kind {
			case impact.EventTransfer:
				var transfer token.TransferEvent
				if err := json.Unmarshal(ev.Data, &transfer); err != nil {
					return nil, errors.Wrapf(err, "decode event #%v", ev.Seq)
				}
				touch(transfer.To)
			case impact.EventStaked:
				var staked staker.StakedEvent
				if err := json.Unmarshal(ev.Data, &staked); err != nil {
					return nil, errors.Wrapf(err, "decode event #%v", ev.Seq)
				}
				stakes[staked.StakeID] = &stakeView{
					ID:        staked.StakeID,
					Principal: staked.Amount,
					StartTime: staked.StartTime,
					EndTime:   staked.EndTime,
				}
			case impact.EventWithdrawn:
				var withdrawn staker.WithdrawnEvent
				if err := json.Unmarshal(ev.Data, &withdrawn); err != nil {
					return nil, errors.Wrapf(err, "decode event #%v", ev.Seq)
				}
				s, ok := stakes[withdrawn.StakeID]
				if !ok {
					return nil, errors.Errorf("event #%v: withdrawn stake %v of %v was never staked", ev.Seq, withdrawn.StakeID, ev.Subject)
				}
				s.Withdrawn = true
			}
			next = ev.Seq + 1
		}
		if len(events) < verifyPageSize {
			break
		}
	}

	out := make(map[impact.Address][]*stakeView, len(byAccount))
	for addr, stakes := range byAccount {
		if addr == impact.StakerAddress {
			continue
		}
		list := make([]*stakeView, 0, len(stakes))
		for _, s := range stakes {
			list = append(list, s)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
		out[addr] = list
	}
	return out, nil
}

func stakesFromState(rt *runtime.Runtime, addr impact.Address) ([]*stakeView, error) {
	infos, err := rt.Stakes(addr)
	if err != nil {
		return nil, err
	}
	list := make([]*stakeView, 0, len(infos))
	for id, info := range infos {
		list = append(list, &stakeView{
			ID:        uint64(id),
			Principal: (*math.HexOrDecimal256)(new(big.Int).Set(info.Principal)),
			StartTime: info.StartTime,
			EndTime:   info.EndTime,
			Withdrawn: info.Withdrawn,
		})
	}
	return list, nil
}

// verifyEvents checks that the stake records implied by the event log match ledger state,
// for known and for every account the log mentions. Stakes of an account that appears
// nowhere cannot be found.
func verifyEvents(ctx context.Context, rt *runtime.Runtime, known []impact.Address) error {
	fmt.Println(">> Verifying event log <<")

	expected, err := stakesFromEvents(ctx, rt, known)
	if err != nil {
		return err
	}

	accounts := make([]impact.Address, 0, len(expected))
	for addr := range expected {
		accounts = append(accounts, addr)
	}
	sort.Slice(accounts, func(i, j int) bool { return bytes.Compare(accounts[i][:], accounts[j][:]) < 0 })

	bar := pb.New64(int64(len(accounts))).
		Set64(0).
		SetMaxWidth(90).
		Start()
	defer func() { bar.NotPrint = true }()

	var mismatched int
	for _, addr := range accounts {
		if err := ctx.Err(); err != nil {
			return err
		}
		actual, err := stakesFromState(rt, addr)
		if err != nil {
			return err
		}
		if diff := jsonDiff(expected[addr], actual); diff != "" {
			mismatched++
			fmt.Printf("\nDiff stakes of %v\n%v", addr, diff)
		}
		bar.Add64(1)
	}
	bar.Finish()

	if mismatched > 0 {
		return errors.Errorf("%v accounts differ from the event log", mismatched)
	}
	fmt.Println("event log is consistent with ledger state")
	return nil
}

func jsonDiff(expected, actual any) string {
	e, _ := json.MarshalIndent(expected, "", "  ")
	a, _ := json.MarshalIndent(actual, "", "  ")
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(e)),
		B:        difflib.SplitLines(string(a)),
		FromFile: "Events",
		ToFile:   "State",
		Context:  1,
	})
	return diff
}
