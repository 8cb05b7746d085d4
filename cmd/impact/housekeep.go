// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"
)

// maxClockOffset is the drift tolerated before warning. Stake maturity is
// judged by the local clock.
const maxClockOffset = 10 * time.Second

func houseKeeping(ctx context.Context, ntpServer string) {
	logger.Debug("enter house keeping")

	clockSyncTicker := time.NewTicker(10 * time.Minute)
	defer func() {
		logger.Debug("leave house keeping")
		clockSyncTicker.Stop()
	}()

	checkClockOffset(ntpServer)
	for {
		select {
		case <-ctx.Done():
			return
		case <-clockSyncTicker.C:
			checkClockOffset(ntpServer)
		}
	}
}

func checkClockOffset(server string) {
	resp, err := ntp.Query(server)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > maxClockOffset {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}
