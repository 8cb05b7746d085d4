// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/impactnet/impact/admin"
	"github.com/impactnet/impact/api"
	"github.com/impactnet/impact/co"
	"github.com/impactnet/impact/health"
	"github.com/impactnet/impact/impact"
	"github.com/impactnet/impact/log"
	"github.com/impactnet/impact/logdb"
	"github.com/impactnet/impact/lvldb"
	"github.com/impactnet/impact/metrics"
	"github.com/impactnet/impact/runtime"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "Impact",
		Usage:   "Staking ledger node",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			persistFlag,
			cacheFlag,
			ntpServerFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiLogsLimitFlag,
			apiBacklogLimitFlag,
			apiSlowQueriesThresholdFlag,
			enableAPILogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "verify-events",
				Usage: "check the event log against ledger state",
				Flags: []cli.Flag{
					dataDirFlag,
					genesisFlag,
					cacheFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: verifyEventsAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}

	var (
		mainDB      *lvldb.LevelDB
		logDB       *logdb.LogDB
		instanceDir string
	)
	if ctx.Bool(persistFlag.Name) || ctx.IsSet(genesisFlag.Name) {
		if instanceDir, err = makeInstanceDir(ctx, gene); err != nil {
			return err
		}
		mainDB, logDB, err = openDBs(instanceDir, normalizeCacheSize(int(ctx.Uint64(cacheFlag.Name))))
	} else {
		instanceDir = "Memory"
		mainDB, logDB, err = openMemDBs()
	}
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	defer func() { logger.Info("closing log database..."); logDB.Close() }()

	rt, err := runtime.New(mainDB, logDB, gene, runtime.SystemClock)
	if err != nil {
		return err
	}

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	handler, closeSubs := api.New(rt, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
		BacklogLimit:         ctx.Uint64(apiBacklogLimitFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
	})
	defer closeSubs()

	apiURL, stopAPI, err := startAPIServer(ctx, handler)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); stopAPI() }()

	if ctx.Bool(enableMetricsFlag.Name) {
		url, stop, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); stop() }()
		logger.Info("metrics server started", "url", url)
	}

	var goes co.Goes
	runCtx, cancel := context.WithCancel(exitSignal)
	defer func() { cancel(); goes.Wait() }()

	if server := ctx.String(ntpServerFlag.Name); server != "" {
		goes.GoContext(runCtx, func(ctx context.Context) { houseKeeping(ctx, server) })
	}

	if ctx.Bool(enableAdminFlag.Name) {
		h := health.New(rt)
		goes.GoContext(runCtx, func(ctx context.Context) { watchCommits(ctx, rt, h) })

		url, stop, err := admin.StartServer(ctx.String(adminAddrFlag.Name), logLevel, apiLogs, h)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); stop() }()
		logger.Info("admin server started", "url", url)
	}

	printStartupMessage(rt, instanceDir, apiURL)

	<-runCtx.Done()
	return nil
}

func verifyEventsAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	initLogger(ctx)

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	instanceDir, err := makeInstanceDir(ctx, gene)
	if err != nil {
		return err
	}
	mainDB, logDB, err := openDBs(instanceDir, normalizeCacheSize(int(ctx.Uint64(cacheFlag.Name))))
	if err != nil {
		return err
	}
	defer mainDB.Close()
	defer logDB.Close()

	rt, err := runtime.New(mainDB, logDB, gene, runtime.SystemClock)
	if err != nil {
		return err
	}
	known := make([]impact.Address, 0, len(gene.Accounts))
	for _, acc := range gene.Accounts {
		known = append(known, acc.Address)
	}
	return verifyEvents(exitSignal, rt, known)
}
