// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/gorilla/websocket"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/impactnet/impact/co"
	"github.com/impactnet/impact/genesis"
	"github.com/impactnet/impact/health"
	"github.com/impactnet/impact/log"
	"github.com/impactnet/impact/logdb"
	"github.com/impactnet/impact/lvldb"
	"github.com/impactnet/impact/metrics"
	"github.com/impactnet/impact/runtime"
)

func initLogger(ctx *cli.Context) *slog.LevelVar {
	logLevel := new(slog.LevelVar)
	logLevel.Set(log.FromLegacyLevel(int(ctx.Uint64(verbosityFlag.Name))))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stdout, logLevel)
	} else {
		useColor := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		handler = log.NewTerminalHandlerWithLevel(os.Stdout, logLevel, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return logLevel
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".org.impactnet.impact")
	}
	return filepath.Join(os.TempDir(), "impact")
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	if !ctx.IsSet(genesisFlag.Name) {
		return genesis.NewDevnet(), nil
	}
	gene, err := genesis.Load(ctx.String(genesisFlag.Name))
	if err != nil {
		return nil, errors.WithMessage(err, "load genesis")
	}
	return gene, nil
}

// makeInstanceDir keeps ledgers of different genesis apart under the same data dir.
func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) (string, error) {
	instanceDir := filepath.Join(ctx.String(dataDirFlag.Name), fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		logger.Warn("failed to get fd limit", "err", err)
		return 500
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}
	return min(limit/2, 5120)
}

func openDBs(instanceDir string, cacheMB int) (*lvldb.LevelDB, *logdb.LogDB, error) {
	// Ensure Go's GC ignores the database cache for trigger percentage
	gogc := math.Max(20, math.Min(100, 100/(float64(cacheMB)/1024)))
	logger.Debug("sanitize Go's GC trigger", "percent", int(gogc))
	debug.SetGCPercent(int(gogc))

	fdCache := suggestFDCache()
	logger.Debug("fd cache", "n", fdCache)

	mainDB, err := lvldb.New(filepath.Join(instanceDir, "main.db"), lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: fdCache,
	})
	if err != nil {
		return nil, nil, errors.WithMessage(err, "open main database")
	}
	logDB, err := logdb.New(filepath.Join(instanceDir, "logs.db"))
	if err != nil {
		mainDB.Close()
		return nil, nil, errors.WithMessage(err, "open log database")
	}
	return mainDB, logDB, nil
}

func openMemDBs() (*lvldb.LevelDB, *logdb.LogDB, error) {
	mainDB, err := lvldb.NewMem()
	if err != nil {
		return nil, nil, errors.WithMessage(err, "open main database")
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		mainDB.Close()
		return nil, nil, errors.WithMessage(err, "open log database")
	}
	return mainDB, logDB, nil
}

// handleAPITimeout bounds the request context. Websocket upgrades live as long as the connection.
func handleAPITimeout(h http.Handler, timeout time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			h.ServeHTTP(w, r)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		h.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestBodyLimit caps request bodies at 200k.
func requestBodyLimit(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 200*1024)
		h.ServeHTTP(w, r)
	})
}

func startAPIServer(ctx *cli.Context, handler http.Handler) (string, func(), error) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	if timeout := ctx.Uint64(apiTimeoutFlag.Name); timeout > 0 {
		handler = handleAPITimeout(handler, time.Duration(timeout)*time.Millisecond)
	}
	handler = requestBodyLimit(handler)

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

func startMetricsServer(addr string) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen metrics addr [%v]", addr)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/metrics", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

// handleExitSignal returns a context canceled on SIGINT or SIGTERM.
func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(exitSignalCh)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

// watchCommits feeds the newest committed event into the health status.
func watchCommits(ctx context.Context, rt *runtime.Runtime, h *health.Health) {
	waiter := rt.NewEventWaiter()
	for {
		seq, err := rt.NewestEventSeq(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("failed to read newest event", "err", err)
		} else if seq > 0 {
			h.Committed(seq)
		}

		select {
		case <-ctx.Done():
			return
		case <-waiter.C():
		}
	}
}

func printStartupMessage(rt *runtime.Runtime, instanceDir string, apiURL string) {
	params, err := rt.StakingParams()
	if err != nil {
		logger.Warn("failed to read staking params", "err", err)
		return
	}
	fmt.Printf(`Starting %v
    Genesis      [ %v ]
    Staking      [ min %v max %v rate %v bps ]
    Instance dir [ %v ]
    API portal   [ %v ]
`,
		"Impact "+fullVersion(),
		rt.GenesisID(),
		time.Duration(params.MinStakeDuration)*time.Second,
		time.Duration(params.MaxStakeDuration)*time.Second,
		params.BaseRewardRate,
		instanceDir,
		apiURL)
}
