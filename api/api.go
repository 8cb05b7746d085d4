// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/impactnet/impact/api/accounts"
	"github.com/impactnet/impact/api/events"
	"github.com/impactnet/impact/api/ledger"
	"github.com/impactnet/impact/api/middleware"
	"github.com/impactnet/impact/api/staking"
	"github.com/impactnet/impact/api/subscriptions"
	"github.com/impactnet/impact/api/utils"
	"github.com/impactnet/impact/log"
	"github.com/impactnet/impact/metrics"
	"github.com/impactnet/impact/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	LogsLimit            uint64
	BacklogLimit         uint64
	EnableMetrics        bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
}

// New return api router and a func to close hijacked connections.
func New(rt *runtime.Runtime, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(rt).
		Mount(router, "/accounts")
	staking.New(rt).
		Mount(router, "")
	ledger.New(rt).
		Mount(router, "")
	events.New(rt, opts.LogsLimit).
		Mount(router, "/events")
	subs := subscriptions.New(rt, origins, opts.BacklogLimit)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
		router.Use(metricsMiddleware)
	}

	enableReqLogger := opts.EnableReqLogger
	if enableReqLogger == nil {
		enableReqLogger = new(atomic.Bool)
	}
	router.Use(middleware.RequestLoggerMiddleware(logger, enableReqLogger, opts.SlowQueriesThreshold))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"content-type", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{middleware.RequestIDHeader, utils.ErrorKindHeader}),
	)(handler)
	handler = middleware.RequestIDMiddleware(handler)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
