// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/impactnet/impact/api/admin/loglevel"
	"github.com/impactnet/impact/health"
)

// HTTPHandler serves the operator endpoints under /admin.
func HTTPHandler(logLevel *slog.LevelVar, apiLogs *atomic.Bool, h *health.Health) http.Handler {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()

	loglevel.New(logLevel).Mount(sub, "/loglevel")

	sub.Path("/apilogs").
		Methods(http.MethodGet).
		HandlerFunc(getAPILogsHandler(apiLogs))
	sub.Path("/apilogs").
		Methods(http.MethodPost).
		HandlerFunc(postAPILogsHandler(apiLogs))
	sub.Path("/health").
		Methods(http.MethodGet).
		HandlerFunc(healthHandler(h))

	return handlers.CompressHandler(router)
}
