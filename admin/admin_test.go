// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impactnet/impact/health"
)

type checker struct{ halted bool }

func (p *checker) IsHalted() (bool, error) { return p.halted, nil }

type fixture struct {
	logLevel slog.LevelVar
	apiLogs  atomic.Bool
	checker  checker
	handler  http.Handler
}

func newFixture() *fixture {
	f := &fixture{}
	f.logLevel.Set(slog.LevelInfo)
	f.handler = HTTPHandler(&f.logLevel, &f.apiLogs, health.New(&f.checker))
	return f
}

func (f *fixture) serve(method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func TestLogLevel(t *testing.T) {
	f := newFixture()

	rr := f.serve(http.MethodPost, "/admin/loglevel", []byte(`{"level":"debug"}`))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"currentLevel":"debug"}`, rr.Body.String())
	assert.Equal(t, slog.LevelDebug, f.logLevel.Level())

	rr = f.serve(http.MethodPost, "/admin/loglevel", []byte(`{"level":"invalid_body"}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, slog.LevelDebug, f.logLevel.Level())

	rr = f.serve(http.MethodPut, "/admin/loglevel", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestAPILogs(t *testing.T) {
	f := newFixture()

	rr := f.serve(http.MethodGet, "/admin/apilogs", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"enabled":false}`, rr.Body.String())

	rr = f.serve(http.MethodPost, "/admin/apilogs", []byte(`{"enabled":true}`))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, f.apiLogs.Load())

	rr = f.serve(http.MethodPost, "/admin/apilogs", []byte(`{}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.True(t, f.apiLogs.Load())
}

func TestHealth(t *testing.T) {
	f := newFixture()

	rr := f.serve(http.MethodGet, "/admin/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	f.checker.halted = true
	rr = f.serve(http.MethodGet, "/admin/health", nil)
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	var status health.Status
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&status))
	assert.True(t, status.Halted)
	assert.False(t, status.Healthy)
}
