// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/impactnet/impact/api/events"
	"github.com/impactnet/impact/api/utils"
	"github.com/impactnet/impact/log"
	"github.com/impactnet/impact/runtime"
)

const (
	// time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// send pings to peer with this period, must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
	// time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	defaultBacklog = 1000
)

var logger = log.WithContext("pkg", "subscriptions")

type Subscriptions struct {
	rt       *runtime.Runtime
	backlog  uint64
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
}

// New creates the subscriptions api. backlog caps the events sent in one batch.
func New(rt *runtime.Runtime, allowedOrigins []string, backlog uint64) *Subscriptions {
	if backlog == 0 {
		backlog = defaultBacklog
	}
	return &Subscriptions{
		rt:      rt,
		backlog: backlog,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || strings.EqualFold(allowed, u.Host) || strings.EqualFold(allowed, origin) {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	filter, err := events.ParseFilter(req.URL.Query(), s.backlog)
	if err != nil {
		return err
	}
	// position is given by pos, paging and ordering do not apply
	filter.Range, filter.Options = nil, nil

	newest, err := s.rt.NewestEventSeq(req.Context())
	if err != nil {
		return err
	}
	from, err := utils.ParseUint64(req.URL.Query().Get("pos"), "pos", newest+1)
	if err != nil {
		return err
	}
	if from+s.backlog <= newest {
		return utils.Forbidden(errors.New("pos: backlog exceeded"))
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}
	metricActiveCount().Add(1)
	s.wg.Add(1)
	defer func() {
		metricActiveCount().Add(-1)
		s.wg.Done()
	}()

	closed := make(chan struct{})
	// a reader is required to handle control frames
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("websocket read", "err", err)
				return
			}
		}
	}()

	reader := newEventReader(s.rt, *filter, from, s.backlog)
	if err := s.pipe(req.Context(), conn, reader, closed); err != nil {
		logger.Debug("websocket pipe", "err", err)
		conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseInternalServerErr, ""), time.Now().Add(writeWait))
	} else {
		conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
	}
	conn.Close()
	return nil
}

func (s *Subscriptions) pipe(ctx context.Context, conn *websocket.Conn, reader *eventReader, closed <-chan struct{}) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	waiter := s.rt.NewEventWaiter()
	for {
		evs, more, err := reader.Read(ctx)
		if err != nil {
			return err
		}
		for _, ev := range evs {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				return err
			}
		}
		if more {
			continue
		}

		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case <-ctx.Done():
			return nil
		case <-waiter.C():
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

// Close ends every subscription and waits for them to exit.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("WS /subscriptions/events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
