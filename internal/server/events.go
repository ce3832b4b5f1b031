package server

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formbuilder/pkg/eventbus"
)

const (
	eventQueueSize = 32
	writeTimeout   = 5 * time.Second
)

// streamEvents upgrades to a websocket and forwards every event of the
// session until the client goes away. Events that do not fit in the
// connection's queue are dropped.
func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	e := sessionFrom(r.Context())

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.logger.WithError(err).Warn("events: websocket accept")
		return
	}
	defer conn.CloseNow()

	queue := make(chan eventbus.Event, eventQueueSize)
	name := "ws-" + uuid.NewString()
	unsubscribe := e.bus.Subscribe(name, eventbus.HandlerFunc(func(_ context.Context, evt eventbus.Event) error {
		select {
		case queue <- evt:
		default:
			s.logger.WithField("subscriber", name).Warn("events: queue full, dropping event")
		}
		return nil
	}))
	defer unsubscribe()

	// CloseRead drains client frames and cancels ctx once the peer closes.
	ctx := conn.CloseRead(r.Context())
	log := s.logger.WithFields(logrus.Fields{"session": e.session.ID(), "subscriber": name})
	log.Debug("events: subscriber connected")

	for {
		select {
		case <-ctx.Done():
			log.Debug("events: subscriber disconnected")
			return
		case evt := <-queue:
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(writeCtx, conn, evt)
			cancel()
			if err != nil {
				log.WithError(err).Debug("events: write failed")
				return
			}
		}
	}
}
