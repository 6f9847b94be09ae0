package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/terrascope/canvas/internal/logger"
	"github.com/terrascope/canvas/internal/store"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

type StreamMessage struct {
	Type  string      `json:"type"`
	State store.State `json:"state"`
}

// Stream upgrades to a websocket and pushes a store snapshot after every
// transition, starting with the current state. A slow client only ever
// receives the newest pending snapshot.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	fields := map[string]string{"session_id": s.ID}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log(logger.LevelWarn, fields, err, "websocket upgrade failed")
		return
	}
	defer conn.Close()

	updates := make(chan store.State, 1)
	unsubscribe := s.Store.Subscribe(func(st store.State) {
		select {
		case updates <- st:
		default:
			select {
			case <-updates:
			default:
			}
			updates <- st
		}
	})
	defer unsubscribe()

	// The read loop only drains control frames and notices disconnects.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	write := func(st store.State) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(StreamMessage{Type: "state", State: st})
	}

	if err := write(s.Store.State()); err != nil {
		logger.Log(logger.LevelDebug, fields, err, "websocket write failed")
		return
	}
	logger.Log(logger.LevelDebug, fields, nil, "websocket stream opened")

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			logger.Log(logger.LevelDebug, fields, nil, "websocket stream closed")
			return
		case st := <-updates:
			if err := write(st); err != nil {
				logger.Log(logger.LevelDebug, fields, err, "websocket write failed")
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
