package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"happy-thoughts-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// EventConnected is the first message a feed client receives
const EventConnected = "connected"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the feed is public, like GET /thoughts
	},
}

// FeedHandler streams thought events over WebSocket
type FeedHandler struct {
	hub *services.FeedHub
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(hub *services.FeedHub) *FeedHandler {
	return &FeedHandler{hub: hub}
}

// HandleWebSocket handles GET /ws
func (h *FeedHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	sub := h.hub.Register()
	defer h.hub.Unregister(sub)

	// Clients only listen; reads exist to observe close frames and pongs.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(maxMessageSize)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Debug().Err(err).Msg("Feed connection closed")
				}
				return
			}
		}
	}()

	hello, _ := json.Marshal(services.FeedEvent{Type: EventConnected})
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, hello); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case data, ok := <-sub.Send():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Debug().Err(err).Msg("Failed to write feed event")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
