package config

import (
	"net/http"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader websocket.Upgrader
	WebSocketConfig
}

func NewWebSocket(cfg WebSocketConfig) *WebSocket {
	upgrader := websocket.Upgrader{
		// every viewer watches the same public board
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	return &WebSocket{
		Upgrader:        upgrader,
		WebSocketConfig: cfg,
	}
}
