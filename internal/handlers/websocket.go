package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/rohan/teamhub/internal/logger"
	"github.com/rohan/teamhub/internal/models"
	chatService "github.com/rohan/teamhub/internal/service/chat"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, replace with proper origin checking
	},
}

// WebSocketHandler upgrades chat connections and wires them into the hub.
type WebSocketHandler struct {
	hub  *models.Hub
	chat *chatService.ChatService
	log  *logger.Logger
}

// NewWebSocketHandler creates a new WebSocket handler.
func NewWebSocketHandler(hub *models.Hub, chat *chatService.ChatService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:  hub,
		chat: chat,
		log:  logger.NewLogger("ws-handler"),
	}
}

// HandleWebSocket handles incoming chat WebSocket connections. Each new
// session receives the full history as an initMessages event, then every
// accepted message as a newMessage event.
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := &models.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	client.OnMessage = func(sender, text string) {
		// Post broadcasts the accepted message to every session.
		h.chat.Post(sender, text)
	}

	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	// History snapshot goes only to the new session, not the hub.
	event := models.Event{Type: "initMessages", Messages: h.chat.Messages()}
	if snapshot, err := json.Marshal(event); err == nil {
		client.Send <- snapshot
	}
}
