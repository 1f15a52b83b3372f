package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rohan/teamhub/internal/handlers"
)

// registerWebSocketRoutes registers the real-time chat endpoint.
func registerWebSocketRoutes(router *mux.Router, deps Deps) {
	wsHandler := handlers.NewWebSocketHandler(deps.Hub, deps.Chat)
	router.HandleFunc("/ws", wsHandler.HandleWebSocket).Methods(http.MethodGet)
}
