package chatroutes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rohan/teamhub/internal/middleware"
	chatService "github.com/rohan/teamhub/internal/service/chat"
)

// ChatRoutes registers the REST side of the chat channel.
func ChatRoutes(router *mux.Router, svc *chatService.ChatService) {
	r := router.PathPrefix("/api/chat").Subrouter()
	r.Use(middleware.ResponseWrapperMiddleware)

	r.HandleFunc("/messages", svc.GetMessages).Methods(http.MethodGet)
	r.HandleFunc("/send", svc.SendMessage).Methods(http.MethodPost)
}
