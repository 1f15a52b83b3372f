package chatService

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rohan/teamhub/internal/logger"
	"github.com/rohan/teamhub/internal/models"
	"github.com/rohan/teamhub/internal/validator"
)

// ChatService keeps the append-only chat log and fans accepted messages out
// to connected sessions through the hub.
type ChatService struct {
	Hub *models.Hub
	Log *logger.Logger

	mu       sync.RWMutex
	messages []models.Message
}

// NewChatService initializes a new chat service.
func NewChatService(hub *models.Hub) *ChatService {
	return &ChatService{
		Hub: hub,
		Log: logger.NewLogger("chat-service"),
	}
}

type sendMessageRequest struct {
	Sender string `json:"sender" validate:"required"`
	Text   string `json:"text" validate:"required"`
}

// Messages returns the full message history in post order.
func (cs *ChatService) Messages() []models.Message {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	history := make([]models.Message, len(cs.messages))
	copy(history, cs.messages)
	return history
}

// Post appends a message to the log and broadcasts it as a newMessage event.
// Sender and text must both be non-empty.
func (cs *ChatService) Post(sender, text string) (models.Message, bool) {
	if sender == "" || text == "" {
		return models.Message{}, false
	}

	msg := models.Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	cs.mu.Lock()
	cs.messages = append(cs.messages, msg)
	cs.mu.Unlock()

	if cs.Hub != nil {
		cs.Hub.BroadcastEvent(models.Event{Type: "newMessage", Message: &msg})
	}

	cs.Log.Debug("Message posted", "sender", sender)
	return msg, true
}

// GetMessages handles GET requests for the full chat history.
func (cs *ChatService) GetMessages(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, cs.Messages())
}

// SendMessage handles POST requests that append a chat message.
func (cs *ChatService) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Sender and text are required.")
		return
	}
	if err := validator.Validate(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Sender and text are required.")
		return
	}

	msg, ok := cs.Post(req.Sender, req.Text)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Sender and text are required.")
		return
	}

	respondWithJSON(w, http.StatusCreated, msg)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
