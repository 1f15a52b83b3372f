package chatService_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohan/teamhub/internal/models"
	chatService "github.com/rohan/teamhub/internal/service/chat"
)

func TestGetMessages_EmptyHistoryIsEmptyArray(t *testing.T) {
	cs := chatService.NewChatService(nil)

	rec := httptest.NewRecorder()
	cs.GetMessages(rec, httptest.NewRequest(http.MethodGet, "/api/chat/messages", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestSendMessage_AppendsAndReturnsMessage(t *testing.T) {
	cs := chatService.NewChatService(nil)

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"sender":"max","text":"hello team"}`)
	cs.SendMessage(rec, httptest.NewRequest(http.MethodPost, "/api/chat/send", body))

	require.Equal(t, http.StatusCreated, rec.Code)

	var msg models.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.NotEmpty(t, msg.ID)
	assert.NotEmpty(t, msg.Timestamp)
	assert.Equal(t, "max", msg.Sender)
	assert.Equal(t, "hello team", msg.Text)

	history := cs.Messages()
	require.Len(t, history, 1)
	assert.Equal(t, msg.ID, history[0].ID)
}

func TestSendMessage_MissingFieldsRejected(t *testing.T) {
	cs := chatService.NewChatService(nil)

	for _, payload := range []string{
		`{"sender":"max"}`,
		`{"text":"hello"}`,
		`{}`,
		`not json`,
	} {
		rec := httptest.NewRecorder()
		cs.SendMessage(rec, httptest.NewRequest(http.MethodPost, "/api/chat/send", strings.NewReader(payload)))

		assert.Equal(t, http.StatusBadRequest, rec.Code, "payload %q", payload)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Sender and text are required.", resp["error"])
	}

	assert.Empty(t, cs.Messages())
}

func TestPost_BroadcastsNewMessageEvent(t *testing.T) {
	hub := models.NewHub()
	go hub.Run()
	cs := chatService.NewChatService(hub)

	client := &models.Client{Hub: hub, Send: make(chan []byte, 4)}
	hub.Register <- client

	posted, ok := cs.Post("olive", "standup in five")
	require.True(t, ok)

	frame := <-client.Send
	var event models.Event
	require.NoError(t, json.Unmarshal(frame, &event))
	assert.Equal(t, "newMessage", event.Type)
	require.NotNil(t, event.Message)
	assert.Equal(t, posted.ID, event.Message.ID)
	assert.Equal(t, "standup in five", event.Message.Text)
}

func TestMessages_ReturnsCopy(t *testing.T) {
	cs := chatService.NewChatService(nil)
	cs.Post("max", "first")

	history := cs.Messages()
	history[0].Text = "mutated"

	fresh := cs.Messages()
	assert.Equal(t, "first", fresh[0].Text)
}
