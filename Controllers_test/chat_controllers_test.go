package Controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"github.com/repairup/repairup-app/chat"
	"github.com/repairup/repairup-app/controllers"
	"github.com/repairup/repairup-app/utils"
)

func setupChatRouter() *gin.Engine {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/chat/messages", controllers.SendChatMessage)
	router.GET("/chat/ws", controllers.ChatSocketHandler)
	return router
}

func TestSendChatMessageReturnsCannedReply(t *testing.T) {
	router := setupChatRouter()

	w := doJSON(t, router, "POST", "/chat/messages", map[string]string{
		"text": "my ac is not cooling",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data chat.Reply `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Data.Text, "AC not cooling properly?")
	if assert.NotNil(t, resp.Data.Action) {
		assert.Equal(t, "AC", resp.Data.Action.Service)
		assert.Equal(t, "Not Cooling", resp.Data.Action.Problem)
	}
}

func TestSendChatMessageRequiresText(t *testing.T) {
	router := setupChatRouter()

	w := doJSON(t, router, "POST", "/chat/messages", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatSocketGreetsAndReplies(t *testing.T) {
	router := setupChatRouter()
	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/chat/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	var greeting chat.Reply
	assert.NoError(t, conn.ReadJSON(&greeting))
	assert.Equal(t, chat.Greeting, greeting.Text)
	assert.Nil(t, greeting.Action)

	assert.NoError(t, conn.WriteJSON(map[string]string{"text": "fridge is very loud"}))
	var reply chat.Reply
	assert.NoError(t, conn.ReadJSON(&reply))
	if assert.NotNil(t, reply.Action) {
		assert.Equal(t, "Refrigerator", reply.Action.Service)
		assert.Equal(t, "Loud Noise", reply.Action.Problem)
	}

	// Unknown appliances fall back to the generic prompt.
	assert.NoError(t, conn.WriteJSON(map[string]string{"text": "my drone crashed"}))
	assert.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, chat.Fallback, reply.Text)
	assert.Nil(t, reply.Action)
}
