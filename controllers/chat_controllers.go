package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/repairup/repairup-app/chat"
	"github.com/repairup/repairup-app/utils"
)

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SendChatMessage -> POST /chat/messages, stateless request/response.
func SendChatMessage(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reply := chat.Respond(req.Text)
	utils.RespondJSON(c, http.StatusOK, "Assistant reply", reply)
}

// ChatSocketHandler upgrades to a websocket session. The assistant greets on
// connect and then answers each text frame; the transcript lives only on the
// client.
func ChatSocketHandler(c *gin.Context) {
	conn, err := chatUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("chat: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(chat.Reply{Text: chat.Greeting}); err != nil {
		return
	}

	for {
		var msg struct {
			Text string `json:"text"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Text == "" {
			continue
		}
		if err := conn.WriteJSON(chat.Respond(msg.Text)); err != nil {
			return
		}
	}
}
