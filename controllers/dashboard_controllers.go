package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/repairup/repairup-app/realtime"
	"github.com/repairup/repairup-app/utils"
)

var dashboardUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// DashboardSocketHandler keeps a dashboard connected for live booking and
// notification events. Auth middleware has already validated the token (passed
// as ?token= for websocket clients).
func DashboardSocketHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	role := c.GetString("role")

	conn, err := dashboardUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("dashboard: websocket upgrade failed: %v", err)
		return
	}

	realtime.RegisterClient(conn, userID, role)
	defer realtime.UnregisterClient(conn)

	// Drain the connection; clients only listen, but reads detect disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
