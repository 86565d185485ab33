package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/repairup/repairup-app/models"
	"github.com/repairup/repairup-app/utils"
)

// Event types pushed to dashboard clients
const (
	EventBookingUpdate = "booking_update"
	EventNotification  = "notification"
	EventTechUpdate    = "technician_update"
	EventAdminNotif    = "admin_notification"
)

// writeWait bounds each broadcast write; a stalled socket is dropped instead
// of holding the hub lock.
const writeWait = 10 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	userID uint
	role   string
}

// Hub keeps every connected dashboard socket (customers, technicians, admins)
// and routes events to the clients allowed to see them.
type Hub struct {
	clients map[*websocket.Conn]client
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]client),
}

// RegisterClient adds a connection to the set.
func RegisterClient(conn *websocket.Conn, userID uint, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = client{userID: userID, role: role}
}

// UnregisterClient releases a connection.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastBookingUpdate notifies the booking owner and every admin.
func BroadcastBookingUpdate(booking models.Booking) {
	send(Message{Event: EventBookingUpdate, Data: booking}, func(cl client) bool {
		return cl.role == models.RoleAdmin || cl.userID == booking.UserID
	})
}

// BroadcastNotification delivers a stored notification to its recipient.
func BroadcastNotification(notif models.Notification) {
	send(Message{Event: EventNotification, Data: notif}, func(cl client) bool {
		if cl.role == models.RoleAdmin {
			return true
		}
		return notif.UserID != nil && cl.userID == *notif.UserID
	})
}

// BroadcastTechnicianUpdate pushes availability changes to admin dashboards.
func BroadcastTechnicianUpdate(tech models.Technician) {
	send(Message{Event: EventTechUpdate, Data: tech}, func(cl client) bool {
		return cl.role == models.RoleAdmin || cl.role == models.RoleManager
	})
}

// BroadcastAdminNotification sends a plain text message to admin clients.
func BroadcastAdminNotification(message string) {
	send(Message{Event: EventAdminNotif, Data: message}, func(cl client) bool {
		return cl.role == models.RoleAdmin || cl.role == models.RoleManager
	})
}

func send(msg Message, allow func(client) bool) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	for conn, cl := range hub.clients {
		if !allow(cl) {
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			if utils.ErrorLogger != nil {
				utils.ErrorLogger.Printf("realtime: dropping client: %v", err)
			}
			delete(hub.clients, conn)
			conn.Close()
		}
	}
}
