package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs joins an upgraded connection to the organization's room and blocks
// until the socket closes.
func ServeWs(hub *Hub, c *websocket.Conn, organizationId string) {
	client := &Client{Hub: hub, Conn: c, OrganizationId: organizationId, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
