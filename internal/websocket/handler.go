package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs registers the connection under key and pumps it until it closes.
// onMessage may be nil for listen-only clients.
func ServeWs(hub *Hub, c *websocket.Conn, key string, onMessage MessageHandler) {
	client := &Client{Hub: hub, Conn: c, Key: key, Send: make(chan []byte, sendBuffer), onMessage: onMessage}
	if !hub.join(client) {
		c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
