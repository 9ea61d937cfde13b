package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"taptap/config"
	"taptap/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// UpgradePresenceWS upgrades the connection for the presence channel. The
// client authenticates with a token query param, then sends
// {"type":"subscribe","venue_id":N} / {"type":"unsubscribe","venue_id":N}
// messages; the server pushes invalidation events only.
func UpgradePresenceWS(cfg *config.JWTConfig, hub *PresenceHub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		token := c.Query("token")
		if token == "" {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"token required"}`))
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
			return
		}
		client := &Client{
			UserID: claims.UserID,
			Send:   make(chan []byte, 256),
		}
		hub.Register(client)
		defer func() {
			hub.Drop(client)
			client.Close()
		}()
		go writePump(client, conn)
		readPump(conn, hub, client)
	}
}

// writePump copies messages from client.Send to the connection.
func writePump(c *Client, conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.Send:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func readPump(conn *websocket.Conn, hub *PresenceHub, client *Client) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg struct {
			Type    string `json:"type"`
			VenueID uint   `json:"venue_id"`
		}
		if err := json.Unmarshal(data, &msg); err != nil || msg.VenueID == 0 {
			continue
		}
		switch msg.Type {
		case "subscribe":
			hub.Subscribe(client, msg.VenueID)
		case "unsubscribe":
			hub.Unsubscribe(client, msg.VenueID)
		}
	}
}
