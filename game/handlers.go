package game

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"burrow-server/config"
)

// HandleConnections handles WebSocket connections.
func (s *GameServer) HandleConnections(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}

	playerID := uuid.New().String()
	client := &Client{
		conn:       conn,
		playerID:   playerID,
		send:       make(chan []byte, config.SendBufferSize),
		lastAction: time.Now(),
	}

	s.mu.Lock()
	s.players[playerID] = &PlayerState{
		ID:     playerID,
		Pos:    s.level.PlayerSpawn,
		Client: client,
	}
	initPayload := map[string]interface{}{
		"playerID":    playerID,
		"levelName":   s.level.Name,
		"gridW":       s.level.W,
		"gridH":       s.level.H,
		"tiles":       s.level.Rows(),
		"tickMs":      config.TICK_INTERVAL.Milliseconds(),
		"holeOpenMs":  s.holeOpenMs,
		"guardStunMs": s.stunMs,
	}
	s.mu.Unlock()

	initMsg, _ := json.Marshal(map[string]interface{}{"type": "init_data", "payload": initPayload})
	select {
	case client.send <- initMsg:
	default:
		log.Printf("Client %s init channel full.", client.playerID)
	}

	s.register <- client
	go client.writePump()
	go client.readPump(s)
}

type clientMessage struct {
	Type    string `json:"type"`
	Payload struct {
		X  int `json:"x"`
		Y  int `json:"y"`
		DX int `json:"dx"`
		DY int `json:"dy"`
	} `json:"payload"`
}

// readPump handles incoming messages from the client.
func (c *Client) readPump(server *GameServer) {
	defer func() {
		server.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}
		var msg clientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}
		switch msg.Type {
		case "dig":
			// One dig per tick per client.
			if time.Since(c.lastAction) < config.TICK_INTERVAL {
				continue
			}
			c.lastAction = time.Now()
			now := time.Now().UnixMilli()
			if !server.DigHole(c.playerID, msg.Payload.X, msg.Payload.Y, now) {
				log.Printf("Client %s: rejected dig at (%d,%d)", c.playerID, msg.Payload.X, msg.Payload.Y)
			}
		case "move":
			server.MovePlayer(c.playerID, msg.Payload.DX, msg.Payload.DY)
		default:
			log.Printf("Client %s: unknown message type %q", c.playerID, msg.Type)
		}
	}
}

// writePump writes messages to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
