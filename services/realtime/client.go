package realtime

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 32
)

// sink is anything that can receive a push. The websocket client is the
// production implementation; tests substitute their own.
type sink interface {
	push(msg PushMessage) bool
}

// Client is one live websocket connection. Writes go through a buffered
// channel so a push never blocks the caller on a slow or dead peer.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// ID returns the connection identifier.
func (c *Client) ID() string {
	return c.id
}

// push queues an event for delivery. A full buffer or closed connection
// drops the message; the durable notification record is the recovery path.
func (c *Client) push(msg PushMessage) bool {
	raw, err := json.Marshal(msg)
	if err != nil {
		return false
	}
	select {
	case c.send <- raw:
		return true
	default:
		return false
	}
}

// readPump reads inbound frames and hands them to the hub. It owns the
// connection teardown: when the read side fails for any reason, all
// presence and room state for this connection is removed synchronously.
func (c *Client) readPump() {
	defer func() {
		c.hub.drop(c.id)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("websocket read failed", zap.String("connId", c.id), zap.Error(err))
			}
			return
		}
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.push(PushMessage{Event: PushError, Data: map[string]string{"message": "malformed event"}})
			continue
		}
		c.hub.handleEvent(c.id, env)
	}
}

// writePump drains the send channel onto the wire and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case raw, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
