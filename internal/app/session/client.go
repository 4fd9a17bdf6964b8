/*
Package session orchestrates live game sessions.

This file defines the Client struct, representing an active WebSocket
connection. It manages the connection lifecycle, the read and write pumps, and
hands every inbound frame to the Controller.
*/
package session

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"termoarena/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	maxMessageSize = 4096

	// sendQueueSize is the buffer of the per-connection outbound queue.
	// Broadcasts to a full queue are dropped rather than blocking the room.
	sendQueueSize = 256
)

// Client is an active WebSocket connection as seen by the session layer. It
// implements Connection; the ConnectionManager tracks which room it belongs to.
type Client struct {
	// conn is the underlying WebSocket connection.
	conn *websocket.Conn

	// controller receives every parsed inbound frame and the disconnect signal.
	controller *Controller

	// send queues outbound frames for the write pump.
	send chan []byte

	logger zerolog.Logger
}

// NewClient wraps an upgraded WebSocket connection.
func NewClient(conn *websocket.Conn, controller *Controller) *Client {
	return &Client{
		conn:       conn,
		controller: controller,
		send:       make(chan []byte, sendQueueSize),
		logger:     logx.Logger().With().Str("component", "Client").Str("remote_addr", conn.RemoteAddr().String()).Logger(),
	}
}

// Send enqueues one outbound frame without blocking. It reports false when the
// queue is full, in which case the frame is dropped for this connection only.
func (c *Client) Send(message []byte) bool {
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// ReadPump reads frames from the WebSocket connection and dispatches them to
// the controller. It handles heartbeats (Pong) and performs cleanup when the
// connection closes: the only effect of a disconnect is detaching the
// connection, never touching room or player state.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		c.controller.HandleMessage(c, messageBytes)
	}
}

// cleanupOnDisconnect detaches the client and closes the socket once the read
// pump terminates.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.controller.HandleDisconnect(c)

	close(c.send)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// WritePump writes queued frames to the WebSocket connection and keeps the
// heartbeat alive with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !c.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage writes one frame pulled from the send queue. Returns true
// if the write pump should continue, false if it should terminate.
func (c *Client) writeQueuedMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping to maintain the heartbeat.
// Returns false if the write pump should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
