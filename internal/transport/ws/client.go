package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"wordhunt/internal/app"
	"wordhunt/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents a WebSocket client connection. Its handle is the
// connection identity everything else resolves from.
type Client struct {
	conn     *websocket.Conn
	registry *app.Registry
	handle   string
	send     chan []byte
	done     chan struct{}
	logger   zerolog.Logger
	mu       sync.Mutex
	closed   bool
}

// NewClient creates a new WebSocket client with the given connection handle
func NewClient(conn *websocket.Conn, registry *app.Registry, handle string, logger zerolog.Logger) *Client {
	return &Client{
		conn:     conn,
		registry: registry,
		handle:   handle,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		logger:   logger.With().Str("handle", handle).Logger(),
	}
}

// Send implements app.ClientConnection
func (c *Client) Send(message any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer full, message dropped. Delivery to clients is best-effort.
		c.logger.Warn().Msg("send buffer full, message dropped")
		return nil
	}
}

// Close implements app.ClientConnection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection. Connection loss
// funnels into the registry's disconnect handling.
func (c *Client) readPump() {
	defer func() {
		c.registry.HandleDisconnect(c.handle)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug().Err(err).Msg("websocket read error")
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
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

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgCreateRoom:
		c.handleCreateRoom(msg.Payload)
	case MsgJoinRoom:
		c.handleJoinRoom(msg.Payload)
	case MsgStartRound:
		c.handleStartRound(msg.Payload)
	case MsgEndRound:
		c.handleEndRound()
	case MsgSubmitWord:
		c.handleSubmitWord(msg.Payload)
	case MsgValidateWords:
		c.handleValidateWords(msg.Payload)
	case MsgResetRound:
		c.handleResetRound()
	case MsgCloseRoom:
		c.handleCloseRoom()
	case MsgPing:
		c.Send(NewServerMessage(MsgPong, nil))
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

// handleCreateRoom handles a create_room message. The room code is the only
// piece of identity trusted from the payload, and only here and at join.
func (c *Client) handleCreateRoom(payload json.RawMessage) {
	var req CreateRoomPayload
	if err := json.Unmarshal(payload, &req); err != nil || req.Code == "" {
		c.sendError(ErrCodeInvalidMessage, "Room code is required")
		return
	}

	session, rebound, err := c.registry.CreateRoom(req.Code, c.handle, req.RoomName, req.Language, c)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomExists):
			c.sendError(ErrCodeRoomExists, "Room code already in use")
		default:
			c.sendError(ErrCodeInternalError, err.Error())
		}
		return
	}

	c.Send(NewServerMessage(MsgRoomCreated, RoomCreatedPayload{
		Code:    session.Code(),
		Rebound: rebound,
	}))
}

// handleJoinRoom handles a join_room message
func (c *Client) handleJoinRoom(payload json.RawMessage) {
	var req JoinRoomPayload
	if err := json.Unmarshal(payload, &req); err != nil || req.Code == "" || req.DisplayName == "" {
		c.sendError(ErrCodeInvalidMessage, "Room code and display name are required")
		return
	}

	_, reconnected, err := c.registry.JoinRoom(req.Code, req.DisplayName, c.handle, c)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			c.sendError(ErrCodeGameDoesNotExist, "Room not found")
		case errors.Is(err, domain.ErrNameTaken):
			c.sendError(ErrCodeUsernameTaken, "Display name already taken")
		default:
			c.sendError(ErrCodeInternalError, err.Error())
		}
		return
	}

	c.Send(NewServerMessage(MsgJoined, JoinedPayload{
		Code:        req.Code,
		DisplayName: req.DisplayName,
		Reconnected: reconnected,
	}))
}

// handleStartRound handles a start_round message
func (c *Client) handleStartRound(payload json.RawMessage) {
	var req StartRoundPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	session, _, ok := c.registry.Resolve(c.handle)
	if !ok {
		c.anomaly("start_round")
		return
	}

	if err := session.StartRound(c.handle, req.Grid, req.DurationSeconds, req.Language); err != nil {
		c.sendCommandError(err)
	}
}

// handleEndRound handles an end_round message
func (c *Client) handleEndRound() {
	session, _, ok := c.registry.Resolve(c.handle)
	if !ok {
		c.anomaly("end_round")
		return
	}

	if err := session.EndRound(c.handle); err != nil {
		c.sendCommandError(err)
	}
}

// handleSubmitWord handles a submit_word message
func (c *Client) handleSubmitWord(payload json.RawMessage) {
	var req SubmitWordPayload
	if err := json.Unmarshal(payload, &req); err != nil || req.Word == "" {
		c.sendError(ErrCodeInvalidMessage, "Word is required")
		return
	}

	session, identity, ok := c.registry.Resolve(c.handle)
	if !ok {
		c.anomaly("submit_word")
		return
	}
	if identity.IsHost {
		c.sendError(ErrCodeInvalidAction, "The host does not submit words")
		return
	}

	if err := session.SubmitWord(identity.Name, req.Word); err != nil {
		c.sendCommandError(err)
	}
}

// handleValidateWords handles a validate_words message
func (c *Client) handleValidateWords(payload json.RawMessage) {
	var req ValidateWordsPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	session, _, ok := c.registry.Resolve(c.handle)
	if !ok {
		c.anomaly("validate_words")
		return
	}

	if err := session.ValidateWords(c.handle, req.Decisions); err != nil {
		c.sendCommandError(err)
	}
}

// handleResetRound handles a reset_round message
func (c *Client) handleResetRound() {
	session, _, ok := c.registry.Resolve(c.handle)
	if !ok {
		c.anomaly("reset_round")
		return
	}

	if err := session.ResetRound(c.handle); err != nil {
		c.sendCommandError(err)
	}
}

// handleCloseRoom handles a close_room message
func (c *Client) handleCloseRoom() {
	if err := c.registry.CloseRoom(c.handle); err != nil {
		c.sendCommandError(err)
	}
}

// sendCommandError maps domain errors to transport error codes
func (c *Client) sendCommandError(err error) {
	switch {
	case errors.Is(err, domain.ErrNotHost):
		c.sendError(ErrCodeNotHost, "Only the host can perform this action")
	case errors.Is(err, domain.ErrRoomNotFound):
		c.sendError(ErrCodeGameDoesNotExist, "Room not found")
	case errors.Is(err, domain.ErrInvalidPhase), errors.Is(err, domain.ErrInvalidGrid),
		errors.Is(err, domain.ErrParticipantNotFound):
		c.sendError(ErrCodeInvalidAction, err.Error())
	default:
		c.sendError(ErrCodeInternalError, err.Error())
	}
}

// anomaly logs a command that references a room the registry cannot resolve.
// The command is dropped as a no-op, never a crash.
func (c *Client) anomaly(command string) {
	c.logger.Warn().Str("command", command).Msg("command from handle with no room binding")
	c.sendError(ErrCodeGameDoesNotExist, "Not in a room")
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	c.Send(NewServerMessage(MsgError, ErrorPayload{
		Code:    code,
		Message: message,
	}))
}
