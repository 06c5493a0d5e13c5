package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ramg4ai/Mafia-Game/internal/app"
	"github.com/ramg4ai/Mafia-Game/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents a WebSocket client connection. A client is unbound until
// its first create-game or join-game message attaches it to a room session.
type Client struct {
	conn     *websocket.Conn
	hub      *app.RoomHub
	session  *app.RoomSession // nil until bound to a room
	playerID string
	send     chan []byte
	done     chan struct{}
	logger   *slog.Logger
	mu       sync.Mutex
	closed   bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, hub *app.RoomHub, playerID string, logger *slog.Logger) *Client {
	return &Client{
		conn:     conn,
		hub:      hub,
		playerID: playerID,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// GetPlayerID returns the player ID for this client
func (c *Client) GetPlayerID() string {
	return c.playerID
}

// Send implements app.ClientConnection
func (c *Client) Send(message interface{}) error {
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
		c.logger.Warn("send buffer full, message dropped", "playerID", c.playerID)
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

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		if c.session != nil {
			c.session.UnregisterClient(c.playerID)
			if roomEmpty := c.session.HandleDisconnect(c.playerID); roomEmpty {
				c.hub.DeleteSession(c.session.RoomCode())
			}
		}
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
				c.logger.Debug("websocket read error", "error", err)
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
	case MsgCreateGame:
		c.handleCreateGame(msg.Payload)
	case MsgJoinGame:
		c.handleJoinGame(msg.Payload)
	case MsgPing:
		c.Send(NewServerMessage(MsgPong, nil))
	default:
		if c.session == nil {
			c.sendError(ErrCodeInvalidAction, "Join a room first")
			return
		}
		c.handleRoomMessage(msg)
	}
}

// handleRoomMessage dispatches messages that require a bound session
func (c *Client) handleRoomMessage(msg ClientMessage) {
	switch msg.Type {
	case MsgSetTimer:
		var p SetTimerPayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		_, err := c.session.SetDiscussionMinutes(c.playerID, p.Minutes)
		c.reportError(err)

	case MsgSetNightTimer:
		var p SetTimerPayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		_, err := c.session.SetNightSeconds(c.playerID, p.Seconds)
		c.reportError(err)

	case MsgSetVoteTimer:
		var p SetTimerPayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		_, err := c.session.SetVoteSeconds(c.playerID, p.Seconds)
		c.reportError(err)

	case MsgStartGame:
		c.reportError(c.session.StartGame(c.playerID))

	case MsgRoleReady:
		c.reportError(c.session.MarkReady(c.playerID))

	case MsgMafiaVote:
		var p TargetPayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		c.reportError(c.session.MafiaVote(c.playerID, p.TargetID))

	case MsgDoctorAction:
		var p TargetPayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		c.reportError(c.session.DoctorAction(c.playerID, p.TargetID))

	case MsgPoliceAction:
		var p TargetPayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		c.reportError(c.session.PoliceAction(c.playerID, p.TargetID))

	case MsgJokerAction:
		var p JokerActionPayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		c.reportError(c.session.JokerAction(c.playerID, domain.JokerActionKind(p.Action), p.TargetID))

	case MsgVigilanteAction:
		var p TargetPayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		c.reportError(c.session.VigilanteAction(c.playerID, p.TargetID))

	case MsgSkipVigilanteAction:
		c.reportError(c.session.SkipVigilanteAction(c.playerID))

	case MsgInvestigationDone:
		c.reportError(c.session.InvestigationDone(c.playerID))

	case MsgGhostGuess:
		var p TargetPayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		c.reportError(c.session.GhostGuess(c.playerID, p.TargetID))

	case MsgCastVote:
		var p TargetPayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		c.reportError(c.session.CastVote(c.playerID, p.TargetID))

	case MsgMafiaChat:
		var p ChatPayload
		if !c.decode(msg.Payload, &p) {
			return
		}
		c.reportError(c.session.MafiaChat(c.playerID, p.Message))

	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

// handleCreateGame creates a new room with this client as host
func (c *Client) handleCreateGame(payload json.RawMessage) {
	var p CreateGamePayload
	if !c.decode(payload, &p) {
		return
	}
	if strings.TrimSpace(p.PlayerName) == "" {
		c.sendError(ErrCodeInvalidMessage, "Player name is required")
		return
	}
	if c.session != nil {
		c.sendError(ErrCodeInvalidAction, "Already in a room")
		return
	}

	session, host, err := c.hub.CreateRoom(c.playerID, p.PlayerName)
	if err != nil {
		c.sendError(ErrCodeInternalError, "Failed to create room")
		return
	}

	c.session = session
	session.RegisterClient(c.playerID, c)

	c.Send(NewServerMessage(MessageType(domain.EventRoomCreated), &RoomJoinedPayload{
		Code:       session.RoomCode(),
		PlayerID:   c.playerID,
		PlayerName: host.Name,
	}))

	session.PublishLobby()
}

// handleJoinGame joins an existing room
func (c *Client) handleJoinGame(payload json.RawMessage) {
	var p JoinGamePayload
	if !c.decode(payload, &p) {
		return
	}
	if strings.TrimSpace(p.PlayerName) == "" {
		c.sendError(ErrCodeInvalidMessage, "Player name is required")
		return
	}
	if c.session != nil {
		c.sendError(ErrCodeInvalidAction, "Already in a room")
		return
	}

	session, err := c.hub.GetSession(strings.ToUpper(strings.TrimSpace(p.RoomCode)))
	if err != nil {
		c.sendError(ErrCodeRoomNotFound, "Room not found. Check the code and try again.")
		return
	}

	player, err := session.Join(c.playerID, p.PlayerName)
	if err != nil {
		c.reportError(err)
		return
	}

	c.session = session
	session.RegisterClient(c.playerID, c)

	c.Send(NewServerMessage(MessageType(domain.EventRoomJoined), &RoomJoinedPayload{
		Code:       session.RoomCode(),
		PlayerID:   c.playerID,
		PlayerName: player.Name,
	}))
}

// decode unmarshals a payload, reporting a protocol error on failure
func (c *Client) decode(payload json.RawMessage, v interface{}) bool {
	if err := json.Unmarshal(payload, v); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return false
	}
	return true
}

// reportError maps a domain error to a client-facing error message. Nil and
// not-found errors pass silently: a vanished target is a no-op, not a fault.
func (c *Client) reportError(err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		c.sendError(ErrCodeRoomNotFound, "Room not found")
	case errors.Is(err, domain.ErrRoomFull):
		c.sendError(ErrCodeRoomFull, "Room is full (max 10 players)")
	case errors.Is(err, domain.ErrNameTaken):
		c.sendError(ErrCodeNameTaken, "Name already taken. Choose another name.")
	case errors.Is(err, domain.ErrGameAlreadyStarted):
		c.sendError(ErrCodeInvalidAction, "Game has already started.")
	case errors.Is(err, domain.ErrNotEnoughPlayers):
		c.sendError(ErrCodeInvalidAction, "Need at least 6 players to start.")
	case errors.Is(err, domain.ErrNotHost):
		c.sendError(ErrCodeNotHost, "Only the host can do that.")
	case errors.Is(err, domain.ErrNotYourRole), errors.Is(err, domain.ErrPlayerDead):
		c.sendError(ErrCodeNotYourRole, "You cannot perform this action.")
	case errors.Is(err, domain.ErrInvalidPhase), errors.Is(err, domain.ErrAlreadyActed),
		errors.Is(err, domain.ErrInvalidTarget):
		// Stale or out-of-order input; dropping it silently keeps late
		// clients from seeing error popups for timing artifacts.
		c.logger.Debug("action rejected", "playerID", c.playerID, "error", err)
	case errors.Is(err, domain.ErrPlayerNotFound):
		// Target no longer exists; treated as a no-op.
	default:
		c.sendError(ErrCodeInternalError, err.Error())
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	c.Send(NewServerMessage(MsgError, &ErrorPayload{
		Code:    code,
		Message: message,
	}))
}
