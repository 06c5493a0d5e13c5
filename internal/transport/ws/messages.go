package ws

import (
	"encoding/json"
	"time"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client to server message types
const (
	MsgCreateGame          MessageType = "create-game"
	MsgJoinGame            MessageType = "join-game"
	MsgSetTimer            MessageType = "set-timer"
	MsgSetNightTimer       MessageType = "set-night-timer"
	MsgSetVoteTimer        MessageType = "set-vote-timer"
	MsgStartGame           MessageType = "start-game"
	MsgRoleReady           MessageType = "role-ready"
	MsgMafiaVote           MessageType = "mafia-vote"
	MsgDoctorAction        MessageType = "doctor-action"
	MsgPoliceAction        MessageType = "police-action"
	MsgJokerAction         MessageType = "joker-action"
	MsgVigilanteAction     MessageType = "vigilante-action"
	MsgSkipVigilanteAction MessageType = "skip-vigilante-action"
	MsgInvestigationDone   MessageType = "investigation-done"
	MsgGhostGuess          MessageType = "ghost-guess"
	MsgCastVote            MessageType = "cast-vote"
	MsgMafiaChat           MessageType = "mafia-chat"
	MsgPing                MessageType = "ping"
)

// Server to client message types not covered by domain events
const (
	MsgError MessageType = "error"
	MsgPong  MessageType = "pong"
)

// ClientMessage represents a message from client to server. Payloads stay raw
// until the dispatcher knows which shape to decode.
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Client message payloads

// CreateGamePayload is the payload for create-game
type CreateGamePayload struct {
	PlayerName string `json:"playerName"`
}

// JoinGamePayload is the payload for join-game
type JoinGamePayload struct {
	PlayerName string `json:"playerName"`
	RoomCode   string `json:"roomCode"`
}

// SetTimerPayload carries a host timer adjustment (minutes or seconds
// depending on the message type)
type SetTimerPayload struct {
	Minutes int `json:"minutes,omitempty"`
	Seconds int `json:"seconds,omitempty"`
}

// TargetPayload carries a single-target night action or ballot
type TargetPayload struct {
	TargetID string `json:"targetId"`
}

// JokerActionPayload is the payload for joker-action
type JokerActionPayload struct {
	Action   string `json:"action"`
	TargetID string `json:"targetId"`
}

// ChatPayload is the payload for mafia-chat
type ChatPayload struct {
	Message string `json:"message"`
}

// Server message payloads

// RoomJoinedPayload confirms room creation or join
type RoomJoinedPayload struct {
	Code       string `json:"code"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// ErrorPayload is the payload for error messages
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeRoomNotFound   = "ROOM_NOT_FOUND"
	ErrCodeRoomFull       = "ROOM_FULL"
	ErrCodeNameTaken      = "NAME_TAKEN"
	ErrCodeInvalidAction  = "INVALID_ACTION"
	ErrCodeNotHost        = "NOT_HOST"
	ErrCodeNotYourRole    = "NOT_YOUR_ROLE"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)
