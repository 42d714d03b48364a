package ws

import (
	"encoding/json"
	"time"

	"wordhunt/internal/domain"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgCreateRoom    MessageType = "create_room"
	MsgJoinRoom      MessageType = "join_room"
	MsgStartRound    MessageType = "start_round"
	MsgEndRound      MessageType = "end_round"
	MsgSubmitWord    MessageType = "submit_word"
	MsgValidateWords MessageType = "validate_words"
	MsgResetRound    MessageType = "reset_round"
	MsgCloseRoom     MessageType = "close_room"
	MsgPing          MessageType = "ping"
)

// Server → Client message types (room events use domain.EventType directly)
const (
	MsgRoomCreated MessageType = "room_created"
	MsgJoined      MessageType = "joined"
	MsgError       MessageType = "error"
	MsgPong        MessageType = "pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a transport-level message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   any         `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload any) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Client message payloads

// CreateRoomPayload is the payload for create_room
type CreateRoomPayload struct {
	Code     string `json:"code"`
	RoomName string `json:"roomName"`
	Language string `json:"language"`
}

// JoinRoomPayload is the payload for join_room
type JoinRoomPayload struct {
	Code        string `json:"code"`
	DisplayName string `json:"displayName"`
}

// StartRoundPayload is the payload for start_round
type StartRoundPayload struct {
	Grid            domain.Grid `json:"grid"`
	DurationSeconds int         `json:"durationSeconds"`
	Language        string      `json:"language,omitempty"`
}

// SubmitWordPayload is the payload for submit_word
type SubmitWordPayload struct {
	Word string `json:"word"`
}

// ValidateWordsPayload is the payload for validate_words
type ValidateWordsPayload struct {
	Decisions []domain.WordDecision `json:"decisions"`
}

// Server message payloads

// RoomCreatedPayload acknowledges room creation to the host
type RoomCreatedPayload struct {
	Code    string `json:"code"`
	Rebound bool   `json:"rebound"` // true when the host rebound to an existing room
}

// JoinedPayload acknowledges a successful join to the participant
type JoinedPayload struct {
	Code        string `json:"code"`
	DisplayName string `json:"displayName"`
	Reconnected bool   `json:"reconnected"`
}

// ErrorPayload is the payload for error messages
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage   = "INVALID_MESSAGE"
	ErrCodeRoomExists       = "ROOM_EXISTS"
	ErrCodeGameDoesNotExist = "GAME_DOES_NOT_EXIST"
	ErrCodeUsernameTaken    = "USERNAME_TAKEN"
	ErrCodeNotHost          = "NOT_HOST"
	ErrCodeInvalidAction    = "INVALID_ACTION"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)
