/*
Package session orchestrates live game sessions: it owns the room registry,
the connection-to-room fan-out, the client event dispatch, and the WebSocket
client lifecycle.

This file defines the wire protocol: the inbound event shape sent by clients
and the outbound message envelope broadcast or unicast back to them.
*/
package session

import (
	"encoding/json"
	"time"

	"termoarena/internal/app/game"
	"termoarena/internal/pkg/errs"
	"termoarena/internal/pkg/randx"
)

// Event types accepted from clients.
const (
	EventCreateRoom = "CREATE_ROOM"
	EventJoinRoom   = "JOIN_ROOM"
	EventStartGame  = "START_GAME"
	EventGuess      = "GUESS"
)

// Event is one parsed inbound client message.
type Event struct {
	Type       string `json:"type"`
	PlayerName string `json:"playerName"`
	RoomCode   string `json:"roomCode,omitempty"`
	Guess      string `json:"guess,omitempty"`
}

// ParseEvent decodes a raw inbound frame into an Event. Unknown fields are
// tolerated; a frame that is not valid JSON, carries an unknown type, or lacks
// a player name is rejected and must never terminate the channel.
func ParseEvent(raw []byte) (*Event, *errs.CustomError) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, errs.NewError(errs.ErrInvalidJSONFormat)
	}

	switch ev.Type {
	case EventCreateRoom, EventJoinRoom, EventStartGame, EventGuess:
	default:
		return nil, errs.NewError(errs.ErrMalformedMessage)
	}

	if ev.PlayerName == "" {
		return nil, errs.NewError(errs.ErrMalformedMessage)
	}

	return &ev, nil
}

// MessageType identifies an outbound message.
type MessageType string

const (
	// TypeRoomCreated acknowledges room creation to the creator only.
	TypeRoomCreated MessageType = "ROOM_CREATED"

	// TypeJoinedRoom acknowledges a successful join to the joiner only.
	TypeJoinedRoom MessageType = "JOINED_ROOM"

	// TypePlayerJoined announces the updated player list to the whole room.
	TypePlayerJoined MessageType = "PLAYER_JOINED"

	// TypeGameStarted announces the game start to the whole room.
	TypeGameStarted MessageType = "GAME_STARTED"

	// TypeGuessResult announces one evaluated guess to the whole room.
	TypeGuessResult MessageType = "GUESS_RESULT"

	// TypeError reports a failed operation to the originating connection only.
	TypeError MessageType = "ERROR"
)

// Message is the outbound envelope. Every message carries a unique ID and a
// millisecond timestamp so clients can deduplicate and order what they render.
type Message struct {
	ID        string      `json:"id"`
	Type      MessageType `json:"type"`
	RoomCode  string      `json:"roomCode,omitempty"`
	Timestamp int64       `json:"timestamp"`
	Payload   any         `json:"payload,omitempty"`
}

// NewMessage builds and marshals an outbound envelope around the payload.
func NewMessage(msgType MessageType, roomCode string, payload any) ([]byte, error) {
	msg := Message{
		ID:        randx.MessageID(),
		Type:      msgType,
		RoomCode:  roomCode,
		Timestamp: time.Now().UnixMilli(),
		Payload:   payload,
	}
	return json.Marshal(msg)
}

// RoomCreatedPayload carries the freshly allocated room code.
type RoomCreatedPayload struct {
	RoomCode string `json:"roomCode"`
}

// JoinedRoomPayload acknowledges the joiner with the current lobby roster.
type JoinedRoomPayload struct {
	RoomCode string        `json:"roomCode"`
	Players  []game.Player `json:"players"`
}

// PlayerJoinedPayload carries the updated roster after a join.
type PlayerJoinedPayload struct {
	Players []game.Player `json:"players"`
}

// GameStartedPayload carries the target word; clients evaluate their own board
// rendering locally while the server remains authoritative.
type GameStartedPayload struct {
	Word string `json:"word"`
}

// GuessResultPayload carries the feedback for one evaluated guess. Leaderboard
// is only present when the room just finished or the guessing player has used
// up the attempt cap.
type GuessResultPayload struct {
	PlayerName  string                  `json:"playerName"`
	Guess       string                  `json:"guess"`
	Tags        []game.Tag              `json:"tags"`
	IsCorrect   bool                    `json:"isCorrect"`
	Attempts    int                     `json:"attempts"`
	Score       int                     `json:"score"`
	Completed   bool                    `json:"completed"`
	Finished    bool                    `json:"finished"`
	Leaderboard []game.LeaderboardEntry `json:"leaderboard,omitempty"`
}

// ErrorPayload reports a recoverable failure to the originating connection.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
