/*
Package session orchestrates live game sessions.

This file defines the Controller, which dispatches parsed client events against
the room state machine and instructs the ConnectionManager to broadcast or
unicast the resulting messages.
*/
package session

import (
	"github.com/rs/zerolog"

	"termoarena/internal/app/words"
	"termoarena/internal/pkg/errs"
	"termoarena/internal/pkg/logx"
)

// Controller maps each inbound client event to exactly one room transition and
// its outbound messages. Any precondition violation produces an ERROR unicast
// to the originating connection only and never mutates room state.
type Controller struct {
	registry *Registry
	conns    *ConnectionManager
	catalog  *words.Catalog
	logger   zerolog.Logger
}

// NewController wires the controller to its collaborators.
func NewController(registry *Registry, conns *ConnectionManager, catalog *words.Catalog) *Controller {
	return &Controller{
		registry: registry,
		conns:    conns,
		catalog:  catalog,
		logger:   logx.Logger().With().Str("component", "Controller").Logger(),
	}
}

// HandleMessage processes one raw inbound frame from a connection. Malformed
// payloads produce an ERROR reply; they never crash or terminate the channel.
func (c *Controller) HandleMessage(conn Connection, raw []byte) {
	ev, parseErr := ParseEvent(raw)
	if parseErr != nil {
		c.unicastError(conn, parseErr)
		return
	}

	var err *errs.CustomError

	switch ev.Type {
	case EventCreateRoom:
		err = c.handleCreateRoom(conn, ev)
	case EventJoinRoom:
		err = c.handleJoinRoom(conn, ev)
	case EventStartGame:
		err = c.handleStartGame(conn, ev)
	case EventGuess:
		err = c.handleGuess(conn, ev)
	}

	if err != nil {
		c.unicastError(conn, err)
	}
}

// HandleDisconnect detaches the connection from its room. Room and player
// state stay untouched; an empty room is only marked idle so the registry's
// TTL sweep can reap it later, if reaping is enabled at all.
func (c *Controller) HandleDisconnect(conn Connection) {
	code, empty := c.conns.Detach(conn)
	if code == "" {
		return
	}

	c.logger.Info().Str("room_code", code).Bool("room_empty", empty).Msg("Connection detached.")

	if empty {
		c.registry.MarkIdle(code)
	}
}

func (c *Controller) handleCreateRoom(conn Connection, ev *Event) *errs.CustomError {
	handle, err := c.registry.Create(c.catalog.Random(), ev.PlayerName)
	if err != nil {
		return err
	}

	code := handle.Room.Code

	handle.Lock()
	defer handle.Unlock()

	c.conns.Attach(conn, code)
	c.registry.MarkActive(code)

	c.unicast(conn, TypeRoomCreated, code, RoomCreatedPayload{RoomCode: code})
	return nil
}

func (c *Controller) handleJoinRoom(conn Connection, ev *Event) *errs.CustomError {
	handle, err := c.registry.Get(ev.RoomCode)
	if err != nil {
		return err
	}

	handle.Lock()
	defer handle.Unlock()

	if joinErr := handle.Room.Join(ev.PlayerName); joinErr != nil {
		return joinErr
	}

	c.conns.Attach(conn, ev.RoomCode)
	c.registry.MarkActive(ev.RoomCode)

	players := handle.Room.Players()

	c.unicast(conn, TypeJoinedRoom, ev.RoomCode, JoinedRoomPayload{
		RoomCode: ev.RoomCode,
		Players:  players,
	})
	c.broadcast(ev.RoomCode, TypePlayerJoined, PlayerJoinedPayload{Players: players})
	return nil
}

func (c *Controller) handleStartGame(conn Connection, ev *Event) *errs.CustomError {
	handle, err := c.registry.Get(ev.RoomCode)
	if err != nil {
		return err
	}

	handle.Lock()
	defer handle.Unlock()

	word, startErr := handle.Room.Start(ev.PlayerName)
	if startErr != nil {
		return startErr
	}

	c.logger.Info().Str("room_code", ev.RoomCode).Msg("Game started.")

	c.broadcast(ev.RoomCode, TypeGameStarted, GameStartedPayload{Word: word})
	return nil
}

func (c *Controller) handleGuess(conn Connection, ev *Event) *errs.CustomError {
	handle, err := c.registry.Get(ev.RoomCode)
	if err != nil {
		return err
	}

	handle.Lock()
	defer handle.Unlock()

	outcome, guessErr := handle.Room.SubmitGuess(ev.PlayerName, ev.Guess)
	if guessErr != nil {
		return guessErr
	}

	payload := GuessResultPayload{
		PlayerName: outcome.PlayerName,
		Guess:      outcome.Guess,
		Tags:       outcome.Tags,
		IsCorrect:  outcome.Correct,
		Attempts:   outcome.Attempts,
		Score:      outcome.Score,
		Completed:  outcome.Completed,
		Finished:   outcome.RoomFinished,
	}

	if outcome.RoomFinished || outcome.AttemptCapReached {
		payload.Leaderboard = handle.Room.Leaderboard()
	}

	c.broadcast(ev.RoomCode, TypeGuessResult, payload)
	return nil
}

// broadcast marshals and fans out a message to every connection in the room.
// Callers hold the room lock, which is what guarantees per-room ordering.
func (c *Controller) broadcast(code string, msgType MessageType, payload any) {
	raw, err := NewMessage(msgType, code, payload)
	if err != nil {
		c.logger.Error().Err(err).Str("msg_type", string(msgType)).Msg("Failed to marshal broadcast message.")
		return
	}
	c.conns.Broadcast(code, raw)
}

// unicast marshals and enqueues a message for a single connection.
func (c *Controller) unicast(conn Connection, msgType MessageType, code string, payload any) {
	raw, err := NewMessage(msgType, code, payload)
	if err != nil {
		c.logger.Error().Err(err).Str("msg_type", string(msgType)).Msg("Failed to marshal unicast message.")
		return
	}
	if !conn.Send(raw) {
		c.logger.Warn().Str("msg_type", string(msgType)).Msg("Dropped unicast message for slow connection.")
	}
}

// unicastError reports a failed operation to the originating connection only.
func (c *Controller) unicastError(conn Connection, customErr *errs.CustomError) {
	c.unicast(conn, TypeError, "", ErrorPayload{
		Code:    customErr.Code,
		Message: customErr.Message,
	})
}
