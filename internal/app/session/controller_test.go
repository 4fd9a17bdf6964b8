package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termoarena/internal/app/game"
	"termoarena/internal/app/words"
	"termoarena/internal/pkg/errs"
	"termoarena/internal/pkg/randx"
)

// envelope mirrors Message with the payload left raw for per-type decoding.
type envelope struct {
	ID        string          `json:"id"`
	Type      MessageType     `json:"type"`
	RoomCode  string          `json:"roomCode"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

func decodeAll(t *testing.T, conn *fakeConn) []envelope {
	t.Helper()

	raw := conn.sent()
	out := make([]envelope, len(raw))
	for i, frame := range raw {
		require.NoError(t, json.Unmarshal(frame, &out[i]), "frame %d", i)
	}
	return out
}

func lastEnvelope(t *testing.T, conn *fakeConn) envelope {
	t.Helper()

	msgs := decodeAll(t, conn)
	require.NotEmpty(t, msgs)
	return msgs[len(msgs)-1]
}

func decodePayload(t *testing.T, env envelope, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Payload, dst))
}

// newTestController wires a controller against a single-word catalog so the
// target of every created room is known in advance.
func newTestController(t *testing.T) (*Controller, *Registry, *ConnectionManager) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("TERMO\n"), 0o600))

	catalog, err := words.Load(path)
	require.NoError(t, err)

	conns := NewConnectionManager()
	registry := NewRegistry(0, conns)
	t.Cleanup(registry.Shutdown)

	return NewController(registry, conns, catalog), registry, conns
}

func send(c *Controller, conn Connection, format string, args ...any) {
	c.HandleMessage(conn, fmt.Appendf(nil, format, args...))
}

// createRoom drives CREATE_ROOM for the connection and returns the new code.
func createRoom(t *testing.T, c *Controller, conn *fakeConn, playerName string) string {
	t.Helper()

	send(c, conn, `{"type":"CREATE_ROOM","playerName":%q}`, playerName)

	env := lastEnvelope(t, conn)
	require.Equal(t, TypeRoomCreated, env.Type)

	var payload RoomCreatedPayload
	decodePayload(t, env, &payload)
	require.True(t, randx.IsValidRoomCode(payload.RoomCode))
	return payload.RoomCode
}

func TestCreateRoomUnicastsCode(t *testing.T) {
	c, registry, conns := newTestController(t)
	ana := &fakeConn{}

	code := createRoom(t, c, ana, "Ana")

	msgs := decodeAll(t, ana)
	require.Len(t, msgs, 1)
	assert.Equal(t, code, msgs[0].RoomCode)

	handle, err := registry.Get(code)
	require.Nil(t, err)
	assert.Equal(t, game.StateLobby, handle.Room.State())
	assert.Equal(t, 1, conns.Count(code))
}

func TestJoinRoomAcknowledgesAndAnnounces(t *testing.T) {
	c, _, conns := newTestController(t)
	ana, bia := &fakeConn{}, &fakeConn{}

	code := createRoom(t, c, ana, "Ana")
	send(c, bia, `{"type":"JOIN_ROOM","playerName":"Bia","roomCode":%q}`, code)

	// The joiner receives a private JOINED_ROOM followed by the room-wide
	// PLAYER_JOINED it is now part of.
	biaMsgs := decodeAll(t, bia)
	require.Len(t, biaMsgs, 2)
	assert.Equal(t, TypeJoinedRoom, biaMsgs[0].Type)
	assert.Equal(t, TypePlayerJoined, biaMsgs[1].Type)

	var joined JoinedRoomPayload
	decodePayload(t, biaMsgs[0], &joined)
	assert.Equal(t, code, joined.RoomCode)
	require.Len(t, joined.Players, 2)
	assert.Equal(t, "Ana", joined.Players[0].Name)
	assert.True(t, joined.Players[0].IsOwner)
	assert.Equal(t, "Bia", joined.Players[1].Name)
	assert.False(t, joined.Players[1].IsOwner)

	anaMsgs := decodeAll(t, ana)
	require.Len(t, anaMsgs, 2)
	assert.Equal(t, TypePlayerJoined, anaMsgs[1].Type)

	var announced PlayerJoinedPayload
	decodePayload(t, anaMsgs[1], &announced)
	assert.Len(t, announced.Players, 2)

	assert.Equal(t, 2, conns.Count(code))
}

func TestJoinUnknownRoom(t *testing.T) {
	c, _, _ := newTestController(t)
	bia := &fakeConn{}

	send(c, bia, `{"type":"JOIN_ROOM","playerName":"Bia","roomCode":"ZZZZZ"}`)

	env := lastEnvelope(t, bia)
	require.Equal(t, TypeError, env.Type)

	var payload ErrorPayload
	decodePayload(t, env, &payload)
	assert.Equal(t, errs.ErrRoomNotFound, payload.Code)
}

func TestJoinDuplicateNameErrorStaysPrivate(t *testing.T) {
	c, _, conns := newTestController(t)
	ana, impostor := &fakeConn{}, &fakeConn{}

	code := createRoom(t, c, ana, "Ana")
	send(c, impostor, `{"type":"JOIN_ROOM","playerName":"Ana","roomCode":%q}`, code)

	env := lastEnvelope(t, impostor)
	require.Equal(t, TypeError, env.Type)

	var payload ErrorPayload
	decodePayload(t, env, &payload)
	assert.Equal(t, errs.ErrDuplicateName, payload.Code)

	// The failed join never reaches the room: Ana only ever saw ROOM_CREATED,
	// and the impostor was never attached.
	assert.Len(t, decodeAll(t, ana), 1)
	assert.Equal(t, 1, conns.Count(code))
}

func TestStartGameBroadcastsWord(t *testing.T) {
	c, _, _ := newTestController(t)
	ana, bia := &fakeConn{}, &fakeConn{}

	code := createRoom(t, c, ana, "Ana")
	send(c, bia, `{"type":"JOIN_ROOM","playerName":"Bia","roomCode":%q}`, code)
	send(c, ana, `{"type":"START_GAME","playerName":"Ana","roomCode":%q}`, code)

	for _, conn := range []*fakeConn{ana, bia} {
		env := lastEnvelope(t, conn)
		require.Equal(t, TypeGameStarted, env.Type)

		var payload GameStartedPayload
		decodePayload(t, env, &payload)
		assert.Equal(t, "TERMO", payload.Word)
	}
}

func TestStartGameByNonOwner(t *testing.T) {
	c, registry, _ := newTestController(t)
	ana, bia := &fakeConn{}, &fakeConn{}

	code := createRoom(t, c, ana, "Ana")
	send(c, bia, `{"type":"JOIN_ROOM","playerName":"Bia","roomCode":%q}`, code)
	send(c, bia, `{"type":"START_GAME","playerName":"Bia","roomCode":%q}`, code)

	env := lastEnvelope(t, bia)
	require.Equal(t, TypeError, env.Type)

	var payload ErrorPayload
	decodePayload(t, env, &payload)
	assert.Equal(t, errs.ErrNotOwner, payload.Code)

	handle, err := registry.Get(code)
	require.Nil(t, err)
	assert.Equal(t, game.StateLobby, handle.Room.State())

	// Ana saw the join but no start.
	for _, msg := range decodeAll(t, ana) {
		assert.NotEqual(t, TypeGameStarted, msg.Type)
		assert.NotEqual(t, TypeError, msg.Type)
	}
}

func TestGuessFlowWithLeaderboardOnFinish(t *testing.T) {
	c, _, _ := newTestController(t)
	ana, bia := &fakeConn{}, &fakeConn{}

	code := createRoom(t, c, ana, "Ana")
	send(c, bia, `{"type":"JOIN_ROOM","playerName":"Bia","roomCode":%q}`, code)
	send(c, ana, `{"type":"START_GAME","playerName":"Ana","roomCode":%q}`, code)

	// Bia misses on attempt 1.
	send(c, bia, `{"type":"GUESS","playerName":"Bia","roomCode":%q,"guess":"TERNO"}`, code)

	env := lastEnvelope(t, ana)
	require.Equal(t, TypeGuessResult, env.Type)

	var result GuessResultPayload
	decodePayload(t, env, &result)
	assert.Equal(t, "Bia", result.PlayerName)
	assert.Equal(t, "TERNO", result.Guess)
	assert.Equal(t, []game.Tag{game.TagExact, game.TagExact, game.TagExact, game.TagAbsent, game.TagExact}, result.Tags)
	assert.False(t, result.IsCorrect)
	assert.Equal(t, 1, result.Attempts)
	assert.Empty(t, result.Leaderboard)

	// Bia gets it on attempt 2; the room stays open for Ana.
	send(c, bia, `{"type":"GUESS","playerName":"Bia","roomCode":%q,"guess":"TERMO"}`, code)

	env = lastEnvelope(t, ana)
	require.Equal(t, TypeGuessResult, env.Type)
	decodePayload(t, env, &result)
	assert.True(t, result.IsCorrect)
	assert.True(t, result.Completed)
	assert.Equal(t, 90, result.Score)
	assert.False(t, result.Finished)
	assert.Empty(t, result.Leaderboard)

	// Ana completes on her first attempt; the room finishes and every member
	// receives the final standings.
	send(c, ana, `{"type":"GUESS","playerName":"Ana","roomCode":%q,"guess":"TERMO"}`, code)

	for _, conn := range []*fakeConn{ana, bia} {
		env = lastEnvelope(t, conn)
		require.Equal(t, TypeGuessResult, env.Type)
		decodePayload(t, env, &result)

		assert.Equal(t, "Ana", result.PlayerName)
		assert.True(t, result.IsCorrect)
		assert.Equal(t, 100, result.Score)
		assert.True(t, result.Finished)

		require.Len(t, result.Leaderboard, 2)
		assert.Equal(t, game.LeaderboardEntry{PlayerName: "Ana", Attempts: 1, Score: 100}, result.Leaderboard[0])
		assert.Equal(t, game.LeaderboardEntry{PlayerName: "Bia", Attempts: 2, Score: 90}, result.Leaderboard[1])
	}
}

func TestGuessLeaderboardAtAttemptCap(t *testing.T) {
	c, _, _ := newTestController(t)
	ana, bia := &fakeConn{}, &fakeConn{}

	code := createRoom(t, c, ana, "Ana")
	send(c, bia, `{"type":"JOIN_ROOM","playerName":"Bia","roomCode":%q}`, code)
	send(c, ana, `{"type":"START_GAME","playerName":"Ana","roomCode":%q}`, code)

	var result GuessResultPayload
	for i := 1; i <= game.AttemptCap; i++ {
		send(c, bia, `{"type":"GUESS","playerName":"Bia","roomCode":%q,"guess":"TERNO"}`, code)

		env := lastEnvelope(t, bia)
		require.Equal(t, TypeGuessResult, env.Type)
		decodePayload(t, env, &result)
		assert.Equal(t, i, result.Attempts)

		if i < game.AttemptCap {
			assert.Empty(t, result.Leaderboard, "attempt %d", i)
		}
	}

	assert.False(t, result.Finished)
	require.Len(t, result.Leaderboard, 2, "standings accompany the final allowed attempt")
	assert.Equal(t, 6, result.Leaderboard[0].Attempts+result.Leaderboard[1].Attempts)
}

func TestGuessBeforeStart(t *testing.T) {
	c, _, _ := newTestController(t)
	ana := &fakeConn{}

	code := createRoom(t, c, ana, "Ana")
	send(c, ana, `{"type":"GUESS","playerName":"Ana","roomCode":%q,"guess":"TERMO"}`, code)

	env := lastEnvelope(t, ana)
	require.Equal(t, TypeError, env.Type)

	var payload ErrorPayload
	decodePayload(t, env, &payload)
	assert.Equal(t, errs.ErrGameNotStarted, payload.Code)
}

func TestGuessWrongLengthStaysPrivate(t *testing.T) {
	c, _, _ := newTestController(t)
	ana, bia := &fakeConn{}, &fakeConn{}

	code := createRoom(t, c, ana, "Ana")
	send(c, bia, `{"type":"JOIN_ROOM","playerName":"Bia","roomCode":%q}`, code)
	send(c, ana, `{"type":"START_GAME","playerName":"Ana","roomCode":%q}`, code)
	send(c, bia, `{"type":"GUESS","playerName":"Bia","roomCode":%q,"guess":"TER"}`, code)

	env := lastEnvelope(t, bia)
	require.Equal(t, TypeError, env.Type)

	var payload ErrorPayload
	decodePayload(t, env, &payload)
	assert.Equal(t, errs.ErrWordLength, payload.Code)

	env = lastEnvelope(t, ana)
	assert.Equal(t, TypeGameStarted, env.Type, "the rejected guess must not be broadcast")
}

func TestMalformedFramesGetErrorReply(t *testing.T) {
	c, _, _ := newTestController(t)
	ana := &fakeConn{}

	frames := []struct {
		raw      string
		wantCode int
	}{
		{raw: `not json at all`, wantCode: errs.ErrInvalidJSONFormat},
		{raw: `{"type":"DANCE","playerName":"Ana"}`, wantCode: errs.ErrMalformedMessage},
		{raw: `{"type":"CREATE_ROOM"}`, wantCode: errs.ErrMalformedMessage},
	}
	for _, frame := range frames {
		c.HandleMessage(ana, []byte(frame.raw))
	}

	msgs := decodeAll(t, ana)
	require.Len(t, msgs, len(frames))
	for i, env := range msgs {
		require.Equal(t, TypeError, env.Type, "frame %d", i)

		var payload ErrorPayload
		decodePayload(t, env, &payload)
		assert.Equal(t, frames[i].wantCode, payload.Code)
	}
}

func TestDisconnectKeepsRoomAndPlayers(t *testing.T) {
	c, registry, conns := newTestController(t)
	ana, bia := &fakeConn{}, &fakeConn{}

	code := createRoom(t, c, ana, "Ana")
	send(c, bia, `{"type":"JOIN_ROOM","playerName":"Bia","roomCode":%q}`, code)
	send(c, ana, `{"type":"START_GAME","playerName":"Ana","roomCode":%q}`, code)
	send(c, bia, `{"type":"GUESS","playerName":"Bia","roomCode":%q,"guess":"TERMO"}`, code)

	c.HandleDisconnect(bia)
	assert.Equal(t, 1, conns.Count(code))

	// Bia's seat, attempts and score survive the dropped connection.
	handle, err := registry.Get(code)
	require.Nil(t, err)
	players := handle.Room.Players()
	require.Len(t, players, 2)
	assert.Equal(t, "Bia", players[1].Name)
	assert.True(t, players[1].Completed)
	assert.Equal(t, 100, players[1].Score)

	// Further broadcasts no longer reach the detached connection.
	before := len(bia.sent())
	send(c, ana, `{"type":"GUESS","playerName":"Ana","roomCode":%q,"guess":"TERNO"}`, code)
	assert.Len(t, bia.sent(), before)
	assert.Equal(t, TypeGuessResult, lastEnvelope(t, ana).Type)
}

func TestDisconnectLastConnectionMarksRoomIdle(t *testing.T) {
	c, registry, conns := newTestController(t)
	ana := &fakeConn{}

	code := createRoom(t, c, ana, "Ana")
	c.HandleDisconnect(ana)

	assert.Zero(t, conns.Count(code))
	require.Equal(t, 1, registry.Len())

	handle, err := registry.Get(code)
	require.Nil(t, err)
	assert.False(t, handle.idleSince.IsZero(), "an empty room must be marked idle")
}

func TestDisconnectUnattachedConnectionIsHarmless(t *testing.T) {
	c, _, _ := newTestController(t)

	c.HandleDisconnect(&fakeConn{})
}
