/*
Package session orchestrates live game sessions.

This file defines the ConnectionManager, the bidirectional mapping between live
connections and room codes used to fan out state changes to all participants.
*/
package session

import (
	"sync"

	"github.com/rs/zerolog"

	"termoarena/internal/pkg/logx"
)

// Connection is an opaque handle to one live client transport session.
// Send must enqueue without blocking and report whether delivery was accepted.
type Connection interface {
	Send(message []byte) bool
}

// ConnectionManager tracks which connections belong to which room and performs
// the room-wide broadcast. It owns only the transport bookkeeping; it knows
// nothing about players or game state, so detaching a connection never touches
// a room's players.
type ConnectionManager struct {
	// mu protects both maps.
	mu sync.RWMutex

	// byConn maps each connection to the room code it is attached to.
	byConn map[Connection]string

	// byRoom maps each room code to its set of attached connections.
	byRoom map[string]map[Connection]struct{}

	logger zerolog.Logger
}

// NewConnectionManager constructs an empty ConnectionManager.
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		byConn: make(map[Connection]string),
		byRoom: make(map[string]map[Connection]struct{}),
		logger: logx.Logger().With().Str("component", "ConnectionManager").Logger(),
	}
}

// Attach associates the connection with the room code. A connection belongs to
// at most one room at a time: attaching to a new room detaches it from the
// previous one first. Re-attaching to the same room is a no-op.
func (cm *ConnectionManager) Attach(conn Connection, code string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if prev, ok := cm.byConn[conn]; ok {
		if prev == code {
			return
		}
		cm.detachLocked(conn, prev)
	}

	cm.byConn[conn] = code

	set, ok := cm.byRoom[code]
	if !ok {
		set = make(map[Connection]struct{})
		cm.byRoom[code] = set
	}
	set[conn] = struct{}{}
}

// Detach removes the connection from its room's set. When the set becomes
// empty, the room's index entry is removed — transport bookkeeping only, the
// room itself and its players are untouched. It returns the room code the
// connection was attached to (empty if none) and whether the room's set is now
// empty.
func (cm *ConnectionManager) Detach(conn Connection) (string, bool) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	code, ok := cm.byConn[conn]
	if !ok {
		return "", false
	}

	cm.detachLocked(conn, code)

	_, stillIndexed := cm.byRoom[code]
	return code, !stillIndexed
}

func (cm *ConnectionManager) detachLocked(conn Connection, code string) {
	delete(cm.byConn, conn)

	if set, ok := cm.byRoom[code]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(cm.byRoom, code)
		}
	}
}

// Broadcast delivers the message to every connection currently attached to the
// room code. Each delivery is independent: a slow or closed connection drops
// its own copy without affecting the others, and failures are not reported to
// the caller.
func (cm *ConnectionManager) Broadcast(code string, message []byte) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	for conn := range cm.byRoom[code] {
		if !conn.Send(message) {
			cm.logger.Warn().Str("room_code", code).Msg("Dropped broadcast message for slow connection.")
		}
	}
}

// Count returns the number of connections attached to the room code.
func (cm *ConnectionManager) Count(code string) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	return len(cm.byRoom[code])
}
