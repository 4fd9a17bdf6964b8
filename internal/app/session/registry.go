/*
Package session orchestrates live game sessions.

This file defines the Registry, the process-wide table of active rooms keyed by
room code. It allocates unique codes, hands out room handles, and optionally
reaps rooms that have sat without connections for longer than the configured TTL.
*/
package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"termoarena/internal/app/game"
	"termoarena/internal/pkg/errs"
	"termoarena/internal/pkg/logx"
	"termoarena/internal/pkg/randx"
)

// RoomHandle couples a room with its mutex. The lock must be held for the full
// duration of each state transition plus the broadcast it triggers, so that
// per-room broadcast order matches event processing order.
type RoomHandle struct {
	mu sync.Mutex

	// Room is the underlying state machine. Access only while holding the lock.
	Room *game.Room

	// idleSince is non-zero while the room has no attached connections.
	// Guarded by the registry's mutex, not the handle's.
	idleSince time.Time
}

// Lock acquires the per-room mutex.
func (h *RoomHandle) Lock() {
	h.mu.Lock()
}

// Unlock releases the per-room mutex.
func (h *RoomHandle) Unlock() {
	h.mu.Unlock()
}

// Registry is the process-wide table of active rooms. It is constructed once
// at process start and passed to every component that needs room lookup.
type Registry struct {
	// mu protects rooms and every handle's idleSince.
	mu sync.RWMutex

	// rooms maps room code to its handle.
	rooms map[string]*RoomHandle

	// conns is consulted before a room is stamped idle or reaped, so a room
	// that picked up a connection between a detach and its idle-marking is
	// never treated as empty.
	conns *ConnectionManager

	// ttl is how long an empty room survives before the sweep removes it.
	// Zero disables reaping entirely.
	ttl time.Duration

	stop chan struct{}
	wg   sync.WaitGroup

	logger zerolog.Logger
}

// NewRegistry constructs a Registry. When ttl is greater than zero a
// background sweep removes rooms whose connection set has been empty for
// longer than ttl; with ttl zero, rooms live for the process lifetime.
func NewRegistry(ttl time.Duration, conns *ConnectionManager) *Registry {
	reg := &Registry{
		rooms:  make(map[string]*RoomHandle),
		conns:  conns,
		ttl:    ttl,
		stop:   make(chan struct{}),
		logger: logx.Logger().With().Str("component", "Registry").Logger(),
	}

	if ttl > 0 {
		reg.wg.Add(1)
		go reg.runReapLoop()
	}

	return reg
}

// Create allocates a fresh unique room code and registers a new lobby room
// with the given target word and owner. Code generation and insertion happen
// in one critical section, so two concurrent creations can never collide on
// the same code. The new room starts idle until a connection attaches.
func (reg *Registry) Create(targetWord, ownerName string) (*RoomHandle, *errs.CustomError) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	var code string
	for {
		candidate, err := randx.RoomCode()
		if err != nil {
			reg.logger.Error().Err(err).Msg("Room code generation failed.")
			return nil, errs.NewError(errs.ErrUnknown)
		}
		if _, taken := reg.rooms[candidate]; !taken {
			code = candidate
			break
		}
	}

	handle := &RoomHandle{
		Room:      game.NewRoom(code, targetWord, ownerName),
		idleSince: time.Now(),
	}
	reg.rooms[code] = handle

	reg.logger.Info().Str("room_code", code).Str("owner", ownerName).Msg("Room created.")
	return handle, nil
}

// Get retrieves the handle for the given room code.
func (reg *Registry) Get(code string) (*RoomHandle, *errs.CustomError) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	handle, ok := reg.rooms[code]
	if !ok {
		return nil, errs.NewError(errs.ErrRoomNotFound)
	}
	return handle, nil
}

// MarkActive clears the idle timestamp for a room that has at least one
// attached connection again.
func (reg *Registry) MarkActive(code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if handle, ok := reg.rooms[code]; ok {
		handle.idleSince = time.Time{}
	}
}

// MarkIdle records that the room's last connection has detached. The room and
// its players stay registered; only the reap sweep may remove them later.
//
// The connection count is re-checked under the registry lock: a join that
// attached between the caller's detach and this call leaves the room active,
// so the sweep can never reap a room somebody is still connected to.
func (reg *Registry) MarkIdle(code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	handle, ok := reg.rooms[code]
	if !ok || !handle.idleSince.IsZero() {
		return
	}
	if reg.conns.Count(code) > 0 {
		return
	}

	handle.idleSince = time.Now()
}

// Len returns the number of registered rooms.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	return len(reg.rooms)
}

// runReapLoop periodically removes rooms that have been idle beyond the TTL.
func (reg *Registry) runReapLoop() {
	defer reg.wg.Done()

	interval := reg.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	if interval > time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	reg.logger.Info().Dur("ttl", reg.ttl).Msg("Room reap loop started.")

	for {
		select {
		case <-ticker.C:
			reg.reapIdleRooms(time.Now())
		case <-reg.stop:
			reg.logger.Info().Msg("Room reap loop stopped.")
			return
		}
	}
}

// reapIdleRooms removes every room whose idle period has exceeded the TTL as
// of now. Exposed to the sweep loop and to tests.
func (reg *Registry) reapIdleRooms(now time.Time) int {
	if reg.ttl <= 0 {
		return 0
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	reaped := 0
	for code, handle := range reg.rooms {
		if handle.idleSince.IsZero() || now.Sub(handle.idleSince) < reg.ttl {
			continue
		}

		// A stale idle stamp on a room with live connections is corrected
		// rather than acted on.
		if reg.conns.Count(code) > 0 {
			handle.idleSince = time.Time{}
			continue
		}

		delete(reg.rooms, code)
		reaped++
		reg.logger.Info().Str("room_code", code).Msg("Idle room reaped.")
	}
	return reaped
}

// Shutdown stops the reap loop and waits for it to exit.
func (reg *Registry) Shutdown() {
	select {
	case <-reg.stop:
	default:
		close(reg.stop)
	}
	reg.wg.Wait()

	reg.logger.Info().Msg("Registry shutdown complete.")
}
