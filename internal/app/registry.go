package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"wordhunt/internal/config"
	"wordhunt/internal/dictionary"
	"wordhunt/internal/domain"
	"wordhunt/internal/snapshot"
)

// Identity is what a connection handle resolves to
type Identity struct {
	RoomCode string
	Name     string // display name; empty for the host
	IsHost   bool
}

// Registry owns the two process-wide lookup tables: room code -> session and
// connection handle -> identity. Sender identity is always resolved here,
// never trusted from a payload.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*RoomSession
	handles  map[string]Identity

	dict   dictionary.Lookup
	store  snapshot.Store
	cfg    *config.Config
	logger zerolog.Logger

	// onRoomCount refreshes the process-wide room-count broadcast whenever a
	// room is created or destroyed
	onRoomCount func(count int)
}

// NewRegistry creates a registry with the given collaborators
func NewRegistry(cfg *config.Config, dict dictionary.Lookup, store snapshot.Store, logger zerolog.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*RoomSession),
		handles:  make(map[string]Identity),
		dict:     dict,
		store:    store,
		cfg:      cfg,
		logger:   logger.With().Str("component", "registry").Logger(),
	}
}

// SetOnRoomCount installs the room-count broadcast hook
func (r *Registry) SetOnRoomCount(fn func(count int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onRoomCount = fn
}

// CreateRoom creates a room for the given host connection. If the code is
// bound to a room whose host is in its disconnect grace window, the new
// handle rebinds as host instead; any other collision is ErrRoomExists.
func (r *Registry) CreateRoom(code, handle, roomName, language string, conn ClientConnection) (*RoomSession, bool, error) {
	r.mu.RLock()
	existing, ok := r.sessions[code]
	r.mu.RUnlock()

	if ok {
		if !existing.HostDisconnected() {
			return nil, false, domain.ErrRoomExists
		}

		existing.RebindHost(handle, conn)
		r.mu.Lock()
		r.handles[handle] = Identity{RoomCode: code, IsHost: true}
		r.mu.Unlock()
		return existing, true, nil
	}

	room := domain.NewRoom(code, roomName, language)
	r.restoreFromSnapshot(room)

	session := NewRoomSession(room, handle, conn, r.dict, r.store,
		r.cfg.Game, r.cfg.Snapshot.TTL, r.logger)
	session.SetOnDestroy(func(reason string) {
		r.DestroyRoom(code, reason)
	})

	r.mu.Lock()
	if _, ok := r.sessions[code]; ok {
		r.mu.Unlock()
		session.Close(ReasonShutdown)
		return nil, false, domain.ErrRoomExists
	}
	r.sessions[code] = session
	r.handles[handle] = Identity{RoomCode: code, IsHost: true}
	r.notifyRoomCountLocked()
	r.mu.Unlock()

	session.ArmGraceTimers()
	r.persist(session)

	r.logger.Info().Str("room", code).Msg("room created")

	return session, false, nil
}

// restoreFromSnapshot best-effort prefills a fresh room from a live snapshot
// of the same code. Failure or absence is silently ignored.
func (r *Registry) restoreFromSnapshot(room *domain.Room) {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	snap, err := r.store.Get(ctx, room.Code)
	if err != nil {
		r.logger.Debug().Err(err).Str("room", room.Code).Msg("snapshot read failed")
		return
	}
	if snap == nil {
		return
	}

	if room.Name == "" {
		room.Name = snap.Name
	}
	if room.Language == "" {
		room.Language = snap.Language
	}
	for _, participant := range snap.Participants {
		room.Disconnected[participant.Name] = &domain.DisconnectedParticipant{
			Participant:    participant,
			DisconnectedAt: time.Now(),
		}
	}

	r.logger.Info().Str("room", room.Code).Int("participants", len(snap.Participants)).
		Msg("room restored from snapshot")
}

// JoinRoom adds a participant connection to a room, rebinding a parked
// participant when the display name matches the disconnected side-table
func (r *Registry) JoinRoom(code, name, handle string, conn ClientConnection) (*RoomSession, bool, error) {
	r.mu.RLock()
	session, ok := r.sessions[code]
	r.mu.RUnlock()
	if !ok {
		return nil, false, domain.ErrRoomNotFound
	}

	_, rebound, err := session.Join(name, conn)
	if err != nil {
		return nil, false, err
	}

	r.mu.Lock()
	r.handles[handle] = Identity{RoomCode: code, Name: name}
	r.mu.Unlock()

	return session, rebound, nil
}

// Resolve maps a connection handle to its room session and identity
func (r *Registry) Resolve(handle string) (*RoomSession, Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.handles[handle]
	if !ok {
		return nil, Identity{}, false
	}
	session, ok := r.sessions[identity.RoomCode]
	if !ok {
		return nil, Identity{}, false
	}
	return session, identity, true
}

// RemoveHandle drops a handle binding without touching room state
func (r *Registry) RemoveHandle(handle string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles, handle)
}

// CloseRoom destroys a room on its host's command
func (r *Registry) CloseRoom(handle string) error {
	session, identity, ok := r.Resolve(handle)
	if !ok {
		return domain.ErrRoomNotFound
	}
	if !identity.IsHost || !session.IsHost(handle) {
		return domain.ErrNotHost
	}

	r.DestroyRoom(identity.RoomCode, ReasonHostClosed)
	return nil
}

// DestroyRoom tears a room down: session closed (cancelling every timer),
// lookup tables cleaned, durability entry removed, room count rebroadcast
func (r *Registry) DestroyRoom(code, reason string) {
	r.mu.Lock()
	session, ok := r.sessions[code]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(r.sessions, code)
	for handle, identity := range r.handles {
		if identity.RoomCode == code {
			delete(r.handles, handle)
		}
	}
	r.notifyRoomCountLocked()
	r.mu.Unlock()

	session.Close(reason)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := r.store.Delete(ctx, code); err != nil {
			r.logger.Debug().Err(err).Str("room", code).Msg("snapshot delete failed")
		}
	}()

	r.logger.Info().Str("room", code).Str("reason", reason).Msg("room destroyed")
}

// RoomExists reports whether a code is bound to an active room
func (r *Registry) RoomExists(code string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[code]
	return ok
}

// RoomCount returns the number of active rooms
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// ParticipantCount returns the total active participants across all rooms
func (r *Registry) ParticipantCount() int {
	r.mu.RLock()
	sessions := make([]*RoomSession, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	r.mu.RUnlock()

	total := 0
	for _, session := range sessions {
		total += session.ParticipantCount()
	}
	return total
}

// Close shuts down every session
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := make([]*RoomSession, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	r.sessions = make(map[string]*RoomSession)
	r.handles = make(map[string]Identity)
	r.mu.Unlock()

	for _, session := range sessions {
		session.Close(ReasonShutdown)
	}
}

// persist writes a room snapshot fire-and-forget
func (r *Registry) persist(session *RoomSession) {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.persistLocked()
}

// notifyRoomCountLocked fires the room-count hook; caller holds the mutex
func (r *Registry) notifyRoomCountLocked() {
	if r.onRoomCount != nil {
		count := len(r.sessions)
		go r.onRoomCount(count)
	}
}
