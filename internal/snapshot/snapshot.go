// Package snapshot provides the best-effort durability collaborator: a
// TTL-keyed key-value store holding room snapshots. Failures are swallowed
// at this boundary; the core runs purely in memory when the store is absent.
package snapshot

import (
	"context"
	"time"

	"wordhunt/internal/domain"
)

// RoomSnapshot is the durable view of a room. Connection handles are
// deliberately excluded: they are meaningless across processes.
type RoomSnapshot struct {
	Code           string                `json:"code"`
	Name           string                `json:"name"`
	Language       string                `json:"language"`
	Phase          domain.Phase          `json:"phase"`
	Grid           domain.Grid           `json:"grid,omitempty"`
	RoundStartedAt time.Time             `json:"roundStartedAt,omitempty"`
	RoundEndsAt    time.Time             `json:"roundEndsAt,omitempty"`
	Participants   []*domain.Participant `json:"participants"`
	SavedAt        time.Time             `json:"savedAt"`
}

// FromRoom builds a snapshot of the given room. Participants are deep copies:
// snapshots are marshaled off the room mutex, so no live record may be shared.
func FromRoom(room *domain.Room) *RoomSnapshot {
	all := room.AllParticipants()
	participants := make([]*domain.Participant, len(all))
	for i, p := range all {
		participants[i] = p.Clone()
	}

	return &RoomSnapshot{
		Code:           room.Code,
		Name:           room.Name,
		Language:       room.Language,
		Phase:          room.Phase,
		Grid:           room.Grid,
		RoundStartedAt: room.RoundStartedAt,
		RoundEndsAt:    room.RoundEndsAt,
		Participants:   participants,
		SavedAt:        time.Now(),
	}
}

// Store is the durability contract. Put is fire-and-forget from the caller's
// perspective; Get returns (nil, nil) for a missing key.
type Store interface {
	Put(ctx context.Context, code string, snap *RoomSnapshot, ttl time.Duration) error
	Get(ctx context.Context, code string) (*RoomSnapshot, error)
	Delete(ctx context.Context, code string) error
}

// Noop is the in-memory-only degradation: every operation silently succeeds
type Noop struct{}

// Put implements Store
func (Noop) Put(context.Context, string, *RoomSnapshot, time.Duration) error { return nil }

// Get implements Store
func (Noop) Get(context.Context, string) (*RoomSnapshot, error) { return nil, nil }

// Delete implements Store
func (Noop) Delete(context.Context, string) error { return nil }
