package domain

import (
	"sort"
	"strings"
	"time"
)

// DisconnectedParticipant holds a participant parked in the disconnected
// side-table pending reconnection or purge
type DisconnectedParticipant struct {
	Participant    *Participant `json:"participant"`
	DisconnectedAt time.Time    `json:"disconnectedAt"`
}

// Room represents one game session
type Room struct {
	Code           string                              `json:"code"`
	Name           string                              `json:"name"`
	Language       string                              `json:"language"`
	Phase          Phase                               `json:"phase"`
	Grid           Grid                                `json:"grid,omitempty"`
	RoundDuration  time.Duration                       `json:"roundDuration"`
	RoundStartedAt time.Time                           `json:"roundStartedAt,omitempty"`
	RoundEndsAt    time.Time                           `json:"roundEndsAt,omitempty"`
	FirstWordFound bool                                `json:"firstWordFound"`
	Participants   map[string]*Participant             `json:"participants"`
	Disconnected   map[string]*DisconnectedParticipant `json:"disconnected"`
	CreatedAt      time.Time                           `json:"createdAt"`
}

// NewRoom creates a new room in the waiting phase
func NewRoom(code, name, language string) *Room {
	return &Room{
		Code:         code,
		Name:         name,
		Language:     language,
		Phase:        PhaseWaiting,
		Participants: make(map[string]*Participant),
		Disconnected: make(map[string]*DisconnectedParticipant),
		CreatedAt:    time.Now(),
	}
}

// AddParticipant adds a new participant. Fails with ErrNameTaken only when
// the name is bound to an active participant; the caller handles the
// disconnected side-table rebind path separately.
func (r *Room) AddParticipant(name string) (*Participant, error) {
	if _, ok := r.Participants[name]; ok {
		return nil, ErrNameTaken
	}

	participant := NewParticipant(name)
	r.Participants[name] = participant

	return participant, nil
}

// GetParticipant returns an active participant by display name
func (r *Room) GetParticipant(name string) (*Participant, error) {
	participant, ok := r.Participants[name]
	if !ok {
		return nil, ErrParticipantNotFound
	}
	return participant, nil
}

// DisconnectParticipant moves an active participant to the side-table. The
// name can never be active and disconnected at the same time.
func (r *Room) DisconnectParticipant(name string) (*Participant, error) {
	participant, ok := r.Participants[name]
	if !ok {
		return nil, ErrParticipantNotFound
	}

	delete(r.Participants, name)
	r.Disconnected[name] = &DisconnectedParticipant{
		Participant:    participant,
		DisconnectedAt: time.Now(),
	}

	return participant, nil
}

// ReconnectParticipant restores a participant from the side-table under the
// identical display name, full history intact
func (r *Room) ReconnectParticipant(name string) (*Participant, error) {
	parked, ok := r.Disconnected[name]
	if !ok {
		return nil, ErrParticipantNotFound
	}

	delete(r.Disconnected, name)
	r.Participants[name] = parked.Participant

	return parked.Participant, nil
}

// PurgeDisconnected drops a parked participant and all of its records
func (r *Room) PurgeDisconnected(name string) {
	delete(r.Disconnected, name)
}

// RemoveParticipant drops an active participant entirely (explicit leave)
func (r *Room) RemoveParticipant(name string) error {
	if _, ok := r.Participants[name]; !ok {
		return ErrParticipantNotFound
	}
	delete(r.Participants, name)
	return nil
}

// ActiveCount returns the number of active (connected) participants
func (r *Room) ActiveCount() int {
	return len(r.Participants)
}

// StartRound transitions waiting -> playing with the given board
func (r *Room) StartRound(grid Grid, duration time.Duration) error {
	if !r.Phase.CanTransitionTo(PhasePlaying) {
		return ErrInvalidPhase
	}
	if err := grid.Validate(); err != nil {
		return err
	}

	for _, participant := range r.Participants {
		participant.ResetForNewRound()
	}

	now := time.Now()
	r.Grid = grid
	r.RoundDuration = duration
	r.RoundStartedAt = now
	r.RoundEndsAt = now.Add(duration)
	r.FirstWordFound = false
	r.Phase = PhasePlaying

	return nil
}

// EndRound transitions playing -> ended
func (r *Room) EndRound() error {
	if !r.Phase.CanTransitionTo(PhaseEnded) {
		return ErrInvalidPhase
	}
	r.Phase = PhaseEnded
	return nil
}

// Reset transitions ended -> waiting, clearing round data but preserving
// membership and the room code
func (r *Room) Reset() error {
	if !r.Phase.CanTransitionTo(PhaseWaiting) {
		return ErrInvalidPhase
	}

	r.Grid = nil
	r.RoundDuration = 0
	r.RoundStartedAt = time.Time{}
	r.RoundEndsAt = time.Time{}
	r.FirstWordFound = false
	r.Phase = PhaseWaiting

	for _, participant := range r.Participants {
		participant.ResetForNewRound()
	}
	for name := range r.Disconnected {
		r.Disconnected[name].Participant.ResetForNewRound()
	}

	return nil
}

// RemainingSeconds returns the whole seconds left in the current round
func (r *Room) RemainingSeconds() int {
	if r.Phase != PhasePlaying {
		return 0
	}
	remaining := int(time.Until(r.RoundEndsAt).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// SubmitWord validates a raw word geometrically and records it for the named
// participant. The geometric check here is final: validation later never
// re-derives the path.
func (r *Room) SubmitWord(name, raw string) (*Submission, error) {
	if r.Phase != PhasePlaying {
		return nil, ErrInvalidPhase
	}

	participant, err := r.GetParticipant(name)
	if err != nil {
		return nil, err
	}

	word := NormalizeText(strings.TrimSpace(raw))
	if word == "" {
		return nil, ErrEmptyWord
	}
	if GraphemeLength(word) < MinWordLength {
		return nil, ErrWordTooShort
	}
	if participant.HasWord(word) {
		return nil, ErrWordAlreadyFound
	}
	if !WordOnBoard(word, r.Grid) {
		return nil, ErrWordNotOnBoard
	}

	return participant.AddSubmission(word, r.RoundStartedAt), nil
}

// DistinctWords returns every word submitted this round mapped to the names
// of the participants (active and disconnected) who submitted it
func (r *Room) DistinctWords() map[string][]string {
	words := make(map[string][]string)
	collect := func(p *Participant) {
		for _, w := range p.Words {
			words[w] = append(words[w], p.Name)
		}
	}
	for _, participant := range r.Participants {
		collect(participant)
	}
	for _, parked := range r.Disconnected {
		collect(parked.Participant)
	}
	return words
}

// AllParticipants returns active and disconnected participants. Disconnected
// participants keep their score history while parked.
func (r *Room) AllParticipants() []*Participant {
	all := make([]*Participant, 0, len(r.Participants)+len(r.Disconnected))
	for _, participant := range r.Participants {
		all = append(all, participant)
	}
	for _, parked := range r.Disconnected {
		all = append(all, parked.Participant)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

// LeaderboardEntry is one row of the ranked score view
type LeaderboardEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Leaderboard returns active participants ranked by score, ties broken by name
func (r *Room) Leaderboard() []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(r.Participants))
	for _, participant := range r.Participants {
		entries = append(entries, LeaderboardEntry{Name: participant.Name, Score: participant.Score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Roster returns the visible membership list (active participants only),
// ordered by join time
func (r *Room) Roster() []ParticipantInfo {
	participants := make([]*Participant, 0, len(r.Participants))
	for _, participant := range r.Participants {
		participants = append(participants, participant)
	}
	sort.Slice(participants, func(i, j int) bool {
		return participants[i].JoinedAt.Before(participants[j].JoinedAt)
	})

	roster := make([]ParticipantInfo, 0, len(participants))
	for _, participant := range participants {
		roster = append(roster, participant.ToInfo())
	}
	return roster
}

// Winner returns the name of the highest-scoring active participant, or ""
// for an empty room
func (r *Room) Winner() string {
	leaderboard := r.Leaderboard()
	if len(leaderboard) == 0 {
		return ""
	}
	return leaderboard[0].Name
}
