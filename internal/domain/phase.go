package domain

// Phase represents the current phase of a room
type Phase string

const (
	PhaseWaiting Phase = "WAITING" // Lobby: host may start a round
	PhasePlaying Phase = "PLAYING" // Round in progress, submissions accepted
	PhaseEnded   Phase = "ENDED"   // Round over, validation/arbitration pending
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo checks if a transition from current phase to target phase is valid
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseWaiting: {PhasePlaying},
		PhasePlaying: {PhaseEnded},
		PhaseEnded:   {PhaseWaiting}, // Manual reset returns the room to the lobby
	}

	allowed, ok := validTransitions[p]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}
	return false
}
