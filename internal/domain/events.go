package domain

import "time"

// EventType represents the type of room event
type EventType string

const (
	EventRoomCreated         EventType = "ROOM_CREATED"
	EventUpdateUsers         EventType = "UPDATE_USERS"
	EventUpdateLeaderboard   EventType = "UPDATE_LEADERBOARD"
	EventStartGame           EventType = "START_GAME"
	EventTimeUpdate          EventType = "TIME_UPDATE"
	EventWordAccepted        EventType = "WORD_ACCEPTED"
	EventWordAlreadyFound    EventType = "WORD_ALREADY_FOUND"
	EventWordNotOnBoard      EventType = "WORD_NOT_ON_BOARD"
	EventLiveAchievement     EventType = "LIVE_ACHIEVEMENT_UNLOCKED"
	EventEndGame             EventType = "END_GAME"
	EventShowValidation      EventType = "SHOW_VALIDATION"
	EventValidatedScores     EventType = "VALIDATED_SCORES"
	EventResetGame           EventType = "RESET_GAME"
	EventHostDisconnected    EventType = "HOST_DISCONNECTED"
	EventHostTransferred     EventType = "HOST_TRANSFERRED"
	EventPlayerDisconnected  EventType = "PLAYER_DISCONNECTED"
	EventPlayerReconnected   EventType = "PLAYER_RECONNECTED"
	EventPlayerLeft          EventType = "PLAYER_LEFT"
	EventHostLeftRoomClosing EventType = "HOST_LEFT_ROOM_CLOSING"
)

// Audience selects who an event is addressed to
type Audience string

const (
	AudienceAll  Audience = "ALL"  // every participant plus the host
	AudienceHost Audience = "HOST" // the host connection only
	AudienceOne  Audience = "ONE"  // a single participant, by display name
)

// Event represents an addressed outbound notification
type Event struct {
	Type      EventType `json:"type"`
	RoomCode  string    `json:"roomCode"`
	Audience  Audience  `json:"-"`
	Target    string    `json:"-"` // display name, only when Audience is ONE
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent creates an event addressed to everyone in the room
func NewEvent(eventType EventType, roomCode string, payload any) *Event {
	return &Event{
		Type:      eventType,
		RoomCode:  roomCode,
		Audience:  AudienceAll,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewHostEvent creates an event addressed to the host only
func NewHostEvent(eventType EventType, roomCode string, payload any) *Event {
	event := NewEvent(eventType, roomCode, payload)
	event.Audience = AudienceHost
	return event
}

// NewTargetedEvent creates an event addressed to one participant
func NewTargetedEvent(eventType EventType, roomCode, name string, payload any) *Event {
	event := NewEvent(eventType, roomCode, payload)
	event.Audience = AudienceOne
	event.Target = name
	return event
}

// Payload types for the outbound notifications

// RosterPayload carries the visible membership list
type RosterPayload struct {
	Users []ParticipantInfo `json:"users"`
}

// LeaderboardPayload carries the ranked score view
type LeaderboardPayload struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// StartGamePayload is sent when a round starts (and to late joiners)
type StartGamePayload struct {
	Grid            Grid   `json:"grid"`
	DurationSeconds int    `json:"durationSeconds"`
	Language        string `json:"language"`
}

// TimeUpdatePayload is sent every second while a round is running
type TimeUpdatePayload struct {
	RemainingSeconds int `json:"remainingSeconds"`
}

// WordFeedbackPayload is the per-submission reply to the submitting player
type WordFeedbackPayload struct {
	Word string `json:"word"`
}

// AchievementPayload announces a live badge unlock
type AchievementPayload struct {
	Name         string   `json:"name"`
	Achievements []string `json:"achievements"`
}

// ParticipantResult is one participant's words and score in a result set.
// Submissions and Achievements are detached copies: events are marshaled on
// the fan-out goroutine, outside the room mutex.
type ParticipantResult struct {
	Name         string       `json:"name"`
	Score        int          `json:"score"`
	Submissions  []Submission `json:"submissions"`
	Achievements []string     `json:"achievements"`
}

// EndGamePayload carries the provisional results at round end
type EndGamePayload struct {
	Results []ParticipantResult `json:"results"`
}

// ShowValidationPayload hands the host the arbitration worklist: only words
// the dictionary did not resolve
type ShowValidationPayload struct {
	Words []string `json:"words"`
}

// ValidatedScoresPayload carries the authoritative results, with the grid so
// clients can re-derive word paths for visualization
type ValidatedScoresPayload struct {
	Scores []ParticipantResult `json:"scores"`
	Winner string              `json:"winner"`
	Grid   Grid                `json:"grid"`
}

// RoomClosingPayload explains why a room is being destroyed
type RoomClosingPayload struct {
	Reason string `json:"reason"`
}

// PlayerPresencePayload names the participant a presence event refers to
type PlayerPresencePayload struct {
	Name string `json:"name"`
}
