package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"wordhunt/internal/config"
	"wordhunt/internal/dictionary"
	"wordhunt/internal/domain"
	"wordhunt/internal/snapshot"
)

// ClientConnection represents a connected client
type ClientConnection interface {
	Send(message any) error
	Close() error
}

// Close reasons surfaced in the final room notification
const (
	ReasonHostLeft   = "host_left"
	ReasonHostClosed = "host_closed"
	ReasonRoomEmpty  = "room_empty"
	ReasonShutdown   = "server_shutdown"
)

const defaultRoundDuration = 3 * time.Minute

// RoomSession wraps a room with concurrency control, timers, and client
// fan-out. All state mutation for one room funnels through its mutex:
// commands, timer callbacks, and disconnect handling are serialized.
type RoomSession struct {
	room   *domain.Room
	mu     sync.Mutex
	logger zerolog.Logger

	hostHandle       string
	hostDisconnected bool

	conns    map[string]ClientConnection // display name -> connection
	hostConn ClientConnection
	connsMu  sync.RWMutex

	dict  dictionary.Lookup
	store snapshot.Store
	cfg   config.GameConfig
	ttl   time.Duration

	// Timers, one cancellable handle per concern. Each callback re-checks
	// liveness under the room mutex before acting.
	roundDone   chan struct{}
	arbitration *time.Timer
	hostGrace   *time.Timer
	graceTimers map[string]*time.Timer

	autoVerdicts map[string]dictionary.Verdict
	validated    bool

	// onDestroy asks the registry to tear this room down. Never called with
	// the room mutex held.
	onDestroy func(reason string)

	events chan *domain.Event
	done   chan struct{}
	closed bool
}

// NewRoomSession creates a session for the given room with the given host
func NewRoomSession(room *domain.Room, hostHandle string, hostConn ClientConnection,
	dict dictionary.Lookup, store snapshot.Store, cfg config.GameConfig, ttl time.Duration,
	logger zerolog.Logger) *RoomSession {

	session := &RoomSession{
		room:        room,
		logger:      logger.With().Str("room", room.Code).Logger(),
		hostHandle:  hostHandle,
		hostConn:    hostConn,
		conns:       make(map[string]ClientConnection),
		dict:        dict,
		store:       store,
		cfg:         cfg,
		ttl:         ttl,
		graceTimers: make(map[string]*time.Timer),
		events:      make(chan *domain.Event, 100),
		done:        make(chan struct{}),
	}

	go session.eventLoop()

	return session
}

// SetOnDestroy installs the registry teardown callback
func (s *RoomSession) SetOnDestroy(fn func(reason string)) {
	s.onDestroy = fn
}

// Code returns the room code
func (s *RoomSession) Code() string {
	return s.room.Code
}

// Phase returns the current room phase
func (s *RoomSession) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.Phase
}

// ParticipantCount returns the number of active participants
func (s *RoomSession) ParticipantCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.ActiveCount()
}

// IsHost reports whether the given handle is the room's host
func (s *RoomSession) IsHost(handle string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hostHandle == handle
}

// HostDisconnected reports whether the host is in its grace window
func (s *RoomSession) HostDisconnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hostDisconnected
}

// Join adds a new participant, or rebinds one parked in the disconnected
// side-table under the identical display name. Rebinding restores full
// history and cancels the cleanup timer. A join on an in-progress room also
// syncs the current round state to the joining connection only.
func (s *RoomSession) Join(name string, conn ClientConnection) (*domain.Participant, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.room.GetParticipant(name); err == nil {
		return nil, false, domain.ErrNameTaken
	}

	var participant *domain.Participant
	rebound := false

	if reconnected, err := s.room.ReconnectParticipant(name); err == nil {
		participant = reconnected
		rebound = true
		s.cancelGraceTimerLocked(name)
		s.queueEvent(domain.NewEvent(domain.EventPlayerReconnected, s.room.Code,
			domain.PlayerPresencePayload{Name: name}))
	} else {
		added, err := s.room.AddParticipant(name)
		if err != nil {
			return nil, false, err
		}
		participant = added
	}

	s.registerConn(name, conn)
	s.queueRosterLocked()
	s.queueEvent(domain.NewEvent(domain.EventUpdateLeaderboard, s.room.Code,
		domain.LeaderboardPayload{Leaderboard: s.room.Leaderboard()}))
	s.syncRoundStateLocked(name)
	s.persistLocked()

	return participant, rebound, nil
}

// RebindHost makes a new connection the host while the previous one is in
// its grace window: the grace timer is cancelled and membership replayed to
// the new connection.
func (s *RoomSession) RebindHost(handle string, conn ClientConnection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelHostGraceLocked()
	s.hostDisconnected = false
	s.hostHandle = handle

	s.connsMu.Lock()
	s.hostConn = conn
	s.connsMu.Unlock()

	s.queueEvent(domain.NewEvent(domain.EventHostTransferred, s.room.Code, nil))
	s.queueEvent(domain.NewHostEvent(domain.EventUpdateUsers, s.room.Code,
		domain.RosterPayload{Users: s.room.Roster()}))
	s.queueEvent(domain.NewHostEvent(domain.EventUpdateLeaderboard, s.room.Code,
		domain.LeaderboardPayload{Leaderboard: s.room.Leaderboard()}))

	if s.room.Phase == domain.PhasePlaying {
		s.queueEvent(domain.NewHostEvent(domain.EventStartGame, s.room.Code,
			domain.StartGamePayload{
				Grid:            s.room.Grid,
				DurationSeconds: s.room.RemainingSeconds(),
				Language:        s.room.Language,
			}))
	}

	s.logger.Info().Str("handle", handle).Msg("host rebound")
}

// StartRound transitions waiting -> playing with a host-supplied board
func (s *RoomSession) StartRound(handle string, grid domain.Grid, durationSeconds int, language string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hostHandle != handle {
		return domain.ErrNotHost
	}

	duration := time.Duration(durationSeconds) * time.Second
	if duration <= 0 {
		duration = defaultRoundDuration
	}
	if duration > s.cfg.MaxRoundDuration {
		duration = s.cfg.MaxRoundDuration
	}

	if err := s.room.StartRound(grid, duration); err != nil {
		return err
	}
	if language != "" {
		s.room.Language = language
	}

	// A leftover arbitration timer belongs to the previous round.
	s.cancelArbitrationLocked()
	s.autoVerdicts = nil
	s.validated = false

	s.queueEvent(domain.NewEvent(domain.EventStartGame, s.room.Code,
		domain.StartGamePayload{
			Grid:            s.room.Grid,
			DurationSeconds: int(duration.Seconds()),
			Language:        s.room.Language,
		}))

	done := make(chan struct{})
	s.roundDone = done
	go s.roundCountdown(done)

	s.persistLocked()
	s.logger.Info().Int("duration", int(duration.Seconds())).Msg("round started")

	return nil
}

// roundCountdown broadcasts remaining time every second and forces the round
// to end when it reaches zero
func (s *RoomSession) roundCountdown(done chan struct{}) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.room.Phase != domain.PhasePlaying {
				s.mu.Unlock()
				return
			}
			remaining := s.room.RemainingSeconds()
			if remaining <= 0 {
				s.endRoundLocked()
				s.mu.Unlock()
				return
			}
			s.queueEvent(domain.NewEvent(domain.EventTimeUpdate, s.room.Code,
				domain.TimeUpdatePayload{RemainingSeconds: remaining}))
			s.mu.Unlock()
		}
	}
}

// SubmitWord performs the geometric intake check for a participant's word
// and queues the per-submission feedback
func (s *RoomSession) SubmitWord(name, word string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, err := s.room.SubmitWord(name, word)
	switch err {
	case nil:
	case domain.ErrWordAlreadyFound:
		s.queueEvent(domain.NewTargetedEvent(domain.EventWordAlreadyFound, s.room.Code, name,
			domain.WordFeedbackPayload{Word: word}))
		return nil
	case domain.ErrWordNotOnBoard, domain.ErrWordTooShort, domain.ErrEmptyWord:
		s.queueEvent(domain.NewTargetedEvent(domain.EventWordNotOnBoard, s.room.Code, name,
			domain.WordFeedbackPayload{Word: word}))
		return nil
	default:
		return err
	}

	s.queueEvent(domain.NewTargetedEvent(domain.EventWordAccepted, s.room.Code, name,
		domain.WordFeedbackPayload{Word: sub.Word}))

	firstInRoom := !s.room.FirstWordFound
	s.room.FirstWordFound = true

	participant, _ := s.room.GetParticipant(name)
	if unlocked := domain.EvaluateLive(participant, firstInRoom); len(unlocked) > 0 {
		s.queueEvent(domain.NewEvent(domain.EventLiveAchievement, s.room.Code,
			domain.AchievementPayload{Name: name, Achievements: unlocked}))
	}

	return nil
}

// EndRound ends the round on the host's command
func (s *RoomSession) EndRound(handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hostHandle != handle {
		return domain.ErrNotHost
	}
	if s.room.Phase != domain.PhasePlaying {
		return domain.ErrInvalidPhase
	}

	s.endRoundLocked()
	return nil
}

// endRoundLocked transitions playing -> ended and kicks off the advisory
// dictionary pass. Caller must hold the room mutex.
func (s *RoomSession) endRoundLocked() {
	if s.room.Phase != domain.PhasePlaying {
		return
	}
	if err := s.room.EndRound(); err != nil {
		s.logger.Error().Err(err).Msg("end round transition failed")
		return
	}

	s.stopRoundTickerLocked()

	words := make([]string, 0)
	for word := range s.room.DistinctWords() {
		words = append(words, word)
	}
	sort.Strings(words)

	// The lookup pass runs off the room mutex with a bounded wait; a slow
	// dictionary degrades every word to arbitration, never stalls the room.
	go s.resolveRoundEnd(words, s.room.Language)

	s.logger.Info().Int("distinctWords", len(words)).Msg("round ended")
}

// resolveRoundEnd runs the bounded dictionary pass, then broadcasts the
// provisional results, hands the host its arbitration worklist, and starts
// the arbitration timeout
func (s *RoomSession) resolveRoundEnd(words []string, language string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.DictionaryTimeout)
	defer cancel()

	verdicts := make(map[string]dictionary.Verdict, len(words))
	var verdictsMu sync.Mutex
	var wg sync.WaitGroup

	for _, word := range words {
		wg.Add(1)
		go func(word string) {
			defer wg.Done()
			verdict := s.dict.IsValidWord(ctx, word, language)
			verdictsMu.Lock()
			verdicts[word] = verdict
			verdictsMu.Unlock()
		}(word)
	}
	wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.room.Phase != domain.PhaseEnded || s.validated {
		return
	}

	s.autoVerdicts = verdicts

	// Provisional scores reflect only what the dictionary auto-validated.
	// Submission records stay untouched until the resolution pass.
	results := make([]domain.ParticipantResult, 0, s.room.ActiveCount())
	for _, participant := range s.room.AllParticipants() {
		provisional := 0
		for _, sub := range participant.Submissions {
			if verdicts[sub.Word] == dictionary.VerdictValid {
				provisional += domain.WordScore(sub.Word)
			}
		}
		results = append(results, domain.ParticipantResult{
			Name:         participant.Name,
			Score:        provisional,
			Submissions:  participant.SubmissionRecords(),
			Achievements: append([]string(nil), participant.Achievements...),
		})
	}
	s.queueEvent(domain.NewEvent(domain.EventEndGame, s.room.Code,
		domain.EndGamePayload{Results: results}))

	worklist := make([]string, 0)
	for _, word := range words {
		if verdicts[word] != dictionary.VerdictValid {
			worklist = append(worklist, word)
		}
	}
	s.queueEvent(domain.NewHostEvent(domain.EventShowValidation, s.room.Code,
		domain.ShowValidationPayload{Words: worklist}))

	s.arbitration = time.AfterFunc(s.cfg.ArbitrationTimeout, s.arbitrationExpired)
}

// arbitrationExpired resolves every still-pending word as valid on the
// host's behalf
func (s *RoomSession) arbitrationExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.validated || s.room.Phase != domain.PhaseEnded {
		return
	}

	s.logger.Info().Msg("arbitration timed out, defaulting pending words to valid")
	s.validateLocked(nil)
}

// ValidateWords applies the host's decisions. Safe to repeat: the whole
// word-validity map, every score, and the final achievement set are rebuilt
// from scratch on each call.
func (s *RoomSession) ValidateWords(handle string, decisions []domain.WordDecision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hostHandle != handle {
		return domain.ErrNotHost
	}
	if s.room.Phase != domain.PhaseEnded {
		return domain.ErrInvalidPhase
	}

	s.cancelArbitrationLocked()
	s.validateLocked(decisions)
	return nil
}

// validateLocked is the single resolution pass: one ordered merge of host
// decisions over dictionary verdicts (default valid), duplicates forced
// invalid for everyone, scores recomputed from scratch, final achievements
// replacing the live set. Caller must hold the room mutex.
func (s *RoomSession) validateLocked(decisions []domain.WordDecision) {
	hostVerdicts := make(map[string]bool, len(decisions))
	for _, decision := range decisions {
		hostVerdicts[domain.NormalizeText(decision.Word)] = decision.IsValid
	}

	submitters := s.room.DistinctWords()

	// Ordered merge: host decision wins, then the dictionary verdict, then
	// the default-to-valid arbitration policy.
	validity := make(map[string]domain.Validity, len(submitters))
	for word := range submitters {
		if isValid, ok := hostVerdicts[word]; ok {
			if isValid {
				validity[word] = domain.ValidityValid
			} else {
				validity[word] = domain.ValidityInvalid
			}
			continue
		}
		switch s.autoVerdicts[word] {
		case dictionary.VerdictValid:
			validity[word] = domain.ValidityValid
		case dictionary.VerdictInvalid:
			validity[word] = domain.ValidityInvalid
		default:
			validity[word] = domain.ValidityValid
		}
	}

	for _, participant := range s.room.AllParticipants() {
		for _, sub := range participant.Submissions {
			if len(submitters[sub.Word]) > 1 {
				// Duplicate across participants: invalid for everyone,
				// overriding both dictionary and host verdicts.
				sub.IsDuplicate = true
				sub.Validated = domain.ValidityInvalid
				sub.Score = 0
				continue
			}
			sub.IsDuplicate = false
			sub.Validated = validity[sub.Word]
			if sub.Validated == domain.ValidityValid {
				sub.Score = domain.WordScore(sub.Word)
			} else {
				sub.Score = 0
			}
		}
		participant.RecomputeScore()
	}

	firstOwner := s.firstValidatedOwnerLocked()
	for _, participant := range s.room.AllParticipants() {
		domain.EvaluateFinal(participant, participant.Name == firstOwner)
	}

	s.validated = true

	scores := make([]domain.ParticipantResult, 0, s.room.ActiveCount())
	for _, participant := range s.room.AllParticipants() {
		scores = append(scores, domain.ParticipantResult{
			Name:         participant.Name,
			Score:        participant.Score,
			Submissions:  participant.SubmissionRecords(),
			Achievements: append([]string(nil), participant.Achievements...),
		})
	}

	s.queueEvent(domain.NewEvent(domain.EventValidatedScores, s.room.Code,
		domain.ValidatedScoresPayload{
			Scores: scores,
			Winner: s.room.Winner(),
			Grid:   s.room.Grid,
		}))
	s.queueEvent(domain.NewEvent(domain.EventUpdateLeaderboard, s.room.Code,
		domain.LeaderboardPayload{Leaderboard: s.room.Leaderboard()}))

	s.persistLocked()
}

// firstValidatedOwnerLocked finds who owns the earliest counting submission
func (s *RoomSession) firstValidatedOwnerLocked() string {
	owner := ""
	var earliest time.Time
	for _, participant := range s.room.AllParticipants() {
		for _, sub := range participant.Submissions {
			if !sub.Counts() {
				continue
			}
			if owner == "" || sub.SubmittedAt.Before(earliest) {
				owner = participant.Name
				earliest = sub.SubmittedAt
			}
		}
	}
	return owner
}

// ResetRound transitions ended -> waiting, preserving membership
func (s *RoomSession) ResetRound(handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hostHandle != handle {
		return domain.ErrNotHost
	}
	if err := s.room.Reset(); err != nil {
		return err
	}

	s.cancelArbitrationLocked()
	s.autoVerdicts = nil
	s.validated = false

	s.queueEvent(domain.NewEvent(domain.EventResetGame, s.room.Code, nil))
	s.queueRosterLocked()
	s.queueEvent(domain.NewEvent(domain.EventUpdateLeaderboard, s.room.Code,
		domain.LeaderboardPayload{Leaderboard: s.room.Leaderboard()}))
	s.persistLocked()

	return nil
}

// HostLost parks the host connection and starts the host grace window. The
// room stays alive and playable; a running round timer is unaffected.
func (s *RoomSession) HostLost() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.hostDisconnected {
		return
	}

	s.hostDisconnected = true
	s.connsMu.Lock()
	s.hostConn = nil
	s.connsMu.Unlock()

	s.queueEvent(domain.NewEvent(domain.EventHostDisconnected, s.room.Code, nil))

	s.hostGrace = time.AfterFunc(s.cfg.HostGracePeriod, func() {
		s.mu.Lock()
		expired := !s.closed && s.hostDisconnected
		s.mu.Unlock()
		if expired {
			s.destroy(ReasonHostLeft)
		}
	})

	s.logger.Info().Dur("grace", s.cfg.HostGracePeriod).Msg("host disconnected")
}

// ParticipantLost moves a participant to the disconnected side-table, starts
// its cleanup timer, and applies the lone/empty room rules
func (s *RoomSession) ParticipantLost(name string) {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return
	}

	if _, err := s.room.DisconnectParticipant(name); err != nil {
		s.logger.Warn().Str("name", name).Msg("disconnect for unknown participant")
		s.mu.Unlock()
		return
	}

	s.unregisterConn(name)
	s.queueEvent(domain.NewEvent(domain.EventPlayerDisconnected, s.room.Code,
		domain.PlayerPresencePayload{Name: name}))
	s.queueRosterLocked()
	s.queueEvent(domain.NewEvent(domain.EventUpdateLeaderboard, s.room.Code,
		domain.LeaderboardPayload{Leaderboard: s.room.Leaderboard()}))

	s.graceTimers[name] = time.AfterFunc(s.cfg.ParticipantGracePeriod, func() {
		s.participantGraceExpired(name)
	})

	active := s.room.ActiveCount()
	if active == 1 && s.room.Phase == domain.PhasePlaying {
		// A round cannot meaningfully continue alone.
		s.endRoundLocked()
	}
	s.mu.Unlock()

	if active == 0 {
		s.destroy(ReasonRoomEmpty)
	}
}

// ArmGraceTimers starts a cleanup timer for every parked participant that
// does not have one, used after a snapshot restore
func (s *RoomSession) ArmGraceTimers() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name := range s.room.Disconnected {
		if _, ok := s.graceTimers[name]; ok {
			continue
		}
		name := name
		s.graceTimers[name] = time.AfterFunc(s.cfg.ParticipantGracePeriod, func() {
			s.participantGraceExpired(name)
		})
	}
}

// participantGraceExpired purges a parked participant's records
func (s *RoomSession) participantGraceExpired(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if _, ok := s.room.Disconnected[name]; !ok {
		return
	}

	s.room.PurgeDisconnected(name)
	delete(s.graceTimers, name)

	s.queueEvent(domain.NewEvent(domain.EventPlayerLeft, s.room.Code,
		domain.PlayerPresencePayload{Name: name}))
	s.queueEvent(domain.NewEvent(domain.EventUpdateLeaderboard, s.room.Code,
		domain.LeaderboardPayload{Leaderboard: s.room.Leaderboard()}))
	s.persistLocked()

	s.logger.Info().Str("name", name).Msg("participant purged after grace window")
}

// destroy asks the registry to tear the room down
func (s *RoomSession) destroy(reason string) {
	if s.onDestroy != nil {
		s.onDestroy(reason)
	}
}

// Close shuts the session down: every timer cancelled, one final closing
// notification, all connections closed. Idempotent.
func (s *RoomSession) Close(reason string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true

	s.stopRoundTickerLocked()
	s.cancelArbitrationLocked()
	s.cancelHostGraceLocked()
	for name, timer := range s.graceTimers {
		timer.Stop()
		delete(s.graceTimers, name)
	}
	s.mu.Unlock()

	// The event loop is about to stop; deliver the closing notice directly.
	if reason == ReasonHostLeft || reason == ReasonHostClosed {
		s.deliver(domain.NewEvent(domain.EventHostLeftRoomClosing, s.room.Code,
			domain.RoomClosingPayload{Reason: reason}))
	}

	close(s.done)

	s.connsMu.Lock()
	for _, conn := range s.conns {
		conn.Close()
	}
	s.conns = make(map[string]ClientConnection)
	if s.hostConn != nil {
		s.hostConn.Close()
		s.hostConn = nil
	}
	s.connsMu.Unlock()

	s.logger.Info().Str("reason", reason).Msg("room closed")
}

// Timer cancellation helpers; all idempotent, all require the room mutex

func (s *RoomSession) stopRoundTickerLocked() {
	if s.roundDone != nil {
		close(s.roundDone)
		s.roundDone = nil
	}
}

func (s *RoomSession) cancelArbitrationLocked() {
	if s.arbitration != nil {
		s.arbitration.Stop()
		s.arbitration = nil
	}
}

func (s *RoomSession) cancelHostGraceLocked() {
	if s.hostGrace != nil {
		s.hostGrace.Stop()
		s.hostGrace = nil
	}
}

func (s *RoomSession) cancelGraceTimerLocked(name string) {
	if timer, ok := s.graceTimers[name]; ok {
		timer.Stop()
		delete(s.graceTimers, name)
	}
}

// queueRosterLocked queues the visible membership list to everyone
func (s *RoomSession) queueRosterLocked() {
	s.queueEvent(domain.NewEvent(domain.EventUpdateUsers, s.room.Code,
		domain.RosterPayload{Users: s.room.Roster()}))
}

// syncRoundStateLocked catches one connection up with an in-progress round
func (s *RoomSession) syncRoundStateLocked(name string) {
	if s.room.Phase != domain.PhasePlaying {
		return
	}
	s.queueEvent(domain.NewTargetedEvent(domain.EventStartGame, s.room.Code, name,
		domain.StartGamePayload{
			Grid:            s.room.Grid,
			DurationSeconds: s.room.RemainingSeconds(),
			Language:        s.room.Language,
		}))
	s.queueEvent(domain.NewTargetedEvent(domain.EventTimeUpdate, s.room.Code, name,
		domain.TimeUpdatePayload{RemainingSeconds: s.room.RemainingSeconds()}))
}

// persistLocked snapshots the room and writes it out fire-and-forget.
// Failure never surfaces past this boundary.
func (s *RoomSession) persistLocked() {
	snap := snapshot.FromRoom(s.room)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.store.Put(ctx, snap.Code, snap, s.ttl); err != nil {
			s.logger.Debug().Err(err).Msg("snapshot write failed")
		}
	}()
}

// registerConn binds a participant connection for fan-out
func (s *RoomSession) registerConn(name string, conn ClientConnection) {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	s.conns[name] = conn
}

// unregisterConn removes a participant connection
func (s *RoomSession) unregisterConn(name string) {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	delete(s.conns, name)
}

// queueEvent adds an event to the fan-out queue
func (s *RoomSession) queueEvent(event *domain.Event) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn().Str("type", string(event.Type)).Msg("event queue full, dropping event")
	}
}

// eventLoop fans queued events out to their audience
func (s *RoomSession) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.deliver(event)
		}
	}
}

// deliver sends an event to its addressed audience
func (s *RoomSession) deliver(event *domain.Event) {
	s.connsMu.RLock()
	defer s.connsMu.RUnlock()

	send := func(who string, conn ClientConnection) {
		if conn == nil {
			return
		}
		if err := conn.Send(event); err != nil {
			s.logger.Debug().Err(err).Str("to", who).Msg("send failed")
		}
	}

	switch event.Audience {
	case domain.AudienceHost:
		send("host", s.hostConn)
	case domain.AudienceOne:
		send(event.Target, s.conns[event.Target])
	default:
		send("host", s.hostConn)
		for name, conn := range s.conns {
			send(name, conn)
		}
	}
}
