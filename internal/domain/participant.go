package domain

import "time"

// Participant represents a player in a room, keyed by display name
type Participant struct {
	Name         string        `json:"name"`
	Score        int           `json:"score"`
	Words        []string      `json:"words"`
	Submissions  []*Submission `json:"submissions"`
	Achievements []string      `json:"achievements"`
	JoinedAt     time.Time     `json:"joinedAt"`
}

// NewParticipant creates a new participant with the given display name
func NewParticipant(name string) *Participant {
	return &Participant{
		Name:         name,
		Words:        make([]string, 0),
		Submissions:  make([]*Submission, 0),
		Achievements: make([]string, 0),
		JoinedAt:     time.Now(),
	}
}

// HasWord reports whether the participant already submitted word this round
func (p *Participant) HasWord(word string) bool {
	for _, w := range p.Words {
		if w == word {
			return true
		}
	}
	return false
}

// AddSubmission records an accepted word. The caller has already normalized
// the word and performed the geometric check.
func (p *Participant) AddSubmission(word string, roundStart time.Time) *Submission {
	sub := NewSubmission(word, roundStart)
	p.Words = append(p.Words, word)
	p.Submissions = append(p.Submissions, sub)
	return sub
}

// HasAchievement reports whether the participant holds the given badge
func (p *Participant) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// Unlock adds a badge if not already held, returning true if newly added
func (p *Participant) Unlock(id string) bool {
	if p.HasAchievement(id) {
		return false
	}
	p.Achievements = append(p.Achievements, id)
	return true
}

// RecomputeScore derives the score from scratch as the sum of all counting
// submissions, stores it, and returns it. Scores are never adjusted
// incrementally anywhere else.
func (p *Participant) RecomputeScore() int {
	total := 0
	for _, sub := range p.Submissions {
		if sub.Counts() {
			total += sub.Score
		}
	}
	p.Score = total
	return total
}

// SubmissionRecords returns value copies of the submission history. Result
// payloads and snapshots carry these, never the live records.
func (p *Participant) SubmissionRecords() []Submission {
	records := make([]Submission, len(p.Submissions))
	for i, sub := range p.Submissions {
		records[i] = *sub
	}
	return records
}

// Clone returns a deep copy sharing no memory with the original
func (p *Participant) Clone() *Participant {
	clone := &Participant{
		Name:         p.Name,
		Score:        p.Score,
		Words:        append([]string(nil), p.Words...),
		Submissions:  make([]*Submission, len(p.Submissions)),
		Achievements: append([]string(nil), p.Achievements...),
		JoinedAt:     p.JoinedAt,
	}
	for i, sub := range p.Submissions {
		copied := *sub
		clone.Submissions[i] = &copied
	}
	return clone
}

// ResetForNewRound clears all per-round state
func (p *Participant) ResetForNewRound() {
	p.Score = 0
	p.Words = make([]string, 0)
	p.Submissions = make([]*Submission, 0)
	p.Achievements = make([]string, 0)
}

// ParticipantInfo is the roster view of a participant
type ParticipantInfo struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Words int    `json:"words"`
}

// ToInfo converts a Participant to its roster view
func (p *Participant) ToInfo() ParticipantInfo {
	return ParticipantInfo{
		Name:  p.Name,
		Score: p.Score,
		Words: len(p.Words),
	}
}
