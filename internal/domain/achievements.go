package domain

import "fmt"

// Achievement identifiers
const (
	AchievementFirstWord  = "first_word"  // first accepted word in the room
	AchievementLongWord   = "long_word"   // any word of 7+ letters
	AchievementRapidTen   = "rapid_ten"   // 10 words inside the opening window
	AchievementWordMaster = "word_master" // 20+ words in a single round
	AchievementFlawless   = "flawless"    // every submission validated
)

const (
	milestoneStep      = 5
	rapidWindowSeconds = 60
	rapidWordCount     = 10
	masterWordCount    = 20
	longWordLength     = 7
)

// MilestoneAchievement returns the badge id for a word-count milestone
func MilestoneAchievement(count int) string {
	return fmt.Sprintf("words_%d", count)
}

// EvaluateLive inspects a participant's submission history right after a word
// was accepted and unlocks any newly earned badges, returning them.
// firstInRoom is true when the accepted word is the first in the whole room.
// Every badge is idempotent: repeated evaluation never re-issues one.
func EvaluateLive(p *Participant, firstInRoom bool) []string {
	if len(p.Submissions) == 0 {
		return nil
	}

	var unlocked []string
	unlock := func(id string) {
		if p.Unlock(id) {
			unlocked = append(unlocked, id)
		}
	}

	if firstInRoom {
		unlock(AchievementFirstWord)
	}

	last := p.Submissions[len(p.Submissions)-1]
	if GraphemeLength(last.Word) >= longWordLength {
		unlock(AchievementLongWord)
	}

	count := len(p.Words)
	if count > 0 && count%milestoneStep == 0 {
		unlock(MilestoneAchievement(count))
	}

	if countWithinWindow(p.Submissions) >= rapidWordCount {
		unlock(AchievementRapidTen)
	}

	if count >= masterWordCount {
		unlock(AchievementWordMaster)
	}

	return unlocked
}

// EvaluateFinal re-derives the badge set strictly from submissions that
// counted after validation, plus the flawless badge when nothing was
// rejected. The result replaces the live set entirely so that words accepted
// live but rejected at validation are never double-counted.
func EvaluateFinal(p *Participant, firstInRoom bool) []string {
	counted := make([]*Submission, 0, len(p.Submissions))
	for _, sub := range p.Submissions {
		if sub.Counts() {
			counted = append(counted, sub)
		}
	}

	badges := make([]string, 0)
	if firstInRoom {
		badges = append(badges, AchievementFirstWord)
	}

	longWord := false
	for _, sub := range counted {
		if GraphemeLength(sub.Word) >= longWordLength {
			longWord = true
			break
		}
	}
	if longWord {
		badges = append(badges, AchievementLongWord)
	}

	for step := milestoneStep; step <= len(counted); step += milestoneStep {
		badges = append(badges, MilestoneAchievement(step))
	}

	if countWithinWindow(counted) >= rapidWordCount {
		badges = append(badges, AchievementRapidTen)
	}

	if len(counted) >= masterWordCount {
		badges = append(badges, AchievementWordMaster)
	}

	if len(p.Submissions) > 0 && len(counted) == len(p.Submissions) {
		badges = append(badges, AchievementFlawless)
	}

	p.Achievements = badges
	return badges
}

func countWithinWindow(subs []*Submission) int {
	count := 0
	for _, sub := range subs {
		if sub.SecondsSinceStart <= rapidWindowSeconds {
			count++
		}
	}
	return count
}
