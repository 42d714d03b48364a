package domain

import (
	"fmt"
	"testing"
	"time"
)

func participantWithWords(words ...string) *Participant {
	p := NewParticipant("tester")
	start := time.Now()
	for _, w := range words {
		p.AddSubmission(w, start)
	}
	return p
}

func hasBadge(badges []string, id string) bool {
	for _, b := range badges {
		if b == id {
			return true
		}
	}
	return false
}

func TestEvaluateLiveFirstWord(t *testing.T) {
	p := participantWithWords("cat")

	unlocked := EvaluateLive(p, true)
	if !hasBadge(unlocked, AchievementFirstWord) {
		t.Fatalf("expected %s, got %v", AchievementFirstWord, unlocked)
	}

	// Never issued twice.
	if unlocked := EvaluateLive(p, true); hasBadge(unlocked, AchievementFirstWord) {
		t.Fatal("first_word issued twice")
	}
}

func TestEvaluateLiveLongWord(t *testing.T) {
	p := participantWithWords("letters")
	unlocked := EvaluateLive(p, false)
	if !hasBadge(unlocked, AchievementLongWord) {
		t.Fatalf("expected %s for a 7-letter word, got %v", AchievementLongWord, unlocked)
	}
}

func TestEvaluateLiveMilestones(t *testing.T) {
	p := NewParticipant("tester")
	start := time.Now()

	for i := 1; i <= 5; i++ {
		p.AddSubmission(fmt.Sprintf("wrd%d", i), start)
	}

	unlocked := EvaluateLive(p, false)
	if !hasBadge(unlocked, MilestoneAchievement(5)) {
		t.Fatalf("expected %s at 5 words, got %v", MilestoneAchievement(5), unlocked)
	}
}

func TestEvaluateLiveRapidTen(t *testing.T) {
	p := NewParticipant("tester")
	start := time.Now()
	for i := 0; i < 10; i++ {
		p.AddSubmission(fmt.Sprintf("fast%d", i), start)
	}

	unlocked := EvaluateLive(p, false)
	if !hasBadge(unlocked, AchievementRapidTen) {
		t.Fatalf("expected %s for 10 quick words, got %v", AchievementRapidTen, unlocked)
	}
}

func TestEvaluateFinalReplacesLiveSet(t *testing.T) {
	p := participantWithWords("letters", "cat")
	EvaluateLive(p, true)
	if !p.HasAchievement(AchievementFirstWord) || !p.HasAchievement(AchievementLongWord) {
		t.Fatal("live badges missing before final evaluation")
	}

	// The long word gets rejected at validation; only cat counts.
	p.Submissions[0].Validated = ValidityInvalid
	p.Submissions[1].Validated = ValidityValid
	p.Submissions[1].Score = WordScore("cat")

	badges := EvaluateFinal(p, true)

	if hasBadge(badges, AchievementLongWord) {
		t.Fatal("long_word survived even though the word was rejected")
	}
	if !hasBadge(badges, AchievementFirstWord) {
		t.Fatal("first_word lost during final evaluation")
	}
	if hasBadge(badges, AchievementFlawless) {
		t.Fatal("flawless issued despite a rejected submission")
	}
	if p.HasAchievement(AchievementLongWord) {
		t.Fatal("final set did not replace the live set")
	}
}

func TestEvaluateFinalFlawless(t *testing.T) {
	p := participantWithWords("cat", "dog")
	for _, sub := range p.Submissions {
		sub.Validated = ValidityValid
		sub.Score = WordScore(sub.Word)
	}

	badges := EvaluateFinal(p, false)
	if !hasBadge(badges, AchievementFlawless) {
		t.Fatalf("expected %s when every submission validated, got %v", AchievementFlawless, badges)
	}
}

func TestEvaluateFinalEmptyHistory(t *testing.T) {
	p := NewParticipant("tester")
	badges := EvaluateFinal(p, false)
	if len(badges) != 0 {
		t.Fatalf("expected no badges for an empty history, got %v", badges)
	}
}
