package domain

import (
	"strings"
	"testing"
)

func TestWordScoreTable(t *testing.T) {
	tests := []struct {
		length int
		want   int
	}{
		{1, 0},
		{2, 0},
		{3, 1},
		{4, 1},
		{5, 2},
		{6, 3},
		{7, 5},
		{8, 8},
		{9, 10},
		{10, 12},
		{12, 16},
	}

	for _, tt := range tests {
		word := strings.Repeat("a", tt.length)
		if got := WordScore(word); got != tt.want {
			t.Errorf("WordScore(len %d) = %d, want %d", tt.length, got, tt.want)
		}
	}
}

func TestWordScoreCountsGraphemes(t *testing.T) {
	// Multi-byte letters still count as one grapheme each.
	if got := WordScore("ħħħ"); got != 1 {
		t.Fatalf("WordScore(ħħħ) = %d, want 1", got)
	}
}

func TestWordScoreMonotonic(t *testing.T) {
	prev := 0
	for length := 1; length <= 20; length++ {
		got := WordScore(strings.Repeat("a", length))
		if got < prev {
			t.Fatalf("score decreased at length %d: %d < %d", length, got, prev)
		}
		prev = got
	}
}
