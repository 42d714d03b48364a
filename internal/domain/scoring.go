package domain

// MinWordLength is the minimum grapheme length accepted at intake
const MinWordLength = 3

// WordScore maps a word's grapheme length to its point value. The table is a
// policy constant: 3-4 letters score 1, 5 scores 2, 6 scores 3, 7 scores 5,
// and every letter past 8 adds 2 on top of a base of 8.
func WordScore(word string) int {
	length := GraphemeLength(word)

	switch {
	case length <= 2:
		return 0
	case length <= 4:
		return 1
	case length == 5:
		return 2
	case length == 6:
		return 3
	case length == 7:
		return 5
	default:
		return 8 + 2*(length-8)
	}
}
