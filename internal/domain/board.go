package domain

import (
	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Grid is a rectangular board of single-grapheme cells
type Grid [][]string

// Offsets for the 8 neighbouring cells (orthogonal + diagonal)
var neighbourOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

var foldCaser = cases.Fold()

// NormalizeText applies canonical composition and case folding so that words
// and grid cells compare equal regardless of input form or letter case.
// Handles language-specific letter forms (e.g. Ħ folds to ħ).
func NormalizeText(s string) string {
	return foldCaser.String(norm.NFC.String(s))
}

// Graphemes splits s into user-perceived characters
func Graphemes(s string) []string {
	out := make([]string, 0, len(s))
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// GraphemeLength returns the number of user-perceived characters in s
func GraphemeLength(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// Validate checks that the grid is non-empty and rectangular
func (g Grid) Validate() error {
	if len(g) == 0 || len(g[0]) == 0 {
		return ErrInvalidGrid
	}
	cols := len(g[0])
	for _, row := range g {
		if len(row) != cols {
			return ErrInvalidGrid
		}
	}
	return nil
}

// WordOnBoard reports whether word traces a legal path on grid: starting at
// any cell matching the first grapheme, stepping to one of the 8 neighbouring
// cells for each subsequent grapheme, never revisiting a cell within the
// current path. Matching is case-insensitive and grapheme-aware. The grid is
// never mutated.
func WordOnBoard(word string, grid Grid) bool {
	if len(grid) == 0 {
		return false
	}

	target := Graphemes(NormalizeText(word))
	if len(target) == 0 {
		return false
	}

	// Normalize the board once up front; the search itself only compares.
	cells := make([][]string, len(grid))
	for r, row := range grid {
		cells[r] = make([]string, len(row))
		for c, cell := range row {
			cells[r][c] = NormalizeText(cell)
		}
	}

	visited := make([][]bool, len(cells))
	for r := range cells {
		visited[r] = make([]bool, len(cells[r]))
	}

	var search func(r, c, idx int) bool
	search = func(r, c, idx int) bool {
		if cells[r][c] != target[idx] {
			return false
		}
		if idx == len(target)-1 {
			return true
		}

		visited[r][c] = true
		for _, off := range neighbourOffsets {
			nr, nc := r+off[0], c+off[1]
			if nr < 0 || nr >= len(cells) || nc < 0 || nc >= len(cells[nr]) {
				continue
			}
			if visited[nr][nc] {
				continue
			}
			if search(nr, nc, idx+1) {
				visited[r][c] = false
				return true
			}
		}
		visited[r][c] = false

		return false
	}

	for r := range cells {
		for c := range cells[r] {
			if search(r, c, 0) {
				return true
			}
		}
	}
	return false
}
