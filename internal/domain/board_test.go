package domain

import "testing"

func testGrid() Grid {
	return Grid{
		{"K", "L", "B"},
		{"M", "S", "T"},
		{"R", "Ħ", "N"},
	}
}

func TestWordOnBoardTopRow(t *testing.T) {
	if !WordOnBoard("KLB", testGrid()) {
		t.Fatal("expected KLB to trace the top row")
	}
}

func TestWordOnBoardCaseInsensitive(t *testing.T) {
	if !WordOnBoard("klb", testGrid()) {
		t.Fatal("expected lowercase klb to match")
	}
	if !WordOnBoard("Klb", testGrid()) {
		t.Fatal("expected mixed-case Klb to match")
	}
}

func TestWordOnBoardDiagonal(t *testing.T) {
	// K(0,0) -> S(1,1) -> N(2,2)
	if !WordOnBoard("KSN", testGrid()) {
		t.Fatal("expected diagonal KSN to validate")
	}
}

func TestWordOnBoardNoCellReuse(t *testing.T) {
	// Only one K on the board: KLK would need it twice.
	if WordOnBoard("KLK", testGrid()) {
		t.Fatal("expected KLK to fail, K cannot be reused")
	}
	if WordOnBoard("KK", Grid{{"K"}}) {
		t.Fatal("expected KK to fail on a single-cell grid")
	}
}

func TestWordOnBoardNonAdjacent(t *testing.T) {
	// K(0,0) and R(2,0) are two rows apart.
	if WordOnBoard("KR", testGrid()) {
		t.Fatal("expected KR to fail, cells are not adjacent")
	}
}

func TestWordOnBoardFoldedLetterForms(t *testing.T) {
	// S(1,1) -> Ħ(2,1) -> N(2,2); the submitted word uses the lowercase form.
	if !WordOnBoard("sħn", testGrid()) {
		t.Fatal("expected sħn to match the grid's Ħ cell")
	}
}

func TestWordOnBoardEmptyInputs(t *testing.T) {
	if WordOnBoard("", testGrid()) {
		t.Fatal("expected empty word to fail")
	}
	if WordOnBoard("KLB", nil) {
		t.Fatal("expected nil grid to fail")
	}
}

func TestWordOnBoardBacktracking(t *testing.T) {
	// SLB needs S(1,1) -> L(0,1) -> B(0,2); a first attempt through T must
	// backtrack and release visited cells.
	if !WordOnBoard("SLB", testGrid()) {
		t.Fatal("expected SLB to validate via backtracking")
	}
}

func TestWordOnBoardDoesNotMutateGrid(t *testing.T) {
	grid := testGrid()
	WordOnBoard("KLB", grid)
	want := testGrid()
	for r := range want {
		for c := range want[r] {
			if grid[r][c] != want[r][c] {
				t.Fatalf("grid mutated at (%d,%d): got %q, want %q", r, c, grid[r][c], want[r][c])
			}
		}
	}
}

func TestGridValidate(t *testing.T) {
	if err := testGrid().Validate(); err != nil {
		t.Fatalf("expected valid grid, got %v", err)
	}
	if err := (Grid{}).Validate(); err != ErrInvalidGrid {
		t.Fatalf("expected ErrInvalidGrid for empty grid, got %v", err)
	}
	ragged := Grid{{"A", "B"}, {"C"}}
	if err := ragged.Validate(); err != ErrInvalidGrid {
		t.Fatalf("expected ErrInvalidGrid for ragged grid, got %v", err)
	}
}
