package server

import (
	"slices"
	"testing"
)

// board builds a 25-cell snapshot where owners maps cell position to the
// claiming player; unlisted positions stay unclaimed.
func board(owners map[int]int64) []Assignment {
	cells := make([]Assignment, boardCells)
	for i := range cells {
		cells[i] = Assignment{ID: int64(i + 1), Position: i}
		if uid, ok := owners[i]; ok {
			u := uid
			cells[i].FinishedBy = &u
		}
	}
	return cells
}

func TestEvaluateBoardRunning(t *testing.T) {
	winType, _, _, _ := evaluateBoard(board(map[int]int64{0: 1, 6: 2, 12: 1}))
	if winType != "" {
		t.Errorf("sparse board: expected no outcome, got %q", winType)
	}

	// A complete line with mixed owners is not a bingo.
	winType, _, _, _ = evaluateBoard(board(map[int]int64{0: 1, 1: 1, 2: 2, 3: 1, 4: 1}))
	if winType != "" {
		t.Errorf("mixed row: expected no outcome, got %q", winType)
	}
}

func TestEvaluateBoardBingo(t *testing.T) {
	cases := []struct {
		name      string
		positions []int
	}{
		{"row", []int{5, 6, 7, 8, 9}},
		{"column", []int{2, 7, 12, 17, 22}},
		{"diagonal", []int{0, 6, 12, 18, 24}},
		{"anti-diagonal", []int{4, 8, 12, 16, 20}},
	}
	for _, tc := range cases {
		owners := map[int]int64{1: 2, 23: 2} // noise from another player
		for _, p := range tc.positions {
			owners[p] = 7
		}

		winType, winnerID, tiles, _ := evaluateBoard(board(owners))
		if winType != winBingo {
			t.Errorf("%s: expected bingo, got %q", tc.name, winType)
			continue
		}
		if winnerID != 7 {
			t.Errorf("%s: expected winner 7, got %d", tc.name, winnerID)
		}
		if tiles != len(tc.positions) {
			t.Errorf("%s: expected %d tiles, got %d", tc.name, len(tc.positions), tiles)
		}
	}
}

// lineResidue spreads claims so every row, column, and diagonal mixes
// all five residues: the slope 2 is invertible mod 5, so no line can be
// uniform and no bingo is possible.
func lineResidue(i int) int {
	return (i%boardSize + 2*(i/boardSize)) % boardSize
}

func TestEvaluateBoardMostTiles(t *testing.T) {
	// Full bingo-free board split 15/10.
	owners := make(map[int]int64)
	for i := 0; i < boardCells; i++ {
		owners[i] = 2
		if lineResidue(i) < 3 {
			owners[i] = 1
		}
	}

	winType, winnerID, tiles, tied := evaluateBoard(board(owners))
	if winType != winMostTiles {
		t.Fatalf("expected most_tiles, got %q", winType)
	}
	if winnerID != 1 {
		t.Errorf("expected winner 1, got %d", winnerID)
	}
	if tiles != 15 {
		t.Errorf("expected 15 tiles, got %d", tiles)
	}
	if tied != nil {
		t.Errorf("expected no tie, got %v", tied)
	}
}

func TestEvaluateBoardDraw(t *testing.T) {
	// Full bingo-free board split 10/10/5.
	owners := make(map[int]int64)
	for i := 0; i < boardCells; i++ {
		switch m := lineResidue(i); {
		case m < 2:
			owners[i] = 1
		case m < 4:
			owners[i] = 2
		default:
			owners[i] = 3
		}
	}

	winType, winnerID, tiles, tied := evaluateBoard(board(owners))
	if winType != winDraw {
		t.Fatalf("expected draw, got %q", winType)
	}
	if winnerID != 0 {
		t.Errorf("draw carries no winner, got %d", winnerID)
	}
	if tiles != 10 {
		t.Errorf("expected 10 tiles apiece, got %d", tiles)
	}
	if !slices.Equal(tied, []int64{1, 2}) {
		t.Errorf("expected tied players [1 2], got %v", tied)
	}
}

func TestEvaluateBoardShortSnapshot(t *testing.T) {
	winType, _, _, _ := evaluateBoard(nil)
	if winType != "" {
		t.Errorf("expected no outcome for a short snapshot, got %q", winType)
	}
}
