package roomsync

import "github.com/taskbingo/bingo/internal/bingo"

// BoardSize is the side length of the square task board.
const BoardSize = 5

// BoardCells is the number of cells a full board snapshot carries.
const BoardCells = BoardSize * BoardSize

// CellIndex maps a (row, col) grid position to the row-major index used
// by the positional wire format.
func CellIndex(row, col int) int {
	return row*BoardSize + col
}

// CellPosition is the inverse of CellIndex.
func CellPosition(index int) (row, col int) {
	return index / BoardSize, index % BoardSize
}

// Board is the local view of the task grid. It holds nothing but the
// last server snapshot: Replace supersedes the previous state entirely,
// so the board is always exactly as stale as the last successful fetch
// and never accumulates drift. Claim state is server-authoritative; the
// board offers no way to modify a cell locally.
type Board struct {
	cells []bingo.TaskAssignment
}

// Replace installs a fresh snapshot.
func (b *Board) Replace(cells []bingo.TaskAssignment) {
	b.cells = cells
}

// Cell returns the assignment at the row-major index, or false when the
// snapshot does not cover it (e.g. before the first fetch).
func (b *Board) Cell(index int) (bingo.TaskAssignment, bool) {
	if index < 0 || index >= len(b.cells) {
		return bingo.TaskAssignment{}, false
	}
	return b.cells[index], true
}

// Cells returns a copy of the current snapshot.
func (b *Board) Cells() []bingo.TaskAssignment {
	out := make([]bingo.TaskAssignment, len(b.cells))
	copy(out, b.cells)
	return out
}
