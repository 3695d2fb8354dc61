package roomsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskbingo/bingo/internal/bingo"
)

func TestCellIndexRoundTrip(t *testing.T) {
	for i := 0; i < BoardCells; i++ {
		row, col := CellPosition(i)
		assert.Equal(t, i, CellIndex(row, col))
		assert.Less(t, row, BoardSize)
		assert.Less(t, col, BoardSize)
	}
	assert.Equal(t, 0, CellIndex(0, 0))
	assert.Equal(t, 7, CellIndex(1, 2))
	assert.Equal(t, 24, CellIndex(4, 4))
}

func TestBoardReplaceSupersedes(t *testing.T) {
	var b Board

	// Before the first snapshot every cell lookup misses.
	_, ok := b.Cell(0)
	assert.False(t, ok)
	assert.Empty(t, b.Cells())

	first := make([]bingo.TaskAssignment, BoardCells)
	for i := range first {
		first[i] = bingo.TaskAssignment{AssignmentID: int64(i + 1)}
	}
	b.Replace(first)

	cell, ok := b.Cell(7)
	require.True(t, ok)
	assert.Equal(t, int64(8), cell.AssignmentID)
	assert.False(t, cell.Finished())

	// A new snapshot wholly replaces the old one.
	uid := bingo.UserID(5)
	second := make([]bingo.TaskAssignment, BoardCells)
	copy(second, first)
	second[7].FinishedBy = &uid
	b.Replace(second)

	cell, ok = b.Cell(7)
	require.True(t, ok)
	require.True(t, cell.Finished())
	assert.Equal(t, uid, *cell.FinishedBy)
}

func TestBoardCellsReturnsCopy(t *testing.T) {
	var b Board
	b.Replace([]bingo.TaskAssignment{{AssignmentID: 1}, {AssignmentID: 2}})

	out := b.Cells()
	out[0].AssignmentID = 999

	cell, ok := b.Cell(0)
	require.True(t, ok)
	assert.Equal(t, int64(1), cell.AssignmentID)
}

func TestBoardCellOutOfRange(t *testing.T) {
	var b Board
	b.Replace(make([]bingo.TaskAssignment, BoardCells))

	_, ok := b.Cell(-1)
	assert.False(t, ok)
	_, ok = b.Cell(BoardCells)
	assert.False(t, ok)
}
