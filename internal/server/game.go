package server

import "slices"

// The board is a 5×5 grid stored positionally: assignment position p maps
// to row p/5, column p%5 (row-major).
const boardSize = 5

// GameOutcome is embedded in the task-claim response. winner_id is 0 and
// win_type empty while the game is running; draw_usernames is set only
// for win_type "draw".
type GameOutcome struct {
	GameFinished   bool     `json:"game_finished"`
	WinType        string   `json:"win_type,omitempty"`
	WinnerID       int64    `json:"winner_id,omitempty"`
	WinnerUsername string   `json:"winner_username,omitempty"`
	WinnerTiles    int      `json:"winner_tiles,omitempty"`
	DrawUsernames  []string `json:"draw_usernames,omitempty"`
	DrawTiles      int      `json:"draw_tiles,omitempty"`
}

const (
	winBingo     = "bingo"
	winMostTiles = "most_tiles"
	winDraw      = "draw"
)

// evaluateBoard inspects a full board snapshot and decides whether the
// game has ended. A line (row, column, or either diagonal) claimed
// entirely by one player is a bingo. With no bingo, a fully claimed
// board ends on tile count: a unique maximum wins most_tiles, a tie is
// a draw. Usernames are resolved by the caller.
func evaluateBoard(cells []Assignment) (winType string, winnerID int64, tiles int, tied []int64) {
	if len(cells) != boardCells {
		return "", 0, 0, nil
	}

	owner := func(row, col int) *int64 {
		return cells[row*boardSize+col].FinishedBy
	}

	var lines [][]*int64
	for i := 0; i < boardSize; i++ {
		var row, col []*int64
		for j := 0; j < boardSize; j++ {
			row = append(row, owner(i, j))
			col = append(col, owner(j, i))
		}
		lines = append(lines, row, col)
	}
	var diag, anti []*int64
	for i := 0; i < boardSize; i++ {
		diag = append(diag, owner(i, i))
		anti = append(anti, owner(i, boardSize-1-i))
	}
	lines = append(lines, diag, anti)

	counts := make(map[int64]int)
	claimed := 0
	for _, c := range cells {
		if c.FinishedBy != nil {
			claimed++
			counts[*c.FinishedBy]++
		}
	}

	for _, line := range lines {
		if uid, ok := lineOwner(line); ok {
			return winBingo, uid, counts[uid], nil
		}
	}

	if claimed < boardCells {
		return "", 0, 0, nil
	}

	best := 0
	for _, n := range counts {
		if n > best {
			best = n
		}
	}
	var leaders []int64
	for uid, n := range counts {
		if n == best {
			leaders = append(leaders, uid)
		}
	}
	if len(leaders) == 1 {
		return winMostTiles, leaders[0], best, nil
	}
	slices.Sort(leaders)
	return winDraw, 0, best, leaders
}

// lineOwner reports whether every cell of the line is claimed by the
// same player.
func lineOwner(line []*int64) (int64, bool) {
	if line[0] == nil {
		return 0, false
	}
	uid := *line[0]
	for _, c := range line[1:] {
		if c == nil || *c != uid {
			return 0, false
		}
	}
	return uid, true
}
