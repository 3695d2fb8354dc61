package roomsync

import (
	"fmt"
	"strings"

	"github.com/taskbingo/bingo/internal/bingo"
)

// Notice is a one-time, user-facing notification. Terminal marks the
// end of the game.
type Notice struct {
	Text     string
	Terminal bool
}

// InterpretOutcome turns a task-claim response into a notification.
// Pure: the same outcome and identity always yield the same notice. It
// returns false while the game is still running.
//
// Self/other classification compares winner and local identity as
// canonical UserID values, so numeric and string wire forms of the same
// id always classify the same way.
func InterpretOutcome(o bingo.GameOutcome, self bingo.UserID) (Notice, bool) {
	if !o.GameFinished {
		return Notice{}, false
	}

	isMe := o.WinnerID != 0 && o.WinnerID == self

	switch o.WinType {
	case bingo.WinBingo:
		if isMe {
			return Notice{
				Text:     fmt.Sprintf("You won! You got bingo. (Tiles claimed: %d)", o.WinnerTiles),
				Terminal: true,
			}, true
		}
		return Notice{
			Text:     fmt.Sprintf("Game over: %s got bingo. (Tiles claimed: %d)", o.WinnerUsername, o.WinnerTiles),
			Terminal: true,
		}, true

	case bingo.WinMostTiles:
		if isMe {
			return Notice{
				Text:     fmt.Sprintf("You won! You had the most tiles: %d.", o.WinnerTiles),
				Terminal: true,
			}, true
		}
		return Notice{
			Text:     fmt.Sprintf("Game over: %s won with the most tiles: %d.", o.WinnerUsername, o.WinnerTiles),
			Terminal: true,
		}, true

	case bingo.WinDraw:
		names := strings.Join(o.DrawUsernames, ", ")
		return Notice{
			Text:     fmt.Sprintf("Game ended in a draw. Most tiles (%d): %s.", o.DrawTiles, names),
			Terminal: true,
		}, true

	default:
		// An unknown or absent win_type still ends the game.
		return Notice{Text: "Game over.", Terminal: true}, true
	}
}
