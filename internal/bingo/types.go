package bingo

// Account is the public view of a registered user.
type Account struct {
	ID       UserID `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Identity is what a successful login yields: the bearer token plus the
// account id used for self/other comparisons.
type Identity struct {
	UserID UserID
	Token  string
}

// Profile is the account plus aggregate game stats.
type Profile struct {
	ID           UserID  `json:"id"`
	Email        string  `json:"email"`
	Username     string  `json:"username"`
	GamesPlayed  int     `json:"games_played"`
	GamesWon     int     `json:"games_won"`
	Winrate      float64 `json:"winrate"`
	RoomsCreated int     `json:"rooms_created"`
}

// RoomSummary is an immutable directory snapshot entry; each listing
// poll supersedes the previous one wholesale.
type RoomSummary struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	HasPassword  bool   `json:"has_password"`
	MaxPlayers   int    `json:"max_players"`
	PlayersCount int    `json:"players_count"`
}

// TaskAssignment is one board cell. The server returns cells
// positionally: the index in the response array is the row-major board
// position. FinishedBy is nil until a player claims the cell and, per
// the protocol, never reverts to nil afterwards.
type TaskAssignment struct {
	AssignmentID int64   `json:"assignment_id"`
	Description  string  `json:"description"`
	FinishedBy   *UserID `json:"finished_by"`
	Color        *string `json:"color"`
}

// Finished reports whether the cell has been claimed.
func (t TaskAssignment) Finished() bool { return t.FinishedBy != nil }

// ChatMessage is one chat feed entry.
type ChatMessage struct {
	ID        int64  `json:"id"`
	UserID    UserID `json:"user_id"`
	Username  string `json:"username"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// Game outcome kinds carried in win_type.
const (
	WinBingo     = "bingo"
	WinMostTiles = "most_tiles"
	WinDraw      = "draw"
)

// GameOutcome is embedded in a task-claim response. It is transient:
// interpreted once for a notification, never stored.
type GameOutcome struct {
	GameFinished   bool     `json:"game_finished"`
	WinType        string   `json:"win_type"`
	WinnerID       UserID   `json:"winner_id"`
	WinnerUsername string   `json:"winner_username"`
	WinnerTiles    int      `json:"winner_tiles"`
	DrawUsernames  []string `json:"draw_usernames"`
	DrawTiles      int      `json:"draw_tiles"`
}
