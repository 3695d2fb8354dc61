package server

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrAlreadyFinished = errors.New("task already finished")
	ErrAlreadyMember   = errors.New("already a member")
	ErrNotMember       = errors.New("not a member")
)

// User is an account row. PasswordHash never leaves the store layer
// except for login verification.
type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	GamesPlayed  int
	GamesWon     int
}

// RoomSummary is the directory listing entry.
type RoomSummary struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	HasPassword  bool   `json:"has_password"`
	MaxPlayers   int    `json:"max_players"`
	PlayersCount int    `json:"players_count"`
}

// roomRow is the full room record, including fields the listing omits.
type roomRow struct {
	ID           int64
	Name         string
	Category     string
	PasswordHash string
	MaxPlayers   int
	Done         bool
	OwnerID      int64
	PlayersCount int
}

// Assignment is one board cell, in row-major position order.
type Assignment struct {
	ID          int64
	Position    int
	Description string
	FinishedBy  *int64
	Color       *string
}

// Message is one chat row, joined with the author's username.
type Message struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type Store interface {
	CreateUser(ctx context.Context, email, passwordHash, username string) (User, error)
	UserByEmail(ctx context.Context, email string) (User, error)
	UserByID(ctx context.Context, id int64) (User, error)
	UpdateUsername(ctx context.Context, id int64, username string) error
	CountRoomsOwned(ctx context.Context, userID int64) (int, error)

	ListRooms(ctx context.Context) ([]RoomSummary, error)
	CreateRoom(ctx context.Context, ownerID int64, name, category, passwordHash string, maxPlayers int) (RoomSummary, error)
	RoomByID(ctx context.Context, id int64) (roomRow, error)
	RoomSummaryByID(ctx context.Context, id int64) (RoomSummary, error)
	IsMember(ctx context.Context, roomID, userID int64) (bool, error)
	AddMember(ctx context.Context, roomID, userID int64, color string) error

	ListAssignments(ctx context.Context, roomID int64) ([]Assignment, error)
	ClaimAssignment(ctx context.Context, roomID, assignmentID, userID int64) error
	FinishGame(ctx context.Context, roomID int64, winnerID *int64) error

	ListMessages(ctx context.Context, roomID int64) ([]Message, error)
	CreateMessage(ctx context.Context, roomID, userID int64, content string) (Message, error)
}
