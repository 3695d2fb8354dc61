package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const boardCells = boardSize * boardSize

// memberPalette holds one color per seat; a member's color follows from
// join order, so it is stable for the life of the room.
var memberPalette = [...]string{"#22c55e", "#ef4444", "#3b82f6", "#eab308", "#a855f7"}

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) CreateUser(ctx context.Context, email, passwordHash, username string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, username)
		VALUES (?, ?, ?)
		RETURNING id, email, COALESCE(username, '')
	`, email, passwordHash, username).Scan(&u.ID, &u.Email, &u.Username)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return User{}, ErrDuplicateEmail
	}
	return u, err
}

func (s *SQLiteStore) UserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, COALESCE(username, ''), password_hash, games_played, games_won
		FROM users WHERE email = ?
	`, email).Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.GamesPlayed, &u.GamesWon)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *SQLiteStore) UserByID(ctx context.Context, id int64) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, COALESCE(username, ''), password_hash, games_played, games_won
		FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.GamesPlayed, &u.GamesWon)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *SQLiteStore) UpdateUsername(ctx context.Context, id int64, username string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET username = ? WHERE id = ?`, username, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) CountRoomsOwned(ctx context.Context, userID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM rooms WHERE owner_id = ?
	`, userID).Scan(&count)
	return count, err
}

func (s *SQLiteStore) ListRooms(ctx context.Context) ([]RoomSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.name, r.category,
		       r.password_hash IS NOT NULL,
		       r.max_players,
		       (SELECT COUNT(*) FROM room_members m WHERE m.room_id = r.id)
		FROM rooms r
		ORDER BY r.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []RoomSummary
	for rows.Next() {
		var r RoomSummary
		if err := rows.Scan(&r.ID, &r.Name, &r.Category, &r.HasPassword, &r.MaxPlayers, &r.PlayersCount); err != nil {
			return nil, err
		}
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

// CreateRoom inserts the room, auto-joins the owner, and deals the board:
// 25 assignments sampled from the category's task pool, positions 0..24
// in row-major order.
func (s *SQLiteStore) CreateRoom(ctx context.Context, ownerID int64, name, category, passwordHash string, maxPlayers int) (RoomSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RoomSummary{}, err
	}
	defer tx.Rollback()

	var hash any
	if passwordHash != "" {
		hash = passwordHash
	}

	var roomID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO rooms (name, category, password_hash, max_players, owner_id)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`, name, category, hash, maxPlayers, ownerID).Scan(&roomID)
	if err != nil {
		return RoomSummary{}, fmt.Errorf("inserting room: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO room_members (room_id, user_id, color) VALUES (?, ?, ?)
	`, roomID, ownerID, memberPalette[0])
	if err != nil {
		return RoomSummary{}, fmt.Errorf("adding owner: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO assignments (room_id, task_id, position)
		SELECT ?, id, ROW_NUMBER() OVER () - 1
		FROM (SELECT id FROM tasks WHERE category = ? ORDER BY RANDOM() LIMIT ?)
	`, roomID, category, boardCells)
	if err != nil {
		return RoomSummary{}, fmt.Errorf("dealing board: %w", err)
	}
	if n, _ := res.RowsAffected(); n != boardCells {
		return RoomSummary{}, fmt.Errorf("task pool too small for category %s: dealt %d cells", category, n)
	}

	if err := tx.Commit(); err != nil {
		return RoomSummary{}, err
	}

	return RoomSummary{
		ID:           roomID,
		Name:         name,
		Category:     category,
		HasPassword:  passwordHash != "",
		MaxPlayers:   maxPlayers,
		PlayersCount: 1,
	}, nil
}

func (s *SQLiteStore) RoomByID(ctx context.Context, id int64) (roomRow, error) {
	var r roomRow
	var hash sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT r.id, r.name, r.category, r.password_hash, r.max_players, r.done, r.owner_id,
		       (SELECT COUNT(*) FROM room_members m WHERE m.room_id = r.id)
		FROM rooms r WHERE r.id = ?
	`, id).Scan(&r.ID, &r.Name, &r.Category, &hash, &r.MaxPlayers, &r.Done, &r.OwnerID, &r.PlayersCount)
	if errors.Is(err, sql.ErrNoRows) {
		return roomRow{}, ErrNotFound
	}
	r.PasswordHash = hash.String
	return r, err
}

func (s *SQLiteStore) RoomSummaryByID(ctx context.Context, id int64) (RoomSummary, error) {
	r, err := s.RoomByID(ctx, id)
	if err != nil {
		return RoomSummary{}, err
	}
	return RoomSummary{
		ID:           r.ID,
		Name:         r.Name,
		Category:     r.Category,
		HasPassword:  r.PasswordHash != "",
		MaxPlayers:   r.MaxPlayers,
		PlayersCount: r.PlayersCount,
	}, nil
}

func (s *SQLiteStore) IsMember(ctx context.Context, roomID, userID int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM room_members WHERE room_id = ? AND user_id = ?
	`, roomID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *SQLiteStore) AddMember(ctx context.Context, roomID, userID int64, color string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO room_members (room_id, user_id, color) VALUES (?, ?, ?)
	`, roomID, userID, color)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrAlreadyMember
	}
	return err
}

func (s *SQLiteStore) ListAssignments(ctx context.Context, roomID int64) ([]Assignment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.position, t.description, a.finishing_uid, m.color
		FROM assignments a
		JOIN tasks t ON t.id = a.task_id
		LEFT JOIN room_members m ON m.room_id = a.room_id AND m.user_id = a.finishing_uid
		WHERE a.room_id = ?
		ORDER BY a.position
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		var a Assignment
		var uid sql.NullInt64
		var color sql.NullString
		if err := rows.Scan(&a.ID, &a.Position, &a.Description, &uid, &color); err != nil {
			return nil, err
		}
		if uid.Valid {
			a.FinishedBy = &uid.Int64
		}
		if color.Valid {
			a.Color = &color.String
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ClaimAssignment marks the cell finished by userID. The conditional
// update makes concurrent claims race-safe: exactly one writer wins.
func (s *SQLiteStore) ClaimAssignment(ctx context.Context, roomID, assignmentID, userID int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE assignments SET finishing_uid = ?
		WHERE id = ? AND room_id = ? AND finishing_uid IS NULL
	`, userID, assignmentID, roomID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return nil
	}

	var claimed sql.NullInt64
	err = s.db.QueryRowContext(ctx, `
		SELECT finishing_uid FROM assignments WHERE id = ? AND room_id = ?
	`, assignmentID, roomID).Scan(&claimed)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrAlreadyFinished
}

// FinishGame marks the room done, records the winner when there is one,
// and bumps per-member stats.
func (s *SQLiteStore) FinishGame(ctx context.Context, roomID int64, winnerID *int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var winner any
	if winnerID != nil {
		winner = *winnerID
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE rooms SET done = 1, winner_uid = ? WHERE id = ?
	`, winner, roomID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE users SET games_played = games_played + 1
		WHERE id IN (SELECT user_id FROM room_members WHERE room_id = ?)
	`, roomID); err != nil {
		return err
	}

	if winnerID != nil {
		if _, err := tx.ExecContext(ctx, `
			UPDATE users SET games_won = games_won + 1 WHERE id = ?
		`, *winnerID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) ListMessages(ctx context.Context, roomID int64) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.user_id, COALESCE(u.username, ''), m.content, m.created_at
		FROM messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.room_id = ?
		ORDER BY m.created_at, m.id
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.Username, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateMessage(ctx context.Context, roomID, userID int64, content string) (Message, error) {
	var m Message
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO messages (room_id, user_id, content)
		VALUES (?, ?, ?)
		RETURNING id, user_id, content, created_at
	`, roomID, userID, content).Scan(&m.ID, &m.UserID, &m.Content, &m.CreatedAt)
	if err != nil {
		return Message{}, err
	}
	err = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(username, '') FROM users WHERE id = ?
	`, userID).Scan(&m.Username)
	return m, err
}
