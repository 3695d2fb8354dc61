package server

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// SeedDemo creates a demo account and an open room when the database has
// no users yet. Idempotent: does nothing otherwise.
func SeedDemo(ctx context.Context, logger *slog.Logger, store *SQLiteStore) error {
	if _, err := store.UserByEmail(ctx, "demo@bingo.local"); err == nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user, err := store.CreateUser(ctx, "demo@bingo.local", string(hash), "demo")
	if err != nil {
		return err
	}

	room, err := store.CreateRoom(ctx, user.ID, "Demo room", "Sport", "", maxRoomPlayers)
	if err != nil {
		return err
	}

	logger.Info("demo account and room seeded", "user_id", user.ID, "room_id", room.ID)
	return nil
}
