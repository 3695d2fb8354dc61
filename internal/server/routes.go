package server

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, store Store, db *sql.DB, rdb *redis.Client, jwtSecret []byte) {
	broker := NewBroker()
	cache := newRoomCache(rdb, logger)

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Bingo API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db, rdb))

	r.Post("/auth/register", handleRegister(store))
	r.Post("/auth/login", handleLogin(store, jwtSecret))

	// Everything below carries a Bearer token.
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(jwtSecret, store))

		r.Get("/profile/me", handleProfile(store))
		r.Put("/profile/me", handleProfileUpdate(store))

		r.Get("/rooms", handleListRooms(store, cache))
		r.Post("/rooms", handleCreateRoom(store, cache))
		r.Post("/rooms/{roomID}/join", handleJoinRoom(store, cache, broker))

		r.Get("/rooms/{roomID}/tasks", handleListTasks(store))
		// Semantically an action; GET per the established client contract.
		r.Get("/rooms/{roomID}/tasks/{taskID}/finished", handleFinishTask(store, broker, logger))

		r.Get("/rooms/{roomID}/messages", handleListMessages(store))
		r.Post("/rooms/{roomID}/messages", handleSendMessage(store, broker))

		r.Get("/rooms/{roomID}/events", handleEvents(store, broker))
	})
}
