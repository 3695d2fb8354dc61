package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

const maxRoomPlayers = 5

type RoomCreateRequest struct {
	Name       string `json:"name"`
	Password   string `json:"password"`
	Category   string `json:"category"`
	MaxPlayers int    `json:"max_players"`
}

type RoomJoinRequest struct {
	Password string `json:"password"`
}

func roomID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "roomID"), 10, 64)
}

func handleListRooms(store Store, cache *roomCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms, err := cache.list(r.Context(), store.ListRooms)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if rooms == nil {
			rooms = []RoomSummary{}
		}
		writeJSON(w, http.StatusOK, rooms)
	}
}

func handleCreateRoom(store Store, cache *roomCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)

		var req RoomCreateRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "room name is required")
			return
		}
		if req.Category != "Sport" && req.Category != "Nauka" {
			writeError(w, http.StatusBadRequest, "category must be Sport or Nauka")
			return
		}
		if req.MaxPlayers <= 0 || req.MaxPlayers > maxRoomPlayers {
			req.MaxPlayers = maxRoomPlayers
		}

		var hash string
		if req.Password != "" {
			h, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			hash = string(h)
		}

		room, err := store.CreateRoom(r.Context(), user.ID, req.Name, req.Category, hash, req.MaxPlayers)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		cache.invalidate(r.Context())
		writeJSON(w, http.StatusCreated, room)
	}
}

// handleJoinRoom admits the caller to a room. Checks run in a fixed,
// documented order: unknown room (404), capacity (403), password (401).
// A full room is rejected before the password is ever inspected.
// Re-joining as an existing member short-circuits all of it.
func handleJoinRoom(store Store, cache *roomCache, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)

		id, err := roomID(r)
		if err != nil {
			writeError(w, http.StatusNotFound, "Room not found")
			return
		}

		var req RoomJoinRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		room, err := store.RoomByID(r.Context(), id)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "Room not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		member, err := store.IsMember(r.Context(), id, user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if !member {
			if room.PlayersCount >= room.MaxPlayers {
				writeError(w, http.StatusForbidden, "Room is full")
				return
			}
			if room.PasswordHash != "" {
				if bcrypt.CompareHashAndPassword([]byte(room.PasswordHash), []byte(req.Password)) != nil {
					writeError(w, http.StatusUnauthorized, "Invalid room password")
					return
				}
			}

			color := memberPalette[room.PlayersCount%len(memberPalette)]
			err := store.AddMember(r.Context(), id, user.ID, color)
			if err != nil && !errors.Is(err, ErrAlreadyMember) {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}

			broker.Publish(id, RoomEvent{Type: "player_joined", UserID: user.ID, Username: user.Username})
			cache.invalidate(r.Context())
		}

		// Return the authoritative post-join snapshot, not the stale
		// listing entry the caller clicked.
		summary, err := store.RoomSummaryByID(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}
