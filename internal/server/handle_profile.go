package server

import (
	"net/http"
	"strings"
)

// ProfileResponse is the account plus aggregate game stats.
type ProfileResponse struct {
	ID           int64   `json:"id"`
	Email        string  `json:"email"`
	Username     string  `json:"username"`
	GamesPlayed  int     `json:"games_played"`
	GamesWon     int     `json:"games_won"`
	Winrate      float64 `json:"winrate"`
	RoomsCreated int     `json:"rooms_created"`
}

type ProfileUpdateRequest struct {
	Username string `json:"username"`
}

func profileResponse(user User, roomsCreated int) ProfileResponse {
	winrate := 0.0
	if user.GamesPlayed > 0 {
		winrate = float64(user.GamesWon) / float64(user.GamesPlayed)
	}
	return ProfileResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		GamesPlayed:  user.GamesPlayed,
		GamesWon:     user.GamesWon,
		Winrate:      winrate,
		RoomsCreated: roomsCreated,
	}
}

func handleProfile(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)

		owned, err := store.CountRoomsOwned(r.Context(), user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, profileResponse(user, owned))
	}
}

func handleProfileUpdate(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)

		var req ProfileUpdateRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" {
			writeError(w, http.StatusBadRequest, "username is required")
			return
		}

		if err := store.UpdateUsername(r.Context(), user.ID, req.Username); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		user.Username = req.Username

		owned, err := store.CountRoomsOwned(r.Context(), user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, profileResponse(user, owned))
	}
}
