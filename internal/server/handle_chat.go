package server

import (
	"net/http"
	"strings"
)

type MessageCreateRequest struct {
	Content string `json:"content"`
}

func handleListMessages(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room, ok := requireMember(w, r, store)
		if !ok {
			return
		}

		msgs, err := store.ListMessages(r.Context(), room.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if msgs == nil {
			msgs = []Message{}
		}
		writeJSON(w, http.StatusOK, msgs)
	}
}

func handleSendMessage(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)

		room, ok := requireMember(w, r, store)
		if !ok {
			return
		}

		var req MessageCreateRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Content = strings.TrimSpace(req.Content)
		if req.Content == "" {
			writeError(w, http.StatusBadRequest, "content is required")
			return
		}

		msg, err := store.CreateMessage(r.Context(), room.ID, user.ID, req.Content)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		broker.Publish(room.ID, RoomEvent{Type: "message", UserID: user.ID, Username: user.Username})
		writeJSON(w, http.StatusCreated, msg)
	}
}
