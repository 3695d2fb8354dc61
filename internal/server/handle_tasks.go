package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// TaskView is one board cell as the client sees it. The response array
// is positional: index i is board row i/5, column i%5.
type TaskView struct {
	AssignmentID int64   `json:"assignment_id"`
	Description  string  `json:"description"`
	FinishedBy   *int64  `json:"finished_by"`
	Color        *string `json:"color"`
}

// FinishResponse acknowledges a claim and embeds the game outcome, which
// is zero-valued while the game continues.
type FinishResponse struct {
	AssignmentID int64 `json:"assignment_id"`
	GameOutcome
}

// requireMember resolves the room and checks membership, answering the
// error response itself when the caller may not proceed.
func requireMember(w http.ResponseWriter, r *http.Request, store Store) (roomRow, bool) {
	id, err := roomID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Room not found")
		return roomRow{}, false
	}

	room, err := store.RoomByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "Room not found")
		return roomRow{}, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return roomRow{}, false
	}

	member, err := store.IsMember(r.Context(), room.ID, userFrom(r).ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return roomRow{}, false
	}
	if !member {
		writeError(w, http.StatusForbidden, "Not a member of this room")
		return roomRow{}, false
	}
	return room, true
}

func handleListTasks(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room, ok := requireMember(w, r, store)
		if !ok {
			return
		}

		cells, err := store.ListAssignments(r.Context(), room.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]TaskView, 0, len(cells))
		for _, c := range cells {
			out = append(out, TaskView{
				AssignmentID: c.ID,
				Description:  c.Description,
				FinishedBy:   c.FinishedBy,
				Color:        c.Color,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// handleFinishTask claims a cell. 403 when another player got there
// first, 418 when the game is already over; an accepted claim triggers
// win evaluation over the fresh board.
func handleFinishTask(store Store, broker *Broker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)

		room, ok := requireMember(w, r, store)
		if !ok {
			return
		}

		taskID, err := strconv.ParseInt(chi.URLParam(r, "taskID"), 10, 64)
		if err != nil {
			writeError(w, http.StatusNotFound, "Assignment not found")
			return
		}

		if room.Done {
			writeError(w, http.StatusTeapot, "Game is already finished")
			return
		}

		err = store.ClaimAssignment(r.Context(), room.ID, taskID, user.ID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "Assignment not found")
			return
		}
		if errors.Is(err, ErrAlreadyFinished) {
			writeError(w, http.StatusForbidden, "Task already finished")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		broker.Publish(room.ID, RoomEvent{Type: "task_claimed", UserID: user.ID, Username: user.Username, AssignmentID: taskID})

		cells, err := store.ListAssignments(r.Context(), room.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := FinishResponse{AssignmentID: taskID}

		winType, winnerID, tiles, tied := evaluateBoard(cells)
		if winType != "" {
			outcome, err := resolveOutcome(r, store, winType, winnerID, tiles, tied)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}

			var winner *int64
			if winType != winDraw {
				winner = &winnerID
			}
			if err := store.FinishGame(r.Context(), room.ID, winner); err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}

			logger.Info("game finished",
				"room_id", room.ID,
				"win_type", winType,
				"winner_id", winnerID,
			)
			broker.Publish(room.ID, RoomEvent{Type: "game_finished", UserID: winnerID})

			resp.GameOutcome = outcome
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// resolveOutcome fills in the usernames the win evaluation only has ids
// for.
func resolveOutcome(r *http.Request, store Store, winType string, winnerID int64, tiles int, tied []int64) (GameOutcome, error) {
	out := GameOutcome{GameFinished: true, WinType: winType}

	switch winType {
	case winDraw:
		out.DrawTiles = tiles
		for _, uid := range tied {
			u, err := store.UserByID(r.Context(), uid)
			if err != nil {
				return GameOutcome{}, err
			}
			out.DrawUsernames = append(out.DrawUsernames, u.Username)
		}
	default:
		u, err := store.UserByID(r.Context(), winnerID)
		if err != nil {
			return GameOutcome{}, err
		}
		out.WinnerID = winnerID
		out.WinnerUsername = u.Username
		out.WinnerTiles = tiles
	}
	return out, nil
}
