package roomsync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskbingo/bingo/internal/bingo"
)

// selfID is the account the test client logs in as.
const selfID = bingo.UserID(42)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newLoggedInClient wires a login endpoint into the mux, serves it, and
// returns a client already holding a session for selfID.
func newLoggedInClient(t *testing.T, mux *http.ServeMux) *bingo.Client {
	t.Helper()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"access_token": "tok-test", "token_type": "bearer", "id": %d}`, selfID)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := bingo.New(srv.URL, bingo.WithLogger(testLogger()))
	_, err := c.Login(context.Background(), "self@example.com", "pw")
	require.NoError(t, err)
	return c
}

// boardJSON renders a 25-cell board where claims maps cell position to
// the claiming player.
func boardJSON(t *testing.T, claims map[int]bingo.UserID) string {
	t.Helper()

	cells := make([]map[string]any, BoardCells)
	for i := range cells {
		cell := map[string]any{
			"assignment_id": i + 1,
			"description":   fmt.Sprintf("task %d", i),
			"finished_by":   nil,
			"color":         nil,
		}
		if uid, ok := claims[i]; ok {
			cell["finished_by"] = uid
			cell["color"] = "#e74c3c"
		}
		cells[i] = cell
	}

	b, err := json.Marshal(cells)
	require.NoError(t, err)
	return string(b)
}

func messageJSON(id int64, from bingo.UserID, content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":         id,
		"user_id":    from,
		"username":   fmt.Sprintf("user%d", from),
		"content":    content,
		"created_at": "2026-08-30T10:00:00Z",
	})
	return string(b)
}
