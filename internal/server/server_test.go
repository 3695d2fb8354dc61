package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/taskbingo/bingo/internal/database"
	"github.com/taskbingo/bingo/internal/migrations"
)

const testSecret = "test-secret"

func testRouter(t *testing.T) *chi.Mux {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	addRoutes(r, logger, NewSQLiteStore(db), db, nil, []byte(testSecret))
	return r
}

// doJSON runs one request against the router. A non-empty token is sent
// as a bearer credential; a non-nil body is marshalled as JSON.
func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// signUp registers and logs in a fresh account, returning the bearer
// token and account id.
func signUp(t *testing.T, r http.Handler, email, username string) (string, int64) {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/auth/register", "", RegisterRequest{
		Email:    email,
		Password: "secret123",
		Username: username,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", email, w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/auth/login", "", LoginRequest{
		Email:    email,
		Password: "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", email, w.Code, w.Body.String())
	}

	var resp LoginResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.AccessToken == "" {
		t.Fatalf("login %s: expected an access token", email)
	}
	return resp.AccessToken, resp.ID
}

// createRoom makes a room owned by the token's account and returns it.
func createRoom(t *testing.T, r http.Handler, token string, req RoomCreateRequest) RoomSummary {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/rooms", token, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create room: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var room RoomSummary
	json.NewDecoder(w.Body).Decode(&room)
	return room
}

// detail extracts the error body's detail field.
func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	json.NewDecoder(w.Body).Decode(&body)
	return body.Detail
}

func roomPath(roomID int64, suffix string) string {
	return fmt.Sprintf("/rooms/%d%s", roomID, suffix)
}
