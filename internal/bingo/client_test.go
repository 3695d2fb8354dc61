package bingo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// loginOK pre-loads a client with a session so authed calls go through.
func loginOK(t *testing.T, c *Client) {
	t.Helper()
	require.NoError(t, c.tokens.Set(tokenKey, "tok-123"))
	require.NoError(t, c.tokens.Set(uidKey, "42"))
}

func errorBody(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"detail": %q}`, detail)
}

func TestLoginStoresSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-abc",
			"token_type":   "bearer",
			"id":           7,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, WithLogger(testLogger()))
	id, err := c.Login(context.Background(), "ana@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, UserID(7), id.UserID)
	assert.Equal(t, "tok-abc", id.Token)

	self, ok := c.Identity()
	require.True(t, ok)
	assert.Equal(t, UserID(7), self)

	require.NoError(t, c.Logout())
	_, ok = c.Identity()
	assert.False(t, ok)
}

func TestAuthedRequestCarriesToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	c := New(srv.URL, WithLogger(testLogger()))
	loginOK(t, c)

	_, err := c.ListRooms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

// An authed call with no stored token fails before any network traffic.
func TestAuthedWithoutToken(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := New(srv.URL, WithLogger(testLogger()))
	_, err := c.ListRooms(context.Background())
	assert.ErrorIs(t, err, ErrAuth)
	assert.Equal(t, int32(0), hits.Load())
}

func TestJoinRoomErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		detail string
		want   error
	}{
		{"wrong password", http.StatusUnauthorized, "Invalid room password", ErrWrongPassword},
		{"room full", http.StatusForbidden, "Room is full", ErrRoomFull},
		{"unknown room", http.StatusNotFound, "Room not found", ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				errorBody(w, tc.status, tc.detail)
			}))
			defer srv.Close()

			c := New(srv.URL, WithLogger(testLogger()))
			loginOK(t, c)

			_, err := c.JoinRoom(context.Background(), 1, "pw")
			require.ErrorIs(t, err, tc.want)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.detail, apiErr.Detail)
		})
	}
}

func TestFinishTaskErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		detail string
		want   error
	}{
		{"claim race lost", http.StatusForbidden, "Task already finished", ErrTaskFinished},
		{"game over", http.StatusTeapot, "Game is already finished", ErrGameOver},
		{"unknown assignment", http.StatusNotFound, "Assignment not found", ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				errorBody(w, tc.status, tc.detail)
			}))
			defer srv.Close()

			c := New(srv.URL, WithLogger(testLogger()))
			loginOK(t, c)

			_, err := c.FinishTask(context.Background(), 1, 9)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDefaultErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrAuth},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrServer},
		{http.StatusInternalServerError, ErrServer},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			errorBody(w, tc.status, "nope")
		}))

		c := New(srv.URL, WithLogger(testLogger()))
		loginOK(t, c)

		_, err := c.Profile(context.Background())
		assert.ErrorIs(t, err, tc.want, "status %d", tc.status)
		srv.Close()
	}
}

// Blank chat messages are rejected locally; the server never sees them.
func TestSendMessageBlankNoNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := New(srv.URL, WithLogger(testLogger()))
	loginOK(t, c)

	_, err := c.SendMessage(context.Background(), 1, "   \n\t ")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, int32(0), hits.Load())
}

func TestCreateRoomBlankName(t *testing.T) {
	c := New("http://unused.invalid", WithLogger(testLogger()))
	loginOK(t, c)

	_, err := c.CreateRoom(context.Background(), "  ", "", "Sport")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := New(srv.URL, WithLogger(testLogger()))
	loginOK(t, c)

	_, err := c.ListRooms(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
}

// A malformed success body degrades to the zero value instead of
// failing the call.
func TestMalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{not json`)
	}))
	defer srv.Close()

	c := New(srv.URL, WithLogger(testLogger()))
	loginOK(t, c)

	p, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Profile{}, p)
}

func TestListTasksDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rooms/3/tasks", r.URL.Path)
		fmt.Fprint(w, `[
			{"assignment_id": 1, "description": "Run 5k", "finished_by": null, "color": null},
			{"assignment_id": 2, "description": "Swim", "finished_by": 42, "color": "#ff0000"}
		]`)
	}))
	defer srv.Close()

	c := New(srv.URL, WithLogger(testLogger()))
	loginOK(t, c)

	cells, err := c.ListTasks(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, cells, 2)

	assert.False(t, cells[0].Finished())
	require.True(t, cells[1].Finished())
	assert.Equal(t, UserID(42), *cells[1].FinishedBy)
}
