package bingo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// TokenStore keys for the active session.
const (
	tokenKey = "token"
	uidKey   = "uid"
)

// Client is the typed REST client for the bingo backend. All methods
// take a context and return errors from the package taxonomy; see
// errors.go.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	logger  *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithTokenStore(s TokenStore) Option {
	return func(c *Client) { c.tokens = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		tokens:  NewMemoryTokenStore(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register creates an account. The session is not logged in afterwards;
// call Login.
func (c *Client) Register(ctx context.Context, email, password, username string) (Account, error) {
	body := map[string]string{"email": email, "password": password, "username": username}
	var out Account
	err := c.do(ctx, http.MethodPost, "/auth/register", body, &out, false, nil)
	return out, err
}

// Login obtains a bearer token and stores it, plus the account id,
// through the TokenStore.
func (c *Client) Login(ctx context.Context, email, password string) (Identity, error) {
	body := map[string]string{"email": email, "password": password}
	var out struct {
		AccessToken string `json:"access_token"`
		ID          UserID `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out, false, nil); err != nil {
		return Identity{}, err
	}
	if err := c.tokens.Set(tokenKey, out.AccessToken); err != nil {
		return Identity{}, fmt.Errorf("storing token: %w", err)
	}
	if err := c.tokens.Set(uidKey, out.ID.String()); err != nil {
		return Identity{}, fmt.Errorf("storing uid: %w", err)
	}
	return Identity{UserID: out.ID, Token: out.AccessToken}, nil
}

// Logout drops the stored credentials. In-flight requests are not
// cancelled; replays simply fail authorization.
func (c *Client) Logout() error {
	if err := c.tokens.Remove(tokenKey); err != nil {
		return err
	}
	return c.tokens.Remove(uidKey)
}

// Identity returns the logged-in user id, or false when there is no
// session.
func (c *Client) Identity() (UserID, bool) {
	raw, err := c.tokens.Get(uidKey)
	if err != nil || raw == "" {
		return 0, false
	}
	id, err := ParseUserID(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (c *Client) Profile(ctx context.Context) (Profile, error) {
	var out Profile
	err := c.do(ctx, http.MethodGet, "/profile/me", nil, &out, true, nil)
	return out, err
}

func (c *Client) UpdateProfile(ctx context.Context, username string) (Profile, error) {
	var out Profile
	err := c.do(ctx, http.MethodPut, "/profile/me", map[string]string{"username": username}, &out, true, nil)
	return out, err
}

// ListRooms fetches the full directory snapshot.
func (c *Client) ListRooms(ctx context.Context) ([]RoomSummary, error) {
	var out []RoomSummary
	err := c.do(ctx, http.MethodGet, "/rooms", nil, &out, true, nil)
	return out, err
}

// CreateRoom creates a room and auto-joins the creator. An empty name
// is rejected locally without a network call.
func (c *Client) CreateRoom(ctx context.Context, name, password, category string) (RoomSummary, error) {
	if strings.TrimSpace(name) == "" {
		return RoomSummary{}, apiErr(ErrValidation, 0, "room name is required")
	}
	body := map[string]any{
		"name":        name,
		"password":    password,
		"category":    category,
		"max_players": 5,
	}
	var out RoomSummary
	err := c.do(ctx, http.MethodPost, "/rooms", body, &out, true, nil)
	return out, err
}

// JoinRoom joins a room, optionally with a password. The returned
// summary is the authoritative post-join snapshot; callers must use it
// instead of the listing entry that prompted the join, since player
// counts may have changed concurrently.
func (c *Client) JoinRoom(ctx context.Context, roomID int64, password string) (RoomSummary, error) {
	var out RoomSummary
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/rooms/%d/join", roomID),
		map[string]string{"password": password}, &out, true,
		func(status int, detail string) error {
			switch status {
			case http.StatusUnauthorized:
				return apiErr(ErrWrongPassword, status, detail)
			case http.StatusForbidden:
				return apiErr(ErrRoomFull, status, detail)
			}
			return nil
		})
	return out, err
}

// ListTasks fetches the 25 board cells in row-major order.
func (c *Client) ListTasks(ctx context.Context, roomID int64) ([]TaskAssignment, error) {
	var out []TaskAssignment
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/rooms/%d/tasks", roomID), nil, &out, true, nil)
	return out, err
}

// FinishTask claims a cell and returns the embedded game outcome.
// ErrTaskFinished (another player won the race) and ErrGameOver are
// expected, non-fatal conditions.
func (c *Client) FinishTask(ctx context.Context, roomID, assignmentID int64) (GameOutcome, error) {
	var out GameOutcome
	err := c.do(ctx, http.MethodGet,
		fmt.Sprintf("/rooms/%d/tasks/%d/finished", roomID, assignmentID), nil, &out, true,
		func(status int, detail string) error {
			switch status {
			case http.StatusForbidden:
				return apiErr(ErrTaskFinished, status, detail)
			case http.StatusTeapot:
				return apiErr(ErrGameOver, status, detail)
			}
			return nil
		})
	return out, err
}

// ListMessages fetches the full chat snapshot.
func (c *Client) ListMessages(ctx context.Context, roomID int64) ([]ChatMessage, error) {
	var out []ChatMessage
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/rooms/%d/messages", roomID), nil, &out, true, nil)
	return out, err
}

// SendMessage posts a chat message. Empty or whitespace-only content is
// rejected locally without a network call.
func (c *Client) SendMessage(ctx context.Context, roomID int64, content string) (ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return ChatMessage{}, apiErr(ErrValidation, 0, "message content is required")
	}
	var out ChatMessage
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/rooms/%d/messages", roomID),
		map[string]string{"content": content}, &out, true, nil)
	return out, err
}

// statusMapper translates a non-2xx status plus server detail into a
// typed error. Returning nil defers to the default mapping.
type statusMapper func(status int, detail string) error

func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool, mapStatus statusMapper) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if authed {
		token, err := c.tokens.Get(tokenKey)
		if err != nil || token == "" {
			return apiErr(ErrAuth, 0, "no access token")
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return apiErr(ErrNetwork, 0, err.Error())
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		if out != nil {
			// A malformed success body degrades to the zero value
			// instead of failing the call.
			if err := json.NewDecoder(res.Body).Decode(out); err != nil {
				c.logger.Warn("decoding response", "path", path, "error", err)
			}
		}
		return nil
	}

	detail := decodeDetail(res.Body)
	if mapStatus != nil {
		if mapped := mapStatus(res.StatusCode, detail); mapped != nil {
			return mapped
		}
	}
	switch res.StatusCode {
	case http.StatusUnauthorized:
		return apiErr(ErrAuth, res.StatusCode, detail)
	case http.StatusForbidden:
		return apiErr(ErrForbidden, res.StatusCode, detail)
	case http.StatusNotFound:
		return apiErr(ErrNotFound, res.StatusCode, detail)
	default:
		return apiErr(ErrServer, res.StatusCode, detail)
	}
}

// decodeDetail extracts the {"detail": msg} error body. Non-JSON bodies
// yield "", for which callers substitute a generic message.
func decodeDetail(r io.Reader) string {
	var body struct {
		Detail string `json:"detail"`
	}
	_ = json.NewDecoder(r).Decode(&body)
	return body.Detail
}
