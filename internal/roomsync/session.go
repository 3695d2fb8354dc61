package roomsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taskbingo/bingo/internal/bingo"
)

// State is the session lifecycle phase.
type State int

const (
	// StateIdle: created, not yet started.
	StateIdle State = iota
	// StateLoading: polling, no full snapshot pair applied yet.
	StateLoading
	// StateSynced: at least one board and one chat snapshot applied.
	StateSynced
	// StateTerminated: a claim response reported game_finished. Polling
	// may continue; further claims are answered 418 by the server.
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSynced:
		return "synced"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DefaultPollInterval is the period of the board and chat loops.
const DefaultPollInterval = 2500 * time.Millisecond

// Session keeps a local view of one room consistent with the server by
// running two independent polling loops, one for the board and one for
// chat, started together and cancelled together. Reconciliation is
// snapshot replace: each successful fetch wholly supersedes local
// state, last write wins by arrival order. Fetch failures are logged
// and swallowed; the next tick retries, which is the only retry policy.
type Session struct {
	client *bingo.Client
	roomID int64
	self   bingo.UserID
	logger *slog.Logger

	// Interval between poll ticks. Set before Start; defaults to
	// DefaultPollInterval.
	Interval time.Duration

	mu          sync.Mutex
	state       State
	board       Board
	chat        ChatFeed
	boardSynced bool
	chatSynced  bool

	cancel context.CancelFunc
	done   chan struct{}
}

func NewSession(client *bingo.Client, roomID int64, self bingo.UserID, logger *slog.Logger) *Session {
	return &Session{
		client:   client,
		roomID:   roomID,
		self:     self,
		logger:   logger,
		Interval: DefaultPollInterval,
	}
}

// Start launches both polling loops. Each begins with an immediate
// fetch, then ticks at the configured interval. No-op when already
// running.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	if s.state == StateIdle {
		s.state = StateLoading
	}
	done := make(chan struct{})
	s.done = done
	s.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.loop(gctx, s.fetchBoard)
		return nil
	})
	g.Go(func() error {
		s.loop(gctx, s.fetchChat)
		return nil
	})
	go func() {
		g.Wait()
		close(done)
	}()
}

// Stop cancels both loops and waits for them to exit. In-flight
// requests are not aborted; a response arriving after Stop is discarded
// by the context guard in the fetchers, never applied.
func (s *Session) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Session) loop(ctx context.Context, fetch func(context.Context) error) {
	s.tick(ctx, fetch)

	t := time.NewTicker(s.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.tick(ctx, fetch)
		}
	}
}

func (s *Session) tick(ctx context.Context, fetch func(context.Context) error) {
	if err := fetch(ctx); err != nil && ctx.Err() == nil {
		s.logger.Warn("room poll failed", "room_id", s.roomID, "error", err)
	}
}

func (s *Session) fetchBoard(ctx context.Context) error {
	cells, err := s.client.ListTasks(ctx, s.roomID)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		// Session stopped while the request was in flight.
		return nil
	}

	s.mu.Lock()
	s.board.Replace(cells)
	s.boardSynced = true
	s.advanceSynced()
	s.mu.Unlock()
	return nil
}

func (s *Session) fetchChat(ctx context.Context) error {
	msgs, err := s.client.ListMessages(ctx, s.roomID)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}

	s.mu.Lock()
	s.chat.Replace(msgs)
	s.chatSynced = true
	s.advanceSynced()
	s.mu.Unlock()
	return nil
}

// advanceSynced promotes Loading to Synced once both feeds have applied
// a snapshot. Caller holds mu.
func (s *Session) advanceSynced() {
	if s.state == StateLoading && s.boardSynced && s.chatSynced {
		s.state = StateSynced
	}
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Board returns a copy of the current board snapshot.
func (s *Session) Board() []bingo.TaskAssignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Cells()
}

// Messages returns the chat feed as displayed.
func (s *Session) Messages() []bingo.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chat.Messages()
}

// FinishTask claims the cell at the row-major board index. An accepted
// claim triggers an immediate board refetch and yields a notice when
// the response reports the game finished. Claim races (another player
// got there first) and claims after game end come back as non-fatal
// notices without touching local state. The returned notice is nil for
// an ordinary mid-game claim.
func (s *Session) FinishTask(ctx context.Context, index int) (*Notice, error) {
	s.mu.Lock()
	cell, ok := s.board.Cell(index)
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("no task at cell %d", index)
	}

	outcome, err := s.client.FinishTask(ctx, s.roomID, cell.AssignmentID)
	switch {
	case errors.Is(err, bingo.ErrTaskFinished), errors.Is(err, bingo.ErrGameOver):
		return &Notice{Text: noticeText(err)}, nil
	case err != nil:
		return nil, err
	}

	if err := s.fetchBoard(ctx); err != nil {
		s.logger.Warn("board refetch after claim failed", "room_id", s.roomID, "error", err)
	}

	notice, finished := InterpretOutcome(outcome, s.self)
	if !finished {
		return nil, nil
	}
	if notice.Terminal {
		s.mu.Lock()
		s.state = StateTerminated
		s.mu.Unlock()
	}
	return &notice, nil
}

// Send posts a chat message and optimistically appends the acknowledged
// message to the local feed ahead of the next poll. Empty or
// whitespace-only content is a silent no-op: no network call, feed
// unchanged.
func (s *Session) Send(ctx context.Context, content string) error {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	msg, err := s.client.SendMessage(ctx, s.roomID, content)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.chat.Append(msg)
	s.mu.Unlock()
	return nil
}

// noticeText prefers the server-supplied detail for display.
func noticeText(err error) string {
	var apiErr *bingo.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return err.Error()
}
