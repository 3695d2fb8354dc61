package roomsync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/taskbingo/bingo/internal/bingo"
)

// DefaultDirectoryInterval is the period of the room-listing poll.
const DefaultDirectoryInterval = 3 * time.Second

// Directory mirrors the room listing while the browsing screen is in
// focus. Start on focus, Stop on blur: no ticks fire after Stop, and a
// listing that arrives for a request still in flight at Stop time is
// discarded. Each applied listing replaces the previous one wholesale.
type Directory struct {
	client *bingo.Client
	logger *slog.Logger

	// Interval between listing polls. Set before Start; defaults to
	// DefaultDirectoryInterval.
	Interval time.Duration

	mu     sync.Mutex
	rooms  []bingo.RoomSummary
	cancel context.CancelFunc
	done   chan struct{}
}

func NewDirectory(client *bingo.Client, logger *slog.Logger) *Directory {
	return &Directory{
		client:   client,
		logger:   logger,
		Interval: DefaultDirectoryInterval,
	}
}

// Start begins polling: one immediate fetch, then one per interval.
// No-op when already running.
func (d *Directory) Start(ctx context.Context) {
	d.mu.Lock()
	if d.cancel != nil {
		d.mu.Unlock()
		return
	}
	ctx, d.cancel = context.WithCancel(ctx)
	done := make(chan struct{})
	d.done = done
	d.mu.Unlock()

	go func() {
		defer close(done)

		d.tick(ctx)
		t := time.NewTicker(d.Interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				d.tick(ctx)
			}
		}
	}()
}

// Stop halts polling and waits for the loop to exit. Idempotent.
func (d *Directory) Stop() {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.cancel, d.done = nil, nil
	d.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (d *Directory) tick(ctx context.Context) {
	if err := d.Refresh(ctx); err != nil && ctx.Err() == nil {
		d.logger.Warn("room listing poll failed", "error", err)
	}
}

// Refresh fetches one listing snapshot and applies it. The poll loop
// calls this every tick; it is also usable one-shot without Start.
func (d *Directory) Refresh(ctx context.Context) error {
	rooms, err := d.client.ListRooms(ctx)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		// Stopped while the request was in flight.
		return nil
	}

	d.mu.Lock()
	d.rooms = rooms
	d.mu.Unlock()
	return nil
}

// Rooms returns the last applied listing snapshot.
func (d *Directory) Rooms() []bingo.RoomSummary {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]bingo.RoomSummary, len(d.rooms))
	copy(out, d.rooms)
	return out
}
