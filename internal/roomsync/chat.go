package roomsync

import "github.com/taskbingo/bingo/internal/bingo"

// ChatFeed is the local view of a room's chat. Like the board, it is
// reconciled by snapshot replace. The one wrinkle is optimistic sends:
// a successfully posted message is appended locally ahead of the next
// poll so the author sees it immediately. Replace reconciles pending
// messages away by id, so a message is never shown twice — it rides in
// the pending tail until a snapshot contains it, then only the snapshot
// copy is shown.
type ChatFeed struct {
	messages []bingo.ChatMessage
	pending  []bingo.ChatMessage
}

// Replace installs a fresh snapshot and drops any pending message the
// snapshot already contains.
func (f *ChatFeed) Replace(msgs []bingo.ChatMessage) {
	f.messages = msgs

	if len(f.pending) == 0 {
		return
	}
	seen := make(map[int64]struct{}, len(msgs))
	for _, m := range msgs {
		seen[m.ID] = struct{}{}
	}
	kept := f.pending[:0]
	for _, m := range f.pending {
		if _, ok := seen[m.ID]; !ok {
			kept = append(kept, m)
		}
	}
	f.pending = kept
}

// Append records an optimistic local append of a server-acknowledged
// message.
func (f *ChatFeed) Append(msg bingo.ChatMessage) {
	f.pending = append(f.pending, msg)
}

// Messages returns the feed as displayed: the last snapshot followed by
// pending messages not yet observed in one.
func (f *ChatFeed) Messages() []bingo.ChatMessage {
	out := make([]bingo.ChatMessage, 0, len(f.messages)+len(f.pending))
	out = append(out, f.messages...)
	out = append(out, f.pending...)
	return out
}
