// ABOUTME: Coordinator reconciles local pending operations with the document store.
// ABOUTME: Debounced push, polled pull, presence heartbeat; single-flight guards on both directions.
package collab

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/scrawl-app/scrawl/core"
	"github.com/scrawl-app/scrawl/session"
	"github.com/scrawl-app/scrawl/store"
)

// NoticeKind classifies a transient coordinator notice.
type NoticeKind string

const (
	NoticePushFailed     NoticeKind = "push_failed"
	NoticePullFailed     NoticeKind = "pull_failed"
	NoticePresenceFailed NoticeKind = "presence_failed"
	NoticeConflict       NoticeKind = "conflict"
)

// Notice is a transient, non-fatal sync problem surfaced to the UI chrome.
// Local state is never touched by a failed push or pull, so every notice is
// recoverable on the next cycle.
type Notice struct {
	Kind NoticeKind
	Err  error
	Time time.Time
}

// Coordinator owns the push/pull cycle for one document session. Local
// edits are recorded optimistically via Record; the store is reconciled in
// the background.
type Coordinator struct {
	cfg   Config
	store store.DocumentStore
	sess  *session.Session

	mu         sync.Mutex
	pending    []core.Operation
	ackVersion int
	debounce   *time.Timer
	pushing    bool
	pulling    bool
	presences  []core.Presence

	notices chan Notice

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCoordinator creates a coordinator for sess against st. ackVersion is
// the store version the session's log already reflects, typically
// Document.AckVersion from the initial Get.
func NewCoordinator(cfg Config, st store.DocumentStore, sess *session.Session, ackVersion int) *Coordinator {
	return &Coordinator{
		cfg:        cfg,
		store:      st,
		sess:       sess,
		ackVersion: ackVersion,
		notices:    make(chan Notice, 16),
	}
}

// Record registers a locally dispatched operation as pending and
// (re)schedules the debounced push. A newer debounce supersedes a
// not-yet-fired prior one. Wire this to the session's operation hook.
func (c *Coordinator) Record(op core.Operation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, op)
	if c.debounce != nil {
		c.debounce.Stop()
	}
	c.debounce = time.AfterFunc(c.cfg.PushDebounce, func() {
		c.push()
	})
}

// Start launches the pull and presence loops. Call Stop to shut them down.
func (c *Coordinator) Start(ctx context.Context) {
	c.ctx, c.cancel = context.WithCancel(ctx)

	c.wg.Add(2)
	go c.pollLoop()
	go c.presenceLoop()
}

// Stop cancels the background loops and any pending debounce fire.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
	c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
}

// Flush pushes the pending suffix immediately, as on an explicit save.
func (c *Coordinator) Flush() {
	c.mu.Lock()
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
	c.mu.Unlock()
	c.push()
}

// Pull fetches and merges remote operations once, outside the poll loop.
// Tests and explicit refresh triggers use this.
func (c *Coordinator) Pull(ctx context.Context) {
	c.pull(ctx)
}

// Notices returns the channel of transient sync notices. The channel is
// buffered and never blocks the sync cycle; unread notices are dropped.
func (c *Coordinator) Notices() <-chan Notice {
	return c.notices
}

// AckVersion returns the store version the local log reflects.
func (c *Coordinator) AckVersion() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ackVersion
}

// PendingCount returns the number of operations awaiting a successful push.
func (c *Coordinator) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// RemotePresences returns the collaborator cursors from the last pull.
func (c *Coordinator) RemotePresences() []core.Presence {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.Presence, len(c.presences))
	copy(out, c.presences)
	return out
}

func (c *Coordinator) pollLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.pull(c.ctx)
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Coordinator) presenceLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.cfg.PresenceInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.heartbeat(c.ctx)
		case <-c.ctx.Done():
			return
		}
	}
}

// push sends the pending suffix to the store. Single-flight: a push already
// in progress runs to completion and a concurrent call returns immediately.
// On failure the operations stay pending and the next debounce or flush
// retries; local state is unaffected.
func (c *Coordinator) push() {
	c.mu.Lock()
	if c.pushing || len(c.pending) == 0 {
		c.mu.Unlock()
		return
	}
	c.pushing = true
	batch := make([]core.Operation, len(c.pending))
	copy(batch, c.pending)
	ctx := c.ctx
	c.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	err := c.store.AppendOperations(ctx, c.sess.DocID(), batch)

	c.mu.Lock()
	c.pushing = false
	if err != nil {
		c.mu.Unlock()
		kind := NoticePushFailed
		var conflict *store.ConflictError
		if errors.As(err, &conflict) {
			kind = NoticeConflict
		}
		c.notify(kind, err)
		log.Printf("component=collab action=push_failed doc=%s ops=%d err=%v", c.sess.DocID(), len(batch), err)
		return
	}
	c.pending = c.pending[len(batch):]
	c.mu.Unlock()
}

// pull fetches operations newer than the acknowledged version, appends them
// to the session log after all local entries, and advances the version by
// exactly the merged count. Re-fetched local operations are harmless: the
// projector's add-overwrite and update-merge semantics are idempotent.
func (c *Coordinator) pull(ctx context.Context) {
	c.mu.Lock()
	if c.pulling {
		c.mu.Unlock()
		return
	}
	c.pulling = true
	since := c.ackVersion
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.pulling = false
		c.mu.Unlock()
	}()

	ops, err := c.store.OperationsSince(ctx, c.sess.DocID(), since)
	if err != nil {
		c.notify(NoticePullFailed, err)
		log.Printf("component=collab action=pull_failed doc=%s err=%v", c.sess.DocID(), err)
		return
	}
	if len(ops) > 0 {
		c.sess.MergeRemote(ops)
		c.mu.Lock()
		c.ackVersion += len(ops)
		c.mu.Unlock()
	}

	presences, err := c.store.Presences(ctx, c.sess.DocID())
	if err != nil {
		c.notify(NoticePullFailed, err)
		return
	}
	c.mu.Lock()
	c.presences = presences
	c.mu.Unlock()
}

// heartbeat pushes the local cursor position for the presence list.
func (c *Coordinator) heartbeat(ctx context.Context) {
	cfg := c.sess.Config()
	err := c.store.UpdatePresence(ctx, c.sess.DocID(), core.Presence{
		UserID:   cfg.UserID,
		Username: cfg.Username,
		Cursor:   c.sess.Pointer(),
	})
	if err != nil {
		c.notify(NoticePresenceFailed, err)
	}
}

// notify delivers a notice without ever blocking the sync cycle.
func (c *Coordinator) notify(kind NoticeKind, err error) {
	select {
	case c.notices <- Notice{Kind: kind, Err: err, Time: time.Now()}:
	default:
	}
}
