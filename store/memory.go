// ABOUTME: In-memory DocumentStore with per-op idempotent append and presence TTL sweep.
// ABOUTME: One mutex is the per-document actor scope; appends are trivially atomic under it.
package store

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/scrawl-app/scrawl/core"
)

// DefaultPresenceTTL is how long a presence entry stays live without a
// heartbeat.
const DefaultPresenceTTL = 10 * time.Second

type memoryDoc struct {
	id        string
	title     string
	createdAt time.Time
	updatedAt time.Time
	ops       []core.Operation
	seen      map[string]bool
	presences map[string]core.Presence
}

// MemoryStore is a mutex-guarded in-memory DocumentStore. It is the
// reference implementation used by tests and single-process setups.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]*memoryDoc
	ttl  time.Duration
	now  func() time.Time
}

// NewMemoryStore creates an empty MemoryStore. A non-positive ttl uses
// DefaultPresenceTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultPresenceTTL
	}
	return &MemoryStore{
		docs: make(map[string]*memoryDoc),
		ttl:  ttl,
		now:  time.Now,
	}
}

// SetClock overrides the store's time source for tests.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Create makes a new document. Seed elements become the first add
// operations of its log so every client converges from the same history.
func (s *MemoryStore) Create(ctx context.Context, title string, elements []core.Element) (*core.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	doc := &memoryDoc{
		id:        core.NewID(),
		title:     title,
		createdAt: now,
		updatedAt: now,
		seen:      make(map[string]bool),
		presences: make(map[string]core.Presence),
	}
	for _, el := range elements {
		op := core.NewAdd(el)
		doc.ops = append(doc.ops, op)
		doc.seen[op.ID] = true
	}
	s.docs[doc.id] = doc
	return s.snapshotLocked(doc), nil
}

// Get returns the full document or ErrDocumentNotFound.
func (s *MemoryStore) Get(ctx context.Context, id string) (*core.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return s.snapshotLocked(doc), nil
}

// AppendOperations appends ops in order, skipping operation ids the store
// has already seen. The mutex serializes concurrent writers so a batch is
// applied atomically or not at all.
func (s *MemoryStore) AppendOperations(ctx context.Context, id string, ops []core.Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return ErrDocumentNotFound
	}
	for _, op := range ops {
		if err := op.Validate(); err != nil {
			return err
		}
	}
	for _, op := range ops {
		if doc.seen[op.ID] {
			continue
		}
		doc.seen[op.ID] = true
		doc.ops = append(doc.ops, op)
	}
	doc.updatedAt = s.now()
	return nil
}

// OperationsSince returns the operations at log positions >= version.
func (s *MemoryStore) OperationsSince(ctx context.Context, id string, version int) ([]core.Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	if version < 0 {
		version = 0
	}
	if version >= len(doc.ops) {
		return nil, nil
	}
	out := make([]core.Operation, len(doc.ops)-version)
	copy(out, doc.ops[version:])
	return out, nil
}

// UpdatePresence records a collaborator's live cursor, stamping it with the
// store clock.
func (s *MemoryStore) UpdatePresence(ctx context.Context, id string, presence core.Presence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return ErrDocumentNotFound
	}
	presence.UpdatedAt = s.now()
	doc.presences[presence.UserID] = presence
	return nil
}

// Presences returns live presences, excluding entries past the TTL. The
// filter is store-side: clients never see stale cursors.
func (s *MemoryStore) Presences(ctx context.Context, id string) ([]core.Presence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	cutoff := s.now().Add(-s.ttl)
	var out []core.Presence
	for _, p := range doc.presences {
		if p.UpdatedAt.After(cutoff) {
			out = append(out, p)
		}
	}
	return out, nil
}

// StartSweep starts a background goroutine that drops expired presences and
// returns a stop function.
func (s *MemoryStore) StartSweep(interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		close(done)
	}
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for _, doc := range s.docs {
		for userID, p := range doc.presences {
			if !p.UpdatedAt.After(cutoff) {
				delete(doc.presences, userID)
				removed++
			}
		}
	}
	if removed > 0 {
		log.Printf("component=store action=presence_sweep removed=%d", removed)
	}
}

// snapshotLocked builds the wire Document: copied ops, projected elements,
// and TTL-filtered presences.
func (s *MemoryStore) snapshotLocked(doc *memoryDoc) *core.Document {
	ops := make([]core.Operation, len(doc.ops))
	copy(ops, doc.ops)

	cutoff := s.now().Add(-s.ttl)
	var presences []core.Presence
	for _, p := range doc.presences {
		if p.UpdatedAt.After(cutoff) {
			presences = append(presences, p)
		}
	}

	return &core.Document{
		ID:         doc.id,
		Title:      doc.title,
		Elements:   core.Project(ops),
		UpdatedAt:  doc.updatedAt,
		Ops:        ops,
		AckVersion: len(ops),
		Presences:  presences,
	}
}
