// ABOUTME: Tests for the SQLite-backed DocumentStore.
// ABOUTME: Each test opens a fresh database under t.TempDir.
package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/scrawl-app/scrawl/core"
	"github.com/scrawl-app/scrawl/geom"
	"github.com/scrawl-app/scrawl/store"
)

func openTestStore(t *testing.T) *store.SqliteStore {
	t.Helper()
	s, err := store.OpenSqlite(filepath.Join(t.TempDir(), "scrawl.db"), time.Minute)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSqliteCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	doc, err := s.Create(ctx, "board", []core.Element{seedElement("a")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if doc.AckVersion != 1 || len(doc.Ops) != 1 {
		t.Fatalf("ack=%d ops=%d, want 1/1", doc.AckVersion, len(doc.Ops))
	}

	got, err := s.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "board" || len(got.Elements) != 1 {
		t.Errorf("doc=%+v", got)
	}
	if got.Elements[0].ID != "a" {
		t.Errorf("projected element=%q", got.Elements[0].ID)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, store.ErrDocumentNotFound) {
		t.Errorf("err=%v, want ErrDocumentNotFound", err)
	}
}

func TestSqliteAppendRoundTripsPayloads(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	doc, _ := s.Create(ctx, "board", nil)

	x := 99.5
	ops := []core.Operation{
		core.NewAdd(seedElement("a")),
		core.NewUpdate("a", core.ElementPatch{X: &x}),
		core.NewDelete("a"),
	}
	if err := s.AppendOperations(ctx, doc.ID, ops); err != nil {
		t.Fatalf("append: %v", err)
	}

	back, err := s.OperationsSince(ctx, doc.ID, 0)
	if err != nil {
		t.Fatalf("since: %v", err)
	}
	if len(back) != 3 {
		t.Fatalf("ops=%d, want 3", len(back))
	}
	if back[1].Kind != core.OpUpdate || back[1].Patch == nil || *back[1].Patch.X != 99.5 {
		t.Errorf("update did not survive the round trip: %+v", back[1])
	}
	if back[2].Kind != core.OpDelete || back[2].TargetID != "a" {
		t.Errorf("delete did not survive the round trip: %+v", back[2])
	}
}

func TestSqliteAppendIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	doc, _ := s.Create(ctx, "board", nil)

	batch := []core.Operation{core.NewAdd(seedElement("a")), core.NewAdd(seedElement("b"))}
	if err := s.AppendOperations(ctx, doc.ID, batch); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.AppendOperations(ctx, doc.ID, batch); err != nil {
		t.Fatalf("replay: %v", err)
	}

	after, _ := s.Get(ctx, doc.ID)
	if after.AckVersion != 2 {
		t.Errorf("ack=%d, want 2 after a replayed batch", after.AckVersion)
	}
}

func TestSqliteAppendUnknownDocument(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	err := s.AppendOperations(ctx, "missing", []core.Operation{core.NewAdd(seedElement("a"))})
	if !errors.Is(err, store.ErrDocumentNotFound) {
		t.Fatalf("err=%v, want ErrDocumentNotFound", err)
	}
}

func TestSqliteOperationsSinceTail(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	doc, _ := s.Create(ctx, "board", []core.Element{seedElement("a")})

	if err := s.AppendOperations(ctx, doc.ID, []core.Operation{core.NewDelete("a")}); err != nil {
		t.Fatalf("append: %v", err)
	}

	tail, err := s.OperationsSince(ctx, doc.ID, 1)
	if err != nil {
		t.Fatalf("since: %v", err)
	}
	if len(tail) != 1 || tail[0].Kind != core.OpDelete {
		t.Fatalf("tail=%+v, want just the delete", tail)
	}
}

func TestSqlitePresenceUpsertAndTTL(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	doc, _ := s.Create(ctx, "board", nil)

	p := core.Presence{UserID: "u1", Username: "ada", Cursor: geom.Pt(3, 4)}
	if err := s.UpdatePresence(ctx, doc.ID, p); err != nil {
		t.Fatalf("presence: %v", err)
	}
	p.Cursor = geom.Pt(7, 8)
	if err := s.UpdatePresence(ctx, doc.ID, p); err != nil {
		t.Fatalf("presence upsert: %v", err)
	}

	got, err := s.Presences(ctx, doc.ID)
	if err != nil {
		t.Fatalf("presences: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("presences=%d, want upsert to keep one row per user", len(got))
	}
	if got[0].Cursor != geom.Pt(7, 8) {
		t.Errorf("cursor=%v, want the latest heartbeat", got[0].Cursor)
	}
}

func TestSqlitePresenceExpires(t *testing.T) {
	ctx := context.Background()
	s, err := store.OpenSqlite(filepath.Join(t.TempDir(), "scrawl.db"), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	doc, _ := s.Create(ctx, "board", nil)
	if err := s.UpdatePresence(ctx, doc.ID, core.Presence{UserID: "u1"}); err != nil {
		t.Fatalf("presence: %v", err)
	}

	time.Sleep(80 * time.Millisecond)

	got, err := s.Presences(ctx, doc.ID)
	if err != nil {
		t.Fatalf("presences: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("presences=%v, want expired entries filtered out", got)
	}
}
