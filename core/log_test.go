// ABOUTME: Tests for the operation log's cursor, truncation, and eviction behavior.
// ABOUTME: History is linear: dispatch after undo discards the redo branch for good.
package core_test

import (
	"fmt"
	"testing"

	"github.com/scrawl-app/scrawl/core"
)

func rectElement(id string) core.Element {
	return core.Element{
		ID:          id,
		Type:        core.TypeRectangle,
		X:           10,
		Y:           10,
		Width:       40,
		Height:      30,
		StrokeColor: "#000000",
		StrokeWidth: 2,
		Opacity:     1,
		Detail:      core.RectangleDetail{FillColor: "transparent", StrokeStyle: core.StyleSolid},
	}
}

func TestDispatchAdvancesCursor(t *testing.T) {
	l := core.NewLog(0)
	l.Dispatch(core.NewAdd(rectElement("a")))
	l.Dispatch(core.NewAdd(rectElement("b")))

	if l.Len() != 2 || l.Cursor() != 2 {
		t.Fatalf("len=%d cursor=%d, want 2/2", l.Len(), l.Cursor())
	}
	if !l.CanUndo() || l.CanRedo() {
		t.Errorf("CanUndo=%v CanRedo=%v, want true/false", l.CanUndo(), l.CanRedo())
	}
}

func TestUndoRedoMoveCursor(t *testing.T) {
	l := core.NewLog(0)
	l.Dispatch(core.NewAdd(rectElement("a")))
	l.Dispatch(core.NewAdd(rectElement("b")))

	if !l.Undo() {
		t.Fatal("undo should succeed")
	}
	if l.Cursor() != 1 {
		t.Fatalf("cursor=%d after undo, want 1", l.Cursor())
	}
	if got := len(l.Visible()); got != 1 {
		t.Errorf("visible=%d after undo, want 1", got)
	}
	if !l.Redo() {
		t.Fatal("redo should succeed")
	}
	if l.Cursor() != 2 {
		t.Fatalf("cursor=%d after redo, want 2", l.Cursor())
	}
}

func TestUndoAtStartAndRedoAtEndFail(t *testing.T) {
	l := core.NewLog(0)
	if l.Undo() {
		t.Error("undo on empty log should fail")
	}
	l.Dispatch(core.NewAdd(rectElement("a")))
	if l.Redo() {
		t.Error("redo at end of history should fail")
	}
}

func TestDispatchAfterUndoDiscardsRedoBranch(t *testing.T) {
	l := core.NewLog(0)
	l.Dispatch(core.NewAdd(rectElement("a")))
	l.Dispatch(core.NewAdd(rectElement("b")))
	l.Undo()

	l.Dispatch(core.NewAdd(rectElement("c")))

	if l.Len() != 2 {
		t.Fatalf("len=%d, want 2 after truncating the undone suffix", l.Len())
	}
	if l.CanRedo() {
		t.Error("redo must be unavailable after dispatching over an undo")
	}
	ops := l.All()
	if ops[1].Element.ID != "c" {
		t.Errorf("last op targets %q, want c", ops[1].Element.ID)
	}
}

func TestEvictionDropsFrontAndShiftsCursor(t *testing.T) {
	l := core.NewLog(3)
	for i := 0; i < 5; i++ {
		l.Dispatch(core.NewAdd(rectElement(fmt.Sprintf("el-%d", i))))
	}

	if l.Len() != 3 {
		t.Fatalf("len=%d, want cap of 3", l.Len())
	}
	if l.Cursor() != 3 {
		t.Fatalf("cursor=%d, want 3", l.Cursor())
	}
	ops := l.All()
	if ops[0].Element.ID != "el-2" {
		t.Errorf("oldest surviving op is %q, want el-2", ops[0].Element.ID)
	}
	// Evicted history is unreachable: undo bottoms out after 3 steps.
	steps := 0
	for l.Undo() {
		steps++
	}
	if steps != 3 {
		t.Errorf("undo steps=%d, want 3", steps)
	}
}

func TestMergeAppendsAfterLocalEntries(t *testing.T) {
	l := core.NewLog(0)
	l.Dispatch(core.NewAdd(rectElement("local")))

	remote := []core.Operation{
		core.NewAdd(rectElement("remote-1")),
		core.NewAdd(rectElement("remote-2")),
	}
	l.Merge(remote)

	if l.Len() != 3 || l.Cursor() != 3 {
		t.Fatalf("len=%d cursor=%d, want 3/3", l.Len(), l.Cursor())
	}
	ops := l.All()
	if ops[1].Element.ID != "remote-1" || ops[2].Element.ID != "remote-2" {
		t.Error("remote ops must append in order after local entries")
	}
}

func TestMergeDiscardsUndoneSuffix(t *testing.T) {
	l := core.NewLog(0)
	l.Dispatch(core.NewAdd(rectElement("a")))
	l.Dispatch(core.NewAdd(rectElement("b")))
	l.Undo()

	l.Merge([]core.Operation{core.NewAdd(rectElement("remote"))})

	if l.CanRedo() {
		t.Error("redo must be unavailable after a merge")
	}
	ops := l.All()
	if len(ops) != 2 || ops[1].Element.ID != "remote" {
		t.Fatalf("ops=%d, want local prefix plus remote op", len(ops))
	}
}

func TestVersionChangesOnEveryMutation(t *testing.T) {
	l := core.NewLog(0)
	v0 := l.Version()
	l.Dispatch(core.NewAdd(rectElement("a")))
	v1 := l.Version()
	l.Undo()
	v2 := l.Version()
	l.Redo()
	v3 := l.Version()

	if v0 == v1 || v1 == v2 || v2 == v3 {
		t.Errorf("versions must be distinct: %d %d %d %d", v0, v1, v2, v3)
	}
}
