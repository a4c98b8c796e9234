// ABOUTME: Append-only operation log with a linear undo/redo cursor.
// ABOUTME: Bounded length with front eviction; the visible document is always project(ops[0:cursor]).
package core

// DefaultLogCap is the default maximum number of operations retained.
const DefaultLogCap = 100

// Log is the ordered operation history plus an undo/redo cursor.
// Invariant: 0 <= cursor <= len(ops). The visible document is exactly the
// projection of ops[0:cursor]. History is linear: dispatching after an undo
// permanently discards the undone suffix.
type Log struct {
	ops     []Operation
	cursor  int
	cap     int
	version uint64
}

// NewLog creates an empty log. A non-positive cap uses DefaultLogCap.
func NewLog(cap int) *Log {
	if cap <= 0 {
		cap = DefaultLogCap
	}
	return &Log{cap: cap}
}

// Dispatch truncates any undone suffix beyond the cursor, appends op, and
// advances the cursor past it. When the log exceeds its cap, entries are
// evicted from the front and the cursor shifts down by the evicted count;
// entries beyond the cursor are never evicted.
func (l *Log) Dispatch(op Operation) {
	l.ops = append(l.ops[:l.cursor], op)
	l.cursor = len(l.ops)
	l.evict()
	l.version++
}

// Merge appends remote operations after all existing entries in the given
// order and counts them as replayed. Like Dispatch, an undone-but-not-redone
// suffix is discarded first so the cursor lands at the end of the log.
func (l *Log) Merge(ops []Operation) {
	if len(ops) == 0 {
		return
	}
	l.ops = append(l.ops[:l.cursor], ops...)
	l.cursor = len(l.ops)
	l.evict()
	l.version++
}

func (l *Log) evict() {
	if over := len(l.ops) - l.cap; over > 0 {
		// Never drop unreplayed entries; cursor == len here after a
		// dispatch or merge, so this only trims replayed history.
		if over > l.cursor {
			over = l.cursor
		}
		l.ops = append(l.ops[:0:0], l.ops[over:]...)
		l.cursor -= over
	}
}

// Undo steps the cursor back one operation. Returns false at the beginning
// of history.
func (l *Log) Undo() bool {
	if l.cursor == 0 {
		return false
	}
	l.cursor--
	l.version++
	return true
}

// Redo steps the cursor forward one operation. Returns false at the end of
// history.
func (l *Log) Redo() bool {
	if l.cursor == len(l.ops) {
		return false
	}
	l.cursor++
	l.version++
	return true
}

// CanUndo reports whether an undo step is available.
func (l *Log) CanUndo() bool { return l.cursor > 0 }

// CanRedo reports whether a redo step is available.
func (l *Log) CanRedo() bool { return l.cursor < len(l.ops) }

// Cursor returns the current undo/redo cursor position.
func (l *Log) Cursor() int { return l.cursor }

// Len returns the number of operations in the log.
func (l *Log) Len() int { return len(l.ops) }

// Version increments on every mutation; callers use it to key projection caches.
func (l *Log) Version() uint64 { return l.version }

// Visible returns a copy of the replayed prefix ops[0:cursor].
func (l *Log) Visible() []Operation {
	out := make([]Operation, l.cursor)
	copy(out, l.ops[:l.cursor])
	return out
}

// All returns a copy of every operation in the log.
func (l *Log) All() []Operation {
	out := make([]Operation, len(l.ops))
	copy(out, l.ops)
	return out
}
