// ABOUTME: Session owns one document's operation log, projection cache, and selection.
// ABOUTME: All local edits flow through dispatch; the visible list is always a pure projection.
package session

import (
	"sync"
	"time"

	"github.com/scrawl-app/scrawl/core"
	"github.com/scrawl-app/scrawl/geom"
)

// Style holds the element appearance supplied by the UI chrome. New elements
// are stamped with the current style at commit time.
type Style struct {
	StrokeColor string
	StrokeWidth float64
	FillColor   string
	StrokeStyle core.StrokeStyle
	Opacity     float64
}

// DefaultStyle returns the style new sessions start with.
func DefaultStyle() Style {
	return Style{
		StrokeColor: "#1e1e1e",
		StrokeWidth: 2,
		FillColor:   "transparent",
		StrokeStyle: core.StyleSolid,
		Opacity:     1,
	}
}

// Option configures optional Session behavior.
type Option func(*Session)

// WithClock overrides the session's time source. Tests use this to control
// the eraser throttle.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithOperationHook registers a callback invoked after every locally
// dispatched operation. The sync coordinator hooks in here.
func WithOperationHook(fn func(core.Operation)) Option {
	return func(s *Session) { s.onOperation = fn }
}

// Session is the per-document editing session: operation log, projection
// cache, selection, viewport, and the interaction state machine. Safe for
// concurrent use; pointer handling and remote merges share one lock.
type Session struct {
	mu  sync.Mutex
	cfg Config

	docID string
	title string

	log          *core.Log
	elements     []core.Element
	cacheVersion uint64
	cacheValid   bool

	selection   map[string]bool
	viewport    Viewport
	tool        Tool
	style       Style
	snapEnabled bool

	now         func() time.Time
	onOperation func(core.Operation)

	// Interaction state machine (machine.go).
	state     State
	anchor    geom.Point
	last      geom.Point
	pointer   geom.Point
	penPoints []geom.Point
	preview   *geom.Rect
	guides    []geom.Guide
	activeID  string
	handle    Handle
	startBox  geom.Rect
	lastErase time.Time
}

// NewSession creates an empty session for the given document id and title.
func NewSession(cfg Config, docID, title string, opts ...Option) *Session {
	s := &Session{
		cfg:       cfg,
		docID:     docID,
		title:     title,
		log:       core.NewLog(cfg.LogCap),
		selection: make(map[string]bool),
		tool:      ToolSelect,
		style:     DefaultStyle(),
		now:       time.Now,
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DocID returns the document id this session edits.
func (s *Session) DocID() string { return s.docID }

// Title returns the document title.
func (s *Session) Title() string { return s.title }

// Config returns the session configuration.
func (s *Session) Config() Config { return s.cfg }

// SetTool selects the active tool.
func (s *Session) SetTool(t Tool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tool = t
}

// ActiveTool returns the currently selected tool.
func (s *Session) ActiveTool() Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tool
}

// SetStyle replaces the element style used for new elements.
func (s *Session) SetStyle(st Style) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.style = st
}

// SetSnapEnabled toggles grid snapping and alignment guides.
func (s *Session) SetSnapEnabled(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapEnabled = on
}

// Viewport returns the current viewport for render culling.
func (s *Session) Viewport() Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

// SetViewportSize records the visible extent reported by the renderer.
func (s *Session) SetViewportSize(width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport.Width = width
	s.viewport.Height = height
}

// Elements returns the projected element list, recomputing it only when the
// log has changed since the last call.
func (s *Session) Elements() []core.Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elementsLocked()
}

func (s *Session) elementsLocked() []core.Element {
	if !s.cacheValid || s.cacheVersion != s.log.Version() {
		s.elements = core.Project(s.log.Visible())
		s.cacheVersion = s.log.Version()
		s.cacheValid = true
	}
	out := make([]core.Element, len(s.elements))
	copy(out, s.elements)
	return out
}

// SelectedIDs returns the ids of the current selection in stacking order.
func (s *Session) SelectedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for _, el := range s.elementsLocked() {
		if s.selection[el.ID] {
			ids = append(ids, el.ID)
		}
	}
	return ids
}

// Select replaces the selection with the single given element id.
func (s *Session) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = map[string]bool{id: true}
}

// ClearSelection empties the selection.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = make(map[string]bool)
}

// Undo steps the log cursor back one operation.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Undo()
}

// Redo steps the log cursor forward one operation.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Redo()
}

// CanUndo reports whether an undo step is available.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.CanUndo()
}

// CanRedo reports whether a redo step is available.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.CanRedo()
}

// DeleteSelected emits one delete operation per selected element and clears
// the selection.
func (s *Session) DeleteSelected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, el := range s.elementsLocked() {
		if s.selection[el.ID] {
			s.dispatchLocked(core.NewDelete(el.ID))
		}
	}
	s.selection = make(map[string]bool)
}

// BringToFront moves the element with id to the top of the stacking order
// by emitting a reorder with the full permuted list.
func (s *Session) BringToFront(id string) {
	s.reorder(id, true)
}

// SendToBack moves the element with id to the bottom of the stacking order.
func (s *Session) SendToBack(id string) {
	s.reorder(id, false)
}

func (s *Session) reorder(id string, front bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	elements := s.elementsLocked()
	idx := -1
	for i := range elements {
		if elements[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	target := elements[idx]
	rest := append(elements[:idx:idx], elements[idx+1:]...)
	var order []core.Element
	if front {
		order = append(rest, target)
	} else {
		order = append([]core.Element{target}, rest...)
	}
	s.dispatchLocked(core.NewReorder(order))
}

// MergeRemote appends remote operations to the log after all local entries,
// in the given server-assigned order.
func (s *Session) MergeRemote(ops []core.Operation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.Merge(ops)
}

// Seed dispatches one add per element without notifying the operation hook.
// Used when creating a session from a template whose elements already live
// in the store.
func (s *Session) Seed(elements []core.Element) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, el := range elements {
		s.log.Dispatch(core.NewAdd(el))
	}
}

// Pointer returns the last observed pointer position, used for the presence
// heartbeat.
func (s *Session) Pointer() geom.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pointer
}

// SetOperationHook registers the callback invoked after every locally
// dispatched operation. The sync coordinator, created after the session,
// wires its Record method in here.
func (s *Session) SetOperationHook(fn func(core.Operation)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onOperation = fn
}

// dispatchLocked validates op, appends it to the log, and notifies the
// operation hook. Invalid operations are dropped, never applied.
func (s *Session) dispatchLocked(op core.Operation) {
	if err := op.Validate(); err != nil {
		return
	}
	s.log.Dispatch(op)
	if s.onOperation != nil {
		s.onOperation(op)
	}
}
