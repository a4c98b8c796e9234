// ABOUTME: Pointer-driven interaction state machine turning gestures into operations.
// ABOUTME: Every pointer-up returns to Idle unconditionally; no state can get stuck.
package session

import (
	"github.com/scrawl-app/scrawl/core"
	"github.com/scrawl-app/scrawl/geom"
)

// State identifies the interaction state machine's current state.
type State string

const (
	StateIdle     State = "idle"
	StateDrawing  State = "drawing"
	StatePanning  State = "panning"
	StateDragging State = "dragging"
	StateResizing State = "resizing"
	StateRotating State = "rotating"
	StateErasing  State = "erasing"
)

// Handle identifies an interactive control point on a selected element.
type Handle string

const (
	HandleNone   Handle = ""
	HandleNW     Handle = "nw"
	HandleNE     Handle = "ne"
	HandleSW     Handle = "sw"
	HandleSE     Handle = "se"
	HandleRotate Handle = "rotate"
)

const (
	// handleHitSize is the side length of the square hit area around a handle.
	handleHitSize = 8.0
	// rotateHandleOffset is the distance of the rotate handle above the box top edge.
	rotateHandleOffset = 20.0
)

// PointerOpts carries the modifier state of a pointer-down.
type PointerOpts struct {
	MultiSelect bool
}

// CurrentState returns the machine's current state.
func (s *Session) CurrentState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Preview returns the live preview box while a shape tool or resize gesture
// is active, or nil.
func (s *Session) Preview() *geom.Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.preview == nil {
		return nil
	}
	box := *s.preview
	return &box
}

// Guides returns the alignment guides computed for the current gesture.
// Guides are a rendering aid only and are never persisted.
func (s *Session) Guides() []geom.Guide {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]geom.Guide, len(s.guides))
	copy(out, s.guides)
	return out
}

// PointerDown starts a gesture. The active tool decides the transition.
func (s *Session) PointerDown(p geom.Point, opts PointerOpts) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointer = p
	s.last = p

	switch {
	case s.tool == ToolPan:
		s.state = StatePanning

	case s.tool == ToolEraser:
		s.state = StateErasing
		s.eraseAtLocked(p)

	case s.tool == ToolSelect:
		s.selectDownLocked(p, opts)

	case s.tool.IsDrawing():
		s.state = StateDrawing
		s.anchor = p
		if s.snapEnabled {
			s.anchor = geom.SnapPoint(p, s.cfg.GridSize)
		}
		if s.tool == ToolPen {
			s.penPoints = append(s.penPoints[:0], s.anchor)
		}
	}
}

// selectDownLocked handles pointer-down for the select tool: handles first,
// then element hits, then empty canvas.
func (s *Session) selectDownLocked(p geom.Point, opts PointerOpts) {
	if id, h := s.handleAtLocked(p); h != HandleNone {
		s.activeID = id
		s.handle = h
		s.anchor = p
		if h == HandleRotate {
			s.state = StateRotating
			return
		}
		if el, ok := s.findLocked(id); ok {
			s.startBox = el.BoundingBox()
		}
		s.state = StateResizing
		return
	}

	hit, ok := s.hitTopLocked(p)
	if !ok {
		s.selection = make(map[string]bool)
		s.state = StateIdle
		return
	}

	if !s.selection[hit.ID] {
		if opts.MultiSelect {
			s.selection[hit.ID] = true
		} else {
			s.selection = map[string]bool{hit.ID: true}
		}
	}
	s.state = StateDragging
}

// PointerMove advances the active gesture.
func (s *Session) PointerMove(p geom.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointer = p

	switch s.state {
	case StatePanning:
		s.viewport.Pan(p.Sub(s.last))

	case StateDragging:
		s.dragMoveLocked(p)

	case StateResizing:
		s.resizeMoveLocked(p)

	case StateRotating:
		s.rotateMoveLocked(p)

	case StateErasing:
		s.eraseAtLocked(p)

	case StateDrawing:
		s.drawMoveLocked(p)
	}

	s.last = p
}

// PointerUp commits the active gesture and returns to Idle.
func (s *Session) PointerUp(p geom.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointer = p

	if s.state == StateDrawing {
		s.commitDrawingLocked(p)
	}
	s.resetGestureLocked()
}

// PointerCancel abandons the active gesture with no commit.
func (s *Session) PointerCancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetGestureLocked()
}

func (s *Session) resetGestureLocked() {
	s.state = StateIdle
	s.penPoints = nil
	s.preview = nil
	s.guides = nil
	s.activeID = ""
	s.handle = HandleNone
}

// dragMoveLocked translates every selected element by the move delta. An
// element deleted since selection is silently skipped.
func (s *Session) dragMoveLocked(p geom.Point) {
	delta := p.Sub(s.last)
	elements := s.elementsLocked()
	var candidate *geom.Rect
	for _, el := range elements {
		if !s.selection[el.ID] {
			continue
		}
		x := el.X + delta.X
		y := el.Y + delta.Y
		s.dispatchLocked(core.NewUpdate(el.ID, core.ElementPatch{X: &x, Y: &y}))
		box := geom.Rect{X: x, Y: y, Width: el.Width, Height: el.Height}
		if candidate == nil {
			candidate = &box
		} else {
			union := candidate.Union(box)
			candidate = &union
		}
	}
	if s.snapEnabled && candidate != nil {
		s.guides = geom.AlignmentGuides(*candidate, s.unselectedBoxesLocked())
	}
}

// resizeMoveLocked recomputes the target box from the grabbed handle and the
// movement since the gesture anchor, clamped to the minimum size.
func (s *Session) resizeMoveLocked(p geom.Point) {
	if _, ok := s.findLocked(s.activeID); !ok {
		return
	}
	box := resizeBox(s.startBox, s.handle, p.Sub(s.anchor), s.cfg.MinElementSize)
	s.preview = &box
	s.dispatchLocked(core.NewUpdate(s.activeID, core.ElementPatch{
		X:      &box.X,
		Y:      &box.Y,
		Width:  &box.Width,
		Height: &box.Height,
	}))
	if s.snapEnabled {
		s.guides = geom.AlignmentGuides(box, s.unselectedBoxesLocked())
	}
}

// rotateMoveLocked applies the incremental rotation delta about the element's
// box center.
func (s *Session) rotateMoveLocked(p geom.Point) {
	el, ok := s.findLocked(s.activeID)
	if !ok {
		return
	}
	pivot := el.BoundingBox().Center()
	angle := el.Angle + geom.RotationDelta(pivot, s.last, p)
	s.dispatchLocked(core.NewUpdate(el.ID, core.ElementPatch{Angle: &angle}))
}

// eraseAtLocked hit-tests the pointer against all elements and deletes every
// hit. Throttled so a fast swipe does not hammer the projection.
func (s *Session) eraseAtLocked(p geom.Point) {
	now := s.now()
	if now.Sub(s.lastErase) < s.cfg.EraserThrottle {
		return
	}
	s.lastErase = now
	for _, el := range s.elementsLocked() {
		if el.BoundingBox().Contains(p) {
			s.dispatchLocked(core.NewDelete(el.ID))
		}
	}
}

// drawMoveLocked extends the pen accumulator or recomputes the shape preview.
func (s *Session) drawMoveLocked(p geom.Point) {
	cur := p
	if s.snapEnabled {
		cur = geom.SnapPoint(p, s.cfg.GridSize)
	}
	if s.tool == ToolPen {
		s.penPoints = append(s.penPoints, cur)
		return
	}
	box := geom.FromCorners(s.anchor, cur)
	s.preview = &box
	if s.snapEnabled {
		s.guides = geom.AlignmentGuides(box, s.allBoxesLocked())
	}
}

// commitDrawingLocked emits the single add operation for the finished
// drawing gesture.
func (s *Session) commitDrawingLocked(p geom.Point) {
	if s.tool == ToolPen {
		s.commitPenLocked()
		return
	}

	release := p
	if s.snapEnabled {
		release = geom.SnapPoint(p, s.cfg.GridSize)
	}
	box := geom.FromCorners(s.anchor, release)
	el := s.newElementLocked(box)

	switch s.tool {
	case ToolRectangle:
		el.Type = core.TypeRectangle
		el.Detail = core.RectangleDetail{FillColor: s.style.FillColor, StrokeStyle: s.style.StrokeStyle}
	case ToolEllipse:
		el.Type = core.TypeEllipse
		el.Detail = core.EllipseDetail{FillColor: s.style.FillColor, StrokeStyle: s.style.StrokeStyle}
	case ToolLine:
		el.Type = core.TypeLine
		el.Detail = core.LineDetail{Points: localSegment(box, s.anchor, release)}
	case ToolArrow:
		el.Type = core.TypeArrow
		el.Detail = core.ArrowDetail{Points: localSegment(box, s.anchor, release)}
	case ToolText:
		el.Type = core.TypeText
		el.Detail = core.TextDetail{
			FontSize:   s.cfg.DefaultFontSize,
			FontFamily: s.cfg.DefaultFontFamily,
			Editing:    true,
		}
	default:
		return
	}

	s.dispatchLocked(core.NewAdd(el))
}

// commitPenLocked simplifies then smooths the accumulated points, derives
// the bounding box, and emits one add for the new stroke. Fewer than two
// points is not a stroke.
func (s *Session) commitPenLocked() {
	if len(s.penPoints) < 2 {
		return
	}
	points := geom.Smooth(geom.Simplify(s.penPoints, s.cfg.SimplifyTolerance))
	box := geom.BoundsOf(points)

	local := make([]geom.Point, len(points))
	origin := geom.Pt(box.X, box.Y)
	for i, pt := range points {
		local[i] = pt.Sub(origin)
	}

	el := s.newElementLocked(box)
	el.Type = core.TypeStroke
	el.Detail = core.StrokeDetail{Points: local}
	s.dispatchLocked(core.NewAdd(el))
}

// newElementLocked builds the shared fields of a new element from the
// session style and the committed box.
func (s *Session) newElementLocked(box geom.Rect) core.Element {
	return core.Element{
		ID:          core.NewID(),
		X:           box.X,
		Y:           box.Y,
		Width:       box.Width,
		Height:      box.Height,
		StrokeColor: s.style.StrokeColor,
		StrokeWidth: s.style.StrokeWidth,
		Opacity:     s.style.Opacity,
	}
}

// handleAtLocked returns the element id and handle under p. Handles are only
// live when exactly one element is selected.
func (s *Session) handleAtLocked(p geom.Point) (string, Handle) {
	if len(s.selection) != 1 {
		return "", HandleNone
	}
	var id string
	for sel := range s.selection {
		id = sel
	}
	el, ok := s.findLocked(id)
	if !ok {
		return "", HandleNone
	}
	box := el.BoundingBox()

	spots := []struct {
		h  Handle
		at geom.Point
	}{
		{HandleNW, geom.Pt(box.Left(), box.Top())},
		{HandleNE, geom.Pt(box.Right(), box.Top())},
		{HandleSW, geom.Pt(box.Left(), box.Bottom())},
		{HandleSE, geom.Pt(box.Right(), box.Bottom())},
		{HandleRotate, geom.Pt(box.CenterX(), box.Top()-rotateHandleOffset)},
	}
	for _, spot := range spots {
		hit := geom.Rect{
			X:      spot.at.X - handleHitSize/2,
			Y:      spot.at.Y - handleHitSize/2,
			Width:  handleHitSize,
			Height: handleHitSize,
		}
		if hit.Contains(p) {
			return id, spot.h
		}
	}
	return "", HandleNone
}

// hitTopLocked returns the topmost element whose bounding box contains p.
func (s *Session) hitTopLocked(p geom.Point) (core.Element, bool) {
	elements := s.elementsLocked()
	for i := len(elements) - 1; i >= 0; i-- {
		if elements[i].BoundingBox().Contains(p) {
			return elements[i], true
		}
	}
	return core.Element{}, false
}

func (s *Session) findLocked(id string) (core.Element, bool) {
	for _, el := range s.elementsLocked() {
		if el.ID == id {
			return el, true
		}
	}
	return core.Element{}, false
}

func (s *Session) allBoxesLocked() []geom.Rect {
	elements := s.elementsLocked()
	boxes := make([]geom.Rect, 0, len(elements))
	for _, el := range elements {
		boxes = append(boxes, el.BoundingBox())
	}
	return boxes
}

func (s *Session) unselectedBoxesLocked() []geom.Rect {
	var boxes []geom.Rect
	for _, el := range s.elementsLocked() {
		if !s.selection[el.ID] {
			boxes = append(boxes, el.BoundingBox())
		}
	}
	return boxes
}

// resizeBox moves the grabbed corner of start by delta, keeping the opposite
// corner fixed and clamping both dimensions to min.
func resizeBox(start geom.Rect, h Handle, delta geom.Point, min float64) geom.Rect {
	box := start
	switch h {
	case HandleNW:
		box.X += delta.X
		box.Y += delta.Y
		box.Width -= delta.X
		box.Height -= delta.Y
	case HandleNE:
		box.Y += delta.Y
		box.Width += delta.X
		box.Height -= delta.Y
	case HandleSW:
		box.X += delta.X
		box.Width -= delta.X
		box.Height += delta.Y
	case HandleSE:
		box.Width += delta.X
		box.Height += delta.Y
	}

	if box.Width < min {
		if h == HandleNW || h == HandleSW {
			box.X = start.Right() - min
		}
		box.Width = min
	}
	if box.Height < min {
		if h == HandleNW || h == HandleNE {
			box.Y = start.Bottom() - min
		}
		box.Height = min
	}
	return box
}

func localSegment(box geom.Rect, a, b geom.Point) []geom.Point {
	origin := geom.Pt(box.X, box.Y)
	return []geom.Point{a.Sub(origin), b.Sub(origin)}
}
