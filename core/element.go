// ABOUTME: Element is the tagged union of canvas shapes with a "type" JSON discriminator.
// ABOUTME: Six variants: stroke, rectangle, ellipse, line, arrow, text; variant data lives in Detail.
package core

import (
	"encoding/json"

	"github.com/scrawl-app/scrawl/geom"
)

// ElementType discriminates the element variants.
type ElementType string

const (
	TypeStroke    ElementType = "stroke"
	TypeRectangle ElementType = "rectangle"
	TypeEllipse   ElementType = "ellipse"
	TypeLine      ElementType = "line"
	TypeArrow     ElementType = "arrow"
	TypeText      ElementType = "text"
)

// StrokeStyle is the outline style for filled shapes.
type StrokeStyle string

const (
	StyleSolid  StrokeStyle = "solid"
	StyleDashed StrokeStyle = "dashed"
	StyleDotted StrokeStyle = "dotted"
)

// Element is a single shape on the canvas. Shared fields describe the
// bounding box, rotation, and stroke appearance; variant-specific data lives
// behind the sealed Detail interface so consumers switch exhaustively.
type Element struct {
	ID          string      `json:"id"`
	Type        ElementType `json:"type"`
	X           float64     `json:"x"`
	Y           float64     `json:"y"`
	Width       float64     `json:"width"`
	Height      float64     `json:"height"`
	Angle       float64     `json:"angle"`
	StrokeColor string      `json:"stroke_color"`
	StrokeWidth float64     `json:"stroke_width"`
	Opacity     float64     `json:"opacity"`
	ZIndex      *int        `json:"z_index,omitempty"`
	Detail      Detail      `json:"-"` // Custom marshal/unmarshal
}

// Detail is the sealed variant payload of an Element.
type Detail interface {
	DetailType() ElementType
	detailSeal()
}

// StrokeDetail holds the freehand point list in element-local coordinates.
type StrokeDetail struct {
	Points []geom.Point `json:"points"`
}

func (d StrokeDetail) DetailType() ElementType { return TypeStroke }
func (d StrokeDetail) detailSeal()             {}

// RectangleDetail holds the fill and outline style of a rectangle.
type RectangleDetail struct {
	FillColor   string      `json:"fill_color"`
	StrokeStyle StrokeStyle `json:"stroke_style"`
}

func (d RectangleDetail) DetailType() ElementType { return TypeRectangle }
func (d RectangleDetail) detailSeal()             {}

// EllipseDetail holds the fill and outline style of an ellipse.
type EllipseDetail struct {
	FillColor   string      `json:"fill_color"`
	StrokeStyle StrokeStyle `json:"stroke_style"`
}

func (d EllipseDetail) DetailType() ElementType { return TypeEllipse }
func (d EllipseDetail) detailSeal()             {}

// LineDetail holds the two-plus point polyline of a line in local coordinates.
type LineDetail struct {
	Points []geom.Point `json:"points"`
}

func (d LineDetail) DetailType() ElementType { return TypeLine }
func (d LineDetail) detailSeal()             {}

// ArrowDetail holds the polyline of an arrow in local coordinates.
type ArrowDetail struct {
	Points []geom.Point `json:"points"`
}

func (d ArrowDetail) DetailType() ElementType { return TypeArrow }
func (d ArrowDetail) detailSeal()             {}

// TextDetail holds the text content and font. Editing is a transient UI
// flag and never crosses the wire.
type TextDetail struct {
	Text       string  `json:"text"`
	FontSize   float64 `json:"font_size"`
	FontFamily string  `json:"font_family"`
	Editing    bool    `json:"-"`
}

func (d TextDetail) DetailType() ElementType { return TypeText }
func (d TextDetail) detailSeal()             {}

// BoundingBox returns the element's axis-aligned bounding box.
// Rotation is ignored: hit testing and guides work on the unrotated box.
func (e Element) BoundingBox() geom.Rect {
	return geom.Rect{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
}

// Points returns the local point list for stroke/line/arrow variants and nil
// for the others.
func (e Element) Points() []geom.Point {
	switch d := e.Detail.(type) {
	case StrokeDetail:
		return d.Points
	case LineDetail:
		return d.Points
	case ArrowDetail:
		return d.Points
	}
	return nil
}

// Clone returns a deep copy of the element. Point slices are copied so the
// projector can hand out element lists without aliasing log payloads.
func (e Element) Clone() Element {
	out := e
	if e.ZIndex != nil {
		z := *e.ZIndex
		out.ZIndex = &z
	}
	switch d := e.Detail.(type) {
	case StrokeDetail:
		out.Detail = StrokeDetail{Points: clonePoints(d.Points)}
	case LineDetail:
		out.Detail = LineDetail{Points: clonePoints(d.Points)}
	case ArrowDetail:
		out.Detail = ArrowDetail{Points: clonePoints(d.Points)}
	}
	return out
}

func clonePoints(pts []geom.Point) []geom.Point {
	if pts == nil {
		return nil
	}
	out := make([]geom.Point, len(pts))
	copy(out, pts)
	return out
}

// elementJSON is the wire format for Element with all variant fields flattened.
type elementJSON struct {
	ID          string       `json:"id"`
	Type        ElementType  `json:"type"`
	X           float64      `json:"x"`
	Y           float64      `json:"y"`
	Width       float64      `json:"width"`
	Height      float64      `json:"height"`
	Angle       float64      `json:"angle"`
	StrokeColor string       `json:"stroke_color"`
	StrokeWidth float64      `json:"stroke_width"`
	Opacity     float64      `json:"opacity"`
	ZIndex      *int         `json:"z_index,omitempty"`
	Points      []geom.Point `json:"points,omitempty"`
	FillColor   string       `json:"fill_color,omitempty"`
	StrokeStyle StrokeStyle  `json:"stroke_style,omitempty"`
	Text        *string      `json:"text,omitempty"`
	FontSize    float64      `json:"font_size,omitempty"`
	FontFamily  string       `json:"font_family,omitempty"`
}

// MarshalJSON serializes the element with its variant fields inlined.
func (e Element) MarshalJSON() ([]byte, error) {
	j := elementJSON{
		ID:          e.ID,
		Type:        e.Type,
		X:           e.X,
		Y:           e.Y,
		Width:       e.Width,
		Height:      e.Height,
		Angle:       e.Angle,
		StrokeColor: e.StrokeColor,
		StrokeWidth: e.StrokeWidth,
		Opacity:     e.Opacity,
		ZIndex:      e.ZIndex,
	}
	switch d := e.Detail.(type) {
	case StrokeDetail:
		j.Points = d.Points
	case LineDetail:
		j.Points = d.Points
	case ArrowDetail:
		j.Points = d.Points
	case RectangleDetail:
		j.FillColor = d.FillColor
		j.StrokeStyle = d.StrokeStyle
	case EllipseDetail:
		j.FillColor = d.FillColor
		j.StrokeStyle = d.StrokeStyle
	case TextDetail:
		text := d.Text
		j.Text = &text
		j.FontSize = d.FontSize
		j.FontFamily = d.FontFamily
	}
	return json.Marshal(j)
}

// UnmarshalJSON deserializes the element, reconstructing the variant detail
// from the type discriminator. An unknown type is a ValidationError.
func (e *Element) UnmarshalJSON(data []byte) error {
	var j elementJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}

	var detail Detail
	switch j.Type {
	case TypeStroke:
		detail = StrokeDetail{Points: j.Points}
	case TypeLine:
		detail = LineDetail{Points: j.Points}
	case TypeArrow:
		detail = ArrowDetail{Points: j.Points}
	case TypeRectangle:
		detail = RectangleDetail{FillColor: j.FillColor, StrokeStyle: j.StrokeStyle}
	case TypeEllipse:
		detail = EllipseDetail{FillColor: j.FillColor, StrokeStyle: j.StrokeStyle}
	case TypeText:
		var text string
		if j.Text != nil {
			text = *j.Text
		}
		detail = TextDetail{Text: text, FontSize: j.FontSize, FontFamily: j.FontFamily}
	default:
		return &ValidationError{Reason: "unknown element type: " + string(j.Type)}
	}

	e.ID = j.ID
	e.Type = j.Type
	e.X = j.X
	e.Y = j.Y
	e.Width = j.Width
	e.Height = j.Height
	e.Angle = j.Angle
	e.StrokeColor = j.StrokeColor
	e.StrokeWidth = j.StrokeWidth
	e.Opacity = j.Opacity
	e.ZIndex = j.ZIndex
	e.Detail = detail
	return nil
}
