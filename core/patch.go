// ABOUTME: ElementPatch is the partial-element payload for update operations.
// ABOUTME: Pointer fields give present/absent semantics; merge is shallow and last-write-wins.
package core

import "github.com/scrawl-app/scrawl/geom"

// ElementPatch is a partial element. A nil field leaves the target value
// untouched; a set field replaces it wholesale. Variant fields only apply
// when the target's detail carries them; mismatches are ignored, matching
// the projector's silent no-op policy.
type ElementPatch struct {
	X           *float64      `json:"x,omitempty"`
	Y           *float64      `json:"y,omitempty"`
	Width       *float64      `json:"width,omitempty"`
	Height      *float64      `json:"height,omitempty"`
	Angle       *float64      `json:"angle,omitempty"`
	StrokeColor *string       `json:"stroke_color,omitempty"`
	StrokeWidth *float64      `json:"stroke_width,omitempty"`
	Opacity     *float64      `json:"opacity,omitempty"`
	ZIndex      *int          `json:"z_index,omitempty"`
	Points      *[]geom.Point `json:"points,omitempty"`
	FillColor   *string       `json:"fill_color,omitempty"`
	StrokeStyle *StrokeStyle  `json:"stroke_style,omitempty"`
	Text        *string       `json:"text,omitempty"`
	FontSize    *float64      `json:"font_size,omitempty"`
	FontFamily  *string       `json:"font_family,omitempty"`
}

// ApplyTo shallow-merges the patch into el and returns the merged element.
// The receiver element is not mutated.
func (p ElementPatch) ApplyTo(el Element) Element {
	out := el.Clone()
	if p.X != nil {
		out.X = *p.X
	}
	if p.Y != nil {
		out.Y = *p.Y
	}
	if p.Width != nil {
		out.Width = *p.Width
	}
	if p.Height != nil {
		out.Height = *p.Height
	}
	if p.Angle != nil {
		out.Angle = *p.Angle
	}
	if p.StrokeColor != nil {
		out.StrokeColor = *p.StrokeColor
	}
	if p.StrokeWidth != nil {
		out.StrokeWidth = *p.StrokeWidth
	}
	if p.Opacity != nil {
		out.Opacity = *p.Opacity
	}
	if p.ZIndex != nil {
		z := *p.ZIndex
		out.ZIndex = &z
	}

	switch d := out.Detail.(type) {
	case StrokeDetail:
		if p.Points != nil {
			d.Points = clonePoints(*p.Points)
			out.Detail = d
		}
	case LineDetail:
		if p.Points != nil {
			d.Points = clonePoints(*p.Points)
			out.Detail = d
		}
	case ArrowDetail:
		if p.Points != nil {
			d.Points = clonePoints(*p.Points)
			out.Detail = d
		}
	case RectangleDetail:
		if p.FillColor != nil {
			d.FillColor = *p.FillColor
		}
		if p.StrokeStyle != nil {
			d.StrokeStyle = *p.StrokeStyle
		}
		out.Detail = d
	case EllipseDetail:
		if p.FillColor != nil {
			d.FillColor = *p.FillColor
		}
		if p.StrokeStyle != nil {
			d.StrokeStyle = *p.StrokeStyle
		}
		out.Detail = d
	case TextDetail:
		if p.Text != nil {
			d.Text = *p.Text
		}
		if p.FontSize != nil {
			d.FontSize = *p.FontSize
		}
		if p.FontFamily != nil {
			d.FontFamily = *p.FontFamily
		}
		out.Detail = d
	}

	return out
}
