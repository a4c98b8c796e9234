// ABOUTME: YAML canvas templates used to seed new documents with starter elements.
// ABOUTME: Template elements are plain declarative YAML, converted to core elements on load.
package template

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/scrawl-app/scrawl/core"
	"github.com/scrawl-app/scrawl/geom"
)

// Template is a declarative starting point for a new document.
type Template struct {
	Title    string            `yaml:"title"`
	Elements []templateElement `yaml:"elements"`
}

// templateElement is the YAML shape of one seed element. Only the fields a
// template author reasonably sets are exposed; ids are assigned on load.
type templateElement struct {
	Type        string       `yaml:"type"`
	X           float64      `yaml:"x"`
	Y           float64      `yaml:"y"`
	Width       float64      `yaml:"width"`
	Height      float64      `yaml:"height"`
	Angle       float64      `yaml:"angle"`
	StrokeColor string       `yaml:"stroke_color"`
	StrokeWidth float64      `yaml:"stroke_width"`
	Opacity     *float64     `yaml:"opacity"`
	Points      []geom.Point `yaml:"points"`
	FillColor   string       `yaml:"fill_color"`
	StrokeStyle string       `yaml:"stroke_style"`
	Text        string       `yaml:"text"`
	FontSize    float64      `yaml:"font_size"`
	FontFamily  string       `yaml:"font_family"`
}

// Blank is the built-in empty template.
var Blank = Template{Title: "Untitled"}

// Load parses a YAML template from data.
func Load(data []byte) (*Template, error) {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	if t.Title == "" {
		t.Title = Blank.Title
	}
	for i, el := range t.Elements {
		if _, err := elementType(el.Type); err != nil {
			return nil, fmt.Errorf("template element %d: %w", i, err)
		}
	}
	return &t, nil
}

// LoadFile parses a YAML template from the file at path.
func LoadFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return Load(data)
}

// Materialize converts the template's elements into core elements with
// fresh ids, ready to seed a document.
func (t *Template) Materialize() []core.Element {
	out := make([]core.Element, 0, len(t.Elements))
	for _, te := range t.Elements {
		typ, err := elementType(te.Type)
		if err != nil {
			continue // Load already rejected unknown types
		}

		opacity := 1.0
		if te.Opacity != nil {
			opacity = *te.Opacity
		}
		strokeWidth := te.StrokeWidth
		if strokeWidth == 0 {
			strokeWidth = 2
		}

		el := core.Element{
			ID:          core.NewID(),
			Type:        typ,
			X:           te.X,
			Y:           te.Y,
			Width:       te.Width,
			Height:      te.Height,
			Angle:       te.Angle,
			StrokeColor: te.StrokeColor,
			StrokeWidth: strokeWidth,
			Opacity:     opacity,
		}

		style := core.StrokeStyle(te.StrokeStyle)
		if style == "" {
			style = core.StyleSolid
		}

		switch typ {
		case core.TypeStroke:
			el.Detail = core.StrokeDetail{Points: te.Points}
		case core.TypeLine:
			el.Detail = core.LineDetail{Points: te.Points}
		case core.TypeArrow:
			el.Detail = core.ArrowDetail{Points: te.Points}
		case core.TypeRectangle:
			el.Detail = core.RectangleDetail{FillColor: te.FillColor, StrokeStyle: style}
		case core.TypeEllipse:
			el.Detail = core.EllipseDetail{FillColor: te.FillColor, StrokeStyle: style}
		case core.TypeText:
			el.Detail = core.TextDetail{Text: te.Text, FontSize: te.FontSize, FontFamily: te.FontFamily}
		}
		out = append(out, el)
	}
	return out
}

func elementType(s string) (core.ElementType, error) {
	switch t := core.ElementType(s); t {
	case core.TypeStroke, core.TypeRectangle, core.TypeEllipse, core.TypeLine, core.TypeArrow, core.TypeText:
		return t, nil
	default:
		return "", fmt.Errorf("unknown element type %q", s)
	}
}
