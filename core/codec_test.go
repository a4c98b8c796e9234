// ABOUTME: Tests for the element and operation wire codecs.
// ABOUTME: Round-trips each discriminated variant and rejects unknown types.
package core_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/scrawl-app/scrawl/core"
	"github.com/scrawl-app/scrawl/geom"
)

func TestElementRoundTripStroke(t *testing.T) {
	el := core.Element{
		ID:          "s1",
		Type:        core.TypeStroke,
		X:           5,
		Y:           7,
		Width:       20,
		Height:      15,
		StrokeColor: "#1e1e1e",
		StrokeWidth: 2,
		Opacity:     1,
		Detail:      core.StrokeDetail{Points: []geom.Point{geom.Pt(0, 0), geom.Pt(20, 15)}},
	}

	data, err := json.Marshal(el)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"type":"stroke"`) {
		t.Errorf("discriminator missing: %s", data)
	}

	var back core.Element
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	d, ok := back.Detail.(core.StrokeDetail)
	if !ok {
		t.Fatalf("detail type %T, want StrokeDetail", back.Detail)
	}
	if len(d.Points) != 2 || d.Points[1] != geom.Pt(20, 15) {
		t.Errorf("points=%v", d.Points)
	}
}

func TestElementRoundTripText(t *testing.T) {
	el := core.Element{
		ID:          "t1",
		Type:        core.TypeText,
		StrokeColor: "#000000",
		Opacity:     1,
		Detail:      core.TextDetail{Text: "", FontSize: 16, FontFamily: "sans-serif", Editing: true},
	}

	data, err := json.Marshal(el)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "editing") {
		t.Errorf("transient editing flag must not cross the wire: %s", data)
	}
	// Empty text is still a present field, not an omitted one.
	if !strings.Contains(string(data), `"text":""`) {
		t.Errorf("empty text should serialize explicitly: %s", data)
	}

	var back core.Element
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	d := back.Detail.(core.TextDetail)
	if d.FontSize != 16 || d.FontFamily != "sans-serif" {
		t.Errorf("detail=%+v", d)
	}
	if d.Editing {
		t.Error("editing must reset on decode")
	}
}

func TestElementUnknownTypeRejected(t *testing.T) {
	var el core.Element
	err := json.Unmarshal([]byte(`{"id":"x","type":"hexagon"}`), &el)

	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err=%v, want ValidationError", err)
	}
}

func TestOperationRoundTripAdd(t *testing.T) {
	op := core.NewAdd(rectElement("a"))

	data, err := json.Marshal(op)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back core.Operation
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Kind != core.OpAdd || back.Element == nil {
		t.Fatalf("back=%+v", back)
	}
	if back.Element.ID != "a" || back.TargetID != "a" {
		t.Errorf("ids: element=%q target=%q", back.Element.ID, back.TargetID)
	}
	if back.TS != op.TS {
		t.Errorf("ts=%d, want %d", back.TS, op.TS)
	}
}

func TestOperationRoundTripUpdate(t *testing.T) {
	op := core.NewUpdate("a", core.ElementPatch{X: f64(5)})

	data, err := json.Marshal(op)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// Absent patch fields stay off the wire entirely.
	if strings.Contains(string(data), "stroke_color") {
		t.Errorf("unset patch fields must be omitted: %s", data)
	}

	var back core.Operation
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Patch == nil || back.Patch.X == nil || *back.Patch.X != 5 {
		t.Fatalf("patch=%+v", back.Patch)
	}
	if back.Patch.Y != nil {
		t.Error("unset fields must decode as nil")
	}
}

func TestOperationRoundTripDelete(t *testing.T) {
	op := core.NewDelete("a")

	data, err := json.Marshal(op)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "payload") {
		t.Errorf("delete carries no payload: %s", data)
	}

	var back core.Operation
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Kind != core.OpDelete || back.TargetID != "a" {
		t.Fatalf("back=%+v", back)
	}
}

func TestOperationMismatchedPayloadRejected(t *testing.T) {
	raw := `{"id":"op1","kind":"update","target_id":"a","ts":1}`
	var op core.Operation
	err := json.Unmarshal([]byte(raw), &op)

	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("update without payload must fail validation, got %v", err)
	}
}

func TestOperationUnknownKindRejected(t *testing.T) {
	raw := `{"id":"op1","kind":"transmogrify","ts":1}`
	var op core.Operation
	err := json.Unmarshal([]byte(raw), &op)

	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err=%v, want ValidationError", err)
	}
}

func TestNewIDIsUniqueAndSortable(t *testing.T) {
	a := core.NewID()
	b := core.NewID()
	if a == b {
		t.Error("ids must be unique")
	}
	if len(a) != 26 {
		t.Errorf("id %q has length %d, want 26", a, len(a))
	}
}
