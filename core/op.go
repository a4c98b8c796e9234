// ABOUTME: Operation is the atomic recorded change: add, update, delete, or reorder.
// ABOUTME: Wire format is {id, kind, target_id?, payload?, ts} with a kind-dependent payload.
package core

import (
	"encoding/json"
	"time"
)

// OpKind discriminates the four operation variants.
type OpKind string

const (
	OpAdd     OpKind = "add"
	OpUpdate  OpKind = "update"
	OpDelete  OpKind = "delete"
	OpReorder OpKind = "reorder"
)

// Operation is one atomic change to a document. Exactly one of Element,
// Patch, or Order is populated depending on Kind; delete carries only the
// target id.
type Operation struct {
	ID       string
	Kind     OpKind
	TargetID string
	Element  *Element      // add
	Patch    *ElementPatch // update
	Order    []Element     // reorder
	TS       int64         // unix milliseconds
}

// NewAdd builds an add operation for a full element.
func NewAdd(el Element) Operation {
	return Operation{
		ID:       NewID(),
		Kind:     OpAdd,
		TargetID: el.ID,
		Element:  &el,
		TS:       time.Now().UnixMilli(),
	}
}

// NewUpdate builds an update operation patching the element with targetID.
func NewUpdate(targetID string, patch ElementPatch) Operation {
	return Operation{
		ID:       NewID(),
		Kind:     OpUpdate,
		TargetID: targetID,
		Patch:    &patch,
		TS:       time.Now().UnixMilli(),
	}
}

// NewDelete builds a delete operation for the element with targetID.
func NewDelete(targetID string) Operation {
	return Operation{
		ID:       NewID(),
		Kind:     OpDelete,
		TargetID: targetID,
		TS:       time.Now().UnixMilli(),
	}
}

// NewReorder builds a reorder operation carrying the full permuted list.
func NewReorder(order []Element) Operation {
	return Operation{
		ID:    NewID(),
		Kind:  OpReorder,
		Order: order,
		TS:    time.Now().UnixMilli(),
	}
}

// Validate checks the kind/payload pairing. Invalid operations are dropped
// by callers before dispatch, never partially applied.
func (op Operation) Validate() error {
	if op.ID == "" {
		return &ValidationError{Reason: "operation id is empty"}
	}
	switch op.Kind {
	case OpAdd:
		if op.Element == nil {
			return &ValidationError{Reason: "add without element payload"}
		}
		if op.Element.ID == "" {
			return &ValidationError{Reason: "add element has no id"}
		}
	case OpUpdate:
		if op.TargetID == "" {
			return &ValidationError{Reason: "update without target id"}
		}
		if op.Patch == nil {
			return &ValidationError{Reason: "update without patch payload"}
		}
	case OpDelete:
		if op.TargetID == "" {
			return &ValidationError{Reason: "delete without target id"}
		}
	case OpReorder:
		if op.Order == nil {
			return &ValidationError{Reason: "reorder without element list"}
		}
	default:
		return &ValidationError{Reason: "unknown operation kind: " + string(op.Kind)}
	}
	return nil
}

// operationJSON is the wire format for Operation.
type operationJSON struct {
	ID       string          `json:"id"`
	Kind     OpKind          `json:"kind"`
	TargetID string          `json:"target_id,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	TS       int64           `json:"ts"`
}

// MarshalJSON serializes the operation with its kind-dependent payload.
func (op Operation) MarshalJSON() ([]byte, error) {
	j := operationJSON{
		ID:       op.ID,
		Kind:     op.Kind,
		TargetID: op.TargetID,
		TS:       op.TS,
	}

	var payload any
	switch op.Kind {
	case OpAdd:
		payload = op.Element
	case OpUpdate:
		payload = op.Patch
	case OpDelete:
		payload = nil
	case OpReorder:
		payload = op.Order
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		j.Payload = data
	}
	return json.Marshal(j)
}

// UnmarshalJSON deserializes the operation, decoding the payload according
// to the kind and validating the pairing.
func (op *Operation) UnmarshalJSON(data []byte) error {
	var j operationJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}

	out := Operation{
		ID:       j.ID,
		Kind:     j.Kind,
		TargetID: j.TargetID,
		TS:       j.TS,
	}

	switch j.Kind {
	case OpAdd:
		if len(j.Payload) == 0 {
			return &ValidationError{Reason: "add without element payload"}
		}
		var el Element
		if err := json.Unmarshal(j.Payload, &el); err != nil {
			return err
		}
		out.Element = &el
		if out.TargetID == "" {
			out.TargetID = el.ID
		}
	case OpUpdate:
		if len(j.Payload) == 0 {
			return &ValidationError{Reason: "update without patch payload"}
		}
		var patch ElementPatch
		if err := json.Unmarshal(j.Payload, &patch); err != nil {
			return err
		}
		out.Patch = &patch
	case OpDelete:
		// No payload.
	case OpReorder:
		if len(j.Payload) == 0 {
			return &ValidationError{Reason: "reorder without element list"}
		}
		var order []Element
		if err := json.Unmarshal(j.Payload, &order); err != nil {
			return err
		}
		out.Order = order
	default:
		return &ValidationError{Reason: "unknown operation kind: " + string(j.Kind)}
	}

	if err := out.Validate(); err != nil {
		return err
	}
	*op = out
	return nil
}
