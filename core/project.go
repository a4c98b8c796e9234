// ABOUTME: Pure fold of an operation sequence into the ordered element list.
// ABOUTME: List order is stacking order; add appends at the top, only reorder changes order.
package core

// Project replays an operation prefix into the ordered element list. It is
// pure and side-effect free: repeated evaluation over the same sequence
// yields the same list, and returned elements never alias log payloads.
//
// Per-kind policy:
//   - add: appends; a duplicate id overwrites in place at its existing
//     position (documented idempotence, not an error).
//   - update: shallow-merges the patch into the target; a missing target is
//     a silent no-op.
//   - delete: removes the target; silent no-op if absent.
//   - reorder: replaces the whole list verbatim. The payload is assumed to
//     be a permutation of the current ids; no validation is performed.
//
// Operations that fail Validate are dropped, never partially applied.
func Project(ops []Operation) []Element {
	var elements []Element
	for _, op := range ops {
		if op.Validate() != nil {
			continue
		}
		switch op.Kind {
		case OpAdd:
			el := op.Element.Clone()
			if i := indexOf(elements, el.ID); i >= 0 {
				elements[i] = el
			} else {
				elements = append(elements, el)
			}
		case OpUpdate:
			if i := indexOf(elements, op.TargetID); i >= 0 {
				elements[i] = op.Patch.ApplyTo(elements[i])
			}
		case OpDelete:
			if i := indexOf(elements, op.TargetID); i >= 0 {
				elements = append(elements[:i], elements[i+1:]...)
			}
		case OpReorder:
			replaced := make([]Element, len(op.Order))
			for i, el := range op.Order {
				replaced[i] = el.Clone()
			}
			elements = replaced
		}
	}
	return elements
}

func indexOf(elements []Element, id string) int {
	for i := range elements {
		if elements[i].ID == id {
			return i
		}
	}
	return -1
}
