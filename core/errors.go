// ABOUTME: Error taxonomy for operation validation and payload decoding.
// ABOUTME: Missing update/delete targets are deliberately not errors; the projector no-ops them.
package core

// ValidationError indicates a malformed operation or element payload.
// Invalid operations are dropped before they reach the log; they are never
// partially applied.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid payload: " + e.Reason
}
