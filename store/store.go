// ABOUTME: DocumentStore is the authoritative shared-document collaborator contract.
// ABOUTME: Appends are atomic and idempotent per operation id; presence reads are TTL-filtered.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/scrawl-app/scrawl/core"
)

// ErrDocumentNotFound indicates the referenced document does not exist.
var ErrDocumentNotFound = errors.New("document not found")

// ConflictError indicates an append lost its optimistic-concurrency race
// more times than the retry bound allows.
type ConflictError struct {
	DocID    string
	Attempts int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("append conflict on document %s after %d attempts", e.DocID, e.Attempts)
}

// DocumentStore is the remote document collaborator. Implementations must
// make AppendOperations atomic under concurrent writers and idempotent per
// operation id, and must filter stale presences server-side.
type DocumentStore interface {
	// Create makes a new document seeded with the given elements and
	// returns it. Seed elements become the first operations of the log.
	Create(ctx context.Context, title string, elements []core.Element) (*core.Document, error)

	// Get returns the full document: log, projected elements, version,
	// and live presences.
	Get(ctx context.Context, id string) (*core.Document, error)

	// AppendOperations appends ops to the document log in order. Already
	// seen operation ids are skipped. The append is atomic: concurrent
	// writers are serialized and a caller never observes a partial batch.
	AppendOperations(ctx context.Context, id string, ops []core.Operation) error

	// OperationsSince returns the operations with log positions at or
	// beyond version, in server-assigned order.
	OperationsSince(ctx context.Context, id string, version int) ([]core.Operation, error)

	// UpdatePresence records a collaborator's live cursor.
	UpdatePresence(ctx context.Context, id string, presence core.Presence) error

	// Presences returns the live presences, excluding entries older than
	// the store's TTL.
	Presences(ctx context.Context, id string) ([]core.Presence, error)
}
