// ABOUTME: ULID generation helper using crypto/rand for sortable unique IDs.
// ABOUTME: Centralizes ID creation so elements, operations, and documents share one entropy source.
package core

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// NewID generates a new ULID string using crypto/rand entropy.
// Element, operation, and document IDs all come from here.
func NewID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
