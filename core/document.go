// ABOUTME: Document and Presence wire types shared by the store and the sync coordinator.
// ABOUTME: Elements is a derived cache of the projection, never the source of truth.
package core

import (
	"time"

	"github.com/scrawl-app/scrawl/geom"
)

// Presence is the ephemeral record of a collaborator's live cursor.
// Stale entries are filtered by the store based on UpdatedAt, not by clients.
type Presence struct {
	UserID    string     `json:"user_id"`
	Username  string     `json:"username"`
	Cursor    geom.Point `json:"cursor"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Document is the wire shape of a shared canvas document. Elements caches
// the projection of Ops; AckVersion counts the operations a client has
// acknowledged from the store.
type Document struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Elements   []Element   `json:"elements"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Ops        []Operation `json:"ops"`
	AckVersion int         `json:"ack_version"`
	Presences  []Presence  `json:"presences"`
}
