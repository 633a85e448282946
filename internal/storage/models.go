// Package storage provides the on-device document store and its repository.
package storage

import (
	"time"

	"github.com/google/uuid"
)

// Document is a user-visible scanned unit composed of an ordered set of pages.
type Document struct {
	ID        uuid.UUID
	Title     string
	CreatedAt time.Time
	Locked    bool
	PageCount int
}

// Page is one captured image belonging to exactly one document. Content is
// the encoded JPEG blob, stored out-of-line from the document row.
type Page struct {
	DocumentID uuid.UUID
	Index      int
	Content    []byte
}

// PageContent is the (index, encoded bytes) pair handed to Create by the
// capture assembler.
type PageContent struct {
	Index   int
	Content []byte
}

// EventType identifies a repository mutation.
type EventType string

const (
	EventCreated EventType = "created"
	EventRenamed EventType = "renamed"
	EventLocked  EventType = "locked"
	EventDeleted EventType = "deleted"
)

// Event is delivered to repository observers after a successful mutation.
type Event struct {
	Type       EventType
	DocumentID uuid.UUID
}
