// Package lock implements the advisory view gate for locked documents.
package lock

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/scandesk/scandesk/internal/domain"
	"github.com/scandesk/scandesk/internal/storage"
)

// Authenticator is the external biometric collaborator: a capability check
// plus an asynchronous authenticate call. Prompt expiry is owned by the
// platform service, not by this package.
type Authenticator interface {
	Available() bool
	Authenticate(ctx context.Context, reason string) (bool, error)
}

// Gate tracks which locked documents have been unlocked for the current
// foreground session. Locking is advisory: it gates viewing only, there is
// no encryption behind it.
type Gate struct {
	auth Authenticator

	mu       sync.Mutex
	unlocked map[uuid.UUID]struct{}
}

// NewGate creates a gate backed by the given authenticator.
func NewGate(auth Authenticator) *Gate {
	return &Gate{
		auth:     auth,
		unlocked: make(map[uuid.UUID]struct{}),
	}
}

// CanView reports whether the document's pages may be shown right now.
func (g *Gate) CanView(doc *storage.Document) bool {
	if !doc.Locked {
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.unlocked[doc.ID]
	return ok
}

// Unlock authenticates the user and, on success, marks the document
// viewable for the rest of the foreground session. Unlocked and already
// unlocked documents pass through.
func (g *Gate) Unlock(ctx context.Context, doc *storage.Document, reason string) error {
	if g.CanView(doc) {
		return nil
	}

	if !g.auth.Available() {
		return domain.AuthError("biometric authentication is not available", nil)
	}

	ok, err := g.auth.Authenticate(ctx, reason)
	if err != nil {
		return domain.AuthError("authentication failed", err)
	}
	if !ok {
		return domain.AuthError("authentication was not confirmed", nil)
	}

	g.mu.Lock()
	g.unlocked[doc.ID] = struct{}{}
	g.mu.Unlock()
	return nil
}

// Forget drops a single document's unlocked status, for when its lock flag
// is toggled back on.
func (g *Gate) Forget(id uuid.UUID) {
	g.mu.Lock()
	delete(g.unlocked, id)
	g.mu.Unlock()
}

// Relock clears all unlocked state. Called when the app leaves the
// foreground; every locked document requires authentication again.
func (g *Gate) Relock() {
	g.mu.Lock()
	g.unlocked = make(map[uuid.UUID]struct{})
	g.mu.Unlock()
}
