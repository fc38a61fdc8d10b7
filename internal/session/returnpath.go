package session

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/seren-dev/songhop/internal/credstore"
)

// ReturnPaths preserves the route a user was denied access to, so a
// successful login can land them there instead of the default view.
//
// The value normally rides in memory. The delegated flow leaves the process
// boundary (a full browser round-trip), so callers that need the path to
// survive it record a persistent copy in the credential store's fallback
// slot. Consume prefers the persistent copy and clears both, whether or not
// the value gets used, so a later unrelated login never replays a stale
// destination.
type ReturnPaths struct {
	mu        sync.Mutex
	transient Route
	store     *credstore.Store
	logger    *log.Logger
}

// NewReturnPaths creates a [ReturnPaths] backed by the given store.
func NewReturnPaths(store *credstore.Store, logger *log.Logger) *ReturnPaths {
	return &ReturnPaths{store: store, logger: logger}
}

// Record remembers the denied route in transient navigation state.
func (p *ReturnPaths) Record(route Route) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transient = route
}

// RecordPersistent remembers the denied route in both transient state and
// the credential store, surviving a full-page redirect.
func (p *ReturnPaths) RecordPersistent(route Route) {
	p.Record(route)

	if err := p.store.Store(credstore.SlotReturnPath, string(route)); err != nil {
		p.logger.Warn("failed to persist return path", "error", err)
	}
}

// Consume returns the pending return path, or empty when none is set. The
// persistent copy takes priority. Both copies are cleared: the path is
// usable at most once.
func (p *ReturnPaths) Consume() Route {
	p.mu.Lock()
	transient := p.transient
	p.transient = ""
	p.mu.Unlock()

	persisted, err := p.store.Retrieve(credstore.SlotReturnPath)
	if err != nil {
		p.logger.Warn("failed to read persisted return path", "error", err)
	}
	p.store.Clear(credstore.SlotReturnPath)

	if persisted != "" {
		return Route(persisted)
	}
	return transient
}
