package services

import (
	"sync"

	"github.com/google/uuid"
)

// Listener receives the refreshed snapshot after each committed mutation,
// or an error descriptor if the post-commit read failed.
type Listener func(*Snapshot, error)

// Notifier is the change notification layer. It fans "ledger changed"
// events out to registered listeners without the engine knowing who is
// listening. Events fire only after a mutation fully commits, never
// mid-operation.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[string]Listener
}

// NewNotifier creates an empty Notifier.
func NewNotifier() *Notifier {
	return &Notifier{listeners: make(map[string]Listener)}
}

// Subscribe registers a listener and returns an opaque token for
// Unsubscribe.
func (n *Notifier) Subscribe(fn Listener) string {
	token := uuid.NewString()
	n.mu.Lock()
	n.listeners[token] = fn
	n.mu.Unlock()
	return token
}

// Unsubscribe removes the listener registered under token. Unknown tokens
// are ignored.
func (n *Notifier) Unsubscribe(token string) {
	n.mu.Lock()
	delete(n.listeners, token)
	n.mu.Unlock()
}

// Publish invokes every currently registered listener exactly once,
// synchronously.
func (n *Notifier) Publish(snap *Snapshot, err error) {
	n.mu.RLock()
	listeners := make([]Listener, 0, len(n.listeners))
	for _, fn := range n.listeners {
		listeners = append(listeners, fn)
	}
	n.mu.RUnlock()

	for _, fn := range listeners {
		fn(snap, err)
	}
}
