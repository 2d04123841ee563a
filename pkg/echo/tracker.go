// Package echo lets a collaborating client ignore broadcasts caused by its own mutations.
//
// A client records the reference returned by each mutation it makes. When a broadcast
// for the same resource arrives carrying that reference, the client already holds the
// resulting state and skips the reload; any other reference means someone else changed
// the resource. Reference 0 means "none" and always triggers a reload.
//
// The server never imports this package. It is the client-side half of the
// reference protocol, for Go clients and integration harnesses that consume the
// shoppingList:itemsUpdated and mealPlan:itemsUpdated events.
package echo

import "sync"

// Tracker remembers the last reference this client produced per resource
type Tracker struct {
	mu   sync.Mutex
	last map[string]int64
}

// NewTracker constructor
func NewTracker() *Tracker {
	return &Tracker{last: make(map[string]int64)}
}

// Record stores the reference returned by the client's own mutation
func (t *Tracker) Record(resource string, reference int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last[resource] = reference
}

// ShouldReload reports whether a broadcast carrying reference requires a reload
func (t *Tracker) ShouldReload(resource string, reference int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if reference == 0 {
		return true
	}
	own, ok := t.last[resource]
	return !ok || own != reference
}
