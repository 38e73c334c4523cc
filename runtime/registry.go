package runtime

import (
	"board-lab/contract"
	"sync"
)

// Registry tracks the live subscribers of the board. Delivery to a
// subscriber is best-effort: losing one never affects the ledger itself.
type Registry struct {
	mu       sync.RWMutex
	Sessions map[string]contract.EventSink // map subscriber -> Sink
}

func NewRegistry() *Registry {
	return &Registry{
		Sessions: make(map[string]contract.EventSink),
	}
}

// Sinks returns all active sinks. The slice is rebuilt on every call so the
// fanout worker never holds a reference into the live map.
func (r *Registry) Sinks() []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.Sessions) == 0 {
		return nil
	}
	activeSinks := make([]contract.EventSink, 0, len(r.Sessions))
	for _, sink := range r.Sessions {
		activeSinks = append(activeSinks, sink)
	}
	return activeSinks
}

// Subscribe registers a subscriber's active connection. A second Subscribe
// with the same id replaces the previous sink.
func (r *Registry) Subscribe(subscriberID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Sessions[subscriberID] = sink
}

// Unsubscribe removes a subscriber from the registry so no empty entries
// are left behind over time.
func (r *Registry) Unsubscribe(subscriberID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.Sessions, subscriberID)
}
