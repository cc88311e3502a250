package session

import "sync"

// Registry maps a connection ID to the participant's display name. It is the
// only holder of name metadata; room membership itself lives in the Hub.
type Registry struct {
	mu    sync.RWMutex
	names map[string]string
}

func NewRegistry() *Registry { return &Registry{names: make(map[string]string)} }

func (r *Registry) Register(connID, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[connID] = username
}

// Lookup returns the registered name for a connection. Absence is not an
// error: disconnect races may look up a connection after logical departure.
func (r *Registry) Lookup(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.names[connID]
	return name, ok
}

func (r *Registry) Unregister(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.names, connID)
}
