package engine

import (
	"os"
	"sync"
)

// tmpRegistry tracks temp files that a copy has created but not yet
// renamed into place, so an interrupted run can remove them.
type tmpRegistry struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

func newTmpRegistry() *tmpRegistry {
	return &tmpRegistry{paths: make(map[string]struct{})}
}

func (r *tmpRegistry) add(path string) {
	r.mu.Lock()
	r.paths[path] = struct{}{}
	r.mu.Unlock()
}

func (r *tmpRegistry) remove(path string) {
	r.mu.Lock()
	delete(r.paths, path)
	r.mu.Unlock()
}

func (r *tmpRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paths)
}

// cleanup removes every file still registered and empties the registry.
func (r *tmpRegistry) cleanup() {
	r.mu.Lock()
	paths := r.paths
	r.paths = make(map[string]struct{})
	r.mu.Unlock()

	for p := range paths {
		_ = os.Remove(p)
	}
}
