package core

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// Entry describes one registered filter kind: display metadata plus the
// constructors the registry uses to build instances. NewAccelerated is nil
// for CPU-only filters.
type Entry struct {
	Name           string
	Description    string
	HasParameters  bool
	HasAccelerator bool
	NewCPU         func() Filter
	NewAccelerated func() Filter
}

// Registry maps stable string ids to filter entries. Registration is
// last-wins: re-registering an id replaces the previous entry, which lets
// an accelerator package upgrade CPU-only entries at startup. Safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
	log     *logrus.Logger
}

// NewRegistry returns an empty registry. A nil logger falls back to the
// standard logger.
func NewRegistry(log *logrus.Logger) *Registry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Registry{
		entries: make(map[string]Entry),
		log:     log,
	}
}

// Register binds id to entry, replacing any previous binding.
func (r *Registry) Register(id string, entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; exists {
		r.log.WithField("id", id).Debug("replacing registered filter")
	}
	r.entries[id] = entry
}

// Create builds a new filter instance for id. When preferAccelerator is
// true and the entry has an accelerated constructor, that variant is
// returned; otherwise the CPU constructor is used.
func (r *Registry) Create(id string, preferAccelerator bool) (Filter, error) {
	r.mu.RLock()
	entry, ok := r.entries[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFilterNotFound, id)
	}
	if preferAccelerator && entry.NewAccelerated != nil {
		return entry.NewAccelerated(), nil
	}
	return entry.NewCPU(), nil
}

// Info returns the entry registered for id.
func (r *Registry) Info(id string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[id]
	return entry, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[id]
	return ok
}

// IDs returns all registered ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
