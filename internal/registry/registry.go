package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/blockpanel/internal/domain"
)

var (
	// ErrNotFound is returned when no application has the requested ID.
	ErrNotFound = errors.New("application not found")
	// ErrDuplicateID is returned when prepending a record whose ID is taken.
	ErrDuplicateID = errors.New("duplicate application id")
)

// Registry is the ordered in-memory list of applications, newest first.
// Order is insertion order; nothing ever re-sorts it.
type Registry struct {
	mu   sync.RWMutex
	apps []*domain.Application
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{}
}

// Prepend inserts app at the front of the list.
func (r *Registry) Prepend(app *domain.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexLocked(app.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, app.ID)
	}

	r.apps = append([]*domain.Application{app}, r.apps...)
	return nil
}

// Load replaces the whole list, keeping the given order. Used for seeding.
func (r *Registry) Load(apps []*domain.Application) error {
	seen := make(map[string]bool, len(apps))
	for _, app := range apps {
		if seen[app.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, app.ID)
		}
		seen[app.ID] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.apps = make([]*domain.Application, len(apps))
	copy(r.apps, apps)
	return nil
}

// Get returns a copy of the application with the given ID.
func (r *Registry) Get(id string) (domain.Application, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexLocked(id)
	if i < 0 {
		return domain.Application{}, false
	}
	return *r.apps[i], true
}

// Toggle flips the status of the application with the given ID. If refuse is
// non-nil and returns true for the current record, nothing changes and
// refused is true.
func (r *Registry) Toggle(id string, refuse func(domain.Application) bool) (app domain.Application, refused bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		return domain.Application{}, false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	current := r.apps[i]
	if refuse != nil && refuse(*current) {
		return *current, true, nil
	}

	updated := *current
	updated.Status = current.Status.Toggle()
	r.apps[i] = &updated
	return updated, false, nil
}

// Remove deletes the application with the given ID.
func (r *Registry) Remove(id string) (domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		return domain.Application{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	removed := *r.apps[i]
	r.apps = append(r.apps[:i], r.apps[i+1:]...)
	return removed, nil
}

// List returns a snapshot of all applications in display order.
func (r *Registry) List() []domain.Application {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Application, len(r.apps))
	for i, app := range r.apps {
		out[i] = *app
	}
	return out
}

// Count returns the number of applications.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.apps)
}

// CountBlocked returns how many applications are BLOCKED.
func (r *Registry) CountBlocked() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, app := range r.apps {
		if app.Blocked() {
			n++
		}
	}
	return n
}

func (r *Registry) indexLocked(id string) int {
	for i, app := range r.apps {
		if app.ID == id {
			return i
		}
	}
	return -1
}
