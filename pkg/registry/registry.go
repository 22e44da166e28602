// Package registry provides scenario registration, lookup and
// selection. Scenarios are returned in registration order, which is
// the order the suite declares them.
package registry

import (
	"fmt"
	"regexp"
	"sync"

	"digital.vasic.mobilelogin/pkg/scenario"
)

// Registry defines the interface for managing scenarios.
type Registry interface {
	// Register adds a scenario.
	Register(s scenario.Scenario) error

	// Get retrieves a scenario by ID.
	Get(id scenario.ID) (scenario.Scenario, error)

	// List returns all scenarios in registration order.
	List() []scenario.Scenario

	// ListByCategory returns the scenarios of one category.
	ListByCategory(category string) []scenario.Scenario

	// Match returns the scenarios whose ID or name matches the
	// regular expression pattern.
	Match(pattern string) ([]scenario.Scenario, error)

	// Clear removes all scenarios.
	Clear()

	// Count returns the number of registered scenarios.
	Count() int
}

// DefaultRegistry is the standard Registry implementation.
// It is safe for concurrent use.
type DefaultRegistry struct {
	mu        sync.RWMutex
	scenarios map[scenario.ID]scenario.Scenario
	order     []scenario.ID
}

// NewRegistry creates a new, empty DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		scenarios: make(map[scenario.ID]scenario.Scenario),
	}
}

// Default is the package-level default registry instance.
var Default = NewRegistry()

// Register adds a scenario to the registry. Returns an error if a
// scenario with the same ID is already registered.
func (r *DefaultRegistry) Register(s scenario.Scenario) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := s.ID()
	if _, exists := r.scenarios[id]; exists {
		return fmt.Errorf("scenario already registered: %s", id)
	}
	r.scenarios[id] = s
	r.order = append(r.order, id)
	return nil
}

// Get retrieves a scenario by ID.
func (r *DefaultRegistry) Get(
	id scenario.ID,
) (scenario.Scenario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.scenarios[id]
	if !exists {
		return nil, fmt.Errorf("scenario not found: %s", id)
	}
	return s, nil
}

// List returns all registered scenarios in registration order.
func (r *DefaultRegistry) List() []scenario.Scenario {
	return r.filter(func(scenario.Scenario) bool { return true })
}

// ListByCategory returns the scenarios in category, in
// registration order.
func (r *DefaultRegistry) ListByCategory(
	category string,
) []scenario.Scenario {
	return r.filter(func(s scenario.Scenario) bool {
		return s.Category() == category
	})
}

// Match returns the scenarios whose ID or name matches pattern.
func (r *DefaultRegistry) Match(
	pattern string,
) ([]scenario.Scenario, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid scenario pattern %q: %w", pattern, err)
	}
	return r.filter(func(s scenario.Scenario) bool {
		return re.MatchString(string(s.ID())) || re.MatchString(s.Name())
	}), nil
}

func (r *DefaultRegistry) filter(
	keep func(scenario.Scenario) bool,
) []scenario.Scenario {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scenario.Scenario, 0, len(r.order))
	for _, id := range r.order {
		if s := r.scenarios[id]; keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// Clear removes all scenarios.
func (r *DefaultRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.scenarios = make(map[scenario.ID]scenario.Scenario)
	r.order = nil
}

// Count returns the number of registered scenarios.
func (r *DefaultRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.scenarios)
}
