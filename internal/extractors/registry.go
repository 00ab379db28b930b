package extractors

import "github.com/dejo1307/rockymcp/internal/facts"

// Extractor scans normalized transcript text for one kind of fact.
// Implementations are pure: they never fail on content and leave fields nil
// when nothing matches.
type Extractor interface {
	// Name returns the extractor identifier (e.g. "measurements", "hazards").
	Name() string
	// Extract fills the extractor's part of into from text.
	Extract(text string, into *facts.Data)
}

// Registry holds extractors in registration order.
type Registry struct {
	extractors []Extractor
}

// NewRegistry creates a new extractor registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Default returns a registry with every built-in extractor in a fixed order.
func Default() *Registry {
	r := NewRegistry()
	r.Register(Customer{})
	r.Register(Property{})
	r.Register(ExistingSystem{})
	r.Register(Measurements{})
	r.Register(Materials{})
	r.Register(Hazards{})
	r.Register(RequiredActions{})
	return r
}

// Register adds an extractor to the registry.
func (r *Registry) Register(e Extractor) {
	r.extractors = append(r.extractors, e)
}

// Get returns the extractor with the given name, or nil if not found.
func (r *Registry) Get(name string) Extractor {
	for _, e := range r.extractors {
		if e.Name() == name {
			return e
		}
	}
	return nil
}

// All returns all registered extractors.
func (r *Registry) All() []Extractor {
	return r.extractors
}

// Names returns the registered extractor names in order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.extractors))
	for _, e := range r.extractors {
		names = append(names, e.Name())
	}
	return names
}

// Run applies every extractor to text and returns the combined result.
func (r *Registry) Run(text string) facts.Data {
	var data facts.Data
	for _, e := range r.extractors {
		e.Extract(text, &data)
	}
	return data
}
