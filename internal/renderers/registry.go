package renderers

import (
	"context"

	"github.com/dejo1307/rockymcp/internal/depot"
	"github.com/dejo1307/rockymcp/internal/engine"
	"github.com/dejo1307/rockymcp/internal/facts"
)

// Document is the input handed to renderers. Any part may be nil; renderers
// skip what is missing.
type Document struct {
	Result      *engine.Result     `json:"result,omitempty"`
	Explanation *facts.Explanation `json:"explanation,omitempty"`
	Depot       *depot.DepotNotes  `json:"depot,omitempty"`
}

// Renderer produces output artifacts from a document.
type Renderer interface {
	// Name returns the renderer identifier (e.g. "markdown").
	Name() string
	// Render produces artifacts from the given document.
	Render(ctx context.Context, doc *Document) ([]facts.Artifact, error)
}

// Registry holds registered renderers.
type Registry struct {
	renderers []Renderer
}

// NewRegistry creates a new renderer registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a renderer to the registry.
func (r *Registry) Register(rnd Renderer) {
	r.renderers = append(r.renderers, rnd)
}

// Get returns the renderer with the given name, or nil if not found.
func (r *Registry) Get(name string) Renderer {
	for _, rnd := range r.renderers {
		if rnd.Name() == name {
			return rnd
		}
	}
	return nil
}

// All returns all registered renderers.
func (r *Registry) All() []Renderer {
	return r.renderers
}

// Names returns the registered renderer names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.renderers))
	for _, rnd := range r.renderers {
		names = append(names, rnd.Name())
	}
	return names
}
