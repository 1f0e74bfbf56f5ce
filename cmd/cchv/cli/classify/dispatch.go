package classify

import "io"

// Renderer displays one category's normalized value. Implementations live
// outside this package; they must consume only the Result handed to them
// and never re-inspect the raw payload.
type Renderer interface {
	Render(w io.Writer, res Result) error
}

// Registry is the static category-to-renderer mapping. Dispatch holds no
// policy: the classifier decides everything, the registry only routes.
type Registry struct {
	renderers map[Category]Renderer
	fallback  Renderer
}

// NewRegistry creates a registry. The fallback renderer handles any
// category without an explicit registration, which keeps dispatch total.
func NewRegistry(fallback Renderer) *Registry {
	return &Registry{
		renderers: make(map[Category]Renderer),
		fallback:  fallback,
	}
}

// Register maps a category to its renderer, replacing any previous one.
func (r *Registry) Register(c Category, renderer Renderer) {
	r.renderers[c] = renderer
}

// Dispatch returns the renderer responsible for the result's category.
// Exactly one renderer is returned for every result.
//
//nolint:ireturn // Callers need the polymorphic renderer.
func (r *Registry) Dispatch(res Result) Renderer {
	if renderer, ok := r.renderers[res.Category]; ok {
		return renderer
	}
	return r.fallback
}

// Render classifies nothing and decides nothing: it routes the result to
// its renderer and writes the output.
func (r *Registry) Render(w io.Writer, res Result) error {
	return r.Dispatch(res).Render(w, res)
}
