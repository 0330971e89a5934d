package filter

import "reflect"

// Registry maps model names to Go types. The schema builder consults it
// when a model filter's target class is inferred from the attribute name
// rather than declared explicitly. Populate it during program
// initialization, before any trees are built; it is read-only afterwards.
type Registry struct {
	types map[string]reflect.Type
}

// NewRegistry creates an empty model registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]reflect.Type)}
}

// Register binds a model name to a type. Re-registering a name replaces
// the previous binding.
func (r *Registry) Register(name string, t reflect.Type) {
	r.types[name] = t
}

// RegisterValue binds a model name to the dynamic type of v.
func (r *Registry) RegisterValue(name string, v any) {
	r.Register(name, reflect.TypeOf(v))
}

// Lookup resolves a model name.
func (r *Registry) Lookup(name string) (reflect.Type, bool) {
	t, ok := r.types[name]
	return t, ok
}
