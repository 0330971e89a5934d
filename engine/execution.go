package engine

import (
	"context"
	"fmt"

	"github.com/vk/attrcast/errs"
)

// Execution is the per-run state handed to the body: the resolved
// attributes and the live error collection. It also serves as the resolver
// for default callables, which see only attributes resolved before their
// own in declaration order.
type Execution struct {
	unit   *Unit
	attrs  map[string]any
	errors *errs.Collection
}

// Attr returns a resolved attribute by name. ok is false when the
// attribute was not resolved (absent with no default, or failed).
func (e *Execution) Attr(name string) (any, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// MustAttr returns a resolved attribute by name, panicking when it was not
// resolved. Bodies only run after the whole tree validated, so an absent
// attribute here is a programming error (a typo, or an optional attribute
// read without checking), not an input failure.
func (e *Execution) MustAttr(name string) any {
	v, ok := e.attrs[name]
	if !ok {
		panic(fmt.Sprintf("engine: attribute %q was not resolved", name))
	}
	return v
}

// Attrs returns a copy of every resolved attribute.
func (e *Execution) Attrs() map[string]any {
	out := make(map[string]any, len(e.attrs))
	for k, v := range e.attrs {
		out[k] = v
	}
	return out
}

// Errors exposes the run's collection. The body may deposit its own
// failures here; any entry recorded before the body returns fails the run.
func (e *Execution) Errors() *errs.Collection { return e.errors }

// Compose runs another unit from inside this one's body. On success the
// composed value is returned. On failure the composed unit's entire error
// collection is merged into this run's (attributes colliding with this
// unit's own re-enter as invalid_nested) and ErrComposed is returned; the
// body must forward it immediately, abandoning its remaining work.
func (e *Execution) Compose(ctx context.Context, other *Unit, input map[string]any) (any, error) {
	out := other.Run(ctx, input)
	if out.OK() {
		return out.Value, nil
	}
	e.errors.Merge(out.Errors, e.unit.tree.Declared)
	return nil, ErrComposed
}
