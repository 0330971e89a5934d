// Package engine runs untyped input mappings through a filter tree,
// producing either typed attributes handed to a business-logic body or an
// ordered collection of symbolic errors. Trees are immutable and shared;
// every run owns its own execution state.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vk/attrcast/errs"
	"github.com/vk/attrcast/internal/ctxlog"
	"github.com/vk/attrcast/schema"
)

// State is the terminal condition of one run.
type State int

const (
	// Validating is the in-flight state; it never appears in an Outcome.
	Validating State = iota
	// Executed means validation passed and the body ran.
	Executed
	// Failed means errors were recorded and the body never ran.
	Failed
)

func (s State) String() string {
	switch s {
	case Validating:
		return "validating"
	case Executed:
		return "executed"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Body is the business-logic function of a unit. It runs only after every
// declared attribute validated cleanly. Returning ErrComposed forwards a
// composed unit's failure; any other error fails the unit with the error
// text recorded on the base pseudo-attribute.
type Body func(ctx context.Context, run *Execution) (any, error)

// Unit is one validated unit of business logic: a name, an immutable
// filter tree and an optional body. A Unit is safe for concurrent use.
type Unit struct {
	name string
	tree *schema.Tree
	body Body
}

// New declares a unit: declare populates the builder, and the resulting
// tree is frozen into the unit. Specification mistakes surface here as
// schema.ConfigErrors, before any input is ever processed.
func New(name string, declare func(*schema.Builder), body Body) (*Unit, error) {
	b := schema.NewBuilder()
	if declare != nil {
		declare(b)
	}
	tree, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("declaring unit %q: %w", name, err)
	}
	return FromTree(name, tree, body), nil
}

// FromTree wraps an already-built tree, e.g. one loaded from a manifest.
func FromTree(name string, tree *schema.Tree, body Body) *Unit {
	return &Unit{name: name, tree: tree, body: body}
}

// Name returns the unit's name.
func (u *Unit) Name() string { return u.name }

// Tree returns the unit's filter tree.
func (u *Unit) Tree() *schema.Tree { return u.tree }

// Outcome is the result of one run.
type Outcome struct {
	// State is Executed or Failed.
	State State
	// Value is the body's return value, or the resolved attribute map
	// for a body-less unit. Nil when Failed.
	Value any
	// Errors is never nil; it is empty exactly when State is Executed.
	Errors *errs.Collection
}

// OK reports whether the run executed.
func (o *Outcome) OK() bool { return o.State == Executed }

// ErrComposed signals that a unit invoked through Compose failed. The
// caller's body must return it immediately; the composed errors have
// already been merged into the caller's collection.
var ErrComposed = errors.New("composed unit failed")

// Run validates input against the unit's tree and, if the error collection
// stays empty, invokes the body. All attribute failures for one run are
// collected; siblings are never short-circuited.
func (u *Unit) Run(ctx context.Context, input map[string]any) *Outcome {
	exec := &Execution{
		unit:   u,
		attrs:  make(map[string]any),
		errors: errs.New(),
	}
	logger := ctxlog.FromContext(ctx).With("unit", u.name)

	w := &walker{exec: exec, errors: exec.errors, logger: logger}
	w.walk(u.tree.Specs(), input)

	if !exec.errors.Empty() {
		logger.Debug("Validation failed.", "errors", exec.errors.Len())
		return &Outcome{State: Failed, Errors: exec.errors}
	}

	if u.body == nil {
		return &Outcome{State: Executed, Value: exec.Attrs(), Errors: exec.errors}
	}

	value, err := u.body(ctx, exec)
	if err != nil {
		if !errors.Is(err, ErrComposed) {
			exec.errors.AddMessage("base", err.Error())
		}
		logger.Debug("Body failed.", "errors", exec.errors.Len())
		return &Outcome{State: Failed, Errors: exec.errors}
	}
	if !exec.errors.Empty() {
		// The body deposited its own validation failures.
		logger.Debug("Body recorded errors.", "errors", exec.errors.Len())
		return &Outcome{State: Failed, Errors: exec.errors}
	}
	logger.Debug("Unit executed.")
	return &Outcome{State: Executed, Value: value, Errors: exec.errors}
}

// InvalidError is the strict-mode failure: it carries the full error
// collection of the failed run.
type InvalidError struct {
	Unit   string
	Errors *errs.Collection
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("unit %q is invalid: %s", e.Unit, strings.Join(e.Errors.Messages(), "; "))
}

// RunStrict runs the unit and unwraps the outcome: the bare body value on
// success, an InvalidError on failure.
func (u *Unit) RunStrict(ctx context.Context, input map[string]any) (any, error) {
	out := u.Run(ctx, input)
	if !out.OK() {
		return nil, &InvalidError{Unit: u.name, Errors: out.Errors}
	}
	return out.Value, nil
}
