package filter

import "reflect"

// DefaultKind distinguishes the three default states a spec can be in.
type DefaultKind int

const (
	// NoDefault means an absent input key is a missing-attribute error.
	NoDefault DefaultKind = iota
	// LiteralDefault means the declared value is used verbatim.
	LiteralDefault
	// FuncDefault means a callable produces the value per execution.
	FuncDefault
)

// Resolver gives default callables read access to attributes that were
// resolved earlier in declaration order. Callables referencing attributes
// declared later see them as absent; ordering is the caller's contract.
type Resolver interface {
	Attr(name string) (any, bool)
}

// Options holds the recognized per-type configuration of a spec. Which
// fields are meaningful depends on the tag; the schema builder rejects
// options set on tags that do not use them.
type Options struct {
	// Class is the target type for model and object filters.
	Class reflect.Type
	// Format is the time layout for date, datetime and time filters.
	Format string
	// Methods names the capabilities an interface filter requires.
	Methods []string
	// Groups assigns the attribute to validation groups. Carried for the
	// host framework; the engine itself does not interpret them.
	Groups []string
}

// Config is the full description of a spec node, consumed once by NewSpec.
type Config struct {
	Name         string
	Tag          Tag
	Options      Options
	Inner        []*Spec
	Default      DefaultKind
	DefaultValue any
	DefaultFunc  func(Resolver) any
}

// Spec is one immutable node of a filter tree: a named attribute, its type
// tag, options, optional default, and (for composites) its inner specs.
// Specs are built once at definition time and shared read-only across
// executions.
type Spec struct {
	name    string
	tag     Tag
	opts    Options
	inner   []*Spec
	defKind DefaultKind
	defVal  any
	defFn   func(Resolver) any
}

// NewSpec freezes a Config into a Spec. Validation of composite
// construction rules happens in the schema builder before this is called.
func NewSpec(cfg Config) *Spec {
	opts := cfg.Options
	opts.Methods = append([]string(nil), cfg.Options.Methods...)
	opts.Groups = append([]string(nil), cfg.Options.Groups...)
	return &Spec{
		name:    cfg.Name,
		tag:     cfg.Tag,
		opts:    opts,
		inner:   append([]*Spec(nil), cfg.Inner...),
		defKind: cfg.Default,
		defVal:  cfg.DefaultValue,
		defFn:   cfg.DefaultFunc,
	}
}

// Name returns the attribute name. Array element specs use a synthetic
// positional name.
func (s *Spec) Name() string { return s.name }

// Tag returns the type tag. Fixed at construction.
func (s *Spec) Tag() Tag { return s.tag }

// Options returns the declared options.
func (s *Spec) Options() Options { return s.opts }

// Inner returns the ordered inner specs of a composite. Empty for scalars.
func (s *Spec) Inner() []*Spec {
	return append([]*Spec(nil), s.inner...)
}

// DefaultKind reports which default state the spec is in.
func (s *Spec) DefaultKind() DefaultKind { return s.defKind }

// ResolveDefault produces the default value for one execution. A literal
// is returned verbatim; a callable is invoked once against r. The result
// is trusted as already well-typed and is not re-validated.
func (s *Spec) ResolveDefault(r Resolver) any {
	if s.defKind == FuncDefault {
		return s.defFn(r)
	}
	return s.defVal
}
