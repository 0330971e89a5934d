package schema

import (
	"fmt"
	"reflect"

	"github.com/vk/attrcast/filter"
)

// Builder accumulates attribute declarations and freezes them into a Tree.
// A Builder is single-use: declare every attribute, then call Build once.
type Builder struct {
	models *filter.Registry
	attrs  []*AttrBuilder
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Models supplies the registry consulted when a model filter's target
// class is inferred from its attribute name.
func (b *Builder) Models(r *filter.Registry) *Builder {
	b.models = r
	return b
}

// Attr declares one top-level attribute and returns its spec builder for
// option chaining.
func (b *Builder) Attr(name string, tag filter.Tag) *AttrBuilder {
	ab := &AttrBuilder{name: name, tag: tag}
	b.attrs = append(b.attrs, ab)
	return ab
}

// AttrBuilder configures a single attribute declaration.
type AttrBuilder struct {
	name    string
	tag     filter.Tag
	opts    filter.Options
	inner   []*AttrBuilder
	defKind filter.DefaultKind
	defVal  any
	defFn   func(filter.Resolver) any
}

// Default declares a literal default, used verbatim when the input key is
// absent. Defaults are trusted as well-typed and are not re-validated.
func (a *AttrBuilder) Default(v any) *AttrBuilder {
	a.defKind = filter.LiteralDefault
	a.defVal = v
	return a
}

// DefaultFunc declares a callable default, invoked once per execution with
// read access to attributes resolved earlier in declaration order.
func (a *AttrBuilder) DefaultFunc(fn func(filter.Resolver) any) *AttrBuilder {
	a.defKind = filter.FuncDefault
	a.defFn = fn
	return a
}

// Class sets the target type for a model or object filter.
func (a *AttrBuilder) Class(t reflect.Type) *AttrBuilder {
	a.opts.Class = t
	return a
}

// Format sets the time layout for a date, datetime or time filter.
func (a *AttrBuilder) Format(layout string) *AttrBuilder {
	a.opts.Format = layout
	return a
}

// Methods names the capabilities an interface filter requires.
func (a *AttrBuilder) Methods(names ...string) *AttrBuilder {
	a.opts.Methods = append(a.opts.Methods, names...)
	return a
}

// Groups assigns the attribute to validation groups.
func (a *AttrBuilder) Groups(names ...string) *AttrBuilder {
	a.opts.Groups = append(a.opts.Groups, names...)
	return a
}

// Item declares the single, unnamed element filter of an array attribute
// and returns its builder.
func (a *AttrBuilder) Item(tag filter.Tag) *AttrBuilder {
	inner := &AttrBuilder{tag: tag}
	a.inner = append(a.inner, inner)
	return inner
}

// Field declares a named inner filter of a hash attribute and returns its
// builder.
func (a *AttrBuilder) Field(name string, tag filter.Tag) *AttrBuilder {
	inner := &AttrBuilder{name: name, tag: tag}
	a.inner = append(a.inner, inner)
	return inner
}

// Build validates every declaration and freezes the tree. The first
// violation found aborts the build; a ConfigError is a programmer mistake
// in the specification, never a runtime condition.
func (b *Builder) Build() (*Tree, error) {
	tree := &Tree{index: make(map[string]*filter.Spec)}
	seen := make(map[string]bool)
	for _, ab := range b.attrs {
		if ab.name == "" {
			return nil, &ConfigError{
				Attribute: ab.name,
				Rule:      "top-level attributes must be named",
			}
		}
		if seen[ab.name] {
			return nil, &ConfigError{
				Attribute: ab.name,
				Rule:      "duplicate attribute name",
				Detail:    "each name may be declared once per nesting level",
			}
		}
		seen[ab.name] = true
		spec, err := b.buildSpec(ab, ab.name)
		if err != nil {
			return nil, err
		}
		tree.specs = append(tree.specs, spec)
		tree.index[ab.name] = spec
	}
	return tree, nil
}

// buildSpec validates one declaration and its inner filters. inferName is
// the name used for model class inference; for an array's unnamed element
// filter it is the enclosing array's attribute name.
func (b *Builder) buildSpec(ab *AttrBuilder, inferName string) (*filter.Spec, error) {
	if !ab.tag.Valid() {
		return nil, &ConfigError{
			Attribute: ab.name,
			Rule:      fmt.Sprintf("unknown filter type %q", ab.tag),
		}
	}
	if err := b.checkOptions(ab); err != nil {
		return nil, err
	}

	switch ab.tag {
	case filter.Array:
		return b.buildArray(ab, inferName)
	case filter.Hash:
		return b.buildHash(ab)
	case filter.Model:
		if ab.opts.Class == nil {
			class, err := b.inferClass(inferName)
			if err != nil {
				return nil, err
			}
			ab.opts.Class = class
		}
	case filter.Object:
		if ab.opts.Class == nil {
			return nil, &ConfigError{
				Attribute:  ab.name,
				Rule:       "object filters require a target class",
				Suggestion: "declare it with Class(reflect.TypeOf(...))",
			}
		}
	}
	if len(ab.inner) > 0 {
		return nil, &ConfigError{
			Attribute: ab.name,
			Rule:      fmt.Sprintf("%s filters do not take inner filters", ab.tag),
		}
	}
	return filter.NewSpec(ab.config(nil)), nil
}

func (b *Builder) buildArray(ab *AttrBuilder, inferName string) (*filter.Spec, error) {
	if len(ab.inner) != 1 {
		return nil, &ConfigError{
			Attribute: ab.name,
			Rule:      "array filters take exactly one element filter",
			Detail:    fmt.Sprintf("got %d", len(ab.inner)),
		}
	}
	elem := ab.inner[0]
	if elem.name != "" {
		return nil, &ConfigError{
			Attribute:  ab.name,
			Rule:       "array element filters must be unnamed",
			Detail:     fmt.Sprintf("element filter is named %q", elem.name),
			Suggestion: "declare the element with Item, not Field",
		}
	}
	if len(elem.opts.Groups) > 0 {
		return nil, &ConfigError{
			Attribute: ab.name,
			Rule:      "array element filters cannot belong to validation groups",
		}
	}
	if elem.defKind != filter.NoDefault {
		return nil, &ConfigError{
			Attribute:  ab.name,
			Rule:       "array element filters cannot have defaults",
			Suggestion: "move the default to the enclosing array filter instead",
		}
	}
	elemSpec, err := b.buildSpec(elem, inferName)
	if err != nil {
		return nil, err
	}
	// Synthetic key for the unnamed child.
	return filter.NewSpec(ab.config([]*filter.Spec{elemSpec})), nil
}

func (b *Builder) buildHash(ab *AttrBuilder) (*filter.Spec, error) {
	seen := make(map[string]bool)
	inner := make([]*filter.Spec, 0, len(ab.inner))
	for _, field := range ab.inner {
		if field.name == "" {
			return nil, &ConfigError{
				Attribute:  ab.name,
				Rule:       "hash inner filters must be named",
				Suggestion: "declare fields with Field, not Item",
			}
		}
		if seen[field.name] {
			return nil, &ConfigError{
				Attribute: ab.name + "." + field.name,
				Rule:      "duplicate attribute name",
				Detail:    "each name may be declared once per nesting level",
			}
		}
		seen[field.name] = true
		spec, err := b.buildSpec(field, field.name)
		if err != nil {
			return nil, err
		}
		inner = append(inner, spec)
	}
	return filter.NewSpec(ab.config(inner)), nil
}

// inferClass derives a model filter's target class from its attribute
// name: singularize, then identifier-case, then resolve against the model
// registry. A miss is a build error rather than a silent runtime gap.
func (b *Builder) inferClass(inferName string) (reflect.Type, error) {
	guess := identCase(singularize(inferName))
	if b.models != nil {
		if t, ok := b.models.Lookup(guess); ok {
			return t, nil
		}
	}
	return nil, &ConfigError{
		Attribute:  inferName,
		Rule:       fmt.Sprintf("cannot resolve model type %q inferred from the attribute name", guess),
		Suggestion: "register the model or declare the class explicitly with Class(...)",
	}
}

func (b *Builder) checkOptions(ab *AttrBuilder) error {
	if ab.opts.Format != "" && !ab.tag.Temporal() {
		return &ConfigError{
			Attribute: ab.name,
			Rule:      fmt.Sprintf("the format option does not apply to %s filters", ab.tag),
		}
	}
	if ab.opts.Class != nil && ab.tag != filter.Model && ab.tag != filter.Object {
		return &ConfigError{
			Attribute: ab.name,
			Rule:      fmt.Sprintf("the class option does not apply to %s filters", ab.tag),
		}
	}
	if len(ab.opts.Methods) > 0 && ab.tag != filter.Interface {
		return &ConfigError{
			Attribute: ab.name,
			Rule:      fmt.Sprintf("the methods option does not apply to %s filters", ab.tag),
		}
	}
	return nil
}

// config snapshots the builder state for filter.NewSpec. Array element
// specs receive a synthetic positional name.
func (a *AttrBuilder) config(inner []*filter.Spec) filter.Config {
	name := a.name
	if name == "" {
		name = "0"
	}
	return filter.Config{
		Name:         name,
		Tag:          a.tag,
		Options:      a.opts,
		Inner:        inner,
		Default:      a.defKind,
		DefaultValue: a.defVal,
		DefaultFunc:  a.defFn,
	}
}
