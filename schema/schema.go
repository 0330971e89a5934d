// Package schema builds immutable filter trees from declarative attribute
// specifications. All configuration mistakes are caught here, at definition
// time, and reported as ConfigErrors; nothing about a malformed
// specification is deferred to input processing.
package schema

import (
	"fmt"

	"github.com/vk/attrcast/filter"
)

// ConfigError describes one specification mistake found while building a
// filter tree. It names the offending attribute, the rule violated, and,
// where one exists, a corrected way to express the intent.
type ConfigError struct {
	Attribute  string
	Rule       string
	Detail     string
	Suggestion string
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("invalid filter configuration for %q: %s", e.Attribute, e.Rule)
	if e.Detail != "" {
		msg += "; " + e.Detail
	}
	if e.Suggestion != "" {
		msg += " (" + e.Suggestion + ")"
	}
	return msg
}

// Tree is the immutable, declaration-ordered collection of filter specs
// for one unit of business logic. Built once, then shared read-only across
// arbitrarily many concurrent executions.
type Tree struct {
	specs []*filter.Spec
	index map[string]*filter.Spec
}

// Specs returns the top-level specs in declaration order.
func (t *Tree) Specs() []*filter.Spec {
	return append([]*filter.Spec(nil), t.specs...)
}

// Lookup finds a top-level spec by attribute name.
func (t *Tree) Lookup(name string) (*filter.Spec, bool) {
	s, ok := t.index[name]
	return s, ok
}

// Declared reports whether name is a top-level attribute of this tree.
func (t *Tree) Declared(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len returns the number of top-level attributes.
func (t *Tree) Len() int { return len(t.specs) }
