package filter

// Behavior implements the matching and coercion rules for one tag.
// Implementations may assume v is non-nil: the engine treats an explicit
// nil input as passing every filter before behaviors are consulted.
type Behavior interface {
	// Matches reports whether v already satisfies the tag without
	// coercion, honoring the spec's options.
	Matches(v any, opts Options) bool

	// Coerce attempts a best-effort conversion of a value that failed
	// Matches. ok is false when v cannot be coerced. Coerce never
	// mutates v.
	Coerce(v any, opts Options) (out any, ok bool)
}

// behaviors is the dispatch table over the closed tag set.
var behaviors = map[Tag]Behavior{
	Array:     arrayBehavior{},
	Boolean:   boolBehavior{},
	Date:      temporalBehavior{layout: "2006-01-02"},
	DateTime:  temporalBehavior{layout: timeRFC3339},
	File:      fileBehavior{},
	Float:     floatBehavior{},
	Hash:      hashBehavior{},
	Integer:   integerBehavior{},
	Interface: interfaceBehavior{},
	Model:     classBehavior{},
	Object:    classBehavior{},
	String:    stringBehavior{},
	Symbol:    symbolBehavior{},
	Time:      temporalBehavior{layout: timeRFC3339, unix: true},
}

// Matches dispatches to the tag's behavior under a recover guard: a panic
// inside a duck-typed check is treated as a non-match, never propagated.
func Matches(tag Tag, v any, opts Options) (ok bool) {
	b, found := behaviors[tag]
	if !found {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	return b.Matches(v, opts)
}

// Coerce dispatches to the tag's behavior under the same recover guard;
// a panic is treated as a failed coercion.
func Coerce(tag Tag, v any, opts Options) (out any, ok bool) {
	b, found := behaviors[tag]
	if !found {
		return nil, false
	}
	defer func() {
		if r := recover(); r != nil {
			out, ok = nil, false
		}
	}()
	return b.Coerce(v, opts)
}
