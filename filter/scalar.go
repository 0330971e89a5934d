package filter

import (
	"fmt"
	"io"
	"reflect"
	"time"
)

const timeRFC3339 = time.RFC3339

type boolBehavior struct{}

func (boolBehavior) Matches(v any, _ Options) bool {
	_, ok := v.(bool)
	return ok
}

func (boolBehavior) Coerce(v any, _ Options) (any, bool) {
	return coerceBool(v)
}

type integerBehavior struct{}

func (integerBehavior) Matches(v any, _ Options) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func (integerBehavior) Coerce(v any, _ Options) (any, bool) {
	return coerceInt64(v)
}

type floatBehavior struct{}

func (floatBehavior) Matches(v any, _ Options) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func (floatBehavior) Coerce(v any, _ Options) (any, bool) {
	return coerceFloat64(v)
}

type stringBehavior struct{}

func (stringBehavior) Matches(v any, _ Options) bool {
	_, ok := v.(string)
	return ok
}

func (stringBehavior) Coerce(v any, _ Options) (any, bool) {
	switch s := v.(type) {
	case []byte:
		return string(s), true
	case fmt.Stringer:
		return s.String(), true
	}
	return nil, false
}

// symbolBehavior treats symbols as plain strings; Go has no native symbol
// type and symbols convert from arbitrary strings, so the tag accepts any
// string and differs from the string tag only in dropping the byte-slice
// coercion.
type symbolBehavior struct{}

func (symbolBehavior) Matches(v any, _ Options) bool {
	_, ok := v.(string)
	return ok
}

func (symbolBehavior) Coerce(v any, _ Options) (any, bool) {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String(), true
	}
	return nil, false
}

// temporalBehavior backs the date, datetime and time tags. The layout is
// overridable per spec via the Format option; the time tag additionally
// accepts integer Unix seconds.
type temporalBehavior struct {
	layout string
	unix   bool
}

func (temporalBehavior) Matches(v any, _ Options) bool {
	_, ok := v.(time.Time)
	return ok
}

func (b temporalBehavior) Coerce(v any, opts Options) (any, bool) {
	layout := b.layout
	if opts.Format != "" {
		layout = opts.Format
	}
	if s, ok := v.(string); ok {
		t, err := time.Parse(layout, s)
		if err != nil {
			return nil, false
		}
		return t, true
	}
	if b.unix {
		if sec, ok := coerceInt64(v); ok {
			return time.Unix(sec, 0).UTC(), true
		}
	}
	return nil, false
}

// fileBehavior is a capability check: anything readable counts as a file.
type fileBehavior struct{}

func (fileBehavior) Matches(v any, _ Options) bool {
	_, ok := v.(io.Reader)
	return ok
}

func (fileBehavior) Coerce(any, Options) (any, bool) {
	return nil, false
}

// classBehavior backs the model and object tags: the value must be
// assignable to the spec's target class, directly or through one pointer
// dereference.
type classBehavior struct{}

func (classBehavior) Matches(v any, opts Options) bool {
	if opts.Class == nil {
		return false
	}
	t := reflect.TypeOf(v)
	if t == nil {
		return false
	}
	if t.AssignableTo(opts.Class) {
		return true
	}
	return t.Kind() == reflect.Pointer && t.Elem().AssignableTo(opts.Class)
}

func (classBehavior) Coerce(any, Options) (any, bool) {
	return nil, false
}

// interfaceBehavior checks the value for the named methods. With no
// Methods declared, any non-nil value satisfies the filter.
type interfaceBehavior struct{}

func (interfaceBehavior) Matches(v any, opts Options) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return false
	}
	for _, name := range opts.Methods {
		if !rv.MethodByName(name).IsValid() {
			return false
		}
	}
	return true
}

func (interfaceBehavior) Coerce(any, Options) (any, bool) {
	return nil, false
}
