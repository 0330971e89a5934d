package filter

import "reflect"

type arrayBehavior struct{}

func (arrayBehavior) Matches(v any, _ Options) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	}
	return false
}

func (arrayBehavior) Coerce(any, Options) (any, bool) {
	return nil, false
}

type hashBehavior struct{}

func (hashBehavior) Matches(v any, _ Options) bool {
	if _, ok := v.(map[string]any); ok {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String
}

func (hashBehavior) Coerce(any, Options) (any, bool) {
	return nil, false
}

// AsSlice views a matched array value as []any. The elements are the
// original values; the slice header is fresh.
func AsSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return append([]any(nil), s...)
	}
	rv := reflect.ValueOf(v)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// AsStringMap views a matched hash value as map[string]any.
func AsStringMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out
	}
	rv := reflect.ValueOf(v)
	out := make(map[string]any, rv.Len())
	for _, key := range rv.MapKeys() {
		out[key.String()] = rv.MapIndex(key).Interface()
	}
	return out
}
