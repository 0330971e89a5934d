package engine

import (
	"fmt"
	"log/slog"

	"github.com/vk/attrcast/errs"
	"github.com/vk/attrcast/filter"
)

// walker applies one filter tree to one raw input mapping. It deposits
// every failure into the collection and keeps going: a run reports all of
// its invalid attributes at once.
type walker struct {
	exec   *Execution
	errors *errs.Collection
	logger *slog.Logger
}

// walk resolves each top-level spec against the input in declaration
// order, storing resolved values on the execution.
func (w *walker) walk(specs []*filter.Spec, input map[string]any) {
	for _, spec := range specs {
		raw, present := input[spec.Name()]
		if !present {
			if spec.DefaultKind() == filter.NoDefault {
				w.errors.Add(spec.Name(), errs.Missing)
				w.logger.Debug("Attribute missing.", "attribute", spec.Name())
				continue
			}
			// Defaults are trusted as well-typed; no re-validation.
			w.exec.attrs[spec.Name()] = spec.ResolveDefault(w.exec)
			continue
		}
		if value, ok := w.resolve(spec, spec.Name(), raw); ok {
			w.exec.attrs[spec.Name()] = value
		}
	}
}

// resolve applies the resolution order for one spec at one attribute
// path: explicit nil passes; then match, then coerce-and-rematch; then the
// value is invalid. Composites recurse through their inner specs.
func (w *walker) resolve(spec *filter.Spec, path string, raw any) (any, bool) {
	if raw == nil {
		// A present-but-nil value is an intentionally empty attribute;
		// filters only constrain non-nil values.
		return nil, true
	}

	tag := spec.Tag()
	if tag.Composite() {
		return w.resolveComposite(spec, path, raw)
	}

	opts := spec.Options()
	if filter.Matches(tag, raw, opts) {
		return raw, true
	}
	if coerced, ok := filter.Coerce(tag, raw, opts); ok && filter.Matches(tag, coerced, opts) {
		w.logger.Debug("Coerced attribute.", "attribute", path, "type", tag)
		return coerced, true
	}

	code := errs.Invalid
	if _, isString := raw.(string); isString && tag.Temporal() {
		code = errs.InvalidFormat
	}
	w.errors.AddEntry(errs.Entry{
		Attribute: path,
		Code:      code,
		Meta:      map[string]any{"type": tag.String()},
	})
	return nil, false
}

func (w *walker) resolveComposite(spec *filter.Spec, path string, raw any) (any, bool) {
	if !filter.Matches(spec.Tag(), raw, spec.Options()) {
		w.errors.AddEntry(errs.Entry{
			Attribute: path,
			Code:      errs.InvalidType,
			Meta:      map[string]any{"type": spec.Tag().String()},
		})
		return nil, false
	}
	if spec.Tag() == filter.Array {
		return w.resolveArray(spec, path, raw)
	}
	return w.resolveHash(spec, path, raw)
}

// resolveArray filters every element through the single element spec and
// reassembles the sequence. Any element failure fails the whole attribute
// with invalid_nested, while each element keeps its own entry.
func (w *walker) resolveArray(spec *filter.Spec, path string, raw any) (any, bool) {
	elem := spec.Inner()[0]
	items := filter.AsSlice(raw)
	out := make([]any, 0, len(items))
	var failed []string
	for i, item := range items {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		value, ok := w.resolve(elem, itemPath, item)
		if !ok {
			failed = append(failed, itemPath)
			continue
		}
		out = append(out, value)
	}
	if len(failed) > 0 {
		w.addNested(path, spec.Tag(), failed)
		return nil, false
	}
	return out, true
}

// resolveHash resolves each named inner spec against the corresponding
// nested raw value, with the same presence and default rules as the top
// level. Keys without a declared inner filter are dropped.
func (w *walker) resolveHash(spec *filter.Spec, path string, raw any) (any, bool) {
	nested := filter.AsStringMap(raw)
	out := make(map[string]any, len(spec.Inner()))
	var failed []string
	for _, field := range spec.Inner() {
		fieldPath := path + "." + field.Name()
		rawValue, present := nested[field.Name()]
		if !present {
			if field.DefaultKind() == filter.NoDefault {
				w.errors.Add(fieldPath, errs.Missing)
				failed = append(failed, fieldPath)
				continue
			}
			out[field.Name()] = field.ResolveDefault(w.exec)
			continue
		}
		value, ok := w.resolve(field, fieldPath, rawValue)
		if !ok {
			failed = append(failed, fieldPath)
			continue
		}
		out[field.Name()] = value
	}
	if len(failed) > 0 {
		w.addNested(path, spec.Tag(), failed)
		return nil, false
	}
	return out, true
}

func (w *walker) addNested(path string, tag filter.Tag, failed []string) {
	w.errors.AddEntry(errs.Entry{
		Attribute: path,
		Code:      errs.InvalidNested,
		Meta: map[string]any{
			"type":       tag.String(),
			"attributes": failed,
		},
	})
}
