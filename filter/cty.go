package filter

import (
	"math/big"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// toCty lifts a native Go value into the cty value system and converts it
// to the wanted type. This is what gives the numeric and boolean filters
// their string coercions ("3" to 3, "true" to true) without hand-written
// parsing rules.
func toCty(v any, want cty.Type) (cty.Value, bool) {
	implied, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, false
	}
	val, err := gocty.ToCtyValue(v, implied)
	if err != nil {
		return cty.NilVal, false
	}
	out, err := convert.Convert(val, want)
	if err != nil || out.IsNull() {
		return cty.NilVal, false
	}
	return out, true
}

// coerceInt64 converts v to an int64 via cty.Number, rejecting any value
// with a fractional part.
func coerceInt64(v any) (int64, bool) {
	num, ok := toCty(v, cty.Number)
	if !ok {
		return 0, false
	}
	i, acc := num.AsBigFloat().Int64()
	if acc != big.Exact {
		return 0, false
	}
	return i, true
}

// coerceFloat64 converts v to a float64 via cty.Number.
func coerceFloat64(v any) (float64, bool) {
	num, ok := toCty(v, cty.Number)
	if !ok {
		return 0, false
	}
	f, _ := num.AsBigFloat().Float64()
	return f, true
}

// coerceBool converts v to a bool via cty.Bool.
func coerceBool(v any) (bool, bool) {
	b, ok := toCty(v, cty.Bool)
	if !ok {
		return false, false
	}
	return b.True(), true
}
