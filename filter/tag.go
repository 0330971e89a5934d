// Package filter defines the closed set of attribute filter types and the
// per-type matching and coercion rules the validation engine dispatches on.
package filter

// Tag names one filter type from the closed set.
type Tag string

const (
	Array     Tag = "array"
	Boolean   Tag = "boolean"
	Date      Tag = "date"
	DateTime  Tag = "datetime"
	File      Tag = "file"
	Float     Tag = "float"
	Hash      Tag = "hash"
	Integer   Tag = "integer"
	Interface Tag = "interface"
	Model     Tag = "model"
	Object    Tag = "object"
	String    Tag = "string"
	Symbol    Tag = "symbol"
	Time      Tag = "time"
)

// tags lists every member of the closed set, in declaration order.
var tags = []Tag{
	Array, Boolean, Date, DateTime, File, Float, Hash,
	Integer, Interface, Model, Object, String, Symbol, Time,
}

// Tags returns the closed tag set. The returned slice is a copy.
func Tags() []Tag {
	return append([]Tag(nil), tags...)
}

// ParseTag resolves a type keyword to its Tag.
func ParseTag(s string) (Tag, bool) {
	for _, t := range tags {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Valid reports membership in the closed set.
func (t Tag) Valid() bool {
	_, ok := ParseTag(string(t))
	return ok
}

// Composite reports whether values of this tag are validated by nested
// inner filters.
func (t Tag) Composite() bool {
	return t == Array || t == Hash
}

// Temporal reports whether this tag coerces from layout-formatted strings.
func (t Tag) Temporal() bool {
	return t == Date || t == DateTime || t == Time
}

func (t Tag) String() string { return string(t) }
