// Package errs implements the symbolic error reporting used by the
// validation engine. Every recorded error carries a stable machine-readable
// code alongside its human-readable message, so callers can assert on
// failure causes without depending on message text or locale.
package errs

// Code identifies a class of validation failure. Codes are stable across
// releases and safe to match on programmatically.
type Code string

const (
	// Missing marks a required attribute that was absent from the input
	// and has no declared default.
	Missing Code = "missing"

	// Invalid marks a present value that failed both the type match and
	// the best-effort coercion for its declared filter.
	Invalid Code = "invalid"

	// InvalidType marks a composite attribute whose raw value has the
	// wrong structural shape entirely (e.g. a string where a sequence
	// was declared).
	InvalidType Code = "invalid_type"

	// InvalidNested marks a composite attribute with one or more failing
	// inner values. The entry's metadata names the failing inner
	// attribute paths; each inner failure is also recorded as its own
	// entry.
	InvalidNested Code = "invalid_nested"

	// InvalidFormat refines Invalid for temporal filters given a string
	// that could not be parsed with the expected layout.
	InvalidFormat Code = "invalid_format"
)

var defaultMessages = map[Code]string{
	Missing:       "is required",
	Invalid:       "is invalid",
	InvalidType:   "is not of the expected type",
	InvalidNested: "has invalid nested attributes",
	InvalidFormat: "does not match the expected format",
}

// DefaultMessage returns the human-readable text for a code. Unknown
// (type-specific) codes fall back to the generic invalid text; an external
// localization layer is expected to override these defaults from the code
// and metadata alone.
func DefaultMessage(code Code) string {
	if msg, ok := defaultMessages[code]; ok {
		return msg
	}
	return defaultMessages[Invalid]
}

// Entry is one recorded validation failure.
type Entry struct {
	// Attribute is the input attribute path the failure belongs to, e.g.
	// "count", "tags[2]" or "profile.bio".
	Attribute string

	// Code is the symbolic identity of the failure.
	Code Code

	// Message is the human-readable text. Never empty once recorded.
	Message string

	// Meta carries auxiliary values for message rendering, such as the
	// filter type or the failing nested attribute paths.
	Meta map[string]any
}
