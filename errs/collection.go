package errs

import "fmt"

// Collection is an ordered, attribute-keyed store of validation failures.
// It keeps two synchronized views of every recorded entry: the symbolic
// view (attribute to codes) for programmatic matching, and the message view
// for display. A Collection belongs to exactly one execution and is not
// safe for concurrent use.
type Collection struct {
	entries  []Entry
	symbolic map[string][]Code
}

// New returns an empty collection.
func New() *Collection {
	return &Collection{symbolic: make(map[string][]Code)}
}

// Add records a failure for attribute under code, with the default message
// for that code.
func (c *Collection) Add(attribute string, code Code) {
	c.AddEntry(Entry{Attribute: attribute, Code: code})
}

// AddMessage records a failure described only by a human-readable string.
// The symbolic code is Invalid; the string is kept verbatim as the message.
// This is the deposit call shared with user-declared validations, so engine
// and user errors land in one ordered list.
func (c *Collection) AddMessage(attribute, message string) {
	c.AddEntry(Entry{Attribute: attribute, Code: Invalid, Message: message})
}

// AddEntry records a fully-specified entry. An empty message is replaced by
// the code's default text. Each call produces exactly one entry in both
// views.
func (c *Collection) AddEntry(e Entry) {
	if e.Code == "" {
		e.Code = Invalid
	}
	if e.Message == "" {
		e.Message = DefaultMessage(e.Code)
	}
	c.entries = append(c.entries, e)
	c.symbolic[e.Attribute] = append(c.symbolic[e.Attribute], e.Code)
}

// Symbolic returns a copy of the attribute-to-codes mapping. The copy is
// independent of the collection; mutating it has no effect.
func (c *Collection) Symbolic() map[string][]Code {
	out := make(map[string][]Code, len(c.symbolic))
	for attr, codes := range c.symbolic {
		out[attr] = append([]Code(nil), codes...)
	}
	return out
}

// On returns the codes recorded for one attribute, in insertion order.
func (c *Collection) On(attribute string) []Code {
	return append([]Code(nil), c.symbolic[attribute]...)
}

// Entries returns a copy of all recorded entries in insertion order.
func (c *Collection) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Messages returns the human-readable view, one "attribute: message" line
// per entry, in insertion order.
func (c *Collection) Messages() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = fmt.Sprintf("%s: %s", e.Attribute, e.Message)
	}
	return out
}

// Empty reports whether nothing has been recorded.
func (c *Collection) Empty() bool { return len(c.entries) == 0 }

// Len returns the number of recorded entries.
func (c *Collection) Len() int { return len(c.entries) }

// Clear removes every entry from both views.
func (c *Collection) Clear() {
	c.entries = nil
	c.symbolic = make(map[string][]Code)
}

// Duplicate returns an independent copy. The backing lists are never
// shared, so mutating either collection after duplication leaves the other
// untouched.
func (c *Collection) Duplicate() *Collection {
	dup := New()
	for _, e := range c.entries {
		copied := e
		if e.Meta != nil {
			copied.Meta = make(map[string]any, len(e.Meta))
			for k, v := range e.Meta {
				copied.Meta[k] = v
			}
		}
		dup.AddEntry(copied)
	}
	return dup
}

// Merge transfers every entry of src into c, then clears src (ownership of
// the error content moves to c). Entries whose attribute satisfies isLocal
// collide with one of the caller's own attributes and are re-recorded under
// InvalidNested, with the original code preserved in metadata; all other
// entries carry over verbatim. A nil isLocal treats nothing as local.
func (c *Collection) Merge(src *Collection, isLocal func(string) bool) {
	for _, e := range src.entries {
		if isLocal != nil && isLocal(e.Attribute) {
			meta := map[string]any{"code": e.Code}
			for k, v := range e.Meta {
				meta[k] = v
			}
			c.AddEntry(Entry{
				Attribute: e.Attribute,
				Code:      InvalidNested,
				Message:   e.Message,
				Meta:      meta,
			})
			continue
		}
		c.AddEntry(e)
	}
	src.Clear()
}
