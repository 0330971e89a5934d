package filter

import (
	"bytes"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		tag     Tag
		value   any
		opts    Options
		matches bool
	}{
		{name: "bool matches bool", tag: Boolean, value: true, matches: true},
		{name: "bool rejects string", tag: Boolean, value: "true", matches: false},
		{name: "integer matches int", tag: Integer, value: 7, matches: true},
		{name: "integer matches uint8", tag: Integer, value: uint8(7), matches: true},
		{name: "integer rejects float", tag: Integer, value: 3.5, matches: false},
		{name: "integer rejects numeric string", tag: Integer, value: "3", matches: false},
		{name: "float matches float64", tag: Float, value: 3.5, matches: true},
		{name: "float rejects int", tag: Float, value: 3, matches: false},
		{name: "string matches string", tag: String, value: "hi", matches: true},
		{name: "string rejects bytes", tag: String, value: []byte("hi"), matches: false},
		{name: "symbol matches string", tag: Symbol, value: "pending", matches: true},
		{name: "symbol matches non-identifier string", tag: Symbol, value: "in progress!", matches: true},
		{name: "date matches time.Time", tag: Date, value: time.Now(), matches: true},
		{name: "date rejects string", tag: Date, value: "2020-01-01", matches: false},
		{name: "file matches reader", tag: File, value: bytes.NewReader(nil), matches: true},
		{name: "file rejects string", tag: File, value: "README", matches: false},
		{name: "array matches slice of any", tag: Array, value: []any{1}, matches: true},
		{name: "array matches typed slice", tag: Array, value: []int{1, 2}, matches: true},
		{name: "array rejects map", tag: Array, value: map[string]any{}, matches: false},
		{name: "hash matches string map", tag: Hash, value: map[string]any{"a": 1}, matches: true},
		{name: "hash matches typed map", tag: Hash, value: map[string]int{"a": 1}, matches: true},
		{name: "hash rejects slice", tag: Hash, value: []any{}, matches: false},
		{name: "interface without methods accepts anything", tag: Interface, value: 42, matches: true},
		{
			name:    "interface requires named methods",
			tag:     Interface,
			value:   bytes.NewBufferString("x"),
			opts:    Options{Methods: []string{"Read", "Write"}},
			matches: true,
		},
		{
			name:    "interface rejects missing method",
			tag:     Interface,
			value:   42,
			opts:    Options{Methods: []string{"Read"}},
			matches: false,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.matches, Matches(tc.tag, tc.value, tc.opts))
		})
	}
}

func TestCoerce(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		tag   Tag
		value any
		opts  Options
		want  any
		ok    bool
	}{
		{name: "integer from numeric string", tag: Integer, value: "42", want: int64(42), ok: true},
		{name: "integer from integral float", tag: Integer, value: float64(3), want: int64(3), ok: true},
		{name: "integer rejects fractional float", tag: Integer, value: 3.5, ok: false},
		{name: "integer rejects word", tag: Integer, value: "a", ok: false},
		{name: "float from string", tag: Float, value: "2.5", want: 2.5, ok: true},
		{name: "float from int", tag: Float, value: 2, want: 2.0, ok: true},
		{name: "boolean from string", tag: Boolean, value: "true", want: true, ok: true},
		{name: "boolean rejects word", tag: Boolean, value: "yep", ok: false},
		{name: "string from bytes", tag: String, value: []byte("hi"), want: "hi", ok: true},
		{name: "string from stringer", tag: String, value: 2 * time.Second, want: "2s", ok: true},
		{name: "symbol from stringer", tag: Symbol, value: time.Second, want: "1s", ok: true},
		{name: "symbol has no byte coercion", tag: Symbol, value: []byte("hi"), ok: false},
		{name: "file has no coercion", tag: File, value: "README", ok: false},
		{name: "array has no coercion", tag: Array, value: "not a list", ok: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Coerce(tc.tag, tc.value, tc.opts)
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestCoerce_Temporal(t *testing.T) {
	t.Parallel()

	t.Run("date with default layout", func(t *testing.T) {
		t.Parallel()
		got, ok := Coerce(Date, "2024-02-29", Options{})
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("date honors the format option", func(t *testing.T) {
		t.Parallel()
		got, ok := Coerce(Date, "29.02.2024", Options{Format: "02.01.2006"})
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("datetime parses RFC3339", func(t *testing.T) {
		t.Parallel()
		got, ok := Coerce(DateTime, "2024-02-29T10:30:00Z", Options{})
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 2, 29, 10, 30, 0, 0, time.UTC), got)
	})

	t.Run("time accepts unix seconds", func(t *testing.T) {
		t.Parallel()
		got, ok := Coerce(Time, 1700000000, Options{})
		require.True(t, ok)
		assert.Equal(t, time.Unix(1700000000, 0).UTC(), got)
	})

	t.Run("unparseable string fails", func(t *testing.T) {
		t.Parallel()
		_, ok := Coerce(Date, "not a date", Options{})
		assert.False(t, ok)
	})
}

type panickyStringer struct{}

func (panickyStringer) String() string { panic("boom") }

func TestDispatch_NeverPanics(t *testing.T) {
	t.Parallel()

	// A duck-typed check that blows up must read as a plain non-match.
	assert.NotPanics(t, func() {
		_, ok := Coerce(String, panickyStringer{}, Options{})
		assert.False(t, ok)
	})
	assert.False(t, Matches(Tag("bogus"), 1, Options{}))
}

func TestClassBehavior(t *testing.T) {
	t.Parallel()

	type account struct{ ID int }
	accountType := reflect.TypeOf(account{})

	testCases := []struct {
		name    string
		value   any
		matches bool
	}{
		{name: "exact type", value: account{ID: 1}, matches: true},
		{name: "pointer to type", value: &account{ID: 1}, matches: true},
		{name: "unrelated type", value: "nope", matches: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Matches(Model, tc.value, Options{Class: accountType})
			assert.Equal(t, tc.matches, got)
		})
	}

	t.Run("nil class never matches", func(t *testing.T) {
		t.Parallel()
		assert.False(t, Matches(Object, account{}, Options{}))
	})
}
