package hclspec

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/attrcast/engine"
	"github.com/vk/attrcast/errs"
	"github.com/vk/attrcast/filter"
	"github.com/vk/attrcast/schema"
)

func TestLoadSource_FullManifest(t *testing.T) {
	t.Parallel()

	src := `
attribute "name" {
  type = string
}

attribute "age" {
  type    = integer
  default = 18
}

attribute "nums" {
  type = array(integer)
}

attribute "joined" {
  type   = date
  format = "2006-01-02"
}

attribute "profile" {
  type = hash
  attribute "bio" { type = string }
  attribute "admin" {
    type    = boolean
    default = false
  }
}
`
	tree, err := LoadSource(context.Background(), "unit.hcl", []byte(src))
	require.NoError(t, err)
	require.Equal(t, 5, tree.Len())

	age, ok := tree.Lookup("age")
	require.True(t, ok)
	assert.Equal(t, filter.LiteralDefault, age.DefaultKind())
	assert.Equal(t, int64(18), age.ResolveDefault(nil))

	nums, ok := tree.Lookup("nums")
	require.True(t, ok)
	require.Len(t, nums.Inner(), 1)
	assert.Equal(t, filter.Integer, nums.Inner()[0].Tag())

	joined, ok := tree.Lookup("joined")
	require.True(t, ok)
	assert.Equal(t, "2006-01-02", joined.Options().Format)

	profile, ok := tree.Lookup("profile")
	require.True(t, ok)
	require.Len(t, profile.Inner(), 2)
	assert.Equal(t, "bio", profile.Inner()[0].Name())
}

func TestLoadSource_TreeDrivesTheEngine(t *testing.T) {
	t.Parallel()

	src := `
attribute "count" {
  type = integer
}
attribute "tags" {
  type = array(string)
}
`
	tree, err := LoadSource(context.Background(), "unit.hcl", []byte(src))
	require.NoError(t, err)

	unit := engine.FromTree("manifest", tree, nil)
	out := unit.Run(context.Background(), map[string]any{
		"count": "3",
		"tags":  []any{"a", "b"},
	})

	require.True(t, out.OK())
	attrs := out.Value.(map[string]any)
	assert.Equal(t, int64(3), attrs["count"])
	assert.Equal(t, []any{"a", "b"}, attrs["tags"])
}

func TestLoadSource_NestedCompositeDefaults(t *testing.T) {
	t.Parallel()

	src := `
attribute "users" {
  type = array(hash)
  attribute "name" { type = string }
}
`
	tree, err := LoadSource(context.Background(), "unit.hcl", []byte(src))
	require.NoError(t, err)

	unit := engine.FromTree("manifest", tree, nil)
	out := unit.Run(context.Background(), map[string]any{
		"users": []any{map[string]any{"name": "ada"}, map[string]any{}},
	})

	require.Equal(t, engine.Failed, out.State)
	assert.Equal(t, []errs.Code{errs.Missing}, out.Errors.On("users[1].name"))
}

func TestLoadSource_Failures(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "unknown type keyword",
			src:  `attribute "x" { type = widget }`,
			want: `unknown filter type "widget"`,
		},
		{
			name: "unknown constructor",
			src:  `attribute "x" { type = set(string) }`,
			want: `unknown type constructor "set"`,
		},
		{
			name: "constructor arity",
			src:  `attribute "x" { type = array(string, integer) }`,
			want: "exactly one element type",
		},
		{
			name: "missing type argument",
			src:  `attribute "x" { }`,
			want: "failed to decode manifest",
		},
		{
			name: "syntax error",
			src:  `attribute "x" {`,
			want: "failed to parse manifest",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadSource(context.Background(), "unit.hcl", []byte(tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadSource_BuilderRulesStillApply(t *testing.T) {
	t.Parallel()

	// A hash field on a scalar attribute must fail the same way the
	// builder DSL fails it.
	src := `
attribute "name" {
  type = string
  attribute "x" { type = string }
}
`
	_, err := LoadSource(context.Background(), "unit.hcl", []byte(src))

	var cfgErr *schema.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "unit.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`attribute "n" { type = integer }`), 0o600))

	tree, err := LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, tree.Declared("n"))

	_, err = LoadFile(context.Background(), filepath.Join(dir, "absent.hcl"))
	require.Error(t, err)
}
