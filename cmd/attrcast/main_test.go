package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, spec, input, inputName string) (specPath, inputPath string) {
	t.Helper()
	dir := t.TempDir()
	specPath = filepath.Join(dir, "unit.hcl")
	inputPath = filepath.Join(dir, inputName)
	require.NoError(t, os.WriteFile(specPath, []byte(spec), 0o600))
	require.NoError(t, os.WriteFile(inputPath, []byte(input), 0o600))
	return specPath, inputPath
}

func TestRun_ValidInputPrintsResolvedAttributes(t *testing.T) {
	t.Parallel()

	spec := `
attribute "count" { type = integer }
attribute "limit" {
  type    = integer
  default = 25
}
`
	specPath, inputPath := writeFiles(t, spec, `{"count": "3"}`, "doc.json")
	out := &bytes.Buffer{}

	err := run(out, []string{"-spec", specPath, "-input", inputPath})

	require.NoError(t, err)
	assert.Contains(t, out.String(), `"count": 3`)
	assert.Contains(t, out.String(), `"limit": 25`)
}

func TestRun_YAMLInput(t *testing.T) {
	t.Parallel()

	spec := `attribute "name" { type = string }`
	specPath, inputPath := writeFiles(t, spec, "name: ada\n", "doc.yaml")
	out := &bytes.Buffer{}

	err := run(out, []string{"-spec", specPath, "-input", inputPath})

	require.NoError(t, err)
	assert.Contains(t, out.String(), `"name": "ada"`)
}

func TestRun_InvalidInputListsErrorsAndFails(t *testing.T) {
	t.Parallel()

	spec := `
attribute "count" { type = integer }
attribute "name" { type = string }
`
	specPath, inputPath := writeFiles(t, spec, `{"count": "x"}`, "doc.json")
	out := &bytes.Buffer{}

	err := run(out, []string{"-spec", specPath, "-input", inputPath})

	var exitErr *exitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.code)
	assert.Contains(t, out.String(), "count: invalid")
	assert.Contains(t, out.String(), "name: missing")
}

func TestRun_FlagHandling(t *testing.T) {
	t.Parallel()

	t.Run("help exits cleanly", func(t *testing.T) {
		t.Parallel()
		out := &bytes.Buffer{}
		err := run(out, []string{"-h"})
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Usage:")
	})

	t.Run("missing required flags", func(t *testing.T) {
		t.Parallel()
		out := &bytes.Buffer{}
		err := run(out, []string{})

		var exitErr *exitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.code)
	})

	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()
		out := &bytes.Buffer{}
		err := run(out, []string{"--not-a-flag"})

		var exitErr *exitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.code)
	})

	t.Run("bad log level", func(t *testing.T) {
		t.Parallel()
		spec := `attribute "n" { type = integer }`
		specPath, inputPath := writeFiles(t, spec, `{"n": 1}`, "doc.json")
		out := &bytes.Buffer{}

		err := run(out, []string{"-spec", specPath, "-input", inputPath, "-log-level", "loud"})

		var exitErr *exitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.code)
	})
}

func TestRun_BadSpecFile(t *testing.T) {
	t.Parallel()

	specPath, inputPath := writeFiles(t, `attribute "x" {`, `{}`, "doc.json")
	out := &bytes.Buffer{}

	err := run(out, []string{"-spec", specPath, "-input", inputPath})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}
