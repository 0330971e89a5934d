package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vk/attrcast/engine"
	"github.com/vk/attrcast/hclspec"
	"github.com/vk/attrcast/internal/ctxlog"
)

// main is the entrypoint for the attrcast validator.
func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*exitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.message)
			os.Exit(exitErr.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// exitError carries a specific exit code out of run.
type exitError struct {
	code    int
	message string
}

func (e *exitError) Error() string { return e.message }

type cliConfig struct {
	specPath  string
	inputPath string
	logLevel  string
	logFormat string
}

// run encapsulates the CLI logic for easier testing and error handling.
func run(outW io.Writer, args []string) error {
	cfg, shouldExit, err := parseArgs(args, outW)
	if err != nil || shouldExit {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	ctx := ctxlog.WithLogger(context.Background(), logger)

	tree, err := hclspec.LoadFile(ctx, cfg.specPath)
	if err != nil {
		return err
	}

	input, err := readInput(cfg.inputPath)
	if err != nil {
		return err
	}

	unit := engine.FromTree(filepath.Base(cfg.specPath), tree, nil)
	out := unit.Run(ctx, input)
	if !out.OK() {
		for _, e := range out.Errors.Entries() {
			fmt.Fprintf(outW, "%s: %s: %s\n", e.Attribute, e.Code, e.Message)
		}
		return &exitError{code: 1, message: fmt.Sprintf("input is invalid (%d errors)", out.Errors.Len())}
	}

	encoded, err := json.MarshalIndent(out.Value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode resolved attributes: %w", err)
	}
	fmt.Fprintln(outW, string(encoded))
	return nil
}

// parseArgs processes command-line arguments. It returns the CLI config
// and a boolean indicating whether the program should exit cleanly.
func parseArgs(args []string, output io.Writer) (*cliConfig, bool, error) {
	flagSet := flag.NewFlagSet("attrcast", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
attrcast - validate an input document against a declared attribute set.

Usage:
  attrcast -spec SPEC.hcl -input DOC.json

Options:
`)
		flagSet.PrintDefaults()
	}

	cfg := &cliConfig{}
	flagSet.StringVar(&cfg.specPath, "spec", "", "Path to the HCL attribute manifest.")
	flagSet.StringVar(&cfg.inputPath, "input", "", "Path to the input document (.json, .yaml or .yml).")
	flagSet.StringVar(&cfg.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flagSet.StringVar(&cfg.logLevel, "log-level", "warn", "Logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &exitError{code: 2, message: err.Error()}
	}

	if cfg.specPath == "" || cfg.inputPath == "" {
		flagSet.Usage()
		return nil, false, &exitError{code: 2, message: "both -spec and -input are required"}
	}
	return cfg, false, nil
}

func newLogger(cfg *cliConfig) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.logLevel)); err != nil {
		return nil, &exitError{code: 2, message: fmt.Sprintf("invalid log level %q", cfg.logLevel)}
	}
	opts := &slog.HandlerOptions{Level: level}
	switch cfg.logFormat {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	}
	return nil, &exitError{code: 2, message: fmt.Sprintf("invalid log format %q", cfg.logFormat)}
}

// readInput loads the raw attribute mapping from a JSON or YAML document.
func readInput(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input document: %w", err)
	}
	input := make(map[string]any)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &input); err != nil {
			return nil, fmt.Errorf("failed to decode YAML input %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &input); err != nil {
			return nil, fmt.Errorf("failed to decode JSON input %s: %w", path, err)
		}
	}
	return input, nil
}
