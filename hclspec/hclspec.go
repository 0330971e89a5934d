// Package hclspec loads filter trees from HCL manifests, so attribute
// declarations can live next to configuration instead of in Go code.
//
//	attribute "age" {
//	  type    = integer
//	  default = 18
//	}
//	attribute "nums" {
//	  type = array(integer)
//	}
//	attribute "profile" {
//	  type = hash
//	  attribute "bio" { type = string }
//	}
//
// The loader is only a front end: composite construction rules are still
// enforced by the schema builder, and its ConfigErrors pass through.
package hclspec

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/attrcast/filter"
	"github.com/vk/attrcast/internal/ctxlog"
	"github.com/vk/attrcast/schema"
)

// attrBlock mirrors one `attribute` block. Blocks nest to declare hash
// fields.
type attrBlock struct {
	Name       string         `hcl:"name,label"`
	Type       hcl.Expression `hcl:"type"`
	Format     string         `hcl:"format,optional"`
	Default    *cty.Value     `hcl:"default,optional"`
	Attributes []*attrBlock   `hcl:"attribute,block"`
}

type manifest struct {
	Attributes []*attrBlock `hcl:"attribute,block"`
}

// Option configures a load.
type Option func(*loader)

// WithModels supplies the model registry used for class inference.
func WithModels(r *filter.Registry) Option {
	return func(l *loader) { l.models = r }
}

type loader struct {
	models *filter.Registry
}

// LoadFile parses an HCL manifest file and builds its filter tree.
func LoadFile(ctx context.Context, path string, opts ...Option) (*schema.Tree, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading attribute manifest.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %s: %s", path, diags.Error())
	}
	return build(ctx, file.Body, opts...)
}

// LoadSource builds a filter tree from in-memory HCL source. filename is
// used in diagnostics only.
func LoadSource(ctx context.Context, filename string, src []byte, opts ...Option) (*schema.Tree, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %s: %s", filename, diags.Error())
	}
	return build(ctx, file.Body, opts...)
}

func build(ctx context.Context, body hcl.Body, opts ...Option) (*schema.Tree, error) {
	logger := ctxlog.FromContext(ctx)

	l := &loader{}
	for _, opt := range opts {
		opt(l)
	}

	var m manifest
	if diags := gohcl.DecodeBody(body, nil, &m); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode manifest: %s", diags.Error())
	}

	b := schema.NewBuilder()
	if l.models != nil {
		b.Models(l.models)
	}
	for _, blk := range m.Attributes {
		if err := declareBlock(b.Attr, blk); err != nil {
			return nil, err
		}
	}
	logger.Debug("Manifest decoded.", "attributes", len(m.Attributes))
	return b.Build()
}

// declareBlock translates one attribute block into builder calls. add is
// either Builder.Attr or the enclosing AttrBuilder's Field, so nesting
// falls out of the recursion.
func declareBlock(add func(string, filter.Tag) *schema.AttrBuilder, blk *attrBlock) error {
	te, err := parseTypeExpr(blk.Type)
	if err != nil {
		return fmt.Errorf("attribute %q: %w", blk.Name, err)
	}

	ab := add(blk.Name, te.tag)
	if blk.Format != "" {
		ab.Format(blk.Format)
	}
	if blk.Default != nil && !blk.Default.IsNull() {
		native, err := ctyToNative(*blk.Default)
		if err != nil {
			return fmt.Errorf("attribute %q: invalid default: %w", blk.Name, err)
		}
		ab.Default(native)
	}

	// Walk down through array(...) element types; nested attribute
	// blocks attach to the innermost filter.
	inner := ab
	for e := te.elem; e != nil; e = e.elem {
		inner = inner.Item(e.tag)
	}
	for _, child := range blk.Attributes {
		if err := declareBlock(inner.Field, child); err != nil {
			return err
		}
	}
	return nil
}
