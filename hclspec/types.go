package hclspec

import (
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/attrcast/filter"
)

// typeExpr is a parsed manifest type expression: a tag, plus the element
// type chain for array(...) constructors.
type typeExpr struct {
	tag  filter.Tag
	elem *typeExpr
}

// parseTypeExpr converts an HCL type expression into a typeExpr. Bare
// keywords (`integer`, `hash`) arrive as scope traversals; `array(T)` is a
// function call whose single argument is parsed recursively.
func parseTypeExpr(expr hcl.Expression) (*typeExpr, error) {
	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return nil, fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		root := v.Traversal.RootName()
		tag, ok := filter.ParseTag(root)
		if !ok {
			return nil, fmt.Errorf("unknown filter type %q", root)
		}
		return &typeExpr{tag: tag}, nil

	case *hclsyntax.FunctionCallExpr:
		if v.Name != string(filter.Array) {
			return nil, fmt.Errorf("unknown type constructor %q", v.Name)
		}
		if len(v.Args) != 1 {
			return nil, fmt.Errorf("array takes exactly one element type, got %d", len(v.Args))
		}
		elem, err := parseTypeExpr(v.Args[0])
		if err != nil {
			return nil, err
		}
		return &typeExpr{tag: filter.Array, elem: elem}, nil

	default:
		return nil, fmt.Errorf("unsupported expression for type definition: %T", v)
	}
}

// ctyToNative lowers a cty value (a manifest default) into the native Go
// shape the engine trades in.
func ctyToNative(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Number:
		bf := val.AsBigFloat()
		if i, acc := bf.Int64(); acc == big.Exact {
			return i, nil
		}
		f, _ := bf.Float64()
		return f, nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			native, err := ctyToNative(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			native, err := ctyToNative(ev)
			if err != nil {
				return nil, err
			}
			out[kv.AsString()] = native
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
