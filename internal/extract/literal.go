// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"
)

// evalLiteral evaluates an expression composed purely of literals: basic
// literals (strings, ints, floats, runes), the predeclared identifiers true,
// false and nil, unary +/- on numeric literals, and composite literals of
// slices and string-keyed maps whose elements are themselves literals.
//
// Anything else — identifiers, selectors, calls, arithmetic — is rejected.
// This restriction is a safety boundary: contrib files are untrusted inputs
// and must never be evaluated as code merely to read their metadata.
//
// Results use a small dynamic vocabulary: string, int64, float64, bool, nil,
// []any and map[string]any.
func evalLiteral(expr ast.Expr) (any, error) {
	switch e := expr.(type) {
	case *ast.ParenExpr:
		return evalLiteral(e.X)

	case *ast.BasicLit:
		return evalBasicLit(e)

	case *ast.Ident:
		switch e.Name {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "nil":
			return nil, nil
		}
		return nil, fmt.Errorf("non-literal expression: identifier %q", e.Name)

	case *ast.UnaryExpr:
		return evalUnary(e)

	case *ast.CompositeLit:
		return evalComposite(e)
	}

	return nil, fmt.Errorf("non-literal expression: %T", expr)
}

func evalBasicLit(lit *ast.BasicLit) (any, error) {
	switch lit.Kind {
	case token.STRING:
		s, err := strconv.Unquote(lit.Value)
		if err != nil {
			return nil, fmt.Errorf("malformed string literal %s: %w", lit.Value, err)
		}
		return s, nil
	case token.INT:
		n, err := strconv.ParseInt(lit.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed integer literal %s: %w", lit.Value, err)
		}
		return n, nil
	case token.FLOAT:
		f, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed float literal %s: %w", lit.Value, err)
		}
		return f, nil
	case token.CHAR:
		r, _, _, err := strconv.UnquoteChar(lit.Value[1:len(lit.Value)-1], '\'')
		if err != nil {
			return nil, fmt.Errorf("malformed rune literal %s: %w", lit.Value, err)
		}
		return string(r), nil
	}
	return nil, fmt.Errorf("unsupported literal kind %s", lit.Kind)
}

func evalUnary(e *ast.UnaryExpr) (any, error) {
	v, err := evalLiteral(e.X)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case token.ADD:
		switch v.(type) {
		case int64, float64:
			return v, nil
		}
	case token.SUB:
		switch n := v.(type) {
		case int64:
			return -n, nil
		case float64:
			return -n, nil
		}
	}
	return nil, fmt.Errorf("non-literal expression: unary %s", e.Op)
}

// evalComposite handles slice and map composite literals. Nested composites
// inside a typed parent elide their type, so an untyped composite is
// classified by its element shape: key/value elements mean a mapping,
// anything else a sequence.
func evalComposite(lit *ast.CompositeLit) (any, error) {
	isMap := false
	switch lit.Type.(type) {
	case *ast.MapType:
		isMap = true
	case *ast.ArrayType, nil:
		if lit.Type == nil && len(lit.Elts) > 0 {
			_, isMap = lit.Elts[0].(*ast.KeyValueExpr)
		}
	default:
		return nil, fmt.Errorf("unsupported composite literal type %T", lit.Type)
	}

	if isMap {
		m := make(map[string]any, len(lit.Elts))
		for _, elt := range lit.Elts {
			kv, ok := elt.(*ast.KeyValueExpr)
			if !ok {
				return nil, fmt.Errorf("map literal element is not key/value")
			}
			key, err := evalLiteral(kv.Key)
			if err != nil {
				return nil, err
			}
			ks, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("map literal key is %T, want string", key)
			}
			val, err := evalLiteral(kv.Value)
			if err != nil {
				return nil, err
			}
			m[ks] = val
		}
		return m, nil
	}

	seq := make([]any, 0, len(lit.Elts))
	for _, elt := range lit.Elts {
		if _, ok := elt.(*ast.KeyValueExpr); ok {
			return nil, fmt.Errorf("sequence literal has key/value element")
		}
		v, err := evalLiteral(elt)
		if err != nil {
			return nil, err
		}
		seq = append(seq, v)
	}
	return seq, nil
}
