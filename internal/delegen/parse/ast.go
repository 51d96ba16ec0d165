package parse

import (
	"go/ast"
	"go/token"
	"strconv"
	"strings"
)

// evalStringLit evaluates a string expression. Returns (s, ok) where s is the
// evaluated string value.
func evalStringLit(expr ast.Expr) (string, bool) {
	lit, ok := ast.Unparen(expr).(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	s, _ := strconv.Unquote(lit.Value)
	return s, true
}

// evalIntLit evaluates a non-negative integer literal.
func evalIntLit(expr ast.Expr) (int, bool) {
	lit, ok := ast.Unparen(expr).(*ast.BasicLit)
	if !ok || lit.Kind != token.INT {
		return 0, false
	}
	n, err := strconv.ParseInt(lit.Value, 0, 0)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

// tailIdent extracts the rightmost [ast.Ident] from the expression. Type
// arguments are skipped.
//
//	Wire
//	^^^^
//	delegen.Wire
//	        ^^^^
//	delegen.Wire[Box, Name]
//	        ^^^^
func tailIdent(expr ast.Expr) (*ast.Ident, bool) {
	expr = ast.Unparen(expr)
	switch expr := expr.(type) {
	case *ast.Ident:
		return expr, true
	case *ast.SelectorExpr:
		return tailIdent(expr.Sel)
	case *ast.IndexExpr:
		return tailIdent(expr.X)
	case *ast.IndexListExpr:
		return tailIdent(expr.X)
	}
	return nil, false
}

// typeSpecDoc returns the doc comment of a type spec. The doc comment of an
// ungrouped declaration is attached to the [ast.GenDecl].
func typeSpecDoc(gen *ast.GenDecl, spec *ast.TypeSpec) *ast.CommentGroup {
	if spec.Doc != nil {
		return spec.Doc
	}
	if !gen.Lparen.IsValid() {
		return gen.Doc
	}
	return nil
}

// splitTopLevel splits s at commas outside brackets.
//
//	"Greeter, Store[string, int]" => ["Greeter", "Store[string, int]"]
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])

	var out []string
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
