package parse

import (
	"go/ast"
	"go/token"
	"strings"
)

// directivePrefix starts a delegen comment directive, such as
// "//delegen:delegated".
const directivePrefix = "//delegen:"

// Comment directives
const (
	dirDelegated  = "delegated"  // on an interface
	dirDelegating = "delegating" // on a struct
	dirSelf       = "self"       // on an interface: names the self type parameter
	dirAssoc      = "assoc"      // on an interface: names associated type parameters
	dirReceiver   = "receiver"   // on a method: none, value, ref, or mut
	dirConst      = "const"      // on a method: an associated constant
	dirShared     = "shared"     // on a method: a *Self parameter borrowed read-only
)

// commentDirective is a "//delegen:name arg" line.
type commentDirective struct {
	Name string
	Arg  string
	At   token.Pos
}

func (d commentDirective) Pos() token.Pos { return d.At }

// commentDirectives collects delegen directives in a comment group in order.
// A trailing "//" comment on a directive line is not a part of the argument.
func commentDirectives(doc *ast.CommentGroup) []commentDirective {
	if doc == nil {
		return nil
	}

	var dirs []commentDirective
	for _, c := range doc.List {
		rest, ok := strings.CutPrefix(c.Text, directivePrefix)
		if !ok {
			continue
		}
		rest, _, _ = strings.Cut(rest, "//")
		name, arg, _ := strings.Cut(rest, " ")
		dirs = append(dirs, commentDirective{
			Name: strings.TrimSpace(name),
			Arg:  strings.TrimSpace(arg),
			At:   c.Pos(),
		})
	}
	return dirs
}

// hasCommentDirective reports whether the comment group has the directive.
func hasCommentDirective(doc *ast.CommentGroup, name string) bool {
	for _, d := range commentDirectives(doc) {
		if d.Name == name {
			return true
		}
	}
	return false
}

// goGenerateDirective returns the first "//go:generate" line in the comment
// group without the slashes.
func goGenerateDirective(doc *ast.CommentGroup) (string, bool) {
	if doc == nil {
		return "", false
	}
	for _, c := range doc.List {
		if strings.HasPrefix(c.Text, "//go:generate") {
			return strings.TrimPrefix(c.Text, "//"), true
		}
	}
	return "", false
}
