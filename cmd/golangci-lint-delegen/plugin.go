// golangcilintdelegen package provides a plugin for golangci-lint to integrate
// the delegen analyzer. The analyzer reports malformed directives, unresolved
// delegate tags and delegen.Wire targets, and interface methods which cannot
// be forwarded, at the positions the generator would reject them.
//
// To build a custom golangci-lint binary with this plugin, use the following
// command at this package's directory:
//
//	golangci-lint custom
//
// Now you will have a golangci-lint-delegen binary that you can use to lint
// your Go code with the delegen analyzer.
package golangcilintdelegen

import (
	"github.com/golangci/plugin-module-register/register"
	"golang.org/x/tools/go/analysis"

	"github.com/sublee/delegen/pkg/delegenanalysis"
)

func init() {
	register.Plugin("delegen", New)
}

// New creates the linter. It takes no settings. Methods without a receiver are
// allowed as in the default configuration.
func New(settings any) (register.LinterPlugin, error) {
	return DelegenLinter{}, nil
}

// DelegenLinter runs [delegenanalysis.Analyzer] in golangci-lint.
type DelegenLinter struct{}

func (DelegenLinter) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	return []*analysis.Analyzer{delegenanalysis.Analyzer}, nil
}

// GetLoadMode asks for type information. The analyzer resolves wirings with
// types and facts.
func (DelegenLinter) GetLoadMode() string {
	return register.LoadModeTypesInfo
}
