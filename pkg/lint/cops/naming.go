package cops

import (
	"regexp"
	"strings"

	"github.com/yaklabco/turbocop/pkg/ast"
	"github.com/yaklabco/turbocop/pkg/lint"
)

// MethodName checks that method names follow the configured style.
type MethodName struct {
	lint.BaseCop
}

// NewMethodName creates the Naming/MethodName cop.
func NewMethodName() *MethodName {
	return &MethodName{
		BaseCop: lint.NewBaseCop("Naming/MethodName", "Use the configured style when naming methods."),
	}
}

var camelCaseMethodRe = regexp.MustCompile(`\A_*[a-z][A-Za-z0-9]*[?!=]?\z`)

// InterestedNodeTypes implements lint.NodeChecker.
func (c *MethodName) InterestedNodeTypes() []ast.Kind {
	return []ast.Kind{ast.KindDef}
}

// CheckNode implements lint.NodeChecker.
func (c *MethodName) CheckNode(ctx *lint.Context, node *ast.Node) {
	name := node.Name
	if name == "" || lint.IsOperatorMethod(name) || strings.HasPrefix(name, "`") {
		return
	}
	if matchesAny(compilePatterns(ctx.OptionStrings("AllowedPatterns")), []byte(name)) {
		return
	}

	loc := node.MessageLoc
	if !ast.HasRange(loc) {
		loc = node.Loc
	}

	if ctx.OptionString("EnforcedStyle", "snake_case") == "camelCase" {
		if !camelCaseMethodRe.MatchString(name) {
			ctx.Add(loc, "Use camelCase for method names.")
		}
		return
	}
	if !lint.IsSnakeCase(name) {
		ctx.Add(loc, "Use snake_case for method names.")
	}
}
