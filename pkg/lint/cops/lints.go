package cops

import (
	"fmt"
	"strings"

	"github.com/yaklabco/turbocop/pkg/ast"
	"github.com/yaklabco/turbocop/pkg/lint"
	"github.com/yaklabco/turbocop/pkg/lint/directive"
)

// Syntax reports the syntax errors the parser recovered from. It is
// always active.
type Syntax struct {
	lint.BaseCop
}

// NewSyntax creates the Lint/Syntax pseudo-cop.
func NewSyntax() *Syntax {
	return &Syntax{BaseCop: lint.NewBaseCop(lint.SyntaxCopName, "Checks for syntax errors.")}
}

// CheckSource implements lint.SourceChecker.
func (c *Syntax) CheckSource(ctx *lint.Context) {
	for _, e := range ctx.Parse.Errors {
		ctx.Add(e.Loc, e.Message)
	}
}

// UselessMethodDefinition reports methods that only call super with their
// own arguments.
type UselessMethodDefinition struct {
	lint.BaseCop
}

// NewUselessMethodDefinition creates the Lint/UselessMethodDefinition cop.
func NewUselessMethodDefinition() *UselessMethodDefinition {
	return &UselessMethodDefinition{
		BaseCop: lint.NewBaseCop("Lint/UselessMethodDefinition", "Checks for useless method definitions.").WithAutocorrect(),
	}
}

// InterestedNodeTypes implements lint.NodeChecker.
func (c *UselessMethodDefinition) InterestedNodeTypes() []ast.Kind {
	return []ast.Kind{ast.KindDef}
}

// CheckNode implements lint.NodeChecker.
func (c *UselessMethodDefinition) CheckNode(ctx *lint.Context, node *ast.Node) {
	// "private def foo" is an argument of the visibility call.
	if node.Parent.Is(ast.KindArguments) {
		return
	}

	var params []*ast.Node
	if node.Parameters != nil {
		params = node.Parameters.Children
	}
	for _, p := range params {
		if p.Is(ast.KindOptionalParameter, ast.KindRestParameter, ast.KindKeywordRestParameter) {
			return
		}
	}

	stmts := node.Body.Statements()
	if len(stmts) != 1 || !delegatesToSuper(stmts[0], params) {
		return
	}
	ctx.AddNode(node, "Useless method definition detected.")
}

// delegatesToSuper reports whether call is a bare super or a super call
// passing exactly params, in order.
func delegatesToSuper(call *ast.Node, params []*ast.Node) bool {
	switch call.Kind {
	case ast.KindForwardingSuper:
		return call.Block == nil
	case ast.KindSuper:
		if call.Block != nil {
			return false
		}
		args := call.ArgumentList()
		if len(args) != len(params) {
			return false
		}
		for i, arg := range args {
			if !arg.Is(ast.KindLocalVariableRead) || arg.Name != params[i].Name {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Debugger reports calls to debugger entry points.
type Debugger struct {
	lint.BaseCop
}

// NewDebugger creates the Lint/Debugger cop.
func NewDebugger() *Debugger {
	return &Debugger{BaseCop: lint.NewBaseCop("Lint/Debugger", "Check for debugger calls.")}
}

// InterestedNodeTypes implements lint.NodeChecker.
func (c *Debugger) InterestedNodeTypes() []ast.Kind {
	return []ast.Kind{ast.KindCall}
}

// CheckNode implements lint.NodeChecker.
func (c *Debugger) CheckNode(ctx *lint.Context, node *ast.Node) {
	name := chainName(node)
	if name == "" || !debuggerMethods(ctx)[name] {
		return
	}
	ctx.AddNode(node, fmt.Sprintf("Remove debugger entry point `%s`.", lint.NodeSource(ctx.Source, node)))
}

// debuggerMethods flattens the DebuggerMethods option. Groups may be a
// list or nil, which disables the group.
func debuggerMethods(ctx *lint.Context) map[string]bool {
	methods := make(map[string]bool)
	raw, ok := ctx.CopConfig.Raw("DebuggerMethods")
	if !ok {
		return methods
	}
	switch v := raw.(type) {
	case map[string]any:
		for _, group := range v {
			for _, m := range asStrings(group) {
				methods[m] = true
			}
		}
	default:
		for _, m := range asStrings(v) {
			methods[m] = true
		}
	}
	return methods
}

func asStrings(raw any) []string {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, isString := item.(string); isString {
			out = append(out, s)
		}
	}
	return out
}

// chainName renders a call chain of plain method names and constants as
// "Kernel.binding.pry". Other receivers yield "".
func chainName(node *ast.Node) string {
	switch node.Kind {
	case ast.KindCall:
		if node.Has(ast.FlagSafeNavigation) {
			return ""
		}
		if node.Receiver == nil {
			return node.Name
		}
		recv := chainName(node.Receiver)
		if recv == "" {
			return ""
		}
		return recv + "." + node.Name
	case ast.KindConstantRead, ast.KindConstantPath:
		return lint.ConstName(node)
	default:
		return ""
	}
}

// BooleanSymbol reports :true and :false.
type BooleanSymbol struct {
	lint.BaseCop
}

// NewBooleanSymbol creates the Lint/BooleanSymbol cop.
func NewBooleanSymbol() *BooleanSymbol {
	return &BooleanSymbol{
		BaseCop: lint.NewBaseCop("Lint/BooleanSymbol", "Check for `:true` and `:false` symbols.").WithAutocorrect(),
	}
}

// InterestedNodeTypes implements lint.NodeChecker.
func (c *BooleanSymbol) InterestedNodeTypes() []ast.Kind {
	return []ast.Kind{ast.KindSymbol}
}

// CheckNode implements lint.NodeChecker.
func (c *BooleanSymbol) CheckNode(ctx *lint.Context, node *ast.Node) {
	if node.Name != "true" && node.Name != "false" {
		return
	}
	if parent := node.Parent; parent.Is(ast.KindArray) && strings.HasPrefix(string(ctx.Source.Text(parent.OpeningLoc)), "%") {
		return
	}
	if node.Parent.Is(ast.KindAlias, ast.KindUndef) || node.Parent.Is(ast.KindDef) {
		return
	}
	ctx.AddNode(node, fmt.Sprintf("Symbol with a boolean name - you probably meant to use `%s`.", node.Name))
}

// DuplicateMethods reports methods defined twice in the same scope. It
// runs its own traversal to track class and module nesting.
type DuplicateMethods struct {
	lint.BaseCop
}

// NewDuplicateMethods creates the Lint/DuplicateMethods cop.
func NewDuplicateMethods() *DuplicateMethods {
	return &DuplicateMethods{BaseCop: lint.NewBaseCop("Lint/DuplicateMethods", "Check for duplicate method definitions.")}
}

// CheckSource implements lint.SourceChecker.
func (c *DuplicateMethods) CheckSource(ctx *lint.Context) {
	seen := make(map[string]int)
	c.visit(ctx, ctx.Root(), "Object", false, seen)
}

func (c *DuplicateMethods) visit(ctx *lint.Context, node *ast.Node, scope string, singleton bool, seen map[string]int) {
	if node == nil {
		return
	}

	switch node.Kind {
	case ast.KindClass, ast.KindModule:
		name := lint.ConstName(node.ConstantPath)
		if name == "" {
			return
		}
		switch {
		case strings.HasPrefix(name, "::"):
			name = strings.TrimPrefix(name, "::")
		case scope != "Object":
			name = scope + "::" + name
		}
		c.visit(ctx, node.Body, name, false, seen)
		return

	case ast.KindSingletonClass:
		if node.Value.Is(ast.KindSelf) {
			c.visit(ctx, node.Body, scope, true, seen)
		}
		return

	case ast.KindDef:
		key, ok := methodKey(node, scope, singleton)
		if !ok {
			return
		}
		line, _ := ctx.Source.LineCol(node.Loc.Start)
		if first, dup := seen[key]; dup {
			path := ctx.Source.Path()
			ctx.AddNode(node, fmt.Sprintf("Method `%s` is defined at both %s:%d and %s:%d.", key, path, first, path, line))
			return
		}
		seen[key] = line
		return

	case ast.KindBlock, ast.KindLambda, ast.KindIf, ast.KindUnless, ast.KindCase,
		ast.KindWhile, ast.KindUntil, ast.KindFor, ast.KindRescue:
		// Definitions here are conditional or dynamic.
		return
	}

	for _, child := range node.Children {
		c.visit(ctx, child, scope, singleton, seen)
	}
}

// methodKey returns "Scope#name" for instance methods and "Scope.name"
// for singleton methods.
func methodKey(def *ast.Node, scope string, singleton bool) (string, bool) {
	if !def.Has(ast.FlagSingletonDef) {
		if singleton {
			return scope + "." + def.Name, true
		}
		return scope + "#" + def.Name, true
	}

	switch {
	case def.Receiver.Is(ast.KindSelf):
		return scope + "." + def.Name, true
	case def.Receiver.Is(ast.KindConstantRead, ast.KindConstantPath):
		name := strings.TrimPrefix(lint.ConstName(def.Receiver), "::")
		if name == "" {
			return "", false
		}
		return name + "." + def.Name, true
	default:
		return "", false
	}
}

// RedundantCopDisableDirective reports disable directives that cannot
// suppress anything on this file.
type RedundantCopDisableDirective struct {
	lint.BaseCop

	registry directive.Lookup
}

// NewRedundantCopDisableDirective creates the cop. registry resolves cop
// names mentioned by directives.
func NewRedundantCopDisableDirective(registry directive.Lookup) *RedundantCopDisableDirective {
	return &RedundantCopDisableDirective{
		BaseCop: lint.NewBaseCop(directive.RedundantCopName,
			"Checks for rubocop:disable comments that can be removed.").WithAutocorrect(),
		registry: registry,
	}
}

// CheckDirectives implements lint.DirectiveChecker.
func (c *RedundantCopDisableDirective) CheckDirectives(ctx *lint.Context, directives []directive.Directive, ran map[string]bool) {
	for _, f := range directive.Redundant(directives, ran, c.registry, ctx.Filter.Active()) {
		ctx.AddAt(f.Line, f.Column, f.Message)
	}
}
