package cops

import (
	"regexp"
	"strings"

	"github.com/yaklabco/turbocop/pkg/ast"
	"github.com/yaklabco/turbocop/pkg/lint"
)

// FrozenStringLiteralComment checks for the frozen_string_literal magic
// comment at the top of a file.
type FrozenStringLiteralComment struct {
	lint.BaseCop
}

// NewFrozenStringLiteralComment creates the Style/FrozenStringLiteralComment cop.
func NewFrozenStringLiteralComment() *FrozenStringLiteralComment {
	return &FrozenStringLiteralComment{
		BaseCop: lint.NewBaseCop("Style/FrozenStringLiteralComment",
			"Add the frozen_string_literal comment to the top of files.").WithAutocorrect(),
	}
}

var frozenStringLiteralRe = regexp.MustCompile(`(?i)\bfrozen[_-]string[_-]literal\s*:\s*([A-Za-z]+)`)

// CheckLines implements lint.LineChecker.
func (c *FrozenStringLiteralComment) CheckLines(ctx *lint.Context) {
	style := ctx.OptionString("EnforcedStyle", "always")

	magicLine, value, hasCode := 0, "", false
	for lineNum := 1; lineNum <= ctx.Source.LineCount(); lineNum++ {
		line := ctx.Source.Line(lineNum)
		if lint.IsBlankLine(line) {
			continue
		}
		if !lint.IsCommentLine(line) {
			hasCode = true
			break
		}
		if magicLine != 0 {
			continue
		}
		if m := frozenStringLiteralRe.FindSubmatch(line); m != nil {
			magicLine, value = lineNum, strings.ToLower(string(m[1]))
		}
	}
	if !hasCode {
		return
	}

	switch style {
	case "never":
		if magicLine != 0 {
			ctx.AddAt(magicLine, 0, "Unnecessary frozen string literal comment.")
		}
	case "always_true":
		switch {
		case magicLine == 0:
			ctx.AddAt(1, 0, "Missing magic comment `# frozen_string_literal: true`.")
		case value != "true":
			ctx.AddAt(magicLine, 0, "Frozen string literal comment must be set to `true`.")
		}
	default:
		if magicLine == 0 {
			ctx.AddAt(1, 0, "Missing frozen string literal comment.")
		}
	}
}

// StringLiterals checks that quotes match the configured preference.
type StringLiterals struct {
	lint.BaseCop
}

// NewStringLiterals creates the Style/StringLiterals cop.
func NewStringLiterals() *StringLiterals {
	return &StringLiterals{
		BaseCop: lint.NewBaseCop("Style/StringLiterals",
			"Checks if uses of quotes match the configured preference.").WithAutocorrect(),
	}
}

// InterestedNodeTypes implements lint.NodeChecker.
func (c *StringLiterals) InterestedNodeTypes() []ast.Kind {
	return []ast.Kind{ast.KindString}
}

// CheckNode implements lint.NodeChecker.
func (c *StringLiterals) CheckNode(ctx *lint.Context, node *ast.Node) {
	if node.Has(ast.FlagHeredoc) || !ast.HasRange(node.OpeningLoc) || !ast.HasRange(node.ClosingLoc) {
		return
	}
	if node.EnclosingKind(ast.KindEmbeddedStatements, ast.KindInterpolatedString) != nil {
		return
	}
	if !lint.IsSingleLine(ctx.Source, node) {
		return
	}

	opening := string(ctx.Source.Text(node.OpeningLoc))
	content := node.Name

	switch ctx.OptionString("EnforcedStyle", "single_quotes") {
	case "double_quotes":
		if opening != "'" || strings.ContainsAny(content, "\"\\") || strings.Contains(content, "#") {
			return
		}
		ctx.AddNode(node, "Prefer double-quoted strings unless you need single quotes to avoid extra backslashes for escaping.")
	default:
		if opening != `"` || strings.ContainsAny(content, "'\\") {
			return
		}
		ctx.AddNode(node, "Prefer single-quoted strings when you don't need string interpolation or special symbols.")
	}
}

// NilComparison checks for comparisons against nil.
type NilComparison struct {
	lint.BaseCop
}

// NewNilComparison creates the Style/NilComparison cop.
func NewNilComparison() *NilComparison {
	return &NilComparison{
		BaseCop: lint.NewBaseCop("Style/NilComparison", "Prefer x.nil? to x == nil.").WithAutocorrect(),
	}
}

// InterestedNodeTypes implements lint.NodeChecker.
func (c *NilComparison) InterestedNodeTypes() []ast.Kind {
	return []ast.Kind{ast.KindCall}
}

// CheckNode implements lint.NodeChecker.
func (c *NilComparison) CheckNode(ctx *lint.Context, node *ast.Node) {
	if node.Receiver == nil {
		return
	}

	if ctx.OptionString("EnforcedStyle", "predicate") == "comparison" {
		if node.Name == "nil?" && node.Arguments == nil {
			ctx.Add(node.MessageLoc, "Prefer the use of the `==` comparison.")
		}
		return
	}

	if !lint.IsCall(node, "==", "===") {
		return
	}
	args := node.ArgumentList()
	if len(args) == 1 && args[0].Is(ast.KindNil) {
		ctx.Add(node.MessageLoc, "Prefer the use of the `nil?` predicate.")
	}
}

// HashSyntax checks hash literal key syntax.
type HashSyntax struct {
	lint.BaseCop
}

// NewHashSyntax creates the Style/HashSyntax cop.
func NewHashSyntax() *HashSyntax {
	return &HashSyntax{
		BaseCop: lint.NewBaseCop("Style/HashSyntax",
			"Prefer Ruby 1.9 hash syntax { a: 1, b: 2 } over 1.8 syntax { :a => 1, :b => 2 }.").WithAutocorrect(),
	}
}

const (
	msgRuby19      = "Use the new Ruby 1.9 hash syntax."
	msgHashRockets = "Use hash rockets syntax."
	msgNoMixedKeys = "Don't mix styles in the same hash."
)

var ruby19KeyRe = regexp.MustCompile(`\A[A-Za-z_][A-Za-z0-9_]*[?!]?\z`)

// InterestedNodeTypes implements lint.NodeChecker.
func (c *HashSyntax) InterestedNodeTypes() []ast.Kind {
	return []ast.Kind{ast.KindHash, ast.KindKeywordHash}
}

// CheckNode implements lint.NodeChecker.
func (c *HashSyntax) CheckNode(ctx *lint.Context, node *ast.Node) {
	var pairs []*ast.Node
	for _, child := range node.Children {
		if child.Is(ast.KindAssoc) {
			pairs = append(pairs, child)
		}
	}
	if len(pairs) == 0 {
		return
	}

	rocket := func(pair *ast.Node) bool {
		return string(ctx.Source.Text(pair.OperatorLoc)) == "=>"
	}
	flag := func(wantRocket bool, message string) {
		for _, pair := range pairs {
			if rocket(pair) == wantRocket {
				ctx.AddNode(pair, message)
			}
		}
	}

	switch ctx.OptionString("EnforcedStyle", "ruby19") {
	case "hash_rockets":
		flag(false, msgHashRockets)
	case "no_mixed_keys":
		first := rocket(pairs[0])
		for _, pair := range pairs[1:] {
			if rocket(pair) != first {
				ctx.AddNode(pair, msgNoMixedKeys)
			}
		}
	case "ruby19_no_mixed_keys":
		if c.symbolKeys(ctx, pairs) {
			flag(true, msgRuby19)
		} else {
			flag(false, msgNoMixedKeys)
		}
	default:
		if c.symbolKeys(ctx, pairs) {
			flag(true, msgRuby19)
		}
	}
}

// symbolKeys reports whether every key could be written in 1.9 syntax.
func (c *HashSyntax) symbolKeys(ctx *lint.Context, pairs []*ast.Node) bool {
	for _, pair := range pairs {
		key := pair.Key
		if !key.Is(ast.KindSymbol) {
			return false
		}
		if ast.HasRange(key.OpeningLoc) && string(ctx.Source.Text(key.OpeningLoc)) != ":" {
			return false
		}
		if !ruby19KeyRe.MatchString(key.Name) {
			return false
		}
	}
	return true
}

// NegatedIf favors unless over if with a negated condition.
type NegatedIf struct {
	lint.BaseCop
}

// NewNegatedIf creates the Style/NegatedIf cop.
func NewNegatedIf() *NegatedIf {
	return &NegatedIf{
		BaseCop: lint.NewBaseCop("Style/NegatedIf", "Favor unless over if for negative conditions.").WithAutocorrect(),
	}
}

// InterestedNodeTypes implements lint.NodeChecker.
func (c *NegatedIf) InterestedNodeTypes() []ast.Kind {
	return []ast.Kind{ast.KindIf}
}

// CheckNode implements lint.NodeChecker.
func (c *NegatedIf) CheckNode(ctx *lint.Context, node *ast.Node) {
	if node.Has(ast.FlagTernary) || node.Subsequent != nil {
		return
	}
	if string(ctx.Source.Text(node.KeywordLoc)) != "if" {
		return
	}

	modifier := node.Has(ast.FlagModifier)
	switch ctx.OptionString("EnforcedStyle", "both") {
	case "prefix":
		if modifier {
			return
		}
	case "postfix":
		if !modifier {
			return
		}
	}

	cond := node.Predicate
	for cond.Is(ast.KindParentheses) && len(cond.Children) == 1 {
		cond = cond.Children[0]
		if cond.Is(ast.KindStatements) && len(cond.Children) == 1 {
			cond = cond.Children[0]
		}
	}
	if !lint.IsCall(cond, "!") || lint.IsCall(cond.Receiver, "!") {
		return
	}
	ctx.AddNode(node, "Favor `unless` over `if` for negative conditions.")
}

// DoubleNegation checks for uses of !!.
type DoubleNegation struct {
	lint.BaseCop
}

// NewDoubleNegation creates the Style/DoubleNegation cop.
func NewDoubleNegation() *DoubleNegation {
	return &DoubleNegation{
		BaseCop: lint.NewBaseCop("Style/DoubleNegation", "Checks for uses of double negation (!!).").WithAutocorrect(),
	}
}

// InterestedNodeTypes implements lint.NodeChecker.
func (c *DoubleNegation) InterestedNodeTypes() []ast.Kind {
	return []ast.Kind{ast.KindCall}
}

// CheckNode implements lint.NodeChecker.
func (c *DoubleNegation) CheckNode(ctx *lint.Context, node *ast.Node) {
	if !lint.IsCall(node, "!") || !lint.IsCall(node.Receiver, "!") {
		return
	}
	if !strings.HasPrefix(lint.NodeSource(ctx.Source, node), "!!") {
		return
	}
	if ctx.OptionString("EnforcedStyle", "allowed_in_returns") == "allowed_in_returns" && isReturnValue(node) {
		return
	}
	ctx.AddNode(node, "Avoid the use of double negation (`!!`).")
}

// isReturnValue reports whether node is the value of an explicit return
// or the last expression of a method body.
func isReturnValue(node *ast.Node) bool {
	parent := node.Parent
	if parent.Is(ast.KindArguments) && parent.Parent.Is(ast.KindReturn) {
		return true
	}
	if parent.Is(ast.KindReturn) {
		return true
	}
	if parent.Is(ast.KindDef) {
		return parent.Body == node
	}
	if !parent.Is(ast.KindStatements) || parent.Children[len(parent.Children)-1] != node {
		return false
	}
	owner := parent.Parent
	if owner.Is(ast.KindBegin) && owner.Parent.Is(ast.KindDef) {
		owner = owner.Parent
	}
	return owner.Is(ast.KindDef)
}

// GlobalVars reports user-defined global variables.
type GlobalVars struct {
	lint.BaseCop
}

// NewGlobalVars creates the Style/GlobalVars cop.
func NewGlobalVars() *GlobalVars {
	return &GlobalVars{
		BaseCop: lint.NewBaseCop("Style/GlobalVars", "Do not introduce global variables."),
	}
}

//nolint:gochecknoglobals // Read-only lookup table.
var builtinGlobals = toSet(
	"$:", "$LOAD_PATH", `$"`, "$LOADED_FEATURES", "$0", "$PROGRAM_NAME", "$!",
	"$ERROR_INFO", "$@", "$ERROR_POSITION", "$;", "$FS", "$FIELD_SEPARATOR",
	"$,", "$OFS", "$OUTPUT_FIELD_SEPARATOR", "$/", "$RS", "$INPUT_RECORD_SEPARATOR",
	`$\`, "$ORS", "$OUTPUT_RECORD_SEPARATOR", "$.", "$NR", "$INPUT_LINE_NUMBER",
	"$_", "$LAST_READ_LINE", "$>", "$DEFAULT_OUTPUT", "$<", "$DEFAULT_INPUT", "$$",
	"$PID", "$PROCESS_ID", "$?", "$CHILD_STATUS", "$~", "$LAST_MATCH_INFO", "$=",
	"$IGNORECASE", "$*", "$ARGV", "$&", "$MATCH", "$`", "$PREMATCH", "$'",
	"$POSTMATCH", "$+", "$LAST_PAREN_MATCH", "$stdin", "$stdout", "$stderr",
	"$DEBUG", "$FILENAME", "$VERBOSE", "$SAFE", "$-0", "$-a", "$-d", "$-F", "$-i",
	"$-I", "$-l", "$-p", "$-v", "$-w", "$CLASSPATH", "$JRUBY_VERSION",
	"$JRUBY_REVISION", "$ENV_JAVA",
)

var nthRefRe = regexp.MustCompile(`\A\$[1-9][0-9]*\z`)

// InterestedNodeTypes implements lint.NodeChecker.
func (c *GlobalVars) InterestedNodeTypes() []ast.Kind {
	return []ast.Kind{ast.KindGlobalVariableRead, ast.KindGlobalVariableWrite}
}

// CheckNode implements lint.NodeChecker.
func (c *GlobalVars) CheckNode(ctx *lint.Context, node *ast.Node) {
	name := node.Name
	if builtinGlobals[name] || nthRefRe.MatchString(name) {
		return
	}
	for _, allowed := range ctx.OptionStrings("AllowedVariables") {
		if allowed == name {
			return
		}
	}
	ctx.AddNode(node, "Do not introduce global variables.")
}

func toSet(items ...string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
