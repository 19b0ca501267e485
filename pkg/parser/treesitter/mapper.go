package treesitter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/yaklabco/turbocop/pkg/ast"
	"github.com/yaklabco/turbocop/pkg/source"
)

// scope tracks local variable names for one lexical scope. Hard scopes
// (program, def, class, module) stop lookups; block scopes see their
// enclosing scope.
type scope struct {
	vars   map[string]struct{}
	parent *scope
	hard   bool
}

// mapper converts a tree-sitter Ruby tree into ast nodes.
type mapper struct {
	content []byte
	scope   *scope
	pattern int
	dataLoc source.Range
}

func newMapper(content []byte) *mapper {
	return &mapper{content: content, dataLoc: ast.NoRange}
}

func (m *mapper) pushScope(hard bool) {
	m.scope = &scope{vars: make(map[string]struct{}), parent: m.scope, hard: hard}
}

func (m *mapper) popScope() {
	if m.scope != nil {
		m.scope = m.scope.parent
	}
}

func (m *mapper) declare(name string) {
	if name == "" || m.scope == nil {
		return
	}
	m.scope.vars[name] = struct{}{}
}

func (m *mapper) isLocal(name string) bool {
	for s := m.scope; s != nil; s = s.parent {
		if _, ok := s.vars[name]; ok {
			return true
		}
		if s.hard {
			return false
		}
	}
	return false
}

func (m *mapper) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(m.content[n.StartByte():n.EndByte()])
}

// skippedTypes never become ast nodes.
var skippedTypes = map[string]bool{
	"comment":         true,
	"heredoc_body":    true,
	"empty_statement": true,
}

// namedChildren returns the named children of n that carry structure.
func namedChildren(n *sitter.Node) []*sitter.Node {
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child == nil || skippedTypes[child.Type()] {
			continue
		}
		out = append(out, child)
	}
	return out
}

// tokenLoc returns the range of the first anonymous child whose type is
// one of toks.
func tokenLoc(n *sitter.Node, toks ...string) source.Range {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || child.IsNamed() {
			continue
		}
		for _, tok := range toks {
			if child.Type() == tok {
				return rangeOf(child)
			}
		}
	}
	return ast.NoRange
}

// lastTokenLoc is tokenLoc searching from the end.
func lastTokenLoc(n *sitter.Node, toks ...string) source.Range {
	for i := int(n.ChildCount()) - 1; i >= 0; i-- {
		child := n.Child(i)
		if child == nil || child.IsNamed() {
			continue
		}
		for _, tok := range toks {
			if child.Type() == tok {
				return rangeOf(child)
			}
		}
	}
	return ast.NoRange
}

func firstAnonymous(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child != nil && !child.IsNamed() {
			return child
		}
	}
	return nil
}

func sameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil &&
		a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

func spanOf(nodes []*ast.Node) source.Range {
	return source.Range{Start: nodes[0].Loc.Start, End: nodes[len(nodes)-1].Loc.End}
}

func (m *mapper) mapProgram(root *sitter.Node) *ast.Node {
	prog := ast.New(ast.KindProgram, source.Range{Start: 0, End: len(m.content)})
	m.pushScope(true)
	defer m.popScope()

	var stmts []*sitter.Node
	for _, child := range namedChildren(root) {
		if child.Type() == "uninterpreted" {
			m.dataLoc = rangeOf(child)
			continue
		}
		stmts = append(stmts, child)
	}

	body := m.mapBody(stmts)
	if body == nil {
		body = ast.New(ast.KindStatements, source.Range{})
	}
	prog.AppendChild(body)
	prog.Body = body
	return prog
}

// flatten expands nested body containers in place.
func flatten(children []*sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, len(children))
	for _, child := range children {
		if child.Type() == "body_statement" {
			out = append(out, namedChildren(child)...)
			continue
		}
		out = append(out, child)
	}
	return out
}

// mapBody maps a sequence of statements, wrapping them in an implicit
// begin when rescue, else, or ensure clauses are present.
func (m *mapper) mapBody(children []*sitter.Node) *ast.Node {
	children = flatten(children)

	var plain, clauses []*sitter.Node
	for _, child := range children {
		switch child.Type() {
		case "rescue", "ensure":
			clauses = append(clauses, child)
		case "else":
			if len(clauses) > 0 {
				clauses = append(clauses, child)
			} else {
				plain = append(plain, child)
			}
		default:
			plain = append(plain, child)
		}
	}

	stmts := m.mapStatements(plain)
	if len(clauses) == 0 {
		return stmts
	}

	begin := ast.New(ast.KindBegin, source.Range{
		Start: int(children[0].StartByte()),
		End:   int(children[len(children)-1].EndByte()),
	})
	begin.AppendChild(stmts)
	begin.Body = stmts
	m.appendClauses(begin, clauses)
	return begin
}

func (m *mapper) appendClauses(begin *ast.Node, clauses []*sitter.Node) {
	for _, clause := range clauses {
		mapped := m.mapNode(clause)
		begin.AppendChild(mapped)
		if mapped != nil && mapped.Kind == ast.KindElse {
			begin.Subsequent = mapped
		}
	}
}

func (m *mapper) mapStatements(children []*sitter.Node) *ast.Node {
	var mapped []*ast.Node
	for _, child := range children {
		if n := m.mapNode(child); n != nil {
			mapped = append(mapped, n)
		}
	}
	if len(mapped) == 0 {
		return nil
	}

	stmts := ast.New(ast.KindStatements, spanOf(mapped))
	for _, n := range mapped {
		stmts.AppendChild(n)
	}
	return stmts
}

// bodyOf maps the body of a definition-like node. Grammar versions differ
// in whether the body is a field or inlined, so both are handled.
func (m *mapper) bodyOf(n *sitter.Node, fields ...string) *ast.Node {
	if body := n.ChildByFieldName("body"); body != nil {
		switch body.Type() {
		case "body_statement", "block_body", "then", "do":
			return m.mapBody(namedChildren(body))
		default:
			return m.mapNode(body)
		}
	}

	var skip []*sitter.Node
	for _, field := range fields {
		if f := n.ChildByFieldName(field); f != nil {
			skip = append(skip, f)
		}
	}

	var rest []*sitter.Node
	for _, child := range namedChildren(n) {
		switch child.Type() {
		case "block_parameters", "method_parameters", "lambda_parameters", "superclass":
			continue
		}
		skipped := false
		for _, s := range skip {
			if sameNode(s, child) {
				skipped = true
				break
			}
		}
		if !skipped {
			rest = append(rest, child)
		}
	}
	return m.mapBody(rest)
}

//nolint:gocyclo,cyclop,funlen // dispatch table over grammar node types
func (m *mapper) mapNode(n *sitter.Node) *ast.Node {
	if n == nil {
		return nil
	}

	loc := rangeOf(n)

	switch n.Type() {
	case "comment", "heredoc_body", "empty_statement", "uninterpreted":
		return nil

	case "identifier":
		return m.mapIdentifier(n)
	case "constant":
		node := ast.New(ast.KindConstantRead, loc)
		node.Name = m.text(n)
		return node
	case "scope_resolution":
		return m.mapScopeResolution(n)
	case "instance_variable":
		return m.named(ast.KindInstanceVariableRead, n)
	case "class_variable":
		return m.named(ast.KindClassVariableRead, n)
	case "global_variable":
		return m.named(ast.KindGlobalVariableRead, n)

	case "self":
		return ast.New(ast.KindSelf, loc)
	case "nil":
		return ast.New(ast.KindNil, loc)
	case "true":
		return ast.New(ast.KindTrue, loc)
	case "false":
		return ast.New(ast.KindFalse, loc)
	case "integer":
		return m.named(ast.KindInteger, n)
	case "float":
		return m.named(ast.KindFloat, n)
	case "rational":
		return m.named(ast.KindRational, n)
	case "complex":
		return m.named(ast.KindImaginary, n)

	case "string", "bare_string":
		return m.mapString(n, ast.KindString)
	case "character":
		node := ast.New(ast.KindString, loc)
		node.Name = strings.TrimPrefix(m.text(n), "?")
		node.OpeningLoc = source.Range{Start: loc.Start, End: loc.Start + 1}
		return node
	case "subshell":
		return m.mapString(n, ast.KindXString)
	case "regex":
		return m.mapString(n, ast.KindRegularExpression)
	case "heredoc_beginning":
		node := ast.New(ast.KindString, loc)
		node.Flags |= ast.FlagHeredoc
		node.OpeningLoc = loc
		return node
	case "chained_string":
		return m.mapChildren(ast.KindInterpolatedString, n)
	case "simple_symbol", "hash_key_symbol", "bare_symbol", "delimited_symbol":
		return m.mapSymbol(n)

	case "array", "string_array", "symbol_array":
		node := m.mapChildren(ast.KindArray, n)
		node.OpeningLoc = tokenLoc(n, "[", "%w(", "%i(", "%W(", "%I(")
		node.ClosingLoc = lastTokenLoc(n, "]", ")")
		return node
	case "right_assignment_list":
		return m.mapChildren(ast.KindArray, n)
	case "hash":
		node := m.mapChildren(ast.KindHash, n)
		node.OpeningLoc = tokenLoc(n, "{")
		node.ClosingLoc = lastTokenLoc(n, "}")
		return node
	case "pair":
		return m.mapPair(n)
	case "hash_splat_argument":
		return m.wrapValue(ast.KindAssocSplat, n)
	case "splat_argument":
		return m.wrapValue(ast.KindSplat, n)
	case "block_argument":
		return m.wrapValue(ast.KindBlockArgument, n)
	case "argument_list":
		return m.mapArguments(n)

	case "call":
		return m.mapCall(n)
	case "element_reference":
		return m.mapIndex(n)
	case "binary":
		return m.mapBinary(n)
	case "unary":
		return m.mapUnary(n)
	case "parenthesized_statements":
		node := ast.New(ast.KindParentheses, loc)
		body := m.mapBody(namedChildren(n))
		node.AppendChild(body)
		node.Body = body
		node.OpeningLoc = tokenLoc(n, "(")
		node.ClosingLoc = lastTokenLoc(n, ")")
		return node

	case "conditional":
		return m.mapTernary(n)
	case "if", "elsif":
		return m.mapIf(n, ast.KindIf)
	case "unless":
		return m.mapIf(n, ast.KindUnless)
	case "if_modifier":
		return m.mapModifier(n, ast.KindIf)
	case "unless_modifier":
		return m.mapModifier(n, ast.KindUnless)
	case "while":
		return m.mapLoop(n, ast.KindWhile)
	case "until":
		return m.mapLoop(n, ast.KindUntil)
	case "while_modifier":
		return m.mapModifier(n, ast.KindWhile)
	case "until_modifier":
		return m.mapModifier(n, ast.KindUntil)
	case "for":
		return m.mapFor(n)
	case "case":
		return m.mapCase(n, ast.KindCase)
	case "case_match":
		return m.mapCase(n, ast.KindCaseMatch)
	case "when":
		return m.mapWhen(n)
	case "in_clause":
		return m.mapInClause(n)
	case "pattern", "in", "superclass":
		children := namedChildren(n)
		if len(children) == 0 {
			return nil
		}
		return m.mapNode(children[0])

	case "begin", "begin_block", "end_block":
		node := ast.New(ast.KindBegin, loc)
		node.KeywordLoc = tokenLoc(n, "begin", "BEGIN", "END")
		node.ClosingLoc = lastTokenLoc(n, "end", "}")
		m.fillBegin(node, flatten(namedChildren(n)))
		return node
	case "rescue":
		return m.mapRescue(n)
	case "rescue_modifier":
		node := ast.New(ast.KindRescueModifier, loc)
		node.Flags |= ast.FlagModifier
		node.KeywordLoc = tokenLoc(n, "rescue")
		body := m.mapNode(n.ChildByFieldName("body"))
		handler := m.mapNode(n.ChildByFieldName("handler"))
		node.AppendChild(body)
		node.AppendChild(handler)
		node.Body = body
		node.Value = handler
		return node
	case "ensure", "else":
		kind := ast.KindEnsure
		if n.Type() == "else" {
			kind = ast.KindElse
		}
		node := ast.New(kind, loc)
		node.KeywordLoc = tokenLoc(n, n.Type())
		body := m.mapBody(namedChildren(n))
		node.AppendChild(body)
		node.Body = body
		return node
	case "then", "body_statement", "block_body", "do":
		return m.mapBody(namedChildren(n))

	case "return":
		return m.mapJump(n, ast.KindReturn)
	case "break":
		return m.mapJump(n, ast.KindBreak)
	case "next":
		return m.mapJump(n, ast.KindNext)
	case "redo":
		return ast.New(ast.KindRedo, loc)
	case "retry":
		return ast.New(ast.KindRetry, loc)
	case "yield":
		return m.mapJump(n, ast.KindYield)
	case "super":
		node := ast.New(ast.KindForwardingSuper, loc)
		node.KeywordLoc = loc
		return node

	case "method":
		return m.mapDef(n, false)
	case "singleton_method":
		return m.mapDef(n, true)
	case "class":
		return m.mapClassLike(n, ast.KindClass)
	case "module":
		return m.mapClassLike(n, ast.KindModule)
	case "singleton_class":
		return m.mapSingletonClass(n)
	case "method_parameters", "parameters":
		return m.mapParameters(n, ast.KindParameters)
	case "lambda_parameters", "block_parameters":
		return m.mapParameters(n, ast.KindBlockParameters)

	case "assignment":
		return m.mapAssignment(n)
	case "operator_assignment":
		return m.mapOperatorAssignment(n)

	case "block", "do_block":
		return m.mapBlock(n)
	case "lambda":
		return m.mapLambda(n)
	case "range":
		return m.mapRange(n)
	case "alias":
		node := ast.New(ast.KindAlias, loc)
		node.KeywordLoc = tokenLoc(n, "alias")
		for _, child := range namedChildren(n) {
			node.AppendChild(m.mapMethodName(child))
		}
		return node
	case "undef":
		node := ast.New(ast.KindUndef, loc)
		node.KeywordLoc = tokenLoc(n, "undef")
		for _, child := range namedChildren(n) {
			node.AppendChild(m.mapMethodName(child))
		}
		return node
	case "interpolation":
		node := ast.New(ast.KindEmbeddedStatements, loc)
		node.OpeningLoc = tokenLoc(n, "#{")
		node.ClosingLoc = lastTokenLoc(n, "}")
		body := m.mapBody(namedChildren(n))
		node.AppendChild(body)
		node.Body = body
		return node
	case "exceptions":
		return m.mapChildren(ast.KindArguments, n)

	case "ERROR":
		return m.mapChildren(ast.KindError, n)

	default:
		return m.mapChildren(ast.KindUnknown, n)
	}
}

func (m *mapper) named(kind ast.Kind, n *sitter.Node) *ast.Node {
	node := ast.New(kind, rangeOf(n))
	node.Name = m.text(n)
	return node
}

func (m *mapper) mapChildren(kind ast.Kind, n *sitter.Node) *ast.Node {
	node := ast.New(kind, rangeOf(n))
	for _, child := range namedChildren(n) {
		node.AppendChild(m.mapNode(child))
	}
	return node
}

func (m *mapper) wrapValue(kind ast.Kind, n *sitter.Node) *ast.Node {
	node := ast.New(kind, rangeOf(n))
	node.OperatorLoc = tokenLoc(n, "*", "**", "&")
	if children := namedChildren(n); len(children) > 0 {
		value := m.mapNode(children[0])
		node.AppendChild(value)
		node.Value = value
	}
	return node
}

func (m *mapper) mapIdentifier(n *sitter.Node) *ast.Node {
	loc := rangeOf(n)
	name := m.text(n)

	if m.pattern > 0 {
		m.declare(name)
		node := ast.New(ast.KindLocalVariableWrite, loc)
		node.Name = name
		node.MessageLoc = loc
		return node
	}

	if m.isLocal(name) {
		node := ast.New(ast.KindLocalVariableRead, loc)
		node.Name = name
		return node
	}

	call := ast.New(ast.KindCall, loc)
	call.Name = name
	call.MessageLoc = loc
	call.Flags |= ast.FlagVariableCall
	return call
}

func (m *mapper) mapScopeResolution(n *sitter.Node) *ast.Node {
	node := ast.New(ast.KindConstantPath, rangeOf(n))
	if scopeNode := n.ChildByFieldName("scope"); scopeNode != nil {
		parent := m.mapNode(scopeNode)
		node.AppendChild(parent)
		node.Receiver = parent
	}
	if name := n.ChildByFieldName("name"); name != nil {
		node.Name = m.text(name)
		node.MessageLoc = rangeOf(name)
	}
	node.OperatorLoc = tokenLoc(n, "::")
	return node
}

func (m *mapper) mapString(n *sitter.Node, kind ast.Kind) *ast.Node {
	loc := rangeOf(n)
	node := ast.New(kind, loc)

	if count := int(n.ChildCount()); count > 0 {
		if first := n.Child(0); first != nil && !first.IsNamed() && int(first.StartByte()) == loc.Start {
			node.OpeningLoc = rangeOf(first)
		}
		if last := n.Child(count - 1); last != nil && !last.IsNamed() && int(last.EndByte()) == loc.End && count > 1 {
			node.ClosingLoc = rangeOf(last)
		}
	}

	interpolated := false
	for _, child := range namedChildren(n) {
		if child.Type() == "interpolation" {
			interpolated = true
			node.AppendChild(m.mapNode(child))
		}
	}
	if interpolated && kind == ast.KindString {
		node.Kind = ast.KindInterpolatedString
	}

	if !interpolated {
		start, end := loc.Start, loc.End
		if ast.HasRange(node.OpeningLoc) {
			start = node.OpeningLoc.End
		}
		if ast.HasRange(node.ClosingLoc) {
			end = node.ClosingLoc.Start
		}
		if start <= end {
			node.Name = string(m.content[start:end])
		}
	}
	return node
}

func (m *mapper) mapSymbol(n *sitter.Node) *ast.Node {
	loc := rangeOf(n)
	text := m.text(n)

	switch n.Type() {
	case "simple_symbol":
		node := ast.New(ast.KindSymbol, loc)
		node.Name = strings.TrimPrefix(text, ":")
		node.OpeningLoc = source.Range{Start: loc.Start, End: loc.Start + 1}
		return node
	case "delimited_symbol":
		node := m.mapString(n, ast.KindSymbol)
		if len(node.Children) > 0 {
			node.Kind = ast.KindInterpolatedSymbol
		}
		return node
	default:
		node := ast.New(ast.KindSymbol, loc)
		node.Name = text
		return node
	}
}

func (m *mapper) mapMethodName(n *sitter.Node) *ast.Node {
	switch n.Type() {
	case "identifier", "constant", "operator", "setter":
		node := ast.New(ast.KindSymbol, rangeOf(n))
		node.Name = m.text(n)
		return node
	default:
		return m.mapNode(n)
	}
}

func (m *mapper) mapPair(n *sitter.Node) *ast.Node {
	node := ast.New(ast.KindAssoc, rangeOf(n))
	node.OperatorLoc = tokenLoc(n, "=>", ":")

	key := m.mapNode(n.ChildByFieldName("key"))
	node.AppendChild(key)
	node.Key = key

	if valueNode := n.ChildByFieldName("value"); valueNode != nil {
		value := m.mapNode(valueNode)
		node.AppendChild(value)
		node.Value = value
	}
	return node
}

// mapArguments maps an argument list, grouping consecutive pairs and
// double splats into a keyword hash.
func (m *mapper) mapArguments(n *sitter.Node) *ast.Node {
	args := ast.New(ast.KindArguments, rangeOf(n))
	args.OpeningLoc = tokenLoc(n, "(", "[")
	args.ClosingLoc = lastTokenLoc(n, ")", "]")

	var keywords *ast.Node
	for _, child := range namedChildren(n) {
		mapped := m.mapNode(child)
		if mapped == nil {
			continue
		}
		if mapped.Kind == ast.KindAssoc || mapped.Kind == ast.KindAssocSplat {
			if keywords == nil {
				keywords = ast.New(ast.KindKeywordHash, mapped.Loc)
				args.AppendChild(keywords)
			}
			keywords.AppendChild(mapped)
			keywords.Loc.End = mapped.Loc.End
			continue
		}
		keywords = nil
		args.AppendChild(mapped)
	}

	if len(args.Children) > 0 {
		args.Loc = spanOf(args.Children)
	}
	return args
}

func (m *mapper) mapCall(n *sitter.Node) *ast.Node {
	call := ast.New(ast.KindCall, rangeOf(n))

	receiver := n.ChildByFieldName("receiver")
	if receiver != nil {
		recv := m.mapNode(receiver)
		call.AppendChild(recv)
		call.Receiver = recv
		call.OperatorLoc = tokenLoc(n, "&.", ".", "::")
		if ast.HasRange(call.OperatorLoc) && string(m.content[call.OperatorLoc.Start:call.OperatorLoc.End]) == "&." {
			call.Flags |= ast.FlagSafeNavigation
		}
	}

	if method := n.ChildByFieldName("method"); method != nil {
		call.Name = m.text(method)
		call.MessageLoc = rangeOf(method)
		if method.Type() == "super" && receiver == nil {
			call.Kind = ast.KindSuper
			call.KeywordLoc = rangeOf(method)
		}
	} else {
		call.Name = "call"
	}

	if argsNode := n.ChildByFieldName("arguments"); argsNode != nil {
		args := m.mapArguments(argsNode)
		call.AppendChild(args)
		call.Arguments = args
		call.OpeningLoc = args.OpeningLoc
		call.ClosingLoc = args.ClosingLoc
	}

	if blockNode := n.ChildByFieldName("block"); blockNode != nil {
		block := m.mapBlock(blockNode)
		call.AppendChild(block)
		call.Block = block
	}
	return call
}

func (m *mapper) mapIndex(n *sitter.Node) *ast.Node {
	call := ast.New(ast.KindCall, rangeOf(n))
	call.Name = "[]"

	object := n.ChildByFieldName("object")
	recv := m.mapNode(object)
	call.AppendChild(recv)
	call.Receiver = recv

	args := ast.New(ast.KindArguments, rangeOf(n))
	for _, child := range namedChildren(n) {
		if sameNode(child, object) {
			continue
		}
		args.AppendChild(m.mapNode(child))
	}
	call.OpeningLoc = tokenLoc(n, "[")
	call.ClosingLoc = lastTokenLoc(n, "]")
	if ast.HasRange(call.OpeningLoc) && ast.HasRange(call.ClosingLoc) {
		call.MessageLoc = source.Range{Start: call.OpeningLoc.Start, End: call.ClosingLoc.End}
	}
	if len(args.Children) > 0 {
		args.Loc = spanOf(args.Children)
		call.AppendChild(args)
		call.Arguments = args
	}
	return call
}

func (m *mapper) mapBinary(n *sitter.Node) *ast.Node {
	loc := rangeOf(n)
	leftNode := n.ChildByFieldName("left")
	rightNode := n.ChildByFieldName("right")
	opNode := n.ChildByFieldName("operator")
	if opNode == nil {
		opNode = firstAnonymous(n)
	}

	op := m.text(opNode)
	left := m.mapNode(leftNode)
	right := m.mapNode(rightNode)

	switch op {
	case "and", "&&", "or", "||":
		kind := ast.KindAnd
		if op == "or" || op == "||" {
			kind = ast.KindOr
		}
		node := ast.New(kind, loc)
		node.AppendChild(left)
		node.AppendChild(right)
		node.Left = left
		node.Right = right
		if opNode != nil {
			node.OperatorLoc = rangeOf(opNode)
		}
		return node
	}

	call := ast.New(ast.KindCall, loc)
	call.Name = op
	if opNode != nil {
		call.MessageLoc = rangeOf(opNode)
	}
	call.AppendChild(left)
	call.Receiver = left
	if right != nil {
		args := ast.New(ast.KindArguments, right.Loc)
		args.AppendChild(right)
		call.AppendChild(args)
		call.Arguments = args
	}
	return call
}

func (m *mapper) mapUnary(n *sitter.Node) *ast.Node {
	loc := rangeOf(n)
	opNode := n.ChildByFieldName("operator")
	if opNode == nil {
		opNode = firstAnonymous(n)
	}
	op := m.text(opNode)
	operand := m.mapNode(n.ChildByFieldName("operand"))

	if op == "defined?" {
		node := ast.New(ast.KindDefined, loc)
		node.KeywordLoc = rangeOf(opNode)
		node.AppendChild(operand)
		node.Value = operand
		return node
	}

	call := ast.New(ast.KindCall, loc)
	switch op {
	case "not", "!":
		call.Name = "!"
	case "-", "+":
		call.Name = op + "@"
	default:
		call.Name = op
	}
	if opNode != nil {
		call.MessageLoc = rangeOf(opNode)
	}
	call.AppendChild(operand)
	call.Receiver = operand
	return call
}

func (m *mapper) mapTernary(n *sitter.Node) *ast.Node {
	node := ast.New(ast.KindIf, rangeOf(n))
	node.Flags |= ast.FlagTernary
	node.OperatorLoc = tokenLoc(n, "?")

	predicate := m.mapNode(n.ChildByFieldName("condition"))
	node.AppendChild(predicate)
	node.Predicate = predicate

	body := m.mapNode(n.ChildByFieldName("consequence"))
	node.AppendChild(body)
	node.Body = body

	if altNode := n.ChildByFieldName("alternative"); altNode != nil {
		alt := m.mapNode(altNode)
		if alt != nil {
			elseNode := ast.New(ast.KindElse, alt.Loc)
			elseNode.KeywordLoc = tokenLoc(n, ":")
			elseNode.AppendChild(alt)
			elseNode.Body = alt
			node.AppendChild(elseNode)
			node.Subsequent = elseNode
		}
	}
	return node
}

func (m *mapper) mapIf(n *sitter.Node, kind ast.Kind) *ast.Node {
	node := ast.New(kind, rangeOf(n))
	node.KeywordLoc = tokenLoc(n, n.Type())
	node.ClosingLoc = lastTokenLoc(n, "end")

	predicate := m.mapNode(n.ChildByFieldName("condition"))
	node.AppendChild(predicate)
	node.Predicate = predicate

	if cons := n.ChildByFieldName("consequence"); cons != nil {
		body := m.mapBody(namedChildren(cons))
		node.AppendChild(body)
		node.Body = body
	}

	if altNode := n.ChildByFieldName("alternative"); altNode != nil {
		alt := m.mapNode(altNode)
		node.AppendChild(alt)
		node.Subsequent = alt
	}
	return node
}

func (m *mapper) mapModifier(n *sitter.Node, kind ast.Kind) *ast.Node {
	node := ast.New(kind, rangeOf(n))
	node.Flags |= ast.FlagModifier
	node.KeywordLoc = tokenLoc(n, "if", "unless", "while", "until")

	body := m.mapNode(n.ChildByFieldName("body"))
	node.AppendChild(body)
	node.Body = body

	predicate := m.mapNode(n.ChildByFieldName("condition"))
	node.AppendChild(predicate)
	node.Predicate = predicate
	return node
}

func (m *mapper) mapLoop(n *sitter.Node, kind ast.Kind) *ast.Node {
	node := ast.New(kind, rangeOf(n))
	node.KeywordLoc = tokenLoc(n, n.Type())

	predicate := m.mapNode(n.ChildByFieldName("condition"))
	node.AppendChild(predicate)
	node.Predicate = predicate

	body := m.bodyOf(n, "condition")
	node.AppendChild(body)
	node.Body = body
	return node
}

func (m *mapper) mapFor(n *sitter.Node) *ast.Node {
	node := ast.New(ast.KindFor, rangeOf(n))
	node.KeywordLoc = tokenLoc(n, "for")

	if pattern := n.ChildByFieldName("pattern"); pattern != nil {
		target := m.mapTarget(pattern)
		node.AppendChild(target)
		node.Target = target
	}

	value := m.mapNode(n.ChildByFieldName("value"))
	node.AppendChild(value)
	node.Value = value

	body := m.bodyOf(n, "pattern", "value")
	node.AppendChild(body)
	node.Body = body
	return node
}

func (m *mapper) mapCase(n *sitter.Node, kind ast.Kind) *ast.Node {
	node := ast.New(kind, rangeOf(n))
	node.KeywordLoc = tokenLoc(n, "case")
	node.ClosingLoc = lastTokenLoc(n, "end")

	valueNode := n.ChildByFieldName("value")
	for _, child := range namedChildren(n) {
		mapped := m.mapNode(child)
		node.AppendChild(mapped)
		switch {
		case sameNode(child, valueNode):
			node.Predicate = mapped
		case child.Type() == "else":
			node.Subsequent = mapped
		}
	}
	return node
}

func (m *mapper) mapWhen(n *sitter.Node) *ast.Node {
	node := ast.New(ast.KindWhen, rangeOf(n))
	node.KeywordLoc = tokenLoc(n, "when")

	bodyNode := n.ChildByFieldName("body")
	for _, child := range namedChildren(n) {
		if sameNode(child, bodyNode) {
			continue
		}
		node.AppendChild(m.mapNode(child))
	}
	if bodyNode != nil {
		body := m.mapBody(namedChildren(bodyNode))
		node.AppendChild(body)
		node.Body = body
	}
	return node
}

func (m *mapper) mapInClause(n *sitter.Node) *ast.Node {
	node := ast.New(ast.KindIn, rangeOf(n))
	node.KeywordLoc = tokenLoc(n, "in")

	if patternNode := n.ChildByFieldName("pattern"); patternNode != nil {
		m.pattern++
		pattern := m.mapNode(patternNode)
		m.pattern--
		node.AppendChild(pattern)
		node.Target = pattern
	}
	if guard := n.ChildByFieldName("guard"); guard != nil {
		predicate := m.mapChildren(ast.KindUnknown, guard)
		node.AppendChild(predicate)
		node.Predicate = predicate
	}
	if bodyNode := n.ChildByFieldName("body"); bodyNode != nil {
		body := m.mapBody(namedChildren(bodyNode))
		node.AppendChild(body)
		node.Body = body
	}
	return node
}

// fillBegin attaches statements and rescue/else/ensure clauses to an
// explicit begin node.
func (m *mapper) fillBegin(node *ast.Node, children []*sitter.Node) {
	var plain, clauses []*sitter.Node
	for _, child := range children {
		switch child.Type() {
		case "rescue", "ensure", "else":
			clauses = append(clauses, child)
		default:
			plain = append(plain, child)
		}
	}

	body := m.mapStatements(plain)
	node.AppendChild(body)
	node.Body = body
	m.appendClauses(node, clauses)
}

func (m *mapper) mapRescue(n *sitter.Node) *ast.Node {
	node := ast.New(ast.KindRescue, rangeOf(n))
	node.KeywordLoc = tokenLoc(n, "rescue")

	if exceptions := n.ChildByFieldName("exceptions"); exceptions != nil {
		list := m.mapChildren(ast.KindArguments, exceptions)
		node.AppendChild(list)
		node.Arguments = list
	}
	if variable := n.ChildByFieldName("variable"); variable != nil {
		node.OperatorLoc = tokenLoc(variable, "=>")
		if children := namedChildren(variable); len(children) > 0 {
			target := m.mapTarget(children[0])
			node.AppendChild(target)
			node.Target = target
		}
	}
	if bodyNode := n.ChildByFieldName("body"); bodyNode != nil {
		body := m.mapBody(namedChildren(bodyNode))
		node.AppendChild(body)
		node.Body = body
	}
	return node
}

func (m *mapper) mapJump(n *sitter.Node, kind ast.Kind) *ast.Node {
	node := ast.New(kind, rangeOf(n))
	node.KeywordLoc = tokenLoc(n, n.Type())
	for _, child := range namedChildren(n) {
		if child.Type() == "argument_list" {
			args := m.mapArguments(child)
			node.AppendChild(args)
			node.Arguments = args
			node.OpeningLoc = args.OpeningLoc
			node.ClosingLoc = args.ClosingLoc
			continue
		}
		node.AppendChild(m.mapNode(child))
	}
	return node
}

func (m *mapper) mapDef(n *sitter.Node, singleton bool) *ast.Node {
	node := ast.New(ast.KindDef, rangeOf(n))
	node.KeywordLoc = tokenLoc(n, "def")
	node.ClosingLoc = lastTokenLoc(n, "end")

	if singleton {
		node.Flags |= ast.FlagSingletonDef
		if object := n.ChildByFieldName("object"); object != nil {
			recv := m.mapNode(object)
			node.AppendChild(recv)
			node.Receiver = recv
		}
		node.OperatorLoc = tokenLoc(n, ".")
	}

	if name := n.ChildByFieldName("name"); name != nil {
		node.Name = m.text(name)
		node.MessageLoc = rangeOf(name)
	}
	if ast.HasRange(tokenLoc(n, "=")) {
		node.Flags |= ast.FlagEndless
	}

	m.pushScope(true)
	defer m.popScope()

	if paramsNode := n.ChildByFieldName("parameters"); paramsNode != nil {
		params := m.mapParameters(paramsNode, ast.KindParameters)
		node.AppendChild(params)
		node.Parameters = params
	}

	body := m.bodyOf(n, "name", "object", "parameters")
	node.AppendChild(body)
	node.Body = body
	return node
}

func (m *mapper) mapClassLike(n *sitter.Node, kind ast.Kind) *ast.Node {
	node := ast.New(kind, rangeOf(n))
	node.KeywordLoc = tokenLoc(n, n.Type())
	node.ClosingLoc = lastTokenLoc(n, "end")

	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		path := m.mapNode(nameNode)
		node.AppendChild(path)
		node.ConstantPath = path
		if path != nil {
			node.Name = path.Name
		}
	}

	if superNode := n.ChildByFieldName("superclass"); superNode != nil {
		super := m.mapNode(superNode)
		node.AppendChild(super)
		node.Superclass = super
		node.OperatorLoc = tokenLoc(superNode, "<")
	}

	m.pushScope(true)
	defer m.popScope()

	body := m.bodyOf(n, "name", "superclass")
	node.AppendChild(body)
	node.Body = body
	return node
}

func (m *mapper) mapSingletonClass(n *sitter.Node) *ast.Node {
	node := ast.New(ast.KindSingletonClass, rangeOf(n))
	node.KeywordLoc = tokenLoc(n, "class")
	node.OperatorLoc = tokenLoc(n, "<<")
	node.ClosingLoc = lastTokenLoc(n, "end")

	value := m.mapNode(n.ChildByFieldName("value"))
	node.AppendChild(value)
	node.Value = value

	m.pushScope(true)
	defer m.popScope()

	body := m.bodyOf(n, "value")
	node.AppendChild(body)
	node.Body = body
	return node
}

func (m *mapper) mapParameters(n *sitter.Node, kind ast.Kind) *ast.Node {
	node := ast.New(kind, rangeOf(n))
	node.OpeningLoc = tokenLoc(n, "(", "|")
	node.ClosingLoc = lastTokenLoc(n, ")", "|")
	for _, child := range namedChildren(n) {
		node.AppendChild(m.mapParameter(child))
	}
	return node
}

func (m *mapper) mapParameter(n *sitter.Node) *ast.Node {
	loc := rangeOf(n)

	paramName := func() string {
		if name := n.ChildByFieldName("name"); name != nil {
			return m.text(name)
		}
		return ""
	}

	var node *ast.Node
	switch n.Type() {
	case "identifier":
		node = ast.New(ast.KindRequiredParameter, loc)
		node.Name = m.text(n)
	case "optional_parameter":
		node = ast.New(ast.KindOptionalParameter, loc)
		node.Name = paramName()
	case "keyword_parameter":
		node = ast.New(ast.KindKeywordParameter, loc)
		node.Name = paramName()
	case "splat_parameter":
		node = ast.New(ast.KindRestParameter, loc)
		node.Name = paramName()
	case "hash_splat_parameter", "hash_splat_nil":
		node = ast.New(ast.KindKeywordRestParameter, loc)
		node.Name = paramName()
	case "block_parameter":
		node = ast.New(ast.KindBlockParameter, loc)
		node.Name = paramName()
	case "forward_parameter":
		node = ast.New(ast.KindRestParameter, loc)
		node.Name = "..."
		return node
	case "destructured_parameter":
		node = ast.New(ast.KindRequiredParameter, loc)
		for _, child := range namedChildren(n) {
			node.AppendChild(m.mapParameter(child))
		}
		return node
	case "block_parameters", "lambda_parameters", "method_parameters":
		return m.mapParameters(n, ast.KindBlockParameters)
	default:
		return m.mapNode(n)
	}

	m.declare(node.Name)
	if valueNode := n.ChildByFieldName("value"); valueNode != nil {
		value := m.mapNode(valueNode)
		node.AppendChild(value)
		node.Value = value
	}
	return node
}

// writeKinds maps assignable node types to their write kinds.
var writeKinds = map[string]ast.Kind{
	"identifier":        ast.KindLocalVariableWrite,
	"instance_variable": ast.KindInstanceVariableWrite,
	"class_variable":    ast.KindClassVariableWrite,
	"global_variable":   ast.KindGlobalVariableWrite,
	"constant":          ast.KindConstantWrite,
}

// mapTarget maps an assignment target without a value.
func (m *mapper) mapTarget(n *sitter.Node) *ast.Node {
	loc := rangeOf(n)

	if kind, ok := writeKinds[n.Type()]; ok {
		node := ast.New(kind, loc)
		node.Name = m.text(n)
		node.MessageLoc = loc
		if kind == ast.KindLocalVariableWrite {
			m.declare(node.Name)
		}
		return node
	}

	switch n.Type() {
	case "scope_resolution":
		node := ast.New(ast.KindConstantWrite, loc)
		path := m.mapScopeResolution(n)
		node.AppendChild(path)
		node.ConstantPath = path
		node.Name = path.Name
		node.MessageLoc = path.MessageLoc
		return node
	case "left_assignment_list", "destructured_left_assignment", "mlhs":
		node := ast.New(ast.KindMultiWrite, loc)
		for _, child := range namedChildren(n) {
			node.AppendChild(m.mapTarget(child))
		}
		return node
	case "rest_assignment":
		node := ast.New(ast.KindSplat, loc)
		node.OperatorLoc = tokenLoc(n, "*")
		if children := namedChildren(n); len(children) > 0 {
			target := m.mapTarget(children[0])
			node.AppendChild(target)
			node.Value = target
		}
		return node
	case "call":
		call := m.mapCall(n)
		call.Name += "="
		call.Flags |= ast.FlagAttributeWrite
		return call
	case "element_reference":
		call := m.mapIndex(n)
		call.Name = "[]="
		return call
	default:
		return m.mapNode(n)
	}
}

func (m *mapper) mapAssignment(n *sitter.Node) *ast.Node {
	loc := rangeOf(n)
	leftNode := n.ChildByFieldName("left")
	rightNode := n.ChildByFieldName("right")
	if leftNode == nil {
		return m.mapChildren(ast.KindUnknown, n)
	}

	opLoc := tokenLoc(n, "=")

	// The target is declared before the value is mapped: "x = x" reads
	// the new local.
	target := m.mapTarget(leftNode)
	value := m.mapNode(rightNode)
	if target == nil {
		return value
	}

	switch target.Kind {
	case ast.KindLocalVariableWrite, ast.KindInstanceVariableWrite, ast.KindClassVariableWrite,
		ast.KindGlobalVariableWrite, ast.KindConstantWrite:
		target.Loc = loc
		target.OperatorLoc = opLoc
		target.AppendChild(value)
		target.Value = value
		return target
	case ast.KindCall:
		target.Loc = loc
		if target.Arguments == nil {
			args := ast.New(ast.KindArguments, loc)
			target.AppendChild(args)
			target.Arguments = args
		}
		target.Arguments.AppendChild(value)
		if value != nil {
			target.Arguments.Loc = spanOf(target.Arguments.Children)
		}
		return target
	default:
		node := ast.New(ast.KindMultiWrite, loc)
		if target.Kind == ast.KindMultiWrite {
			for _, child := range target.Children {
				node.AppendChild(child)
			}
		} else {
			node.AppendChild(target)
		}
		node.OperatorLoc = opLoc
		node.AppendChild(value)
		node.Value = value
		return node
	}
}

func (m *mapper) mapOperatorAssignment(n *sitter.Node) *ast.Node {
	node := ast.New(ast.KindOperatorWrite, rangeOf(n))

	opNode := n.ChildByFieldName("operator")
	op := m.text(opNode)
	if opNode == nil {
		node.OperatorLoc = tokenLoc(n, "+=", "-=", "*=", "/=", "||=", "&&=", "<<=", ">>=", "%=", "**=", "|=", "&=", "^=")
		if ast.HasRange(node.OperatorLoc) {
			op = string(m.content[node.OperatorLoc.Start:node.OperatorLoc.End])
		}
	} else {
		node.OperatorLoc = rangeOf(opNode)
	}
	node.Name = strings.TrimSuffix(op, "=")

	target := m.mapTarget(n.ChildByFieldName("left"))
	node.AppendChild(target)
	node.Target = target

	value := m.mapNode(n.ChildByFieldName("right"))
	node.AppendChild(value)
	node.Value = value
	return node
}

func (m *mapper) mapBlock(n *sitter.Node) *ast.Node {
	node := ast.New(ast.KindBlock, rangeOf(n))
	if n.Type() == "block" {
		node.Flags |= ast.FlagBraces
		node.OpeningLoc = tokenLoc(n, "{")
		node.ClosingLoc = lastTokenLoc(n, "}")
	} else {
		node.OpeningLoc = tokenLoc(n, "do")
		node.ClosingLoc = lastTokenLoc(n, "end")
	}

	m.pushScope(false)
	defer m.popScope()

	if paramsNode := n.ChildByFieldName("parameters"); paramsNode != nil {
		params := m.mapParameters(paramsNode, ast.KindBlockParameters)
		node.AppendChild(params)
		node.Parameters = params
	}

	body := m.bodyOf(n, "parameters")
	node.AppendChild(body)
	node.Body = body
	return node
}

func (m *mapper) mapLambda(n *sitter.Node) *ast.Node {
	node := ast.New(ast.KindLambda, rangeOf(n))
	node.OperatorLoc = tokenLoc(n, "->")

	m.pushScope(false)
	defer m.popScope()

	if paramsNode := n.ChildByFieldName("parameters"); paramsNode != nil {
		params := m.mapParameters(paramsNode, ast.KindBlockParameters)
		node.AppendChild(params)
		node.Parameters = params
	}

	if bodyNode := n.ChildByFieldName("body"); bodyNode != nil {
		if bodyNode.Type() == "block" {
			node.OpeningLoc = tokenLoc(bodyNode, "{")
			node.ClosingLoc = lastTokenLoc(bodyNode, "}")
		} else {
			node.OpeningLoc = tokenLoc(bodyNode, "do")
			node.ClosingLoc = lastTokenLoc(bodyNode, "end")
		}
		body := m.bodyOf(bodyNode, "parameters")
		node.AppendChild(body)
		node.Body = body
	}
	return node
}

func (m *mapper) mapRange(n *sitter.Node) *ast.Node {
	node := ast.New(ast.KindRange, rangeOf(n))
	node.OperatorLoc = tokenLoc(n, "..", "...")
	if ast.HasRange(node.OperatorLoc) && node.OperatorLoc.End-node.OperatorLoc.Start == 3 {
		node.Flags |= ast.FlagExclusiveRange
	}

	left := m.mapNode(n.ChildByFieldName("begin"))
	node.AppendChild(left)
	node.Left = left

	right := m.mapNode(n.ChildByFieldName("end"))
	node.AppendChild(right)
	node.Right = right
	return node
}
