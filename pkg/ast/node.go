// Package ast provides the Ruby syntax tree the analysis engine walks.
// Nodes are immutable after parsing and identified by their byte ranges.
package ast

import "github.com/yaklabco/turbocop/pkg/source"

// NoRange marks an absent location such as a missing call operator.
var NoRange = source.Range{Start: -1, End: -1}

// HasRange reports whether r is a real location.
func HasRange(r source.Range) bool {
	return r.Start >= 0 && r.End >= r.Start
}

// Flags carries per-node boolean attributes.
type Flags uint16

// Node flags.
const (
	// FlagSafeNavigation marks a call using "&.".
	FlagSafeNavigation Flags = 1 << iota
	// FlagVariableCall marks a receiver-less, argument-less call that could
	// be a local variable.
	FlagVariableCall
	// FlagModifier marks the trailing form of if/unless/while/until/rescue.
	FlagModifier
	// FlagTernary marks an if written as "a ? b : c".
	FlagTernary
	// FlagHeredoc marks a string opened by a heredoc.
	FlagHeredoc
	// FlagAttributeWrite marks "recv.attr = value".
	FlagAttributeWrite
	// FlagBraces marks a block delimited by braces rather than do/end.
	FlagBraces
	// FlagExclusiveRange marks "a...b".
	FlagExclusiveRange
	// FlagSingletonDef marks "def self.foo".
	FlagSingletonDef
	// FlagEndless marks "def foo = expr".
	FlagEndless
)

// Node is a single node of the syntax tree.
//
// Children lists every structural child in source order; role slots are
// aliases into Children and are nil when the role is empty.
type Node struct {
	Kind Kind
	Loc  source.Range

	Parent   *Node
	Children []*Node

	// Role slots.
	Receiver     *Node
	Arguments    *Node
	Block        *Node
	Body         *Node
	Predicate    *Node
	Subsequent   *Node
	Superclass   *Node
	ConstantPath *Node
	Parameters   *Node
	Target       *Node
	Key          *Node
	Value        *Node
	Left         *Node
	Right        *Node

	// Name holds the method, constant, variable, or symbol name.
	// For operator writes it holds the operator without "=".
	Name string

	MessageLoc  source.Range
	OperatorLoc source.Range
	OpeningLoc  source.Range
	ClosingLoc  source.Range
	KeywordLoc  source.Range

	Flags Flags
}

// New returns a node of kind spanning loc with every auxiliary location
// marked absent.
func New(kind Kind, loc source.Range) *Node {
	return &Node{
		Kind:        kind,
		Loc:         loc,
		MessageLoc:  NoRange,
		OperatorLoc: NoRange,
		OpeningLoc:  NoRange,
		ClosingLoc:  NoRange,
		KeywordLoc:  NoRange,
	}
}

// AppendChild adds child as the last structural child of n.
func (n *Node) AppendChild(child *Node) {
	if child == nil {
		return
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Has reports whether every flag in f is set.
func (n *Node) Has(f Flags) bool {
	return n.Flags&f == f
}

// Is reports whether the node is one of kinds.
func (n *Node) Is(kinds ...Kind) bool {
	if n == nil {
		return false
	}
	for _, k := range kinds {
		if n.Kind == k {
			return true
		}
	}
	return false
}

// ArgumentList returns the call's argument nodes, or nil.
func (n *Node) ArgumentList() []*Node {
	if n == nil || n.Arguments == nil {
		return nil
	}
	return n.Arguments.Children
}

// Statements returns the statements of a body, unwrapping a statements
// node. A single non-statements body is returned as a one-element slice.
func (n *Node) Statements() []*Node {
	if n == nil {
		return nil
	}
	if n.Kind == KindStatements {
		return n.Children
	}
	return []*Node{n}
}

// SameSource reports whether a and b span identical byte ranges.
func SameSource(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Loc == b.Loc
}

// Ancestors returns the parents of n from nearest to root.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for p := n.Parent; p != nil; p = p.Parent {
		out = append(out, p)
	}
	return out
}

// EnclosingKind returns the nearest ancestor of one of kinds, or nil.
func (n *Node) EnclosingKind(kinds ...Kind) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Is(kinds...) {
			return p
		}
	}
	return nil
}
