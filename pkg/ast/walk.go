package ast

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n *Node) error

// Walk performs a pre-order traversal of the tree starting at root.
// If walkFunc returns a non-nil error, the walk stops immediately and
// returns that error.
func Walk(root *Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}

	if err := walkFunc(root); err != nil {
		return err
	}

	for _, child := range root.Children {
		if err := Walk(child, walkFunc); err != nil {
			return err
		}
	}

	return nil
}

// WalkWithContext performs a traversal with enter and leave callbacks.
// Either callback may be nil. Returning ErrSkipChildren from enter skips
// the node's subtree; leave is still called.
func WalkWithContext(root *Node, enter, leave WalkFunc) error {
	if root == nil {
		return nil
	}

	skip := false
	if enter != nil {
		if err := enter(root); err != nil {
			if err != ErrSkipChildren { //nolint:errorlint // sentinel identity
				return err
			}
			skip = true
		}
	}

	if !skip {
		for _, child := range root.Children {
			if err := WalkWithContext(child, enter, leave); err != nil {
				return err
			}
		}
	}

	if leave != nil {
		if err := leave(root); err != nil {
			return err
		}
	}

	return nil
}

// FindAll returns all nodes matching the predicate in pre-order.
func FindAll(root *Node, predicate func(n *Node) bool) []*Node {
	var result []*Node

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(node *Node) error {
		if predicate(node) {
			result = append(result, node)
		}
		return nil
	})

	return result
}

// FindFirst returns the first node matching the predicate, or nil if none found.
func FindFirst(root *Node, predicate func(n *Node) bool) *Node {
	var found *Node

	//nolint:errcheck,revive // errStopWalk is expected and intentionally ignored
	Walk(root, func(node *Node) error {
		if predicate(node) {
			found = node
			return errStopWalk
		}
		return nil
	})

	return found
}

// FindByKind returns all nodes of the specified kind.
func FindByKind(root *Node, kind Kind) []*Node {
	return FindAll(root, func(n *Node) bool {
		return n.Kind == kind
	})
}

// Count returns the number of nodes in the tree.
func Count(root *Node) int {
	total := 0
	//nolint:errcheck,revive // callback never fails
	Walk(root, func(*Node) error {
		total++
		return nil
	})
	return total
}

// ErrSkipChildren tells WalkWithContext not to descend into a node.
var ErrSkipChildren = &stopWalkError{msg: "skip children"}

// errStopWalk is a sentinel error used to stop walking early.
var errStopWalk = &stopWalkError{msg: "stop walk"}

type stopWalkError struct {
	msg string
}

func (e *stopWalkError) Error() string {
	return e.msg
}
