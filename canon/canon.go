// Package canon implements the canonicalisation pass: every
// structurally-equal pair of STR_LITERAL or REG_EX nodes is merged so
// that all references to a given terminal text point at one shared,
// refcounted node.
package canon

import "github.com/ebnfcomp/ebnfcomp/ast"

// Canonicalize deduplicates terminal leaves reachable from root, in place.
// It is a pure tree transform with no state of its own, matching the
// teacher's style for single-purpose analysis passes.
func Canonicalize(root *ast.Node) {
	canonicalizeChildren(root, root)
}

// canonicalizeChildren rewrites every child slot of parent (recursively)
// to reference the first structurally-equal terminal found, in pre-order,
// starting the search from the global tree root.
func canonicalizeChildren(root, parent *ast.Node) {
	for i, child := range parent.Children {
		if child.IsTerminal() {
			rep := firstEqual(root, child)
			if rep != child {
				rep.RefCount++
				parent.Children[i] = rep
				ast.Release(child)
			}
			// A self-match (rep == child, i.e. child is the first node of
			// its kind/text in tree order) is a deliberate no-op:
			// incrementing refcount or releasing in this case would
			// double-count or double-free the node being visited.
			continue
		}
		canonicalizeChildren(root, child)
	}
}

// firstEqual returns the first node in pre-order, starting at n, that is
// structurally equal to target (same kind and text). Since the search
// always starts at the tree root and target is itself reachable from the
// root, the search is guaranteed to terminate at or before target.
func firstEqual(n, target *ast.Node) *ast.Node {
	if n.IsTerminal() && n.Equal(target) {
		return n
	}
	for _, c := range n.Children {
		if found := firstEqual(c, target); found != nil {
			return found
		}
	}
	return nil
}
