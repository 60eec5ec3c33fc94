// Package prefix reduces a set of variation paths to the minimal set of
// prefixes that covers them exactly, validated against a reference tree so
// that replaying "remove everything under each prefix" can never touch a
// variation outside the target set.
package prefix

import (
	"sort"
	"strings"

	"github.com/openingtools/pgnc/pkg/movetree"
)

type node struct {
	children map[string]*node
	order    []string // insertion order, keeps DFS deterministic
	leaf     bool     // this exact path is a member of the target set
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

// Tree is a token-keyed prefix tree over move sequences. It is an internal
// index, rebuilt from its input on every optimization.
type Tree struct {
	root *node
}

// NewTree returns an empty prefix tree.
func NewTree() *Tree {
	return &Tree{root: newNode()}
}

// Insert adds a move-token sequence and marks its terminal node.
func (t *Tree) Insert(tokens []string) {
	n := t.root
	for _, tok := range tokens {
		child, ok := n.children[tok]
		if !ok {
			child = newNode()
			n.children[tok] = child
			n.order = append(n.order, tok)
		}
		n = child
	}
	n.leaf = true
}

// Optimize computes the minimal covering set for the given canonical path
// strings, validated against reference. A prefix is shortened to a covering
// point only when every leaf of the reference tree under that prefix is in
// the target set; a branch with no presence in the reference tree (a
// brand-new addition) therefore always comes out as its full leaf path.
// Output is sorted by canonical string. Empty input yields empty output.
func Optimize(paths []string, reference *movetree.Game) []string {
	if len(paths) == 0 {
		return nil
	}

	target := make(map[string]bool, len(paths))
	tree := NewTree()
	for _, p := range paths {
		tokens, err := movetree.SplitMoves(p)
		if err != nil {
			// a malformed entry can never match anything, drop it
			continue
		}
		target[p] = true
		tree.Insert(tokens)
	}

	var refPaths map[string]bool
	if reference != nil {
		refPaths = movetree.PathSet(reference)
	}

	var covering []string
	var walk func(n *node, tokens []string)
	walk = func(n *node, tokens []string) {
		if len(n.children) == 0 {
			if !n.leaf {
				// insert marks every terminal node, so this cannot happen
				panic("prefix: childless interior node")
			}
			covering = append(covering, movetree.FormatMoves(tokens))
			return
		}
		if len(refPaths) > 0 && canCover(tokens, target, refPaths) {
			covering = append(covering, movetree.FormatMoves(tokens))
			return
		}
		if n.leaf {
			// a target path with target descendants has no covering answer
			panic("prefix: target path nested under another target path")
		}
		for _, tok := range n.order {
			walk(n.children[tok], append(tokens, tok))
		}
	}
	for _, tok := range tree.root.order {
		walk(tree.root.children[tok], []string{tok})
	}

	sort.Strings(covering)
	return covering
}

// canCover reports whether the prefix is a safe covering point: the
// reference tree has at least one leaf under it, and every such leaf is in
// the target set.
func canCover(tokens []string, target, refPaths map[string]bool) bool {
	prefix := movetree.FormatMoves(tokens)
	matched := false
	for ref := range refPaths {
		if ref != prefix && !strings.HasPrefix(ref, prefix+" ") {
			continue
		}
		matched = true
		if !target[ref] {
			return false
		}
	}
	return matched
}
