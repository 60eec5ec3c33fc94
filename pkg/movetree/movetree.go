// Package movetree holds the in-memory variation tree of a single PGN game
// and the canonical textual encoding of root-to-node move paths.
package movetree

import (
	"sort"
)

// Move is one resolved half-move. UCI is the stable identity key (two moves
// are the same variation edge iff their UCI strings match), SAN is the
// canonical rendering used in paths and PGN output.
type Move struct {
	SAN string
	UCI string
}

// Tag is a single PGN header pair. Order of tags is preserved for output.
type Tag struct {
	Name  string
	Value string
}

// Node is one position in the variation tree. The root node carries no move.
// Children are kept in insertion order; that order is the traversal order
// everywhere, so path enumeration is deterministic.
type Node struct {
	Move     Move
	Comment  string
	NAGs     []int
	Children []*Node
}

// Child returns the child reached by the given UCI move key, or nil.
func (n *Node) Child(uci string) *Node {
	for _, c := range n.Children {
		if c.Move.UCI == uci {
			return c
		}
	}
	return nil
}

// AddChild appends a new child for the given move and returns it. If a child
// with the same UCI key already exists it is returned instead; siblings never
// share a move.
func (n *Node) AddChild(m Move) *Node {
	if c := n.Child(m.UCI); c != nil {
		return c
	}
	c := &Node{Move: m}
	n.Children = append(n.Children, c)
	return c
}

// Game is a rooted variation tree plus its PGN headers.
type Game struct {
	Tags []Tag
	Root *Node
}

// NewGame returns an empty game with a bare root node.
func NewGame() *Game {
	return &Game{Root: &Node{}}
}

// Tag returns the value of the named header, or "".
func (g *Game) Tag(name string) string {
	for _, t := range g.Tags {
		if t.Name == name {
			return t.Value
		}
	}
	return ""
}

// SetTag sets or appends a header, preserving the order of existing tags.
func (g *Game) SetTag(name, value string) {
	for i, t := range g.Tags {
		if t.Name == name {
			g.Tags[i].Value = value
			return
		}
	}
	g.Tags = append(g.Tags, Tag{Name: name, Value: value})
}

// CopyHeaders copies all header tags from src to dst, keeping src's order.
func CopyHeaders(src, dst *Game) {
	for _, t := range src.Tags {
		dst.SetTag(t.Name, t.Value)
	}
}

// Splice walks the given move sequence from the root, reusing nodes that
// already carry a matching move and creating the rest. Returns the final
// node.
func (g *Game) Splice(moves []Move) *Node {
	node := g.Root
	for _, m := range moves {
		node = node.AddChild(m)
	}
	return node
}

// Paths returns the canonical path string of every leaf, in deterministic
// depth-first order (children visited in stored order). A childless root is
// itself a leaf and yields the empty path.
func Paths(g *Game) []string {
	var out []string
	var walk func(n *Node, sans []string)
	walk = func(n *Node, sans []string) {
		if len(n.Children) == 0 {
			out = append(out, FormatMoves(sans))
			return
		}
		for _, c := range n.Children {
			walk(c, append(sans, c.Move.SAN))
		}
	}
	walk(g.Root, nil)
	return out
}

// PathSet returns Paths as a set keyed by canonical string.
func PathSet(g *Game) map[string]bool {
	set := make(map[string]bool)
	for _, p := range Paths(g) {
		set[p] = true
	}
	return set
}

// SortedDifference returns the members of a not present in b, sorted.
func SortedDifference(a, b map[string]bool) []string {
	var out []string
	for p := range a {
		if !b[p] {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// CountVariations counts the leaves of the tree. Every leaf is one complete
// variation; a childless root counts as one.
func CountVariations(g *Game) int {
	if g == nil {
		return 0
	}
	count := 0
	var walk func(n *Node)
	walk = func(n *Node) {
		if len(n.Children) == 0 {
			count++
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(g.Root)
	return count
}

// AverageDepth returns the mean leaf depth in plies, 0.0 when there are no
// moves at all.
func AverageDepth(g *Game) float64 {
	if g == nil {
		return 0.0
	}
	var total, leaves int
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		if len(n.Children) == 0 {
			total += depth
			leaves++
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(g.Root, 0)
	if leaves == 0 {
		return 0.0
	}
	return float64(total) / float64(leaves)
}

// MaxDepth returns the depth in plies of the deepest node.
func MaxDepth(g *Game) int {
	if g == nil {
		return 0
	}
	max := 0
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		if depth > max {
			max = depth
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(g.Root, 0)
	return max
}

// MainLine returns the first limit moves of the main line (first child at
// every node) in canonical path form.
func MainLine(g *Game, limit int) string {
	var sans []string
	node := g.Root
	for i := 0; i < limit && len(node.Children) > 0; i++ {
		node = node.Children[0]
		sans = append(sans, node.Move.SAN)
	}
	return FormatMoves(sans)
}
