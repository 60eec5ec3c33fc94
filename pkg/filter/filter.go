// Package filter derives a curated variation tree from a source tree under
// remove/add rules with union semantics, plus depth trimming. Input trees
// are never mutated; every transformation builds a fresh tree.
package filter

import (
	"github.com/openingtools/pgnc/pkg/movetree"
)

// Action decides what becomes of a whole game.
type Action string

const (
	ActionInclude         Action = "include"
	ActionSkip            Action = "skip"
	ActionSkipKeepHeaders Action = "skip_keep_headers"
)

// Rule is one compiled variation pattern: a decoded move prefix, an optional
// minimum-depth guard and a free-text reason (carried for reporting only).
type Rule struct {
	Moves  []movetree.Move
	Raw    string
	Reason string
	Depth  int // 0 = no guard
}

// CompileRule decodes a pattern string into a Rule. Decoding can fail on a
// malformed or illegal sequence; callers drop such rules and keep going, a
// bad rule never aborts a build.
func CompileRule(moves string, depth int, reason string) (Rule, error) {
	decoded, err := movetree.DecodeMoves(moves)
	if err != nil {
		return Rule{}, err
	}
	return Rule{Moves: decoded, Raw: moves, Reason: reason, Depth: depth}, nil
}

// RuleSet is everything needed to derive one output game from one source
// game.
type RuleSet struct {
	Action Action
	Remove []Rule
	Add    []Rule
}

// Apply rebuilds game under the rule set. The second return value is true
// when the game produces no output at all (Action == skip), which is a
// distinct outcome from an empty tree.
func Apply(g *movetree.Game, rs RuleSet) (*movetree.Game, bool) {
	switch rs.Action {
	case ActionSkip:
		return nil, true
	case ActionSkipKeepHeaders:
		out := movetree.NewGame()
		movetree.CopyHeaders(g, out)
		return out, false
	}

	out := movetree.NewGame()
	movetree.CopyHeaders(g, out)
	rebuild(g.Root, out.Root, nil, rs)

	// Splice in added branches that did not survive (or never existed in)
	// the source, reusing any nodes already present.
	for _, add := range rs.Add {
		out.Splice(add.Moves)
	}

	return out, false
}

func rebuild(src, dst *movetree.Node, path []movetree.Move, rs RuleSet) {
	for _, child := range src.Children {
		childPath := append(path, child.Move)

		if shouldSkip(childPath, rs.Remove, rs.Add) {
			continue
		}

		node := dst.AddChild(child.Move)
		node.Comment = child.Comment
		if len(child.NAGs) > 0 {
			node.NAGs = append([]int(nil), child.NAGs...)
		}

		rebuild(child, node, childPath, rs)
	}
}

// shouldSkip implements the union rule: result = (all − removed) ∪ added.
// An add match overrides a remove match; anything matching neither is kept.
func shouldSkip(path []movetree.Move, remove, add []Rule) bool {
	shouldRemove := false
	for _, r := range remove {
		if !movetree.HasPrefix(path, r.Moves) {
			continue
		}
		// depth guard: only remove once the path is deeper than the guard
		if r.Depth > 0 && len(path) <= r.Depth {
			continue
		}
		shouldRemove = true
		break
	}

	shouldAdd := false
	for _, a := range add {
		if !movetree.HasPrefix(path, a.Moves) {
			continue
		}
		// depth guard: protection stops beyond the guard depth
		if a.Depth > 0 && len(path) > a.Depth {
			continue
		}
		shouldAdd = true
		break
	}

	if shouldAdd {
		return false
	}
	return shouldRemove
}

// Trim rebuilds a game keeping at most maxPlies edges from the root on every
// branch. A comment sitting on the cut node survives the cut.
func Trim(g *movetree.Game, maxPlies int) *movetree.Game {
	if g == nil {
		return nil
	}
	out := movetree.NewGame()
	movetree.CopyHeaders(g, out)
	trim(g.Root, out.Root, 0, maxPlies)
	return out
}

func trim(src, dst *movetree.Node, depth, maxPlies int) {
	if depth >= maxPlies {
		if src.Comment != "" {
			dst.Comment = src.Comment
		}
		return
	}
	for _, child := range src.Children {
		node := dst.AddChild(child.Move)
		node.Comment = child.Comment
		if len(child.NAGs) > 0 {
			node.NAGs = append([]int(nil), child.NAGs...)
		}
		trim(child, node, depth+1, maxPlies)
	}
}
