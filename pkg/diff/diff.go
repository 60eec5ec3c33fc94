// Package diff computes minimal, replayable differences between two
// variation trees: a remove set followed by an add set which, applied
// through the filter engine, turns the old tree into the new one.
package diff

import (
	"errors"
	"fmt"

	"github.com/openingtools/pgnc/internal/utils"
	"github.com/openingtools/pgnc/pkg/filter"
	"github.com/openingtools/pgnc/pkg/movetree"
	"github.com/openingtools/pgnc/pkg/prefix"
)

// ErrIndexOutOfRange is returned when a requested game index exceeds the
// number of games in a PGN file.
var ErrIndexOutOfRange = errors.New("game index out of range")

// ComparisonResult records one game-pair diff. It is never mutated after
// construction.
type ComparisonResult struct {
	Game1Index int // 1-based index in first PGN
	Game2Index int // 1-based index in second PGN
	Game1Name  string
	Game2Name  string

	// Optimized covering prefixes; variations in game2 but not in game1,
	// and vice versa.
	AddedVariations   []string
	RemovedVariations []string

	// Raw leaf counts before any optimization.
	TotalVariationsGame1 int
	TotalVariationsGame2 int
}

// HasDifferences reports whether the two games differ at all.
func (r ComparisonResult) HasDifferences() bool {
	return len(r.AddedVariations) > 0 || len(r.RemovedVariations) > 0
}

// CompareGames diffs game2 against game1. maxPlies > 0 bounds the comparison
// depth symmetrically; deeper content is ignored by the diff.
//
// Phase 1 removes: paths(g1) − paths(g2), optimized against g1. Phase 2 adds:
// the removal is replayed on g1 first, then added = paths(g2) − paths(g1'),
// optimized against g1'. Computing adds against g1' rather than g1 keeps the
// diff from re-reporting branches that the removal already leaves intact.
func CompareGames(g1, g2 *movetree.Game, idx1, idx2, maxPlies int) ComparisonResult {
	if maxPlies > 0 {
		g1 = filter.Trim(g1, maxPlies)
		g2 = filter.Trim(g2, maxPlies)
	}

	paths1 := movetree.PathSet(g1)
	paths2 := movetree.PathSet(g2)

	toRemove := movetree.SortedDifference(paths1, paths2)
	optimizedRemoved := prefix.Optimize(toRemove, g1)

	g1Prime := applyRemovals(g1, optimizedRemoved)
	paths1Prime := movetree.PathSet(g1Prime)

	toAdd := movetree.SortedDifference(paths2, paths1Prime)
	optimizedAdded := prefix.Optimize(toAdd, g1Prime)

	return ComparisonResult{
		Game1Index:           idx1,
		Game2Index:           idx2,
		Game1Name:            gameName(g1, idx1),
		Game2Name:            gameName(g2, idx2),
		AddedVariations:      optimizedAdded,
		RemovedVariations:    optimizedRemoved,
		TotalVariationsGame1: len(paths1),
		TotalVariationsGame2: len(paths2),
	}
}

// applyRemovals replays a removal list on a game through the filter engine.
func applyRemovals(g *movetree.Game, removed []string) *movetree.Game {
	if len(removed) == 0 {
		return g
	}
	rs := filter.RuleSet{Action: filter.ActionInclude}
	for _, moves := range removed {
		rule, err := filter.CompileRule(moves, 0, "")
		if err != nil {
			// paths came from our own traversal, so this is unexpected;
			// treat the pattern as never-matching and keep going
			utils.Log.Warnf("skipping unresolvable removal pattern %q: %v", moves, err)
			continue
		}
		rs.Remove = append(rs.Remove, rule)
	}
	out, _ := filter.Apply(g, rs)
	return out
}

func gameName(g *movetree.Game, idx int) string {
	if name := g.Tag("White"); name != "" {
		return name
	}
	return fmt.Sprintf("Game %d", idx)
}

// Options control a whole-file comparison.
type Options struct {
	Game1 int    // 1-based, 0 = compare all pairs index by index
	Game2 int    // 1-based, 0 = compare all pairs index by index
	Color string // "white" or "black", empty = unbounded depth
	Depth int    // move pairs, used with Color
}

// MaxPlies converts the color/depth pair into a ply bound: a white
// repertoire keeps one extra white half-move at the horizon.
func (o Options) MaxPlies() int {
	switch o.Color {
	case "white":
		return 2*o.Depth + 1
	case "black":
		return 2 * o.Depth
	}
	return 0
}

// ComparePGNFiles diffs games of two PGN files. With explicit indices only
// that pair is compared and a bad index is an error; otherwise games are
// paired index by index and only pairs with differences are reported.
func ComparePGNFiles(path1, path2 string, opts Options) ([]ComparisonResult, error) {
	games1, err := movetree.ReadFile(path1)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path1, err)
	}
	games2, err := movetree.ReadFile(path2)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path2, err)
	}

	maxPlies := opts.MaxPlies()

	if opts.Game1 != 0 || opts.Game2 != 0 {
		if opts.Game1 < 1 || opts.Game1 > len(games1) {
			return nil, fmt.Errorf("%w: %d in %s (has %d games)", ErrIndexOutOfRange, opts.Game1, path1, len(games1))
		}
		if opts.Game2 < 1 || opts.Game2 > len(games2) {
			return nil, fmt.Errorf("%w: %d in %s (has %d games)", ErrIndexOutOfRange, opts.Game2, path2, len(games2))
		}
		result := CompareGames(games1[opts.Game1-1], games2[opts.Game2-1], opts.Game1, opts.Game2, maxPlies)
		return []ComparisonResult{result}, nil
	}

	n := len(games1)
	if len(games2) < n {
		n = len(games2)
	}
	var results []ComparisonResult
	for i := 0; i < n; i++ {
		result := CompareGames(games1[i], games2[i], i+1, i+1, maxPlies)
		if result.HasDifferences() {
			results = append(results, result)
		}
	}
	return results, nil
}
