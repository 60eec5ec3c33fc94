package filter

import (
	"strings"
	"testing"

	"github.com/openingtools/pgnc/pkg/movetree"
)

func mustGame(t *testing.T, pgn string) *movetree.Game {
	t.Helper()
	games, err := movetree.ReadAll(strings.NewReader(pgn))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(games))
	}
	return games[0]
}

func mustRule(t *testing.T, moves string, depth int) Rule {
	t.Helper()
	r, err := CompileRule(moves, depth, "")
	if err != nil {
		t.Fatalf("compile %q: %v", moves, err)
	}
	return r
}

func pathsEqual(t *testing.T, g *movetree.Game, want ...string) {
	t.Helper()
	got := movetree.Paths(g)
	if len(got) != len(want) {
		t.Fatalf("paths %#v, want %#v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("path %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

const sourcePGN = `1.e4 c5 ( 1...e5 2.Nf3 Nc6 ) 2.Nf3 d6 ( 2...Nc6 ) *`

func TestApply_RemoveSubtree(t *testing.T) {
	g := mustGame(t, sourcePGN)
	rs := RuleSet{
		Action: ActionInclude,
		Remove: []Rule{mustRule(t, "1.e4 c5", 0)},
	}
	out, skipped := Apply(g, rs)
	if skipped {
		t.Fatalf("include must not skip")
	}
	pathsEqual(t, out, "1.e4 e5 2.Nf3 Nc6")
}

func TestApply_AddOverridesRemove(t *testing.T) {
	g := mustGame(t, sourcePGN)
	rs := RuleSet{
		Action: ActionInclude,
		Remove: []Rule{mustRule(t, "1.e4 c5 2.Nf3", 0)},
		Add:    []Rule{mustRule(t, "1.e4 c5", 0)},
	}
	out, _ := Apply(g, rs)
	// the broader add pattern shields the whole subtree from the removal
	pathsEqual(t, out, "1.e4 c5 2.Nf3 d6", "1.e4 c5 2.Nf3 Nc6", "1.e4 e5 2.Nf3 Nc6")
}

func TestApply_AddRestoresRemovedLine(t *testing.T) {
	g := mustGame(t, sourcePGN)
	rs := RuleSet{
		Action: ActionInclude,
		Remove: []Rule{mustRule(t, "1.e4 c5", 0)},
		Add:    []Rule{mustRule(t, "1.e4 c5 2.Nf3 Nc6", 0)},
	}
	out, _ := Apply(g, rs)
	// the c5 branch is removed during the rebuild, then the add pattern is
	// spliced back in, so it comes after the surviving e5 branch
	pathsEqual(t, out, "1.e4 e5 2.Nf3 Nc6", "1.e4 c5 2.Nf3 Nc6")
}

func TestApply_RemoveDepthGuard(t *testing.T) {
	g := mustGame(t, sourcePGN)
	// guard of 3 plies keeps 1.e4 c5 2.Nf3 but cuts everything deeper
	rs := RuleSet{
		Action: ActionInclude,
		Remove: []Rule{mustRule(t, "1.e4 c5", 3)},
	}
	out, _ := Apply(g, rs)
	pathsEqual(t, out, "1.e4 c5 2.Nf3", "1.e4 e5 2.Nf3 Nc6")
}

func TestApply_AddDepthGuard(t *testing.T) {
	g := mustGame(t, sourcePGN)
	// protection expires after 3 plies, so the d6/Nc6 tails still go
	rs := RuleSet{
		Action: ActionInclude,
		Remove: []Rule{mustRule(t, "1.e4 c5", 0)},
		Add:    []Rule{mustRule(t, "1.e4 c5", 3)},
	}
	out, _ := Apply(g, rs)
	pathsEqual(t, out, "1.e4 c5 2.Nf3", "1.e4 e5 2.Nf3 Nc6")
}

func TestApply_SpliceNewBranch(t *testing.T) {
	g := mustGame(t, `1.e4 e5 *`)
	rs := RuleSet{
		Action: ActionInclude,
		Add:    []Rule{mustRule(t, "1.e4 c5 2.Nf3", 0)},
	}
	out, _ := Apply(g, rs)
	pathsEqual(t, out, "1.e4 e5", "1.e4 c5 2.Nf3")
}

func TestApply_Skip(t *testing.T) {
	g := mustGame(t, sourcePGN)
	out, skipped := Apply(g, RuleSet{Action: ActionSkip})
	if !skipped || out != nil {
		t.Fatalf("skip must yield (nil, true), got (%v, %v)", out, skipped)
	}
}

func TestApply_SkipKeepHeaders(t *testing.T) {
	g := mustGame(t, `[White "Keep Me"]

1.e4 *`)
	out, skipped := Apply(g, RuleSet{Action: ActionSkipKeepHeaders})
	if skipped {
		t.Fatalf("skip_keep_headers still produces output")
	}
	if out.Tag("White") != "Keep Me" {
		t.Fatalf("headers lost")
	}
	if len(out.Root.Children) != 0 {
		t.Fatalf("movetext must be empty, got %#v", movetree.Paths(out))
	}
}

func TestApply_DoesNotMutateSource(t *testing.T) {
	g := mustGame(t, sourcePGN)
	before := movetree.Paths(g)
	rs := RuleSet{Action: ActionInclude, Remove: []Rule{mustRule(t, "1.e4 c5", 0)}}
	Apply(g, rs)
	after := movetree.Paths(g)
	if len(before) != len(after) {
		t.Fatalf("source tree mutated: %#v vs %#v", before, after)
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("source tree mutated at %d: %q vs %q", i, before[i], after[i])
		}
	}
}

func TestCompileRule_Invalid(t *testing.T) {
	if _, err := CompileRule("1.e9", 0, ""); err == nil {
		t.Fatalf("expected error for unresolvable pattern")
	}
}

func TestTrim(t *testing.T) {
	g := mustGame(t, `1.e4 c5 2.Nf3 d6 3.d4 *`)
	out := Trim(g, 3)
	pathsEqual(t, out, "1.e4 c5 2.Nf3")
	if movetree.MaxDepth(out) != 3 {
		t.Fatalf("MaxDepth = %d after trim to 3", movetree.MaxDepth(out))
	}
}

func TestTrim_KeepsCommentAtCut(t *testing.T) {
	g := mustGame(t, `1.e4 c5 2.Nf3 { tabiya } d6 *`)
	out := Trim(g, 3)
	cut := out.Root.Children[0].Children[0].Children[0]
	if cut.Move.SAN != "Nf3" || cut.Comment != "tabiya" {
		t.Fatalf("comment lost at cut node: %#v", cut)
	}
}

func TestTrim_ShallowTreeUntouched(t *testing.T) {
	g := mustGame(t, `1.e4 c5 *`)
	out := Trim(g, 10)
	pathsEqual(t, out, "1.e4 c5")
}
