package builder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openingtools/pgnc/pkg/config"
	"github.com/openingtools/pgnc/pkg/movetree"
)

const sourcePGN = `[White "Open Games"]

1.e4 e5 ( 1...c5 2.Nf3 d6 ) 2.Nf3 Nc6 3.Bb5 a6 *

[White "Queens Pawn"]

1.d4 d5 2.c4 e6 *
`

func setup(t *testing.T) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()

	source := filepath.Join(dir, "source.pgn")
	if err := os.WriteFile(source, []byte(sourcePGN), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	cfg := &config.Config{
		Name:   "test build",
		Source: source,
		Output: filepath.Join(dir, "repertoire"),
		Configs: []config.ColorConfig{
			{
				Color: "white",
				Games: []config.GameConfig{
					{
						Index:  1,
						Action: "include",
						RemoveVariations: []config.VariationFilter{
							{Moves: "1.e4 c5", Reason: "not in repertoire"},
						},
					},
					{Index: 2, Action: "skip"},
				},
			},
		},
	}
	return cfg, dir
}

func TestBuild(t *testing.T) {
	cfg, dir := setup(t)

	stats, err := Build(cfg, Options{Depth: 10})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if stats.InputGames != 2 {
		t.Fatalf("InputGames = %d", stats.InputGames)
	}
	if stats.TotalOutputGames != 1 {
		t.Fatalf("TotalOutputGames = %d", stats.TotalOutputGames)
	}

	outPath := filepath.Join(dir, "repertoire_white_10.pgn")
	games, err := movetree.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected 1 output game, got %d", len(games))
	}

	paths := movetree.Paths(games[0])
	if len(paths) != 1 || paths[0] != "1.e4 e5 2.Nf3 Nc6 3.Bb5 a6" {
		t.Fatalf("unexpected output paths: %#v", paths)
	}
	if games[0].Tag("Curator") == "" {
		t.Fatalf("curation tag missing")
	}
}

func TestBuild_DepthTrim(t *testing.T) {
	cfg, dir := setup(t)

	// 2 move pairs for white = 5 plies
	if _, err := Build(cfg, Options{Depth: 2}); err != nil {
		t.Fatalf("build failed: %v", err)
	}

	games, err := movetree.ReadFile(filepath.Join(dir, "repertoire_white_2.pgn"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if got := movetree.MaxDepth(games[0]); got != 5 {
		t.Fatalf("MaxDepth = %d, want 5", got)
	}
}

func TestBuild_DryRun(t *testing.T) {
	cfg, dir := setup(t)

	stats, err := Build(cfg, Options{Depth: 10, DryRun: true})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if stats.TotalOutputGames != 1 {
		t.Fatalf("TotalOutputGames = %d", stats.TotalOutputGames)
	}
	if _, err := os.Stat(filepath.Join(dir, "repertoire_white_10.pgn")); !os.IsNotExist(err) {
		t.Fatalf("dry run must not write files")
	}
}

func TestBuild_Split(t *testing.T) {
	cfg, dir := setup(t)
	cfg.Configs[0].Games[1].Action = "include"

	if _, err := Build(cfg, Options{Depth: 10, Split: true}); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	for _, idx := range []string{"1", "2"} {
		path := filepath.Join(dir, "repertoire_white_10_"+idx+".pgn")
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("missing split output %s: %v", path, err)
		}
	}
}

func TestBuild_SkipKeepHeaders(t *testing.T) {
	cfg, dir := setup(t)
	cfg.Configs[0].Games[1].Action = "skip_keep_headers"

	if _, err := Build(cfg, Options{Depth: 10}); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	games, err := movetree.ReadFile(filepath.Join(dir, "repertoire_white_10.pgn"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 output games, got %d", len(games))
	}
	if games[1].Tag("White") != "Queens Pawn" {
		t.Fatalf("headers lost: %q", games[1].Tag("White"))
	}
	if len(games[1].Root.Children) != 0 {
		t.Fatalf("movetext should be stripped")
	}
}

func TestBuild_RemoveEmptyGames(t *testing.T) {
	cfg, _ := setup(t)
	cfg.Configs[0].Settings = &config.Settings{RemoveEmptyGames: true}
	// remove everything from game 1
	cfg.Configs[0].Games[0].RemoveVariations = []config.VariationFilter{{Moves: "1.e4"}}

	stats, err := Build(cfg, Options{Depth: 10})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if stats.TotalOutputGames != 0 {
		t.Fatalf("emptied game not dropped, TotalOutputGames = %d", stats.TotalOutputGames)
	}
}

func TestBuild_OutOfRangeIndexSkipped(t *testing.T) {
	cfg, _ := setup(t)
	cfg.Configs[0].Games = append(cfg.Configs[0].Games, config.GameConfig{Index: 99, Action: "include"})

	// an out-of-range index warns and skips, it never aborts the build
	stats, err := Build(cfg, Options{Depth: 10})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if stats.TotalOutputGames != 1 {
		t.Fatalf("TotalOutputGames = %d", stats.TotalOutputGames)
	}
}

func TestBuild_BadFilterDropped(t *testing.T) {
	cfg, dir := setup(t)
	cfg.Configs[0].Games[0].RemoveVariations = []config.VariationFilter{
		{Moves: "1.Zz9"}, // unresolvable, must be dropped not fatal
		{Moves: "1.e4 c5"},
	}

	if _, err := Build(cfg, Options{Depth: 10}); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	games, err := movetree.ReadFile(filepath.Join(dir, "repertoire_white_10.pgn"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	paths := movetree.Paths(games[0])
	for _, p := range paths {
		if strings.HasPrefix(p, "1.e4 c5") {
			t.Fatalf("valid filter not applied: %#v", paths)
		}
	}
}

func TestBuild_RecordsHistory(t *testing.T) {
	cfg, dir := setup(t)
	dbPath := filepath.Join(dir, "history.sqlite")

	if _, err := Build(cfg, Options{Depth: 10, HistoryPath: dbPath}); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("history database not created: %v", err)
	}
}

func TestColorPlyBound(t *testing.T) {
	if got := ColorPlyBound("white", 10); got != 21 {
		t.Fatalf("white: got %d", got)
	}
	if got := ColorPlyBound("black", 10); got != 20 {
		t.Fatalf("black: got %d", got)
	}
}

func TestBuild_PerGameMaxDepthOverride(t *testing.T) {
	cfg, dir := setup(t)
	cfg.Configs[0].Games[0].MaxDepth = 2

	if _, err := Build(cfg, Options{Depth: 10}); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	games, err := movetree.ReadFile(filepath.Join(dir, "repertoire_white_10.pgn"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if got := movetree.MaxDepth(games[0]); got != 2 {
		t.Fatalf("MaxDepth = %d, want per-game override of 2", got)
	}
}
