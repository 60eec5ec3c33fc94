package yamlgen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openingtools/pgnc/pkg/config"
	"github.com/openingtools/pgnc/pkg/diff"
)

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "repertoire.pgn")
	if err := os.WriteFile(source, []byte("1.e4 e5 *\n"), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	comparisons := []diff.ComparisonResult{
		{
			Game1Index:           1,
			Game1Name:            "Open Games",
			TotalVariationsGame1: 5,
			TotalVariationsGame2: 3,
			RemovedVariations:    []string{"1.e4 c5", "1.e4 c6"},
			AddedVariations:      []string{"1.e4 e5 2.Nf3"},
		},
	}

	outPath := filepath.Join(dir, "replication.yaml")
	got, err := Generate(comparisons, outPath, source, "white", 10)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if got != outPath {
		t.Fatalf("returned path %q, want %q", got, outPath)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	text := string(data)

	for _, want := range []string{
		"color: white",
		`- moves: "1.e4 c5"`,
		`- moves: "1.e4 e5 2.Nf3"`,
		"# Game [1]: Open Games",
		"# Variations: 5 -> 3",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}

	// the generated file must feed straight back into the config loader
	cfg, err := config.Load(outPath)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	g := cfg.Configs[0].Games[0]
	if g.Index != 1 || len(g.RemoveVariations) != 2 || len(g.AddVariations) != 1 {
		t.Fatalf("unexpected game config: %#v", g)
	}
}

func TestGenerate_NoComparisons(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "repertoire.pgn")
	if err := os.WriteFile(source, []byte("1.e4 *\n"), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	outPath := filepath.Join(dir, "replication.yaml")
	if _, err := Generate(nil, outPath, source, "black", 5); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(data), "color: black") {
		t.Fatalf("color missing:\n%s", data)
	}
}
