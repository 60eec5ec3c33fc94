// Package yamlgen writes a replication config from comparison results. The
// generated file feeds straight back into pkg/config, so replaying it with
// the builder reproduces the compared-to PGN from the source PGN.
//
// The file is assembled line by line rather than marshalled: the per-game
// diff statistics are emitted as YAML comments, which yaml.v3 cannot attach
// during encoding.
package yamlgen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/openingtools/pgnc/pkg/diff"
)

// Generate writes a replication YAML config for the given comparisons and
// returns the output path. The move prefixes are placed into the file
// exactly as the optimizer produced them.
func Generate(comparisons []diff.ComparisonResult, outputPath, sourcePGN, color string, depth int) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(sourcePGN), filepath.Ext(sourcePGN))
	name := fmt.Sprintf("Replication config: %s -> target", stem)
	description := "Auto-generated from pgnc compare - edit as needed"

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", name)
	fmt.Fprintf(&b, "# %s\n\n", description)
	fmt.Fprintf(&b, "name: %q\n", name)
	fmt.Fprintf(&b, "description: %q\n", description)
	fmt.Fprintf(&b, "source: %s\n", sourcePGN)
	fmt.Fprintf(&b, "output: %s_replicated\n\n", stem)

	b.WriteString("configs:\n")
	fmt.Fprintf(&b, "  - color: %s\n", color)
	b.WriteString("    settings:\n")
	b.WriteString("      preserve_comments: true\n")
	b.WriteString("      add_curation_comment: true\n")
	b.WriteString("    games:\n")

	for _, c := range comparisons {
		b.WriteString("\n")
		fmt.Fprintf(&b, "      # Game [%d]: %s\n", c.Game1Index, c.Game1Name)
		fmt.Fprintf(&b, "      # Variations: %d -> %d\n", c.TotalVariationsGame1, c.TotalVariationsGame2)
		if len(c.RemovedVariations) > 0 {
			fmt.Fprintf(&b, "      # Removed: %d\n", len(c.RemovedVariations))
		}
		if len(c.AddedVariations) > 0 {
			fmt.Fprintf(&b, "      # Added: %d\n", len(c.AddedVariations))
		}

		fmt.Fprintf(&b, "      - index: %d\n", c.Game1Index)
		fmt.Fprintf(&b, "        action: \"include\"\n")
		fmt.Fprintf(&b, "        name: %q\n", c.Game1Name)

		if len(c.RemovedVariations) > 0 {
			b.WriteString("        remove_variations:\n")
			for _, moves := range c.RemovedVariations {
				fmt.Fprintf(&b, "          - moves: %q\n", moves)
			}
		}
		if len(c.AddedVariations) > 0 {
			b.WriteString("        add_variations:\n")
			for _, moves := range c.AddedVariations {
				fmt.Fprintf(&b, "          - moves: %q\n", moves)
			}
		}
	}

	if err := os.WriteFile(outputPath, []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return outputPath, nil
}
