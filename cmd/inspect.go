package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/openingtools/pgnc/pkg/movetree"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.pgn>",
	Short: "Inspect PGN file structure and statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gameIndex, _ := cmd.Flags().GetInt("game")
		listVariations, _ := cmd.Flags().GetBool("list-variations")

		games, err := movetree.ReadFile(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("File: %s\n\n", args[0])
		if len(games) == 0 {
			fmt.Println("No games found in PGN file")
			return nil
		}

		if gameIndex > 0 {
			if gameIndex > len(games) {
				return fmt.Errorf("game index %d out of range (file has %d games, indices 1-%d)",
					gameIndex, len(games), len(games))
			}
			inspectGame(games[gameIndex-1], gameIndex, listVariations)
			return nil
		}

		inspectAll(games)
		return nil
	},
}

func inspectAll(games []*movetree.Game) {
	totalVariations := 0
	totalDepth := 0.0
	maxDepthOverall := 0

	fmt.Println("Games:")
	for i, g := range games {
		variations := movetree.CountVariations(g)
		avgDepth := movetree.AverageDepth(g)
		maxDepth := movetree.MaxDepth(g)

		totalVariations += variations
		totalDepth += avgDepth
		if maxDepth > maxDepthOverall {
			maxDepthOverall = maxDepth
		}

		fmt.Printf("  [%d] %s\n", i+1, headerOr(g, "White", "?"))
		fmt.Printf("      Variations: %d\n", variations)
		fmt.Printf("      Avg Depth: %.1f plies, Max Depth: %d plies\n", avgDepth, maxDepth)
		fmt.Printf("      ECO: %s\n", headerOr(g, "ECO", "?"))
		if annotator := g.Tag("Annotator"); annotator != "" {
			fmt.Printf("      Annotator: %s\n", annotator)
		}
		fmt.Println()
	}

	fmt.Printf("Total: %d game(s), %d variations\n", len(games), totalVariations)
	fmt.Printf("Average: %.0f variations per game, %.1f plies depth\n",
		float64(totalVariations)/float64(len(games)), totalDepth/float64(len(games)))
	fmt.Printf("Max Depth: %d plies\n", maxDepthOverall)
}

func inspectGame(g *movetree.Game, index int, listVariations bool) {
	fmt.Printf("Game [%d]: %s\n", index, headerOr(g, "White", "?"))
	fmt.Printf("ECO: %s\n\n", headerOr(g, "ECO", "?"))

	fmt.Println("Headers:")
	for _, t := range g.Tags {
		fmt.Printf("  %s: %s\n", t.Name, t.Value)
	}
	fmt.Println()

	fmt.Printf("Variations: %d\n", movetree.CountVariations(g))
	fmt.Printf("Average Depth: %.1f plies\n", movetree.AverageDepth(g))
	fmt.Printf("Max Depth: %d plies\n\n", movetree.MaxDepth(g))

	if mainLine := movetree.MainLine(g, 5); mainLine != "" {
		fmt.Printf("Opening moves:\n  %s\n\n", mainLine)
	}

	if listVariations {
		fmt.Println("All Variations:")
		paths := movetree.Paths(g)
		sort.Strings(paths)
		for i, p := range paths {
			fmt.Printf("  %d. %s\n", i+1, p)
		}
	}
}

func headerOr(g *movetree.Game, name, fallback string) string {
	if v := g.Tag(name); v != "" {
		return v
	}
	return fallback
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Int("game", 0, "Show details for specific game index (1-based)")
	inspectCmd.Flags().Bool("list-variations", false, "List all variation move sequences")
}
