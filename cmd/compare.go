package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openingtools/pgnc/pkg/diff"
	"github.com/openingtools/pgnc/pkg/yamlgen"
)

var compareCmd = &cobra.Command{
	Use:   "compare <old.pgn> <new.pgn>",
	Short: "Compare two PGN files and generate a replication config",
	Long: `Compare two PGN files and generate a replication config.

Computes the minimal set of remove/add move prefixes that turns the first
file's variations into the second file's, and writes them as a YAML config
that 'pgnc build' can replay.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		game1, _ := cmd.Flags().GetInt("game1")
		game2, _ := cmd.Flags().GetInt("game2")
		color, _ := cmd.Flags().GetString("color")
		depth, _ := cmd.Flags().GetInt("depth")
		output, _ := cmd.Flags().GetString("output")

		if color != "" && color != "white" && color != "black" {
			return fmt.Errorf("invalid color %q, expected white or black", color)
		}

		results, err := diff.ComparePGNFiles(args[0], args[1], diff.Options{
			Game1: game1,
			Game2: game2,
			Color: color,
			Depth: depth,
		})
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No differences found")
			return nil
		}

		for _, r := range results {
			fmt.Printf("Game [%d] %s vs [%d] %s: %d -> %d variations\n",
				r.Game1Index, r.Game1Name, r.Game2Index, r.Game2Name,
				r.TotalVariationsGame1, r.TotalVariationsGame2)
			for _, moves := range r.RemovedVariations {
				fmt.Printf("  - %s\n", moves)
			}
			for _, moves := range r.AddedVariations {
				fmt.Printf("  + %s\n", moves)
			}
		}

		if output == "" {
			stem := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			output = stem + "_replication.yaml"
		}
		if color == "" {
			color = "white"
		}
		path, err := yamlgen.Generate(results, output, args[0], color, depth)
		if err != nil {
			return err
		}
		fmt.Printf("\nReplication config written to: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().Int("game1", 0, "Specific game index in the first PGN (1-based)")
	compareCmd.Flags().Int("game2", 0, "Specific game index in the second PGN (1-based)")
	compareCmd.Flags().String("color", "", "Repertoire color (white or black) for depth calculation")
	compareCmd.Flags().Int("depth", 10, "Number of move pairs to compare")
	compareCmd.Flags().StringP("output", "o", "", "Replication YAML output path")
}
