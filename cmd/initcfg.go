package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/openingtools/pgnc/pkg/config"
	"github.com/openingtools/pgnc/pkg/movetree"
)

var initCfgCmd = &cobra.Command{
	Use:   "init <file.pgn>",
	Short: "Generate a starter configuration from a PGN file",
	Long: `Generate a starter configuration from a PGN file.

Creates a basic YAML config with all games set to 'include'. Edit the
generated file to customize filtering.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pgnFile := args[0]
		output, _ := cmd.Flags().GetString("output")

		games, err := movetree.ReadFile(pgnFile)
		if err != nil {
			return err
		}

		stem := strings.TrimSuffix(filepath.Base(pgnFile), filepath.Ext(pgnFile))
		if output == "" {
			output = stem + "_config.yaml"
		}

		cfg := config.Config{
			Name:        fmt.Sprintf("Repertoire from %s", filepath.Base(pgnFile)),
			Description: "Auto-generated starter config - edit as needed",
			Source:      pgnFile,
			Output:      stem + "_curated",
			Configs: []config.ColorConfig{
				{Color: "white"},
			},
		}
		for i, g := range games {
			name := headerOr(g, "White", fmt.Sprintf("Game %d", i+1))
			cfg.Configs[0].Games = append(cfg.Configs[0].Games, config.GameConfig{
				Index:  i + 1,
				Action: "include",
				Name:   fmt.Sprintf("%s (%d variations)", name, movetree.CountVariations(g)),
			})
		}

		data, err := yaml.Marshal(&cfg)
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return err
		}

		fmt.Printf("Generated starter config: %s\n\n", output)
		fmt.Println("Edit this file to:")
		fmt.Println("  - Change actions to 'skip' or 'skip_keep_headers'")
		fmt.Println("  - Add remove_variations or add_variations")
		fmt.Println("  - Adjust max_depth per game")
		fmt.Printf("\nThen run: pgnc build %s\n", output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCfgCmd)
	initCfgCmd.Flags().StringP("output", "o", "", "Output config file path")
}
