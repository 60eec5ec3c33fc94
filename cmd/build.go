package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openingtools/pgnc/pkg/builder"
	"github.com/openingtools/pgnc/pkg/config"
)

var buildCmd = &cobra.Command{
	Use:   "build <config.yaml>",
	Short: "Build curated PGN from a configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configFile := args[0]
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		verbose, _ := cmd.Flags().GetBool("verbose")
		quiet, _ := cmd.Flags().GetBool("quiet")
		showStats, _ := cmd.Flags().GetBool("stats")
		output, _ := cmd.Flags().GetString("output")
		depth, _ := cmd.Flags().GetInt("depth")
		split, _ := cmd.Flags().GetBool("split")

		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}

		if !quiet {
			fmt.Printf("Reading config: %s\n", configFile)
			fmt.Printf("Source PGN:     %s\n", cfg.Source)
			fmt.Printf("Output prefix:  %s\n", cfg.Output)
			if dryRun {
				fmt.Println("[DRY RUN MODE]")
			}
		}

		stats, err := builder.Build(cfg, builder.Options{
			DryRun:      dryRun,
			Verbose:     verbose || showStats,
			Split:       split,
			Depth:       depth,
			Output:      output,
			HistoryPath: viper.GetString("history.dbpath"),
		})
		if err != nil {
			return err
		}

		if showStats || verbose {
			builder.PrintStatistics(os.Stdout, stats)
		}

		if !quiet && !dryRun {
			fmt.Printf("\nDone: %d game(s), %d variation(s) written\n",
				stats.TotalOutputGames, stats.TotalOutputVariations)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().BoolP("dry-run", "n", false, "Preview without writing output")
	buildCmd.Flags().BoolP("verbose", "v", false, "Show detailed processing info")
	buildCmd.Flags().BoolP("quiet", "q", false, "Only show errors")
	buildCmd.Flags().Bool("stats", false, "Show detailed statistics")
	buildCmd.Flags().StringP("output", "o", "", "Override output prefix from config")
	buildCmd.Flags().Int("depth", 10, "Number of move pairs to keep")
	buildCmd.Flags().Bool("split", false, "Save each game in a separate file")
}
