package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openingtools/pgnc/pkg/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent build runs (default 50)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbPath, _ := cmd.Flags().GetString("dbpath")
		limit, _ := cmd.Flags().GetInt("limit")
		if dbPath == "" {
			dbPath = viper.GetString("history.dbpath")
		}
		if dbPath == "" {
			dbPath = "pgnc.sqlite"
		}
		if _, err := os.Stat(dbPath); err != nil {
			return fmt.Errorf("history database not found: %s", dbPath)
		}

		db, err := history.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background(), limit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tCONFIG\tCOLOR\tDEPTH\tGAMES\tVARIATIONS\tOUTPUT")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
				r.CreatedAt.Format("2006-01-02 15:04:05"), r.ConfigName, r.Color,
				r.Depth, r.Games, r.Variations, r.OutputFile)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().String("dbpath", "", "Path to SQLite DB file (default: pgnc.sqlite in CWD)")
	historyCmd.Flags().Int("limit", 50, "Number of recent runs to show")
}
