package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openingtools/pgnc/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate <config.yaml>",
	Short: "Validate a configuration file",
	Long: `Validate a configuration file.

Checks YAML syntax, required fields, file paths, game selection and filter
move sequences.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Validating: %s\n\n", args[0])

		ok, report := config.ValidateFile(args[0])
		fmt.Println(report)
		if !ok {
			return fmt.Errorf("configuration is not valid")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
