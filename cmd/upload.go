package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openingtools/pgnc/pkg/lichess"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file.pgn>",
	Short: "Upload a PGN file to an existing Lichess study",
	Long: `Upload a PGN file to an existing Lichess study, one chapter per game.

The study must already exist on lichess.org; pass its ID from the study URL.
The API token is taken from --token, the 'lichess.token' config key, or
~/.pgnc/lichess_token.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		studyID, _ := cmd.Flags().GetString("study")
		token, _ := cmd.Flags().GetString("token")
		saveToken, _ := cmd.Flags().GetBool("save-token")

		if studyID == "" {
			studyID = viper.GetString("lichess.study")
		}
		if token == "" {
			token = viper.GetString("lichess.token")
		}
		if token == "" {
			token = lichess.LoadToken()
		}
		if token == "" {
			return fmt.Errorf("no API token found, get one from https://lichess.org/account/oauth/token/create")
		}

		if saveToken {
			path, err := lichess.SaveToken(token)
			if err != nil {
				return err
			}
			fmt.Printf("Token saved to %s\n", path)
		}

		uploaded, err := lichess.Upload(args[0], studyID, token)
		if err != nil {
			return err
		}
		fmt.Printf("Uploaded %d chapter(s) to %s\n", uploaded, lichess.StudyURL(studyID))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().String("study", "", "Existing Lichess study ID")
	uploadCmd.Flags().String("token", "", "Lichess API token")
	uploadCmd.Flags().Bool("save-token", false, "Save the token to ~/.pgnc/lichess_token")
}
