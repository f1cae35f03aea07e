package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the account behind the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		user, correlation, err := cli.Me(cmd.Context())
		if err != nil {
			return logError(err, correlation, "failed to resolve current session")
		}

		fmt.Println(bold("\n── Current Session ──"))
		fmt.Printf("  %s:       %s\n", faint("User"), user.FullName)
		fmt.Printf("  %s:      %s\n", faint("Email"), user.Email)
		fmt.Printf("  %s:         %d\n", faint("ID"), user.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
