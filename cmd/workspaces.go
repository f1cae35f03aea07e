package cmd

import (
	"github.com/spf13/cobra"
)

var workspacesCmd = &cobra.Command{
	Use:     "workspaces",
	Aliases: []string{"ws"},
	Short:   "Manage workspaces on a Dataroom server",
	Long:    `List and create workspaces, manage members and browse files. Requires an authenticated session (dataroom login).`,
}

func init() {
	rootCmd.AddCommand(workspacesCmd)
}
