package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var workspaceDescription string

var workspacesCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a new workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if name == "" {
			return fmt.Errorf("workspace name cannot be empty")
		}

		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		ws, err := cli.CreateWorkspace(cmd.Context(), name, workspaceDescription)
		if err != nil {
			return logError(err, "", "failed to create workspace")
		}

		logSuccess("created workspace %s (ID %d)", bold(ws.Name), ws.ID)
		return nil
	},
}

func init() {
	workspacesCmd.AddCommand(workspacesCreateCmd)

	workspacesCreateCmd.Flags().StringVarP(&workspaceDescription, "description", "d", "", "Workspace description")
}
