package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var workspacesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workspaces you are a member of",
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		log.Debug().Msg("Retrieving workspaces...")
		workspaces, err := cli.ListWorkspaces(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing workspaces: %w", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Name", "Description", "Created"})

		for _, ws := range workspaces {
			t.AppendRow(table.Row{
				ws.ID,
				color.New(color.Bold).Sprint(ws.Name),
				truncate(ws.Description, 40),
				ws.CreatedAt.Format(time.DateOnly),
			})
		}

		applyTableFormat(t)
		t.Render()
		return nil
	},
}

func init() {
	workspacesCmd.AddCommand(workspacesListCmd)
}
