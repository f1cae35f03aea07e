package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var workspacesFilesCmd = &cobra.Command{
	Use:   "files WORKSPACE_ID",
	Short: "List the files in a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workspaceID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid workspace ID %q", args[0])
		}

		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		files, err := cli.ListFiles(cmd.Context(), workspaceID)
		if err != nil {
			return fmt.Errorf("listing files: %w", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Name", "Size", "Type", "Uploaded"})

		for _, file := range files {
			t.AppendRow(table.Row{
				file.ID,
				color.New(color.Bold).Sprint(file.Name),
				formatSize(file.Size),
				file.MimeType,
				file.CreatedAt.Format(time.DateOnly),
			})
		}

		applyTableFormat(t)
		t.Render()
		return nil
	},
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func init() {
	workspacesCmd.AddCommand(workspacesFilesCmd)
}
