package cmd

import (
	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Inspect and trigger server background tasks",
	Long:  `List background tasks, trigger a run and inspect captured logs. Requires an authenticated session (dataroom login).`,
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}
