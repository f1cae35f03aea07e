package cmd

import (
	"github.com/spf13/cobra"
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Check the server audit log",
	Long:  `View audit log entries recorded by the server. Requires an authenticated session (dataroom login).`,
}

func init() {
	rootCmd.AddCommand(auditCmd)
}
