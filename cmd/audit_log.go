package cmd

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/devraider/dataroom/pkg/client"
)

var auditLogOpts client.ListAuditsOpts

// auditLogCmd represents the audit log command
var auditLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Retrieve and display audit log entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		log.Info().Msg("Fetching audit log...")
		audits, correlation, err := cli.ListAudits(cmd.Context(), auditLogOpts)
		if err != nil {
			return logError(err, correlation, "failed to retrieve audit log")
		}

		log.Info().Msgf("Retrieved %d audit entries", len(audits))

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{
			"Time", "Action", "User", "Success", "Fingerprint", "Error",
		})

		for _, e := range audits {
			status := "YES"
			if !e.Success {
				status = "NO"
			}

			user := "(unknown)"
			if e.Email != "" {
				user = truncate(e.Email, 35)
			}

			t.AppendRow(table.Row{
				e.Time.Format(time.RFC3339),
				e.Action,
				user,
				status,
				truncate(e.TokenFingerprint, 16),
				truncate(e.Error, 40),
			})
		}

		applyTableFormat(t)
		t.Render()
		return nil
	},
}

func init() {
	auditCmd.AddCommand(auditLogCmd)

	auditLogCmd.Flags().UintVarP(&auditLogOpts.Limit, "limit", "n", 25, "Number of audit entries to retrieve")
	auditLogCmd.Flags().StringVar(&auditLogOpts.Action, "action", "", "Filter by action (e.g. auth.login)")
	auditLogCmd.Flags().StringVar(&auditLogOpts.CorrelationID, "correlation-id", "", "Filter by correlation ID")
	auditLogCmd.Flags().StringVar(&auditLogOpts.Fingerprint, "fingerprint", "", "Filter by token fingerprint")
	auditLogCmd.Flags().Int64Var(&auditLogOpts.UserID, "user-id", 0, "Filter by user ID")
}
