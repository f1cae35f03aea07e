package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devraider/dataroom/internal/cliconfig"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the current session and forget the saved credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := f.resolveServer()
		if err != nil {
			return err
		}

		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		correlation, err := cli.Logout(cmd.Context())
		if err != nil {
			// still forget the local credential; the server-side session may
			// already be dead
			logErr := logError(err, correlation, "server-side logout failed")
			if removeErr := forgetCredential(server); removeErr != nil {
				return removeErr
			}
			return logErr
		}

		if err := forgetCredential(server); err != nil {
			return err
		}

		logSuccess("logged out")
		return nil
	},
}

func forgetCredential(server string) error {
	cfg, err := cliconfig.Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.RemoveCredential(server); err != nil {
		return err
	}
	return cliconfig.Save(cfg)
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
