package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/devraider/dataroom/internal/cliconfig"
	"github.com/devraider/dataroom/pkg/client"
)

var loginCmd = &cobra.Command{
	Use:   "login CREDENTIAL",
	Short: "Authenticate with a Dataroom server",
	Long: `Exchanges a Google ID token for a Dataroom session token.
The session token is saved locally to allow future authenticated requests.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		credential := args[0]
		if credential == "" {
			return fmt.Errorf("credential cannot be empty")
		}

		server, err := f.resolveServer()
		if err != nil {
			return err
		}
		u, err := url.Parse(server)
		if err != nil {
			return fmt.Errorf("parsing server URL: %w", err)
		}

		// perform exchange via client
		cli := client.New(server)

		log.Info().Msgf("Logging in to server %q...", u.Host)

		resp, correlation, err := cli.Login(cmd.Context(), credential)
		if err != nil {
			return logError(err, correlation, "login failed")
		}

		cfg, err := cliconfig.Load()
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("loading config: %w", err)
			}
			cfg = &cliconfig.CLIConfig{}
		}
		if err := cfg.SetCredential(server, &cliconfig.Credential{
			Token: resp.Token,
		}); err != nil {
			return err
		}
		if err := cliconfig.Save(cfg); err != nil {
			return logError(err, "", "login succeeded but could not save credentials")
		}

		logSuccess("logged in as %s (session valid until %s)",
			bold(resp.User.Email),
			resp.ExpiresAt.Format(time.RFC1123))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
