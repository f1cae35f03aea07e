package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/devraider/dataroom/internal/cliconfig"
	"github.com/devraider/dataroom/pkg/client"
)

type Factory struct {
	// RemoteAddr is the address of the Dataroom server to connect to.
	RemoteAddr string
}

var f = NewFactory()

func NewFactory() *Factory {
	return &Factory{}
}

// GetClient returns an authenticated HTTP client for remote operations.
func (f *Factory) GetClient() (*client.Client, error) {
	server, err := f.resolveServer()
	if err != nil {
		return nil, err
	}

	var token string
	if cfg, err := cliconfig.Load(); err == nil {
		if cred, err := cfg.GetCredential(server); err == nil { // token prio 1: saved credential
			token = cred.Token
		}
	}

	if envToken := os.Getenv("DATAROOM_TOKEN"); envToken != "" { // token prio 2: env var
		token = envToken
	}

	return client.New(server, client.WithAuthToken(token)), nil
}

func (f *Factory) resolveServer() (string, error) {
	server := f.RemoteAddr // prio 1: command-line flag
	if server == "" {
		server = viper.GetString(ServerAddrKey) // prio 2: config/env
	}
	if server == "" {
		return "", fmt.Errorf("server address not configured (use --server or set DATAROOM_ADDR)")
	}
	return server, nil
}
