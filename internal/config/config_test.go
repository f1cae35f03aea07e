package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataroom.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

const minimalConfig = `
database:
  url: postgres://localhost:5432/dataroom?sslmode=disable
auth:
  signing_secret: super-secret
  google_client_id: client-id.apps.googleusercontent.com
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":8080")
	}
	if cfg.Auth.Algorithm != "HS256" {
		t.Errorf("Auth.Algorithm = %q, want HS256", cfg.Auth.Algorithm)
	}
	if got := cfg.Auth.TokenTTL(); got != 30*time.Minute {
		t.Errorf("Auth.TokenTTL() = %v, want 30m", got)
	}
	if cfg.Auth.GoogleIssuerURL != DefaultGoogleIssuerURL {
		t.Errorf("Auth.GoogleIssuerURL = %q, want %q", cfg.Auth.GoogleIssuerURL, DefaultGoogleIssuerURL)
	}
	if cfg.Auth.SweepInterval != DefaultSweepInterval {
		t.Errorf("Auth.SweepInterval = %v, want %v", cfg.Auth.SweepInterval, DefaultSweepInterval)
	}
	if cfg.Audit.Type != "memory" {
		t.Errorf("Audit.Type = %q, want memory", cfg.Audit.Type)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "Missing Database URL",
			content: `
auth:
  signing_secret: super-secret
  google_client_id: client
`,
			wantErr: "database.url",
		},
		{
			name: "Missing Signing Secret",
			content: `
database:
  url: postgres://localhost/dataroom
auth:
  google_client_id: client
`,
			wantErr: "auth.signing_secret",
		},
		{
			name: "Unsupported Algorithm",
			content: minimalConfig + `
  algorithm: RS256
`,
			wantErr: "auth.algorithm",
		},
		{
			name: "Missing Google Client ID",
			content: `
database:
  url: postgres://localhost/dataroom
auth:
  signing_secret: super-secret
`,
			wantErr: "auth.google_client_id",
		},
		{
			name: "Verify Timeout Out Of Range",
			content: minimalConfig + `
  verify_timeout: 5m
`,
			wantErr: "auth.verify_timeout",
		},
		{
			name: "File Audit Without Path",
			content: minimalConfig + `
audit:
  enabled: true
  type: file
`,
			wantErr: "audit.path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_FileAuditWithPath(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
audit:
  enabled: true
  type: file
  path: /var/log/dataroom-audit.jsonl
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Audit.Path != "/var/log/dataroom-audit.jsonl" {
		t.Errorf("Audit.Path = %q", cfg.Audit.Path)
	}
}
