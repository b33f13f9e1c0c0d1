package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/leminhha/salespipe/internal/permissions"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "salespipe", cfg.Auth.Issuer)
	require.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	require.True(t, cfg.Auth.Cookie.Secure)
	require.Equal(t, permissions.IdentityPolicySuperAdminOnly, cfg.IdentityPolicy())
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
server:
  port: 9400
  log_level: debug
auth:
  token_secret: file-secret
  session_ttl: 2h
policy:
  identity_management: shared_with_admin
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	require.Equal(t, 9400, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, "file-secret", cfg.Auth.TokenSecret)
	require.Equal(t, 2*time.Hour, cfg.Auth.SessionTTL)
	require.Equal(t, permissions.IdentityPolicySharedWithAdmin, cfg.IdentityPolicy())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SALESPIPE_SERVER_PORT", "9500")
	t.Setenv("SALESPIPE_AUTH_TOKEN_SECRET", "env-secret")
	t.Setenv("SALESPIPE_POLICY_IDENTITY_MANAGEMENT", "shared_with_admin")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 9500, cfg.Server.Port)
	require.Equal(t, "env-secret", cfg.Auth.TokenSecret)
	require.Equal(t, permissions.IdentityPolicySharedWithAdmin, cfg.IdentityPolicy())
}

func TestLoadConfigRejectsUnknownPolicy(t *testing.T) {
	t.Setenv("SALESPIPE_POLICY_IDENTITY_MANAGEMENT", "everyone")

	_, err := LoadConfig(t.TempDir())
	require.Error(t, err)
}

func TestDatabaseOptions(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Driver: "postgres",
		Host:   "db.internal",
		Port:   5432,
		User:   "salespipe",
		Name:   "salespipe",
	}}

	opts := cfg.DatabaseOptions()
	require.Equal(t, "postgres", opts.Driver)
	require.Equal(t, "db.internal", opts.Host)
	require.Equal(t, 5432, opts.Port)
	require.Equal(t, "salespipe", opts.Name)
}
