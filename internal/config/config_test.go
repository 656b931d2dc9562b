package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
	"github.com/satishbabariya/sqlguard/internal/core/tenancy"
)

const sampleConfig = `
config_version: "1.2"
dialect: mysql
database_url: user@tcp(localhost:3306)/app
max_connections: 4
connect_timeout: 3s
tenancy:
  strategy: column
  column_name: org_id
policy:
  file: policies/rls.yaml
  strict_ranking: true
log:
  level: debug
  format: json
`

func TestLoad_File(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/sqlguard/config.yaml", []byte(sampleConfig), 0o644))

	cfg, err := Load(Options{File: "/etc/sqlguard/config.yaml", Fs: fs})
	require.NoError(t, err)

	assert.Equal(t, "1.2", cfg.ConfigVersion)
	assert.Equal(t, domain.MySQL, cfg.Dialect)
	assert.Equal(t, "user@tcp(localhost:3306)/app", cfg.Database.URL)
	assert.Equal(t, 4, cfg.Database.MaxConnections)
	assert.Equal(t, 3*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, tenancy.StrategyColumn, cfg.Tenancy.Strategy)
	assert.Equal(t, "org_id", cfg.Tenancy.ColumnName)
	assert.Equal(t, tenancy.DefaultTenant, cfg.Tenancy.DefaultTenant)
	assert.Equal(t, "policies/rls.yaml", cfg.Policy.File)
	assert.True(t, cfg.Policy.StrictRanking)
	assert.False(t, cfg.Policy.DenyUnmatched)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SQLGUARD_DIALECT", "sqlite")
	t.Setenv("SQLGUARD_TENANCY_STRATEGY", "schema")

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg.yaml", []byte(sampleConfig), 0o644))

	cfg, err := Load(Options{File: "/cfg.yaml", Fs: fs})
	require.NoError(t, err)
	assert.Equal(t, domain.SQLite, cfg.Dialect)
	assert.Equal(t, tenancy.StrategySchema, cfg.Tenancy.Strategy)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/app")

	cfg, err := Load(Options{Fs: afero.NewMemMapFs()})
	require.NoError(t, err)
	assert.Equal(t, domain.PostgreSQL, cfg.Dialect)
	assert.Equal(t, "postgres://localhost/app", cfg.Database.URL)
	assert.Equal(t, 10, cfg.Database.MaxConnections)
	assert.Equal(t, tenancy.StrategyNone, cfg.Tenancy.Strategy)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoad_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := Load(Options{File: "/missing.yaml", Fs: fs})
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "/v2.yaml", []byte("config_version: \"2.0\"\n"), 0o644))
	_, err = Load(Options{File: "/v2.yaml", Fs: fs})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, afero.WriteFile(fs, "/bad.yaml", []byte("dialect: oracle\n"), 0o644))
	_, err = Load(Options{File: "/bad.yaml", Fs: fs})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoadDotEnv(t *testing.T) {
	const key = "SQLGUARD_TEST_DOTENV"
	t.Cleanup(func() { os.Unsetenv(key) })

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, ".env", []byte(key+"=base\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, ".env.local", []byte(key+"=local\n"), 0o644))

	loadDotEnv(fs, ".env", false)
	assert.Equal(t, "base", os.Getenv(key))

	loadDotEnv(fs, ".env", false)
	loadDotEnv(fs, ".env.local", true)
	assert.Equal(t, "local", os.Getenv(key))

	loadDotEnv(fs, ".missing", true)
	assert.Equal(t, "local", os.Getenv(key))
}
