// Package config loads sqlguard CLI configuration from .sqlguard.yaml,
// SQLGUARD_* environment variables and .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/sqlguard/internal/adapters/database"
	"github.com/satishbabariya/sqlguard/internal/core/query/dialect"
	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
	"github.com/satishbabariya/sqlguard/internal/core/tenancy"
	"github.com/satishbabariya/sqlguard/internal/debug"
	"github.com/satishbabariya/sqlguard/internal/version"
)

// AppFs is the filesystem configuration and policy files are read from.
var AppFs = afero.NewOsFs()

// Config holds the application configuration
type Config struct {
	ConfigVersion string
	ConfigFile    string
	Dialect       domain.Dialect
	Database      database.Config
	Tenancy       tenancy.Config
	Policy        PolicyConfig
	Log           debug.Options
}

// PolicyConfig locates the role restriction document.
type PolicyConfig struct {
	File          string
	StrictRanking bool
	DenyUnmatched bool
}

// Options control where Load looks.
type Options struct {
	// File is an explicit config file; the search paths are skipped.
	File string
	// Fs overrides AppFs.
	Fs afero.Fs
}

// Load reads configuration from the first .sqlguard.yaml found in the
// working directory, the home directory or ~/.config/sqlguard, then applies
// .env, .env.local and SQLGUARD_* environment overrides.
func Load(opts Options) (*Config, error) {
	fs := opts.Fs
	if fs == nil {
		fs = AppFs
	}

	loadDotEnv(fs, ".env", false)
	loadDotEnv(fs, ".env.local", true)

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType("yaml")
	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName(".sqlguard")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
			v.AddConfigPath(filepath.Join(home, ".config", "sqlguard"))
		}
	}

	v.SetEnvPrefix("SQLGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return decode(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dialect", "postgres")
	v.SetDefault("max_connections", 10)
	v.SetDefault("connect_timeout", 10*time.Second)
	v.SetDefault("retry_attempts", 3)
	v.SetDefault("tenancy.strategy", string(tenancy.StrategyNone))
	v.SetDefault("tenancy.column_name", tenancy.DefaultColumnName)
	v.SetDefault("tenancy.separator", tenancy.DefaultSeparator)
	v.SetDefault("tenancy.default_tenant", tenancy.DefaultTenant)
	v.SetDefault("policy.strict_ranking", false)
	v.SetDefault("policy.deny_unmatched", false)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
}

func decode(v *viper.Viper) (*Config, error) {
	cfgVersion := v.GetString("config_version")
	if err := version.CheckConfig(cfgVersion); err != nil {
		return nil, err
	}

	url := v.GetString("database_url")
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}

	d, err := dialect.ParseDialect(v.GetString("dialect"))
	if err != nil {
		return nil, err
	}
	strategy, err := tenancy.ParseStrategy(v.GetString("tenancy.strategy"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ConfigVersion: cfgVersion,
		ConfigFile:    v.ConfigFileUsed(),
		Dialect:       d,
		Database: database.Config{
			Provider:       string(d),
			URL:            url,
			MaxConnections: v.GetInt("max_connections"),
			ConnectTimeout: v.GetDuration("connect_timeout"),
			RetryAttempts:  v.GetUint("retry_attempts"),
		},
		Tenancy: tenancy.Config{
			Strategy:      strategy,
			ColumnName:    v.GetString("tenancy.column_name"),
			Separator:     v.GetString("tenancy.separator"),
			DefaultTenant: v.GetString("tenancy.default_tenant"),
		},
		Policy: PolicyConfig{
			File:          v.GetString("policy.file"),
			StrictRanking: v.GetBool("policy.strict_ranking"),
			DenyUnmatched: v.GetBool("policy.deny_unmatched"),
		},
		Log: debug.Options{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}, nil
}

// loadDotEnv exports the variables of a dotenv file. Missing or unreadable
// files are skipped.
func loadDotEnv(fs afero.Fs, name string, override bool) {
	f, err := fs.Open(name)
	if err != nil {
		return
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		debug.Warn("ignoring malformed env file", "file", name, "error", err)
		return
	}
	for k, val := range vars {
		if _, set := os.LookupEnv(k); set && !override {
			continue
		}
		_ = os.Setenv(k, val)
	}
}
