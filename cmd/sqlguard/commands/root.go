// Package commands implements CLI commands.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlguard/internal/config"
	"github.com/satishbabariya/sqlguard/internal/core/policy"
	"github.com/satishbabariya/sqlguard/internal/core/query/dialect"
	"github.com/satishbabariya/sqlguard/internal/debug"
	"github.com/satishbabariya/sqlguard/internal/version"
	"github.com/satishbabariya/sqlguard/pkg/client"
)

// App carries state shared by all commands.
type App struct {
	Config *config.Config

	configFile string
	policyFile string
	dialect    string
	logLevel   string
}

// NewRootCommand creates the sqlguard root command.
func NewRootCommand() *cobra.Command {
	app := &App{}

	root := &cobra.Command{
		Use:           "sqlguard",
		Short:         "Compile row-level security and tenancy into SQL",
		Long:          "sqlguard compiles entity requests into parameterized SQL with role restrictions and tenant isolation applied.",
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.load()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&app.configFile, "config", "", "Path to config file (default: .sqlguard.yaml)")
	flags.StringVar(&app.policyFile, "policy", "", "Path to policy document (overrides policy.file)")
	flags.StringVar(&app.dialect, "dialect", "", "Target dialect: postgres, mysql, sqlite")
	flags.StringVar(&app.logLevel, "log-level", "", "Log level: debug, info, warn, error, off")

	root.AddCommand(NewCompileCommand(app))
	root.AddCommand(NewExposedCommand(app))
	root.AddCommand(NewWatchCommand(app))
	root.AddCommand(NewVersionCommand())

	return root
}

func (a *App) load() error {
	cfg, err := config.Load(config.Options{File: a.configFile})
	if err != nil {
		return err
	}
	if a.dialect != "" {
		d, err := dialect.ParseDialect(a.dialect)
		if err != nil {
			return err
		}
		cfg.Dialect = d
		cfg.Database.Provider = string(d)
	}
	if a.policyFile != "" {
		cfg.Policy.File = a.policyFile
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	debug.Init(cfg.Log)
	debug.Debug("configuration loaded", "file", cfg.ConfigFile, "dialect", cfg.Dialect)
	a.Config = cfg
	return nil
}

// Policy returns a manager holding the configured policy document.
func (a *App) Policy() (*policy.Manager, error) {
	m := policy.NewManager()
	if a.Config.Policy.File == "" {
		return m, nil
	}
	if err := m.LoadFile(config.AppFs, a.Config.Policy.File); err != nil {
		return nil, err
	}
	if a.Config.Policy.StrictRanking {
		r := m.Ranking()
		r.Strict = true
		m.SetRanking(r)
	}
	return m, nil
}

// Client builds a client over engine, which may be nil for compile-only use.
func (a *App) Client(engine client.Engine, m *policy.Manager) (*client.Client, error) {
	if m == nil {
		var err error
		if m, err = a.Policy(); err != nil {
			return nil, fmt.Errorf("load policy: %w", err)
		}
	}
	return client.New(engine, a.Config.Dialect,
		client.WithTenancy(a.Config.Tenancy),
		client.WithPolicy(m),
		client.WithDenyUnmatched(a.Config.Policy.DenyUnmatched),
		client.WithLogger(debug.Logger()),
	)
}
