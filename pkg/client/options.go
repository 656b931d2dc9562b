package client

import (
	"log/slog"

	"github.com/satishbabariya/sqlguard/internal/core/policy"
	"github.com/satishbabariya/sqlguard/internal/core/schema"
	"github.com/satishbabariya/sqlguard/internal/core/tenancy"
	"github.com/satishbabariya/sqlguard/internal/service"
)

// Config contains all client configuration options.
type Config struct {
	// Tenancy is the tenant isolation strategy.
	// Default: none
	Tenancy tenancy.Config

	// Policy holds the role restrictions. A fresh manager is created when nil.
	Policy *policy.Manager

	// Tables supplies default id columns and rejects unknown fields.
	Tables []schema.TableDefinition

	// DenyUnmatched rejects requests whose roles match no restriction.
	// Default: false
	DenyUnmatched bool

	// TenantID is the default tenant for builders created by Builder.
	TenantID string

	// Hooks observe or veto statements before and after execution.
	Hooks *service.Hooks

	// Logger receives compiled statements at debug level.
	Logger *slog.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{}
}

// Option is a function that configures the client.
type Option func(*Config)

// WithTenancy sets the tenancy configuration.
func WithTenancy(cfg tenancy.Config) Option {
	return func(c *Config) {
		c.Tenancy = cfg
	}
}

// WithPolicy shares an existing policy manager.
func WithPolicy(m *policy.Manager) Option {
	return func(c *Config) {
		c.Policy = m
	}
}

// WithTables registers table metadata.
func WithTables(tables ...schema.TableDefinition) Option {
	return func(c *Config) {
		c.Tables = append(c.Tables, tables...)
	}
}

// WithDenyUnmatched enables deny-by-default for unmatched roles.
func WithDenyUnmatched(deny bool) Option {
	return func(c *Config) {
		c.DenyUnmatched = deny
	}
}

// WithTenant sets the default tenant for builders.
func WithTenant(tenantID string) Option {
	return func(c *Config) {
		c.TenantID = tenantID
	}
}

// WithHooks installs execution hooks.
func WithHooks(h *service.Hooks) Option {
	return func(c *Config) {
		c.Hooks = h
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// ApplyOptions applies options to a config.
func ApplyOptions(config *Config, opts ...Option) {
	for _, opt := range opts {
		opt(config)
	}
}
