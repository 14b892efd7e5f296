package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Adapter types selectable with ADAPTER_TYPE.
const (
	AdapterTypePGXPool = "pgx.pool"
	AdapterTypeSQLDB   = "sql.db"
	AdapterTypeSQLXDB  = "sqlx.db"
)

// ErrUnsupportedAdapterType is returned for unknown ADAPTER_TYPE values.
var ErrUnsupportedAdapterType = errors.New("unsupported adapter type")

// PostgresEnv holds the environment driven settings of Postgres integration tests.
type PostgresEnv struct {
	DSN         string `env:"EVENTREVISIONS_TEST_POSTGRES_DSN"`
	ReplicaDSN  string `env:"EVENTREVISIONS_TEST_POSTGRES_REPLICA_DSN"`
	AdapterType string `env:"ADAPTER_TYPE"                             envDefault:"pgx.pool"`
}

// LoadPostgresEnv parses PostgresEnv from the environment.
func LoadPostgresEnv() (PostgresEnv, error) {
	var cfg PostgresEnv
	if err := env.Parse(&cfg); err != nil {
		return PostgresEnv{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.AdapterType = strings.ToLower(cfg.AdapterType)
	if cfg.AdapterType == "" {
		cfg.AdapterType = AdapterTypePGXPool
	}

	switch cfg.AdapterType {
	case AdapterTypePGXPool, AdapterTypeSQLDB, AdapterTypeSQLXDB:
	default:
		return PostgresEnv{}, fmt.Errorf("%w: %s", ErrUnsupportedAdapterType, cfg.AdapterType)
	}

	if cfg.ReplicaDSN == "" {
		cfg.ReplicaDSN = cfg.DSN
	}

	return cfg, nil
}

// Enabled reports whether a database is configured.
func (c PostgresEnv) Enabled() bool {
	return c.DSN != ""
}
