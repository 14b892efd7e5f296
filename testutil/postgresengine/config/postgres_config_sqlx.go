package config

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// PostgresSQLX opens and pings a *sqlx.DB for dsn, sized like PostgresSQLDB.
func PostgresSQLX(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := PostgresSQLDB(ctx, dsn)
	if err != nil {
		return nil, err
	}

	return sqlx.NewDb(db, "postgres"), nil
}
