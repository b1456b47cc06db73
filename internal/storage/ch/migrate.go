package ch

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"confession/migrations"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/pressly/goose/v3"
)

// DSN builds a clickhouse:// connection string for database/sql users such as goose
func DSN(host string, port int, database, user, password string, useTLS bool) string {
	q := url.Values{}
	q.Set("dial_timeout", "10s")
	q.Set("max_execution_time", "60")
	if useTLS {
		q.Set("secure", "true")
	}
	u := url.URL{
		Scheme:   "clickhouse",
		User:     url.UserPassword(user, password),
		Host:     net.JoinHostPort(host, strconv.Itoa(port)),
		Path:     "/" + database,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// OpenMigrator opens a database/sql handle and points goose at the embedded migrations
func OpenMigrator(dsn string) (*sql.DB, error) {
	db, err := sql.Open("clickhouse", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("clickhouse"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set dialect: %w", err)
	}
	return db, nil
}

// MigrateUp applies every pending migration
func MigrateUp(ctx context.Context, dsn string) error {
	db, err := OpenMigrator(dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
