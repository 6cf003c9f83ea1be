package storeutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" /*nolint*/
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v4/stdlib" /*nolint*/
)

const (
	maxOpenConns    = 20
	connMaxIdleTime = 5 * time.Minute
	pingTimeout     = 10 * time.Second
)

// MigrateAndConnectToDB applies the migrations found at the root of migrations
// and opens a connection pool to postgresURI.
func MigrateAndConnectToDB(postgresURI string, migrations fs.FS) (*sql.DB, error) {
	// To avoid dealing with time zone issues, we just enforce UTC timezone
	if !strings.Contains(postgresURI, "timezone=UTC") {
		return nil, errors.New("timezone=UTC is required in postgres URI")
	}
	d, err := iofs.New(migrations, ".")
	if err != nil {
		return nil, fmt.Errorf("loading migrations: %s", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", d, postgresURI)
	if err != nil {
		return nil, fmt.Errorf("creating migrator: %s", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return nil, fmt.Errorf("running migrations: %s", err)
	}
	conn, err := sql.Open("pgx", postgresURI)
	if err != nil {
		return nil, fmt.Errorf("opening connection pool: %s", err)
	}
	conn.SetMaxOpenConns(maxOpenConns)
	conn.SetConnMaxIdleTime(connMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("pinging database: %s", err)
	}
	return conn, nil
}
