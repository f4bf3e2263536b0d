package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
)

// PoolConfig sizes the connection pool.
type PoolConfig struct {
	DSN         string
	AppName     string
	MaxConns    int32
	MinConns    int32
	MaxConnLife time.Duration
	PingTimeout time.Duration
}

func (pc PoolConfig) withDefaults() PoolConfig {
	if pc.MaxConns <= 0 {
		pc.MaxConns = 10
	}
	if pc.MinConns < 0 {
		pc.MinConns = 0
	}
	if pc.MinConns > pc.MaxConns {
		pc.MinConns = pc.MaxConns
	}
	if pc.MaxConnLife <= 0 {
		pc.MaxConnLife = time.Hour
	}
	if pc.PingTimeout <= 0 {
		pc.PingTimeout = 5 * time.Second
	}
	return pc
}

// NewPool opens the pool and fails fast when the database does not answer.
func NewPool(ctx context.Context, pc PoolConfig) (*pgxpool.Pool, error) {
	pc = pc.withDefaults()
	cfg, err := pgxpool.ParseConfig(pc.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = pc.MaxConns
	cfg.MinConns = pc.MinConns
	cfg.MaxConnLifetime = pc.MaxConnLife
	if pc.AppName != "" {
		cfg.ConnConfig.RuntimeParams["application_name"] = pc.AppName
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, pc.PingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Migrate applies every pending migration in dir. It goes through
// database/sql because golang-migrate does not take a pgx pool.
func Migrate(dsn, dir string, logger logrus.FieldLogger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return err
	}
	logger.WithField("dir", dir).Info("running migrations")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("schema up to date")
		return nil
	}
	return err
}
