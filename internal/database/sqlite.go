package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const driverName = "sqlite3"

// Config for the task store
type Config struct {
	Path  string
	Debug bool
}

// DB is the single-file task store. Every operation runs on its own
// connection; the pool keeps nothing idle between calls.
type DB struct {
	db     *sqlx.DB
	driver *entsql.Driver
	path   string
	debug  bool
	logger *log.Logger
}

// Open opens (creating if needed) the SQLite file at cfg.Path.
func Open(cfg Config, logger *log.Logger) (*DB, error) {
	if cfg.Path == "" {
		return nil, errors.New("database path is empty")
	}
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sqlx.Open(driverName, dsn(cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxIdleConns(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Debug("opened task store", "path", cfg.Path)

	return &DB{
		db:     db,
		driver: entsql.OpenDB(dialect.SQLite, db.DB),
		path:   cfg.Path,
		debug:  cfg.Debug,
		logger: logger,
	}, nil
}

func dsn(path string) string {
	return path + "?_fk=1&_busy_timeout=5000"
}

// Migrate creates the task table when it does not exist yet. It is safe to
// run on every start.
func (d *DB) Migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(d.driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("run migration: %w", err)
	}
	d.logger.Debug("schema up to date", "path", d.path)
	return nil
}

// Conn acquires a dedicated connection. Callers must Close it.
func (d *DB) Conn(ctx context.Context) (*sqlx.Conn, error) {
	conn, err := d.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return conn, nil
}

// Builder returns an SQL statement builder for the SQLite dialect.
func (d *DB) Builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// LogStatement traces a statement when debug is enabled.
func (d *DB) LogStatement(query string, args []any) {
	if d.debug {
		d.logger.Debug("sql", "query", query, "args", args)
	}
}

// Path returns the store file location.
func (d *DB) Path() string {
	return d.path
}

// Close releases the store.
func (d *DB) Close() error {
	return d.db.Close()
}
