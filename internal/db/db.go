package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/config"
)

// DB wraps a sqlx.DB with bot-specific helpers. Queries are written with
// ? placeholders and passed through Rebind so they run on both drivers.
type DB struct {
	*sqlx.DB
	driver config.DriverType
}

// Open connects to the database selected by cfg and runs migrations.
func Open(cfg config.DatabaseConfig) (*DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return openPostgres(cfg)
	case config.DriverSQLite:
		return openSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openPostgres(cfg config.DatabaseConfig) (*DB, error) {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslmode)

	sqlDB, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging postgres database: %w", err)
	}

	d := &DB{DB: sqlDB, driver: config.DriverPostgres}
	if err := d.migrate(schemaPostgres); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return d, nil
}

func openSQLite(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite"
	sqlDB, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}

	d := &DB{DB: sqlDB, driver: config.DriverSQLite}
	if err := d.migrate(schemaSQLite); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return d, nil
}

// OpenMemory creates an in-memory SQLite database (useful for testing).
func OpenMemory() (*DB, error) {
	sqlDB, err := sqlx.Open("sqlite", ":memory:?_pragma=foreign_keys(1)&_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// A single connection keeps the in-memory database shared across queries.
	sqlDB.SetMaxOpenConns(1)

	d := &DB{DB: sqlDB, driver: config.DriverSQLite}
	if err := d.migrate(schemaSQLite); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return d, nil
}

// Driver returns the driver this database was opened with.
func (d *DB) Driver() config.DriverType {
	return d.driver
}

// migrate runs all schema migrations for the active driver.
func (d *DB) migrate(schema string) error {
	_, err := d.Exec(schema)
	return err
}

// Migrate re-applies the schema. Statements are idempotent.
func (d *DB) Migrate() error {
	if d.driver == config.DriverPostgres {
		return d.migrate(schemaPostgres)
	}
	return d.migrate(schemaSQLite)
}

// schemaSQLite contains the full schema for the sqlite driver. New tables
// are added here and mirrored in schemaPostgres.
const schemaSQLite = `
CREATE TABLE IF NOT EXISTS conversations (
    id TEXT PRIMARY KEY,
    client_id TEXT NOT NULL,
    phone_number TEXT NOT NULL,
    customer_name TEXT,
    message_text TEXT NOT NULL,
    response_text TEXT,
    timestamp DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_conversations_customer ON conversations(client_id, phone_number, timestamp);

CREATE TABLE IF NOT EXISTS loan_applications (
    id TEXT PRIMARY KEY,
    client_id TEXT NOT NULL,
    phone_number TEXT NOT NULL,
    customer_name TEXT,
    loan_amount REAL,
    loan_purpose TEXT,
    monthly_income REAL,
    employment_status TEXT,
    application_status TEXT NOT NULL DEFAULT 'pending' CHECK(application_status IN ('pending','reviewing','approved','rejected')),
    created_at DATETIME NOT NULL DEFAULT (datetime('now')),
    updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_applications_customer ON loan_applications(client_id, phone_number);
CREATE INDEX IF NOT EXISTS idx_applications_status ON loan_applications(application_status);
`

// schemaPostgres is the same schema with postgres column types.
const schemaPostgres = `
CREATE TABLE IF NOT EXISTS conversations (
    id TEXT PRIMARY KEY,
    client_id TEXT NOT NULL,
    phone_number TEXT NOT NULL,
    customer_name TEXT,
    message_text TEXT NOT NULL,
    response_text TEXT,
    timestamp TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_conversations_customer ON conversations(client_id, phone_number, timestamp);

CREATE TABLE IF NOT EXISTS loan_applications (
    id TEXT PRIMARY KEY,
    client_id TEXT NOT NULL,
    phone_number TEXT NOT NULL,
    customer_name TEXT,
    loan_amount NUMERIC(14,2),
    loan_purpose TEXT,
    monthly_income NUMERIC(14,2),
    employment_status TEXT,
    application_status TEXT NOT NULL DEFAULT 'pending' CHECK(application_status IN ('pending','reviewing','approved','rejected')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_applications_customer ON loan_applications(client_id, phone_number);
CREATE INDEX IF NOT EXISTS idx_applications_status ON loan_applications(application_status);
`
