package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL flavour of an SQLSlot
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// openDB is a package-level var to allow test injection
var openDB = sql.Open

const slotTable = "joyjar_slots"

// SQLSlot stores the document as one row of a key/value table
type SQLSlot struct {
	db      *sql.DB
	dialect Dialect
	key     string
	shared  bool
}

// OpenSQLSlot opens the database, creates the slot table if needed and returns a slot for key.
// dsn is a postgres connection URL or a sqlite file path.
func OpenSQLSlot(ctx context.Context, dialect Dialect, dsn, key string) (*SQLSlot, error) {
	var driver string
	switch dialect {
	case DialectPostgres:
		driver = "postgres"
	case DialectSQLite:
		driver = "sqlite"
	default:
		return nil, fmt.Errorf("unsupported SQL dialect %q", dialect)
	}

	db, err := openDB(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}

	slot := &SQLSlot{db: db, dialect: dialect, key: key}
	if err := slot.init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return slot, nil
}

func (s *SQLSlot) init(ctx context.Context) error {
	var stmts []string
	if s.dialect == DialectSQLite {
		s.db.SetMaxOpenConns(1)
		stmts = append(stmts,
			"PRAGMA journal_mode = WAL",
			"PRAGMA busy_timeout = 5000",
		)
	}
	stmts = append(stmts, `CREATE TABLE IF NOT EXISTS `+slotTable+` (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize %s slot table: %w", s.dialect, err)
		}
	}
	return nil
}

func (s *SQLSlot) placeholders() (string, string) {
	if s.dialect == DialectPostgres {
		return "$1", "$2"
	}
	return "?", "?"
}

func (s *SQLSlot) Read(ctx context.Context) ([]byte, error) {
	p1, _ := s.placeholders()
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM `+slotTable+` WHERE key = `+p1, s.key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot row: %w", err)
	}
	return []byte(value), nil
}

func (s *SQLSlot) Write(ctx context.Context, doc []byte) error {
	p1, p2 := s.placeholders()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO `+slotTable+` (key, value, updated_at) VALUES (`+p1+`, `+p2+`, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, string(doc),
	)
	if err != nil {
		return fmt.Errorf("failed to write slot row: %w", err)
	}
	return nil
}

// Sibling returns a slot for the row key+suffix in the same table
func (s *SQLSlot) Sibling(suffix string) Slot {
	return &SQLSlot{db: s.db, dialect: s.dialect, key: s.key + suffix, shared: true}
}

func (s *SQLSlot) Close() error {
	if s.shared {
		return nil
	}
	return s.db.Close()
}
