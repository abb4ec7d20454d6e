package database

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"GuildBot/core"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

var schema = `
CREATE TABLE IF NOT EXISTS guild_settings (
	guild_id TEXT PRIMARY KEY,
	prefix TEXT NOT NULL,
	mention_prefix INTEGER NOT NULL DEFAULT 1,
	show_module_errors INTEGER NOT NULL DEFAULT 0,
	show_permission_errors INTEGER NOT NULL DEFAULT 1,
	delete_command_messages INTEGER NOT NULL DEFAULT 0,
	use_embeds INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS guild_modules (
	guild_id TEXT NOT NULL,
	module TEXT NOT NULL,
	enabled INTEGER NOT NULL,
	PRIMARY KEY (guild_id, module)
);

CREATE TABLE IF NOT EXISTS permission_grants (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	guild_id TEXT NOT NULL,
	target_type TEXT NOT NULL,
	target_id TEXT NOT NULL,
	node TEXT NOT NULL,
	UNIQUE (guild_id, target_type, target_id, node)
);
CREATE INDEX IF NOT EXISTS permission_grants_guild_index ON permission_grants (guild_id);

CREATE TABLE IF NOT EXISTS tags (
	guild_id TEXT NOT NULL,
	name TEXT NOT NULL,
	value TEXT NOT NULL,
	author_id TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	PRIMARY KEY (guild_id, name)
);
`

// DB is the bot's sqlite store. It is safe for concurrent use by command workers.
type DB struct {
	db *sqlx.DB
	mu sync.RWMutex
}

// Open connects to the sqlite file at dsn (":memory:" works for tests) and creates the schema.
func Open(dsn string) (*DB, error) {
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dsn, err)
	}
	// sqlite has a single writer; one connection also keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	core.LogDebugF("Opened database %s", dsn)
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// executeAndCommit runs fn inside a write transaction.
func (d *DB) executeAndCommit(fn func(tx *sqlx.Tx) (sql.Result, error)) (sql.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tx, err := d.db.Beginx()
	if err != nil {
		return nil, err
	}
	res, err := fn(tx)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}
