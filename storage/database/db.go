package database

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/pkg/errors"

	"github.com/enlift/backend/core"
)

//go:embed schema.sql
var schema string

// Open opens (creating if needed) the sqlite record store at the
// configured path.
func Open(conf *core.Config) (*sqlx.DB, error) {
	if dir := filepath.Dir(conf.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "creating database directory")
		}
	}
	db, err := sqlx.Open("sqlite3", "file:"+conf.Database.Path)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "pinging database")
	}
	return db, nil
}

// Migrate creates the record table if absent; safe to call on every
// process start.
func Migrate(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
