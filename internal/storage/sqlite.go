package storage

import (
	_ "github.com/mattn/go-sqlite3"

	"door-command-control/internal/config"
)

type SQLiteProvider struct {
	SQLProvider
}

func NewSQLiteProvider(config *config.Storage) *SQLiteProvider {
	sqlProvider := NewSQLProvider(config, "sqlite3", config.SQLite.Path)
	if sqlProvider == nil {
		return nil
	}

	provider := &SQLiteProvider{
		SQLProvider: *sqlProvider,
	}

	// An in-memory database exists per connection; restrict the pool to a
	// single connection so every caller sees the same schema.
	if config.SQLite.Path == ":memory:" {
		provider.db.SetMaxOpenConns(1)
	}

	return provider
}
