package store

import (
	"fmt"
	"strings"
)

// Schema is written per dialect because the auto-increment and timestamp
// types don't overlap cleanly. Tags are JSON arrays in a text column, which
// every backend handles identically.
var migrations = map[string][]string{
	driverSQLite: {
		`CREATE TABLE IF NOT EXISTS blogs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			excerpt TEXT,
			content TEXT NOT NULL,
			tags TEXT NOT NULL DEFAULT '[]',
			is_published INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT 'Web',
			image TEXT,
			tags TEXT NOT NULL DEFAULT '[]',
			github_url TEXT,
			live_url TEXT,
			sort_order TEXT NOT NULL DEFAULT '0',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_blogs_published_created ON blogs(is_published, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_sort ON projects(sort_order)`,
	},

	driverPostgres: {
		`CREATE TABLE IF NOT EXISTS blogs (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			excerpt TEXT,
			content TEXT NOT NULL,
			tags TEXT NOT NULL DEFAULT '[]',
			is_published BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT 'Web',
			image TEXT,
			tags TEXT NOT NULL DEFAULT '[]',
			github_url TEXT,
			live_url TEXT,
			sort_order TEXT NOT NULL DEFAULT '0',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_blogs_published_created ON blogs(is_published, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_sort ON projects(sort_order)`,
	},

	// MySQL TEXT columns can't carry defaults; inserts always supply every
	// column, so nothing depends on them.
	driverMySQL: {
		`CREATE TABLE IF NOT EXISTS blogs (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			title VARCHAR(512) NOT NULL,
			excerpt TEXT,
			content MEDIUMTEXT NOT NULL,
			tags TEXT NOT NULL,
			is_published BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			title VARCHAR(512) NOT NULL,
			description TEXT NOT NULL,
			category VARCHAR(128) NOT NULL DEFAULT 'Web',
			image TEXT,
			tags TEXT NOT NULL,
			github_url TEXT,
			live_url TEXT,
			sort_order VARCHAR(64) NOT NULL DEFAULT '0',
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL
		)`,
		`CREATE INDEX idx_blogs_published_created ON blogs(is_published, created_at)`,
		`CREATE INDEX idx_projects_sort ON projects(sort_order)`,
	},
}

func (s *Store) migrate() error {
	stmts, ok := migrations[s.driver]
	if !ok {
		return fmt.Errorf("no migrations for driver %q", s.driver)
	}
	for _, m := range stmts {
		if _, err := s.db.Exec(m); err != nil {
			// MySQL has no CREATE INDEX IF NOT EXISTS; a duplicate index on
			// re-run is a no-op for our purposes.
			if s.driver == driverMySQL && isDuplicateKeyName(err) {
				continue
			}
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

func isDuplicateKeyName(err error) bool {
	// MySQL error 1061: Duplicate key name
	return err != nil && strings.Contains(err.Error(), "Duplicate key name")
}
