package sokopack

import (
	"crypto/sha1"
	"database/sql"
	"fmt"

	"github.com/bodgit/sokopack/container"
	"github.com/bodgit/sokopack/level"
	_ "github.com/mattn/go-sqlite3"
)

// LevelDB is the catalog of source levels waiting to be packed.
type LevelDB struct {
	db *sql.DB
}

// Entry is a named catalog level.
type Entry struct {
	Name  string
	Level *level.Level
}

// NewLevelDB opens, creating if necessary, the catalog in file.
func NewLevelDB(file string) (*LevelDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	// The grid is kept for humans, record is the authoritative copy
	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS level (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, sha1 TEXT NOT NULL UNIQUE, grid TEXT NOT NULL, record BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &LevelDB{
		db: db,
	}, nil
}

// Close closes the catalog
func (db *LevelDB) Close() error {
	return db.db.Close()
}

// AddLevel stores l under name, replacing any level already stored under
// that name. If an identical level is already stored under any name it is
// left alone and added is false.
func (db *LevelDB) AddLevel(name string, l *level.Level) (id int64, added bool, err error) {
	record, err := container.Encode(l)
	if err != nil {
		return 0, false, err
	}
	sha := fmt.Sprintf("%X", sha1.Sum(record))

	switch err := db.db.QueryRow("SELECT id FROM level WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		if _, err := db.db.Exec("INSERT INTO level (name, sha1, grid, record) VALUES (?, ?, ?, ?) ON CONFLICT(name) DO UPDATE SET sha1 = excluded.sha1, grid = excluded.grid, record = excluded.record", name, sha, l.String(), record); err != nil {
			return 0, false, err
		}
		if err := db.db.QueryRow("SELECT id FROM level WHERE name = ?", name).Scan(&id); err != nil {
			return 0, false, err
		}
		return id, true, nil
	case nil:
		return id, false, nil
	default:
		return 0, false, err
	}
}

// RemoveLevel removes the level stored under name, if any.
func (db *LevelDB) RemoveLevel(name string) error {
	if _, err := db.db.Exec("DELETE FROM level WHERE name = ?", name); err != nil {
		return err
	}
	return nil
}

func decodeRecord(name string, record []byte) (*level.Level, error) {
	l, _, err := container.Decode(record)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return l, nil
}

// FindLevelByName returns the level stored under name or nil if there
// isn't one.
func (db *LevelDB) FindLevelByName(name string) (*level.Level, error) {
	var record []byte
	switch err := db.db.QueryRow("SELECT record FROM level WHERE name = ?", name).Scan(&record); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return decodeRecord(name, record)
	default:
		return nil, err
	}
}

// Levels returns every level in pack order.
func (db *LevelDB) Levels() ([]Entry, error) {
	rows, err := db.db.Query("SELECT name, record FROM level ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var name string
		var record []byte
		if err := rows.Scan(&name, &record); err != nil {
			return nil, err
		}
		l, err := decodeRecord(name, record)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{name, l})
	}

	return entries, rows.Err()
}
