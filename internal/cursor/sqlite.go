package cursor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	_ "modernc.org/sqlite"

	"sigsum.org/sigsum-go/pkg/crypto"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cursors (
	log_id     TEXT PRIMARY KEY,
	tree_size  INTEGER NOT NULL,
	root_hash  BLOB NOT NULL,
	next_index INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// SQLiteStore keeps all cursors in a single sqlite database, for
// deployments tracking many logs. The database must exist already
// (created by ct-anchor-mkstate); opening a missing path would
// otherwise silently create an empty store and restart every log from
// scratch.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cursor database: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) EmptyStartAllowed() bool {
	var value string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = 'startup'").Scan(&value)
	return err == nil && value == "empty"
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (State, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT tree_size, root_hash, next_index FROM cursors WHERE log_id = ?", id)
	var state State
	var root []byte
	switch err := row.Scan(&state.TreeSize, &root, &state.NextIndex); {
	case errors.Is(err, sql.ErrNoRows):
		return State{}, ErrNotFound
	case err != nil:
		return State{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(root) != crypto.HashSize {
		return State{}, fmt.Errorf("%w: root hash length %d", ErrCorrupt, len(root))
	}
	copy(state.RootHash[:], root)
	if state.NextIndex > state.TreeSize {
		return State{}, fmt.Errorf("%w: next_index %d beyond tree size %d",
			ErrCorrupt, state.NextIndex, state.TreeSize)
	}
	return state, nil
}

func (s *SQLiteStore) Store(ctx context.Context, id string, state State) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO cursors (log_id, tree_size, root_hash, next_index)
VALUES (?, ?, ?, ?)
ON CONFLICT (log_id) DO UPDATE SET
	tree_size = excluded.tree_size,
	root_hash = excluded.root_hash,
	next_index = excluded.next_index`,
		id, state.TreeSize, state.RootHash[:], state.NextIndex)
	return err
}

// InitSQLite creates a new cursor database with its startup marker.
// Fails if the path already exists.
func InitSQLite(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("cursor database %s already exists", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()
	if _, err := db.Exec(sqliteSchema); err != nil {
		return err
	}
	_, err = db.Exec("INSERT INTO meta (key, value) VALUES ('startup', 'empty')")
	return err
}
