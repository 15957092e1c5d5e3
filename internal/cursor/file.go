package cursor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	// Needs extended version with CommitIfNotExists, see
	// https://git.glasklar.is/sigsum/dependencies/safefile
	"git.glasklar.is/sigsum/dependencies/safefile"

	"sigsum.org/sigsum-go/pkg/ascii"
)

const (
	cursorFileSuffix = ".cursor"
	startupFileName  = "startup"
)

// FileStore keeps one ASCII cursor file per log in a directory and
// replaces files atomically on every store. The directory is created
// by ct-anchor-mkstate; its startup marker decides whether logs
// without a cursor file may start from an empty tree.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cursor directory: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("cursor directory: %s is not a directory", dir)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+cursorFileSuffix)
}

func (s *FileStore) EmptyStartAllowed() bool {
	f, err := os.Open(filepath.Join(s.dir, startupFileName))
	if err != nil {
		return false
	}
	defer f.Close()
	return parseStartupFile(f) == nil
}

func (s *FileStore) Load(_ context.Context, id string) (State, error) {
	f, err := os.Open(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	defer f.Close()
	state, err := parseState(f)
	if err != nil {
		return State{}, fmt.Errorf("%w: file %q: %v", ErrCorrupt, s.path(id), err)
	}
	return state, nil
}

func (s *FileStore) Store(_ context.Context, id string, state State) error {
	f, err := safefile.Create(s.path(id), 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := writeState(f, &state); err != nil {
		return err
	}
	// Atomically replace old file with new.
	return f.Commit()
}

// InitDir prepares a cursor directory for first use: creates it if
// needed and writes the startup marker that allows empty starts.
// Fails if the marker already exists.
func InitDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := safefile.Create(filepath.Join(dir, startupFileName), 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "startup=empty\n"); err != nil {
		return err
	}
	// Atomically create file, or fail if it already exists.
	return f.CommitIfNotExists()
}

func parseStartupFile(f io.Reader) error {
	scanner := bufio.NewScanner(f)
	// Only read first line.
	if !scanner.Scan() {
		err := scanner.Err()
		if err == nil {
			err = fmt.Errorf("startup file empty")
		}
		return err
	}
	line := strings.SplitN(strings.TrimSpace(scanner.Text()), "=", 2)
	if len(line) != 2 || line[0] != "startup" {
		return fmt.Errorf("missing startup= keyword in startup file")
	}
	if line[1] != "empty" {
		return fmt.Errorf("invalid startup mode %q", line[1])
	}
	return nil
}

func writeState(w io.Writer, state *State) error {
	if err := ascii.WriteInt(w, "tree_size", state.TreeSize); err != nil {
		return err
	}
	if err := ascii.WriteHash(w, "root_hash", &state.RootHash); err != nil {
		return err
	}
	return ascii.WriteInt(w, "next_index", state.NextIndex)
}

func parseState(r io.Reader) (State, error) {
	p := ascii.NewParser(r)
	var state State
	var err error
	if state.TreeSize, err = p.GetInt("tree_size"); err != nil {
		return State{}, err
	}
	if state.RootHash, err = p.GetHash("root_hash"); err != nil {
		return State{}, err
	}
	if state.NextIndex, err = p.GetInt("next_index"); err != nil {
		return State{}, err
	}
	if err := p.GetEOF(); err != nil {
		return State{}, err
	}
	if state.NextIndex > state.TreeSize {
		return State{}, fmt.Errorf("next_index %d beyond tree size %d",
			state.NextIndex, state.TreeSize)
	}
	return state, nil
}
