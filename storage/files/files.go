// Package files stores save slots as JSON documents in a directory.
package files

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nathoo/towercore/engine/save"
	"github.com/nathoo/towercore/storage"
)

const ext = ".json"

// Store keeps one <slot>.json file per save.
type Store struct {
	Dir string
}

// Open returns a store rooted at dir, creating it if needed.
func Open(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("save directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	return &Store{Dir: dir}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.Dir, name+ext)
}

// Save writes the document atomically by renaming a temp file into place.
func (s *Store) Save(ctx context.Context, slot storage.Slot, doc []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := storage.ValidateName(slot.Name); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.Dir, slot.Name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("save %s: %w", slot.Name, err)
	}
	if _, err := tmp.Write(doc); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("save %s: %w", slot.Name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("save %s: %w", slot.Name, err)
	}
	if err := os.Rename(tmp.Name(), s.path(slot.Name)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("save %s: %w", slot.Name, err)
	}
	return nil
}

// Load reads the document saved under name.
func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := storage.ValidateName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return data, nil
}

// List returns every readable slot sorted by name. Files that do not decode
// as save documents are skipped.
func (s *Store) List(ctx context.Context) ([]storage.Slot, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	var slots []storage.Slot
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name, ok := strings.CutSuffix(entry.Name(), ext)
		if entry.IsDir() || !ok || storage.ValidateName(name) != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.Dir, entry.Name()))
		if err != nil {
			continue
		}
		sd, err := save.Load(data)
		if err != nil {
			continue
		}
		slots = append(slots, storage.Slot{Name: name, Floor: sd.State.UI.Floor, SavedAt: sd.SavedAt})
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Name < slots[j].Name })
	return slots, nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
