package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const fileExt = ".yaml"

// FileStore writes one YAML document per session into a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore, ensuring the directory exists.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(id string) string {
	return filepath.Join(f.dir, id+fileExt)
}

// Save writes through a temporary file and renames it into place, so a
// reader never sees a half-written document.
func (f *FileStore) Save(ctx context.Context, rec Record) error {
	if err := CheckID(rec.ID); err != nil {
		return err
	}

	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, rec.ID+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}

	fn := f.path(rec.ID)
	if err := os.Rename(tmp.Name(), fn); err != nil {
		return fmt.Errorf("rename to %s: %w", fn, err)
	}
	return nil
}

func (f *FileStore) Load(ctx context.Context, id string) (Record, error) {
	if err := CheckID(id); err != nil {
		return Record{}, err
	}
	return f.read(f.path(id), id)
}

func (f *FileStore) read(fn, id string) (Record, error) {
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, fmt.Errorf("session %q: %w", id, ErrNotFound)
		}
		return Record{}, fmt.Errorf("read %s: %w", fn, err)
	}

	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("yaml unmarshal %s: %w", fn, err)
	}
	rec.ID = id
	return rec, nil
}

func (f *FileStore) Delete(ctx context.Context, id string) error {
	if err := CheckID(id); err != nil {
		return err
	}
	if err := os.Remove(f.path(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("session %q: %w", id, ErrNotFound)
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// List reads every session document in the directory. Files whose names
// are not session IDs are ignored.
func (f *FileStore) List(ctx context.Context) ([]Summary, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", f.dir, err)
	}

	var out []Summary
	for _, de := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		id := strings.TrimSuffix(name, fileExt)
		if CheckID(id) != nil {
			continue
		}
		rec, err := f.read(filepath.Join(f.dir, name), id)
		if err != nil {
			return nil, err
		}
		out = append(out, Summary{ID: id, State: rec.Snapshot.State, UpdatedAt: rec.UpdatedAt})
	}

	sortSummaries(out)
	return out, nil
}
