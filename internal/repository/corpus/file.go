package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arbiterhq/arbiter/internal/domain"
	"github.com/arbiterhq/arbiter/internal/domain/record"
)

// recordFileExt is the suffix of record files; other entries are ignored.
const recordFileExt = ".json"

// FileRepo stores one JSON file per record under a directory.
type FileRepo struct {
	dir string
}

// NewFile creates a directory-backed corpus, creating the directory if needed.
func NewFile(dir string) (*FileRepo, error) {
	if dir == "" {
		return nil, fmt.Errorf("corpus directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create corpus directory: %w", err)
	}
	return &FileRepo{dir: dir}, nil
}

// Save writes a record to <dir>/<id>.json, replacing any previous version.
func (r *FileRepo) Save(_ context.Context, rec record.Record) error {
	path, err := r.recordPath(rec.ID())
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(recordToDTO(rec), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", rec.ID(), err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write record %s: %w", rec.ID(), err)
	}
	return nil
}

// Get retrieves a record by id.
func (r *FileRepo) Get(_ context.Context, id string) (record.Record, error) {
	path, err := r.recordPath(id)
	if err != nil {
		return record.Record{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return record.Record{}, domain.ErrRecordNotFound
		}
		return record.Record{}, fmt.Errorf("read record %s: %w", id, err)
	}

	rec, err := decodeRecord(data)
	if err != nil {
		return record.Record{}, fmt.Errorf("parse record %s: %w", id, err)
	}
	return rec, nil
}

// List returns all parseable records ordered by decision time.
// Unreadable or malformed files are skipped; a missing directory is an
// empty corpus, not an error.
func (r *FileRepo) List(_ context.Context) ([]record.Record, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []record.Record{}, nil
		}
		return nil, fmt.Errorf("read corpus directory: %w", err)
	}

	records := make([]record.Record, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), recordFileExt) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(r.dir, entry.Name()))
		if err != nil {
			continue
		}
		rec, err := decodeRecord(data)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].DecidedAt().Equal(records[j].DecidedAt()) {
			return records[i].ID() < records[j].ID()
		}
		return records[i].DecidedAt().Before(records[j].DecidedAt())
	})

	return records, nil
}

// Ping checks the corpus directory is reachable.
func (r *FileRepo) Ping(_ context.Context) error {
	if _, err := os.Stat(r.dir); err != nil {
		return fmt.Errorf("corpus directory: %w", err)
	}
	return nil
}

// recordPath maps an id to its file, rejecting ids that would escape the
// corpus directory.
func (r *FileRepo) recordPath(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", fmt.Errorf("invalid record id %q", id)
	}
	return filepath.Join(r.dir, id+recordFileExt), nil
}
