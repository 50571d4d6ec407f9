package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/samber/lo"

	"valeai/models"
)

// LocalRepository keeps the knowledge base in a single JSON document on disk.
// It backs deployments that run with no database server at all.
type LocalRepository struct {
	mu      sync.Mutex
	path    string
	entries []models.KnowledgeEntry
}

// NewLocalRepository loads path if it exists. An empty path keeps everything in memory.
func NewLocalRepository(path string) (*LocalRepository, error) {
	r := &LocalRepository{path: path}
	if path == "" {
		return r, nil
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *LocalRepository) All(ctx context.Context) ([]models.KnowledgeEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.KnowledgeEntry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *LocalRepository) Search(ctx context.Context, query string) ([]models.KnowledgeEntry, error) {
	entries, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(entries, query), nil
}

func (r *LocalRepository) Create(ctx context.Context, entry *models.KnowledgeEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	prepare(entry, time.Now())
	r.entries = append(r.entries, *entry)
	if err := r.saveLocked(); err != nil {
		r.entries = r.entries[:len(r.entries)-1]
		return err
	}
	return nil
}

func (r *LocalRepository) CreateBatch(ctx context.Context, entries []models.KnowledgeEntry) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	before := len(r.entries)
	for i := range entries {
		prepare(&entries[i], now)
		r.entries = append(r.entries, entries[i])
	}
	if err := r.saveLocked(); err != nil {
		r.entries = r.entries[:before]
		return 0, err
	}
	return len(entries), nil
}

func (r *LocalRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, idx, found := lo.FindIndexOf(r.entries, func(e models.KnowledgeEntry) bool { return e.ID == id })
	if !found {
		return ErrNotFound
	}
	removed := r.entries[idx]
	r.entries = append(r.entries[:idx], r.entries[idx+1:]...)
	if err := r.saveLocked(); err != nil {
		r.entries = append(r.entries[:idx], append([]models.KnowledgeEntry{removed}, r.entries[idx:]...)...)
		return err
	}
	return nil
}

func (r *LocalRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.entries)), nil
}

// saveLocked writes the whole document through a temp file; r.mu must be held.
func (r *LocalRepository) saveLocked() error {
	if r.path == "" {
		return nil
	}
	payload := struct {
		Entries []models.KnowledgeEntry `json:"entries"`
	}{Entries: r.entries}

	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode knowledge file: %w", err)
	}
	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create knowledge dir: %w", err)
		}
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write knowledge file: %w", err)
	}
	return os.Rename(tmp, r.path)
}

func (r *LocalRepository) load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read knowledge file: %w", err)
	}
	var payload struct {
		Entries []models.KnowledgeEntry `json:"entries"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("decode knowledge file: %w", err)
	}
	r.entries = payload.Entries
	return nil
}
