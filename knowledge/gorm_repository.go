package knowledge

import (
	"context"
	"fmt"
	"time"

	"github.com/jinzhu/gorm"

	"valeai/models"
)

// GormRepository is the server-side knowledge store (SQLite or Postgres).
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) All(ctx context.Context) ([]models.KnowledgeEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var entries []models.KnowledgeEntry
	if err := r.db.Order("fecha_agregado asc").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list knowledge: %w", err)
	}
	return entries, nil
}

// Search loads the table and filters in Go so both repositories share Matches.
func (r *GormRepository) Search(ctx context.Context, query string) ([]models.KnowledgeEntry, error) {
	entries, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(entries, query), nil
}

func (r *GormRepository) Create(ctx context.Context, entry *models.KnowledgeEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	prepare(entry, time.Now())
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("create knowledge: %w", err)
	}
	return nil
}

// CreateBatch inserts all entries in one transaction. Timestamps are spaced by
// a microsecond so ordering by fecha_agregado keeps the batch order.
func (r *GormRepository) CreateBatch(ctx context.Context, entries []models.KnowledgeEntry) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	now := time.Now()
	tx := r.db.Begin()
	for i := range entries {
		prepare(&entries[i], now.Add(time.Duration(i)*time.Microsecond))
		if err := tx.Create(&entries[i]).Error; err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("create knowledge batch: %w", err)
		}
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("commit knowledge batch: %w", err)
	}
	return len(entries), nil
}

func (r *GormRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res := r.db.Delete(&models.KnowledgeEntry{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete knowledge: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int64
	if err := r.db.Model(&models.KnowledgeEntry{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count knowledge: %w", err)
	}
	return n, nil
}
