package ingest

import (
	"context"
	"fmt"
	"math"

	"github.com/jinzhu/gorm"
	"golang.org/x/sync/errgroup"

	"valeai/knowledge"
	"valeai/models"
)

type LearningStats struct {
	TotalFiles     int64 `json:"totalFiles"`
	TopicsLearned  int64 `json:"topicsLearned"`
	AvgProficiency int64 `json:"avgProficiency"`
	TotalKnowledge int64 `json:"totalKnowledge"`
}

// Stats runs the four aggregate queries concurrently.
func Stats(ctx context.Context, db *gorm.DB, repo knowledge.Repository) (LearningStats, error) {
	var out LearningStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return db.Model(&models.ProcessedFile{}).Count(&out.TotalFiles).Error
	})
	g.Go(func() error {
		return db.Model(&models.LearningProgress{}).Count(&out.TopicsLearned).Error
	})
	g.Go(func() error {
		var avg float64
		row := db.Model(&models.LearningProgress{}).Select("COALESCE(AVG(proficiency_level), 0)").Row()
		if err := row.Scan(&avg); err != nil {
			return err
		}
		out.AvgProficiency = int64(math.Round(avg))
		return nil
	})
	g.Go(func() error {
		n, err := repo.Count(ctx)
		out.TotalKnowledge = n
		return err
	})

	if err := g.Wait(); err != nil {
		return LearningStats{}, fmt.Errorf("learning stats: %w", err)
	}
	return out, nil
}
