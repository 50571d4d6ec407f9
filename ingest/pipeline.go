// Package ingest turns uploaded files into knowledge: text extraction per
// format, optional remote analysis, then ProcessedFile, LearningProgress and
// learned KnowledgeEntry rows.
package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"go.uber.org/zap"

	"valeai/knowledge"
	"valeai/metrics"
	"valeai/models"
	"valeai/tools"
)

const (
	CONTENT_MAX_CHARS    = 200000
	LEARNED_ENTRIES_MAX  = 5
	LEARNED_ENTRY_GRADE  = "Todos"
	DEFAULT_SUBJECT_AREA = "General"
)

type Pipeline struct {
	db        *gorm.DB
	knowledge knowledge.Repository
	extractor *Extractor
	analyzer  *Analyzer
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewPipeline(db *gorm.DB, repo knowledge.Repository, extractor *Extractor, analyzer *Analyzer,
	m *metrics.Metrics, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		db:        db,
		knowledge: repo,
		extractor: extractor,
		analyzer:  analyzer,
		metrics:   m,
		logger:    logger,
	}
}

// Ingest runs received → text-extracted → analyzed → persisted for one file.
// Extraction and analysis degrade silently; persistence errors are returned.
func (p *Pipeline) Ingest(ctx context.Context, data []byte, filename string) (*models.ProcessedFile, *Analysis, error) {
	start := time.Now()

	content := p.extractor.Extract(data, filename)
	p.logger.Debug("ingest: extracted", zap.String("file", filename), zap.Int("chars", len(content)))

	analysis := p.analyzer.Analyze(ctx, content)

	file, err := p.saveFile(ctx, data, filename, content, analysis)
	if err != nil {
		return nil, nil, err
	}

	subjectArea := DEFAULT_SUBJECT_AREA
	if len(analysis.Categories) > 0 {
		subjectArea = analysis.Categories[0]
	}

	// um upsert por tema, sem transação: falha no meio deixa progresso parcial
	for _, topic := range analysis.Topics {
		if err := p.upsertProgress(ctx, topic, subjectArea, file.ID); err != nil {
			return nil, nil, err
		}
	}

	if analysis.Summary != "" && len(analysis.Categories) > 0 && len(analysis.Topics) > 0 {
		if err := p.saveLearnedKnowledge(ctx, analysis); err != nil {
			return nil, nil, err
		}
	}

	outcome := "none"
	if len(analysis.Topics) > 0 {
		outcome = "analyzed"
	}
	p.metrics.FileIngestedInc(outcome)

	p.logger.Info("ingest: file processed",
		zap.String("file", filename),
		zap.Int("topics", len(analysis.Topics)),
		zap.Int("categories", len(analysis.Categories)),
		zap.Duration("took", time.Since(start)),
	)
	return file, analysis, nil
}

func (p *Pipeline) saveFile(ctx context.Context, data []byte, filename, content string, analysis *Analysis) (*models.ProcessedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fileType := Extension(filename)
	if fileType == "" {
		fileType = FILE_KIND_UNKNOWN
	}

	file := models.ProcessedFile{
		ID:             uuid.NewString(),
		Filename:       filename,
		FileType:       fileType,
		Content:        tools.Truncate(content, CONTENT_MAX_CHARS, ""),
		ProcessingDate: time.Now(),
		FileSize:       int64(len(data)),
	}
	if analysis.Summary != "" {
		summary := analysis.Summary
		file.ExtractedKnowledge = &summary
	}
	if len(analysis.Categories) > 0 {
		cats := strings.Join(analysis.Categories, ",")
		file.Categories = &cats
	}
	if len(analysis.Topics) > 0 {
		topics := strings.Join(analysis.Topics, ",")
		file.LearnedTopics = &topics
	}

	if err := p.db.Create(&file).Error; err != nil {
		p.logger.Error("ingest: save file failed", zap.String("file", filename), zap.Error(err))
		return nil, fmt.Errorf("save processed file: %w", err)
	}
	return &file, nil
}

// upsertProgress: tema novo começa em 10 com uma fonte; tema existente sobe 10 (máx 100).
func (p *Pipeline) upsertProgress(ctx context.Context, topic, subjectArea, fileID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now()

	var progress models.LearningProgress
	err := p.db.Where("topic = ?", topic).First(&progress).Error
	if gorm.IsRecordNotFoundError(err) {
		progress = models.LearningProgress{
			ID:               uuid.NewString(),
			Topic:            topic,
			SubjectArea:      subjectArea,
			ProficiencyLevel: models.LEARNING_PROGRESS_STEP,
			SourcesCount:     1,
			LastUpdated:      now,
			ConfidenceScore:  models.LEARNING_PROGRESS_STEP,
			RelatedFiles:     fileID,
		}
		if err := p.db.Create(&progress).Error; err != nil {
			return fmt.Errorf("create learning progress %q: %w", topic, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("load learning progress %q: %w", topic, err)
	}

	level := models.NextProficiency(progress.ProficiencyLevel)
	related := fileID
	if progress.RelatedFiles != "" {
		related = progress.RelatedFiles + "," + fileID
	}

	err = p.db.Model(&progress).Updates(map[string]interface{}{
		"proficiency_level": level,
		"confidence_score":  level,
		"sources_count":     gorm.Expr("sources_count + ?", 1),
		"last_updated":      now,
		"related_files":     related,
	}).Error
	if err != nil {
		return fmt.Errorf("update learning progress %q: %w", topic, err)
	}
	return nil
}

func (p *Pipeline) saveLearnedKnowledge(ctx context.Context, analysis *Analysis) error {
	topics := analysis.Topics
	if len(topics) > LEARNED_ENTRIES_MAX {
		topics = topics[:LEARNED_ENTRIES_MAX]
	}
	keywords := strings.Join(analysis.Topics, ",")

	entries := make([]models.KnowledgeEntry, 0, len(topics))
	for _, topic := range topics {
		entries = append(entries, models.KnowledgeEntry{
			Subject:  analysis.Categories[0],
			Topic:    topic,
			Body:     analysis.Summary,
			Grade:    LEARNED_ENTRY_GRADE,
			Keywords: keywords,
			Type:     models.KNOWLEDGE_TYPE_LEARNED,
		})
	}

	if _, err := p.knowledge.CreateBatch(ctx, entries); err != nil {
		return fmt.Errorf("save learned knowledge: %w", err)
	}
	return nil
}

// Files lists processed files, newest first.
func (p *Pipeline) Files(ctx context.Context) ([]models.ProcessedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	files := make([]models.ProcessedFile, 0)
	if err := p.db.Order("processing_date desc").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("list processed files: %w", err)
	}
	return files, nil
}
