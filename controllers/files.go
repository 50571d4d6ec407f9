package controllers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"valeai/ingest"
)

// POST /api/process-file (multipart, campo "file")
func ProcessFile(c *gin.Context) {
	start := time.Now()
	s := services(c)
	if s == nil {
		return
	}

	if s.UploadLimit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.UploadLimit)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondError(c, "File too large", http.StatusRequestEntityTooLarge)
			return
		}
		RespondError(c, "No file uploaded", http.StatusBadRequest)
		return
	}

	f, err := fh.Open()
	if err != nil {
		RespondError(c, "No file uploaded", http.StatusBadRequest)
		return
	}
	// TODO: fazer spool em disco e extrair em streaming; hoje o upload inteiro fica em memória
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		s.logger().Error("files: read upload failed", zap.String("file", fh.Filename), zap.Error(err))
		RespondError(c, "Failed to process file", http.StatusInternalServerError)
		return
	}

	s.logger().Info("files: processing", zap.String("file", fh.Filename), zap.Int("bytes", len(data)))

	file, analysis, err := s.Ingest.Ingest(c.Request.Context(), data, fh.Filename)
	if err != nil {
		s.logger().Error("files: ingest failed", zap.String("file", fh.Filename), zap.Error(err))
		RespondError(c, "Failed to process file", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{
		"success":        true,
		"fileId":         file.ID,
		"learnedTopics":  len(analysis.Topics),
		"categories":     len(analysis.Categories),
		"processingTime": time.Since(start).Milliseconds(),
	})
}

// GET /api/processed-files
func GetProcessedFiles(c *gin.Context) {
	s := services(c)
	if s == nil {
		return
	}
	files, err := s.Ingest.Files(c.Request.Context())
	if err != nil {
		s.logger().Error("files: list failed", zap.Error(err))
		RespondError(c, "Failed to fetch files", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, files)
}

// GET /api/learning-stats
func GetLearningStats(c *gin.Context) {
	s := services(c)
	if s == nil {
		return
	}
	if s.DB == nil {
		RespondError(c, "db não configurado", http.StatusInternalServerError)
		return
	}

	stats, err := ingest.Stats(c.Request.Context(), s.DB, s.Knowledge)
	if err != nil {
		s.logger().Error("files: learning stats failed", zap.Error(err))
		RespondError(c, "Failed to fetch stats", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, stats)
}
