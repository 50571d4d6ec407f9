package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"valeai/knowledge"
	"valeai/models"
)

// KnowledgePayload is what clients send; id and fecha_agregado are always server-side.
type KnowledgePayload struct {
	Materia       string `json:"materia"`
	Tema          string `json:"tema"`
	Contenido     string `json:"contenido"`
	Grado         string `json:"grado"`
	PalabrasClave string `json:"palabras_clave"`
	Tipo          string `json:"tipo"`
}

func (p KnowledgePayload) entry() models.KnowledgeEntry {
	return models.KnowledgeEntry{
		Subject:  p.Materia,
		Topic:    p.Tema,
		Body:     p.Contenido,
		Grade:    p.Grado,
		Keywords: p.PalabrasClave,
		Type:     p.Tipo,
	}
}

type BulkKnowledgePayload struct {
	Entries []KnowledgePayload `json:"entries"`
}

// GET /api/knowledge
func GetKnowledge(c *gin.Context) {
	s := services(c)
	if s == nil {
		return
	}
	entries, err := s.Knowledge.All(c.Request.Context())
	if err != nil {
		s.logger().Error("knowledge: list failed", zap.Error(err))
		RespondError(c, "Failed to fetch knowledge", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.KnowledgeEntry{}
	}
	RespondSuccess(c, entries)
}

// GET /api/knowledge/search?q=
func SearchKnowledge(c *gin.Context) {
	s := services(c)
	if s == nil {
		return
	}
	entries, err := s.Knowledge.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		s.logger().Error("knowledge: search failed", zap.Error(err))
		RespondError(c, "Failed to search knowledge", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, entries)
}

// POST /api/knowledge
func CreateKnowledge(c *gin.Context) {
	s := services(c)
	if s == nil {
		return
	}

	var body KnowledgePayload
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	entry := body.entry()
	if field := entry.MissingFields(); field != "" {
		RespondError(c, fmt.Errorf("%w: %s", knowledge.ErrMissingField, field).Error(), http.StatusBadRequest)
		return
	}

	if err := s.Knowledge.Create(c.Request.Context(), &entry); err != nil {
		s.logger().Error("knowledge: create failed", zap.Error(err))
		RespondError(c, "Failed to add knowledge", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, entry)
}

// POST /api/knowledge/bulk
func CreateKnowledgeBulk(c *gin.Context) {
	s := services(c)
	if s == nil {
		return
	}

	var body BulkKnowledgePayload
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	entries := make([]models.KnowledgeEntry, 0, len(body.Entries))
	for _, p := range body.Entries {
		entries = append(entries, p.entry())
	}

	n, err := s.Knowledge.CreateBatch(c.Request.Context(), entries)
	if err != nil {
		s.logger().Error("knowledge: bulk create failed", zap.Error(err))
		RespondError(c, "Failed to add bulk knowledge", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"success": true, "count": n})
}

// DELETE /api/knowledge/:id
func DeleteKnowledge(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	s := services(c)
	if s == nil {
		return
	}

	err := s.Knowledge.Delete(c.Request.Context(), id)
	if errors.Is(err, knowledge.ErrNotFound) {
		RespondError(c, "Knowledge not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger().Error("knowledge: delete failed", zap.String("id", id), zap.Error(err))
		RespondError(c, "Failed to delete knowledge", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"success": true})
}
