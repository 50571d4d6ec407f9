package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// POST /api/gemini/cargar
func LoadKnowledgePackage(c *gin.Context) {
	s := services(c)
	if s == nil {
		return
	}
	res, err := s.Seeder.Bootstrap(c.Request.Context())
	if err != nil {
		s.logger().Error("gemini: bootstrap failed", zap.Error(err))
		RespondError(c, "Failed to load Gemini data", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"success": true, "message": res.Message, "inserted": res.Inserted})
}
