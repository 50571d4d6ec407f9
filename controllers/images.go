package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"valeai/images"
)

type ImagePayload struct {
	Prompt       string `json:"prompt"`
	RelatedTopic string `json:"relatedTopic"`
}

// POST /api/generate-image
func GenerateImage(c *gin.Context) {
	s := services(c)
	if s == nil {
		return
	}

	var body ImagePayload
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.Prompt) == "" {
		RespondError(c, "prompt é obrigatório", http.StatusBadRequest)
		return
	}

	img, err := s.Images.Generate(c.Request.Context(), body.Prompt, body.RelatedTopic)
	switch {
	case errors.Is(err, images.ErrOffline):
		RespondError(c, "Se requiere conexión a Internet para generar imágenes", http.StatusServiceUnavailable)
		return
	case errors.Is(err, images.ErrPromptFailed):
		RespondError(c, "Error al procesar el prompt", http.StatusInternalServerError)
		return
	case err != nil:
		s.logger().Error("images: generate failed", zap.Error(err))
		RespondError(c, "Error en la generación de imagen", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{
		"success":        true,
		"imageId":        img.ID,
		"imageData":      img.ImageData,
		"enhancedPrompt": img.Prompt,
	})
}

// GET /api/generated-images
func GetGeneratedImages(c *gin.Context) {
	s := services(c)
	if s == nil {
		return
	}
	list, err := s.Images.List(c.Request.Context())
	if err != nil {
		s.logger().Error("images: list failed", zap.Error(err))
		RespondError(c, "Failed to fetch images", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, list)
}
