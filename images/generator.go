// Package images renders educational illustrations for a topic and keeps
// a history of them.
package images

import (
	"context"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"go.uber.org/zap"

	"valeai/metrics"
	"valeai/models"
	"valeai/tools"
)

var (
	ErrOffline      = errors.New("image generation requires internet")
	ErrPromptFailed = errors.New("prompt enhancement failed")
)

const HISTORY_LIMIT = 50

var palette = []string{"#4F46E5", "#7C3AED", "#EC4899", "#10B981", "#F59E0B"}

type Generator struct {
	db      *gorm.DB
	model   tools.Model
	prober  tools.Prober
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewGenerator(db *gorm.DB, model tools.Model, prober tools.Prober, m *metrics.Metrics, logger *zap.Logger) *Generator {
	return &Generator{db: db, model: model, prober: prober, metrics: m, logger: logger}
}

// Generate enhances the prompt with the model, renders the SVG and stores it.
func (g *Generator) Generate(ctx context.Context, prompt, relatedTopic string) (*models.GeneratedImage, error) {
	if g.model == nil || !g.prober.IsOnline(ctx) {
		return nil, ErrOffline
	}

	done := g.metrics.ModelTimer("image")
	enhanced, err := g.model.GenerateText(ctx, EnhancePrompt(prompt), nil)
	done()
	if err != nil && !errors.Is(err, tools.ErrEmptyModelResponse) {
		g.metrics.ModelErrorInc("image")
		g.logger.Warn("images: prompt enhancement failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPromptFailed, err)
	}
	if strings.TrimSpace(enhanced) == "" {
		enhanced = prompt
	}

	image := models.GeneratedImage{
		ID:        uuid.NewString(),
		Prompt:    enhanced,
		ImageData: "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(RenderSVG(prompt, relatedTopic))),
		CreatedAt: time.Now(),
		Size:      models.GENERATED_IMAGE_SIZE,
	}
	if relatedTopic != "" {
		image.RelatedTopic = &relatedTopic
	}

	if err := g.db.Create(&image).Error; err != nil {
		return nil, fmt.Errorf("save generated image: %w", err)
	}
	g.metrics.ImageGeneratedInc()
	return &image, nil
}

// List returns the most recent images first, at most 50.
func (g *Generator) List(ctx context.Context) ([]models.GeneratedImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	images := make([]models.GeneratedImage, 0)
	if err := g.db.Order("created_at desc").Limit(HISTORY_LIMIT).Find(&images).Error; err != nil {
		return nil, fmt.Errorf("list generated images: %w", err)
	}
	return images, nil
}

func EnhancePrompt(prompt string) string {
	return fmt.Sprintf("Crea un prompt detallado en inglés para generar una imagen educativa sobre: \"%s\". "+
		"El prompt debe ser descriptivo, claro y apropiado para un contexto académico. "+
		"Devuelve SOLO el prompt mejorado, sin explicaciones adicionales.", prompt)
}

// RenderSVG draws the 1024x1024 placeholder card for a topic.
func RenderSVG(topic, relatedTopic string) string {
	subtitle := "Imagen educativa"
	if relatedTopic != "" {
		subtitle = tools.Truncate(relatedTopic, 40, "")
	}
	color := tools.RandomChoice(palette)

	return fmt.Sprintf(`<svg width="1024" height="1024" xmlns="http://www.w3.org/2000/svg">
  <defs>
    <linearGradient id="grad1" x1="0%%" y1="0%%" x2="100%%" y2="100%%">
      <stop offset="0%%" style="stop-color:%[1]s;stop-opacity:0.8" />
      <stop offset="100%%" style="stop-color:%[1]s;stop-opacity:0.3" />
    </linearGradient>
  </defs>
  <rect width="1024" height="1024" fill="url(#grad1)"/>
  <circle cx="512" cy="300" r="150" fill="white" opacity="0.2"/>
  <circle cx="300" cy="600" r="100" fill="white" opacity="0.15"/>
  <circle cx="750" cy="650" r="120" fill="white" opacity="0.18"/>
  <text x="512" y="480" font-family="Arial, sans-serif" font-size="48" font-weight="bold" fill="white" text-anchor="middle">%[2]s</text>
  <text x="512" y="540" font-family="Arial, sans-serif" font-size="24" fill="white" opacity="0.9" text-anchor="middle">%[3]s</text>
  <path d="M 412 600 L 512 650 L 612 600 L 612 700 L 512 750 L 412 700 Z" fill="white" opacity="0.3" stroke="white" stroke-width="2"/>
  <circle cx="512" cy="650" r="15" fill="white"/>
  <text x="512" y="850" font-family="Arial, sans-serif" font-size="18" fill="white" opacity="0.7" text-anchor="middle">Generado por ValeAI</text>
</svg>
`, color, escape(tools.Truncate(topic, 30, "")), escape(subtitle))
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
