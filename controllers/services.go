package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"go.uber.org/zap"

	"valeai/chat"
	"valeai/images"
	"valeai/ingest"
	"valeai/knowledge"
	"valeai/tools"
)

// Services são as dependências dos handlers, montadas uma vez no main.
type Services struct {
	DB        *gorm.DB
	Knowledge knowledge.Repository
	Seeder    *knowledge.Seeder
	Resolver  *chat.Resolver
	Sessions  *chat.SessionStore
	Ingest    *ingest.Pipeline
	Images    *images.Generator
	Prober    tools.Prober
	Logger    *zap.Logger

	UploadLimit int64
}

const servicesKey = "services"

// Use este middleware no setup do gin
func SetServices(s *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(servicesKey, s)
		c.Next()
	}
}

func ServicesInstance(c *gin.Context) *Services {
	v, ok := c.Get(servicesKey)
	if !ok {
		return nil
	}
	s, _ := v.(*Services)
	return s
}

// services responds 500 and returns nil when the middleware was not installed.
func services(c *gin.Context) *Services {
	s := ServicesInstance(c)
	if s == nil {
		RespondError(c, "serviços não configurados no contexto", http.StatusInternalServerError)
		return nil
	}
	return s
}

func (s *Services) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
