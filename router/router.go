package router

import (
	"net/http"

	"valeai/config"
	"valeai/controllers"
	"valeai/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Initialize wires all routes and middlewares.
// gatherer may be nil, in which case /metrics is not exposed.
func Initialize(r *gin.Engine, cfg config.Configuration, svc *controllers.Services,
	gatherer prometheus.Gatherer, logger *zap.Logger) {

	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.Cors.AllowedOrigins))

	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	api.Use(Logger(logger))
	api.Use(controllers.SetServices(svc))

	api.GET("/health", controllers.Health)
	api.GET("/connectivity", controllers.Connectivity)

	// Knowledge base
	api.GET("/knowledge", controllers.GetKnowledge)
	api.GET("/knowledge/search", controllers.SearchKnowledge)
	api.POST("/knowledge", controllers.CreateKnowledge)
	api.POST("/knowledge/bulk", controllers.CreateKnowledgeBulk)
	api.DELETE("/knowledge/:id", controllers.DeleteKnowledge)
	api.POST("/gemini/cargar", controllers.LoadKnowledgePackage)

	// Chat
	api.POST("/chat", controllers.Chat)
	api.PATCH("/chat/:id/feedback", controllers.ChatFeedback)
	api.GET("/chat/sessions", controllers.GetChatSessions)
	api.GET("/chat/sessions/:id/messages", controllers.GetChatMessages)
	api.DELETE("/chat/sessions/:id", controllers.DeleteChatSession)

	// Files
	api.POST("/process-file", controllers.ProcessFile)
	api.GET("/processed-files", controllers.GetProcessedFiles)
	api.GET("/learning-stats", controllers.GetLearningStats)

	// Images
	api.POST("/generate-image", controllers.GenerateImage)
	api.GET("/generated-images", controllers.GetGeneratedImages)

	r.NoRoute(func(c *gin.Context) {
		controllers.RespondError(c, "not found", http.StatusNotFound)
	})

	logger.Info("routes initialized")
}
