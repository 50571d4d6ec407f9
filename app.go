package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"valeai/chat"
	"valeai/config"
	"valeai/controllers"
	dbpkg "valeai/db"
	"valeai/images"
	"valeai/ingest"
	"valeai/knowledge"
	"valeai/logger"
	"valeai/metrics"
	"valeai/router"
	"valeai/tools"
)

type app struct {
	cfg      config.Configuration
	logger   *zap.Logger
	db       *gorm.DB
	registry *prometheus.Registry
	services *controllers.Services
	gemini   *tools.GeminiClient
}

func setup(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogPath)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	db, err := dbpkg.Connect(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	var repo knowledge.Repository
	if cfg.Knowledge.Backend == config.KNOWLEDGE_BACKEND_LOCAL {
		local, err := knowledge.NewLocalRepository(cfg.Knowledge.LocalPath)
		if err != nil {
			db.Close()
			return nil, err
		}
		repo = local
		log.Info("knowledge: using local file", zap.String("path", cfg.Knowledge.LocalPath))
	} else {
		repo = knowledge.NewGormRepository(db)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	prober := tools.NewHTTPProber(cfg.Connectivity.ProbeURL, cfg.ProbeTimeout())

	// sem chave o app funciona só offline
	var model tools.Model
	gemini := tools.NewGeminiClient(cfg.Gemini.ApiKey, cfg.Gemini.Model, cfg.Gemini.Endpoint)
	if gemini.Configured() {
		model = gemini
	} else {
		log.Warn("gemini: GEMINI_API_KEY not set, running offline only")
	}

	sessions := chat.NewSessionStore(db)
	svc := &controllers.Services{
		DB:        db,
		Knowledge: repo,
		Seeder:    knowledge.NewSeeder(repo, model, prober, log),
		Resolver: chat.NewResolver(repo, sessions, model, prober, m, log, chat.Options{
			MaxContextEntries: cfg.Chat.MaxContextEntries,
			MaxEntryChars:     cfg.Chat.MaxEntryChars,
			PersistIntents:    cfg.Chat.PersistIntents,
		}),
		Sessions: sessions,
		Ingest: ingest.NewPipeline(db, repo, ingest.NewExtractor(log),
			ingest.NewAnalyzer(model, prober, m, log), m, log),
		Images:      images.NewGenerator(db, model, prober, m, log),
		Prober:      prober,
		Logger:      log,
		UploadLimit: cfg.UploadLimitBytes(),
	}

	return &app{cfg: cfg, logger: log, db: db, registry: registry, services: svc, gemini: gemini}, nil
}

func (a *app) close() {
	if err := a.gemini.Close(); err != nil {
		a.logger.Warn("gemini: close failed", zap.Error(err))
	}
	a.db.Close()
	_ = a.logger.Sync()
}

func serve(configPath string) error {
	a, err := setup(configPath)
	if err != nil {
		return err
	}
	defer a.close()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	router.Initialize(r, a.cfg, a.services, a.registry, a.logger)

	srv := &http.Server{
		Addr:              ":" + a.cfg.ApiPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		a.logger.Info("ValeAI listening", zap.String("addr", srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func seed(cmd *cobra.Command, configPath string) error {
	a, err := setup(configPath)
	if err != nil {
		return err
	}
	defer a.close()

	res, err := a.services.Seeder.Bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%d nuevas, %d ya existían)\n", res.Message, res.Inserted, res.Skipped)
	return nil
}
