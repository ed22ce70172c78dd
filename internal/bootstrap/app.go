package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"mission-backend/internal/analysis"
	"mission-backend/internal/astro"
	"mission-backend/internal/llm"
	openai "mission-backend/internal/llm/openai"
	"mission-backend/internal/missions"
	"mission-backend/internal/services/health"
	"mission-backend/internal/shared/config"
	"mission-backend/internal/shared/server"
	"mission-backend/internal/shared/storage/db"
	"mission-backend/internal/shared/storage/object"
	localstore "mission-backend/internal/shared/storage/object/local"
	s3store "mission-backend/internal/shared/storage/object/s3"
	"mission-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	DB             *sql.DB
	Archive        object.Store
	LLM            llm.Client
	MissionsRepo   missions.Repo
	MissionService *missions.Service
	MissionHandler *missions.Handler
	Health         *health.Service
}

// Build prepares dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	telemetry.SetLevel(cfg.LogLevel)
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	archive, err := buildArchive(ctx, cfg)
	if err != nil {
		return nil, err
	}

	llmClient, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Archive: archive,
		LLM:     llmClient,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         app.Config,
		MissionHandler: app.MissionHandler,
		Health:         app.Health,
	})
	return app, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.DefaultServerOptions().WithPool(cfg.DBPool))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildArchive(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ArchiveStore {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("ARCHIVE_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "none":
		return nil, nil
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	if cfg.LLMProvider != "openai" {
		return llm.PlaceholderClient{}, nil
	}
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.llm_not_configured", map[string]any{"reason": "OPENAI_API_KEY empty"})
			return llm.PlaceholderClient{}, nil
		}
		return nil, fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
	}
	client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
	if err != nil {
		return nil, err
	}
	client.SetTimeout(cfg.OpenAITimeout)
	return client, nil
}

func buildServices(app *App) {
	var repo missions.Repo
	var pinger health.Pinger
	if app.DB != nil {
		repo = &missions.PGRepo{DB: app.DB}
		pinger = app.DB
	} else {
		repo = missions.NewMemoryRepo()
	}

	svc := &missions.Service{
		Repo:         repo,
		Reference:    astro.NewProvider(app.Config.NASAAPIURL, app.Config.NASAAPIKey, app.Config.NASATimeout),
		Analysis:     analysis.NewProvider(app.LLM),
		Archive:      app.Archive,
		HistoryLimit: app.Config.HistoryLimit,
	}

	app.MissionsRepo = repo
	app.MissionService = svc
	app.MissionHandler = missions.NewHandler(svc, nil)
	app.Health = health.NewService(pinger, app.Config.NASAAPIURL, app.LLM.Model())
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
