package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"hireview-backend/internal/analyzer"
	"hireview-backend/internal/jobs"
	"hireview-backend/internal/llm/gemini"
	"hireview-backend/internal/results"
	"hireview-backend/internal/screening"
	"hireview-backend/internal/shared/config"
	"hireview-backend/internal/shared/server"
	"hireview-backend/internal/shared/storage/db"
	"hireview-backend/internal/shared/telemetry"
)

// App holds the shared dependencies of a running instance.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	ResultsRepo      results.Repo
	JobsRepo         jobs.Repo
	ResultsService   *results.Service
	ScreeningService *screening.Service
	Analyzer         *analyzer.Analyzer
}

// Build prepares dependencies and wires the router. DATABASE_URL selects the
// Postgres repositories; without it state lives in JSON files under DataDir.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	telemetry.Init(cfg.Env)
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB}
	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           cfg,
		ScreeningHandler: screening.NewHandler(app.ScreeningService, app.JobsRepo, cfg.MaxUploadBytes, cfg.MaxBatchFiles),
		ResultsHandler:   results.NewHandler(app.ResultsService),
		JobsHandler:      jobs.NewHandler(app.JobsRepo),
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		telemetry.Info("bootstrap.storage", map[string]any{"backend": "file", "dir": cfg.DataDir})
		return nil, nil
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Error("bootstrap.db.connect_failed", map[string]any{"error": err.Error()})
			return nil, nil
		}
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	telemetry.Info("bootstrap.storage", map[string]any{"backend": "postgres"})
	return sqlDB, nil
}

func buildServices(app *App) error {
	if app.DB != nil {
		app.ResultsRepo = &results.PGRepo{DB: app.DB}
		app.JobsRepo = &jobs.PGRepo{DB: app.DB}
	} else {
		if err := os.MkdirAll(app.Config.DataDir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
		resultsRepo, err := results.NewFileRepo(filepath.Join(app.Config.DataDir, "results.json"))
		if err != nil {
			return fmt.Errorf("open results store: %w", err)
		}
		jobsRepo, err := jobs.NewFileRepo(filepath.Join(app.Config.DataDir, "job.json"))
		if err != nil {
			return fmt.Errorf("open job store: %w", err)
		}
		app.ResultsRepo = resultsRepo
		app.JobsRepo = jobsRepo
	}

	provider := gemini.NewProvider(app.Config.GeminiAPIKey, app.Config.GeminiModel)
	app.Analyzer = analyzer.New(provider)
	app.ResultsService = results.NewService(app.ResultsRepo)
	app.ScreeningService = screening.NewService(app.Analyzer, app.ResultsService)
	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
