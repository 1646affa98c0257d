package bootstrap

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"analyzer-backend/internal/aggregate"
	"analyzer-backend/internal/guidance"
	"analyzer-backend/internal/inference"
	"analyzer-backend/internal/llm"
	openai "analyzer-backend/internal/llm/openai"
	"analyzer-backend/internal/platforms/codechef"
	githubclient "analyzer-backend/internal/platforms/github"
	"analyzer-backend/internal/platforms/leetcode"
	"analyzer-backend/internal/resume"
	"analyzer-backend/internal/roleprediction"
	"analyzer-backend/internal/shared/config"
	"analyzer-backend/internal/shared/server"
	"analyzer-backend/internal/shared/storage/db"
	"analyzer-backend/internal/shared/storage/object"
	localstore "analyzer-backend/internal/shared/storage/object/local"
	s3store "analyzer-backend/internal/shared/storage/object/s3"
)

const platformCallTimeout = 10 * time.Second

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	AnalysesRepo     aggregate.Repo
	ResumeService    *resume.Service
	AggregateService *aggregate.Service
	Predictor        *roleprediction.Predictor
	GuidanceService  *guidance.Service

	AggregateHandler  *aggregate.Handler
	PredictionHandler *roleprediction.Handler
	GuidanceHandler   *guidance.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB := buildDB(ctx, cfg)

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	buildServices(app)

	app.Router = server.NewRouter(cfg, server.Handlers{
		Aggregate:  app.AggregateHandler,
		Prediction: app.PredictionHandler,
		Guidance:   app.GuidanceHandler,
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) *sql.DB {
	if cfg.DatabaseURL == "" {
		return nil
	}
	conn, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		log.Printf("failed to connect database, falling back to memory: %v", err)
		return nil
	}
	if err := db.RunMigrations(ctx, conn); err != nil {
		log.Printf("failed to run migrations, falling back to memory: %v", err)
		conn.Close()
		return nil
	}
	return conn
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	if cfg.ObjectStoreType == "s3" {
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	}
	return localstore.New(cfg.LocalStoreDir), nil
}

func buildServices(app *App) {
	cfg := app.Config

	if app.DB != nil {
		app.AnalysesRepo = &aggregate.PGRepo{DB: app.DB}
	} else {
		app.AnalysesRepo = aggregate.NewMemoryRepo()
	}

	app.ResumeService = resume.NewService(app.Store)

	app.AggregateService = &aggregate.Service{
		Resume:             app.ResumeService,
		GitHub:             githubclient.NewClient(platformCallTimeout),
		LeetCode:           leetcode.NewClient(platformCallTimeout),
		CodeChef:           codechef.NewClient(platformCallTimeout),
		DefaultGitHubToken: cfg.GitHubToken,
		Repo:               app.AnalysesRepo,
	}

	inferenceClient := inference.NewClient(cfg.HFAPIURL, cfg.HFAPIKey, cfg.HFTimeout)
	app.Predictor = roleprediction.NewPredictor(inferenceClient)

	var guidanceClient llm.Client
	if cfg.OpenAIAPIKey != "" {
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, 0)
		if err != nil {
			log.Printf("guidance LLM disabled: %v", err)
		} else {
			guidanceClient = client
		}
	}
	app.GuidanceService = guidance.NewService(guidanceClient)

	app.AggregateHandler = aggregate.NewHandler(app.AggregateService)
	app.PredictionHandler = roleprediction.NewHandler(app.Predictor)
	app.GuidanceHandler = guidance.NewHandler(app.GuidanceService)
}
