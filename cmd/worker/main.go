package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joshu-sajeev/vid2blog/internal/ai"
	"github.com/joshu-sajeev/vid2blog/internal/pipeline"
	"github.com/joshu-sajeev/vid2blog/internal/pool"
	"github.com/joshu-sajeev/vid2blog/internal/storage/postgres"
	"github.com/joshu-sajeev/vid2blog/internal/youtube"
	"github.com/sethvargo/go-envconfig"
)

type workerConfig struct {
	MaxWorkers    int           `env:"MAX_WORKERS,default=5"`
	LockDuration  time.Duration `env:"LOCK_DURATION,default=1m"`
	StageTimeout  time.Duration `env:"STAGE_TIMEOUT,default=2m"`
	YoutubeAPIKey string        `env:"YOUTUBE_API_KEY"`
	GeminiAPIKey  string        `env:"GEMINI_API_KEY"`
	OpenAIAPIKey  string        `env:"OPENAI_API_KEY"`
}

func main() {
	log.Println("Starting Worker...")

	ctx := context.Background()

	var cfg workerConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Fatal("Failed to load config:", err)
	}
	if cfg.MaxWorkers < 1 {
		cfg.MaxWorkers = 5
	}

	dbCfg, err := postgres.LoadConfigFromEnv(ctx)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := postgres.ConnectDB(ctx, dbCfg)
	if err != nil {
		log.Fatal("Connection failed:", err)
	}

	log.Println("SUCCESS! Database connected")

	blogRepo := postgres.NewBlogRepository(db)
	queueRepo := postgres.NewQueueRepository(db)

	pipe := pipeline.New(
		blogRepo,
		youtube.NewMetadataClient(cfg.YoutubeAPIKey),
		youtube.NewTranscriptClient(),
		ai.NewContentClient(cfg.GeminiAPIKey),
		ai.NewThumbnailClient(cfg.OpenAIAPIKey),
		cfg.StageTimeout,
	)

	workerPool := pool.NewWorkerPool(cfg.MaxWorkers, queueRepo, pipe, cfg.LockDuration)

	workerPool.Start()
	log.Println("Worker pool active. Press Ctrl+C to stop.")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	workerPool.Stop()
	log.Println("Shutdown complete.")
}
