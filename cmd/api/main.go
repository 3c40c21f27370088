package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/vid2blog/internal/blog"
	"github.com/joshu-sajeev/vid2blog/internal/storage/postgres"
	"github.com/joshu-sajeev/vid2blog/middleware"
	"github.com/sethvargo/go-envconfig"
)

type apiConfig struct {
	Port string `env:"PORT,default=8080"`
}

func main() {
	log.Println("Starting API...")

	ctx := context.Background()

	var apiCfg apiConfig
	if err := envconfig.Process(ctx, &apiCfg); err != nil {
		log.Fatal("Failed to load config:", err)
	}

	dbCfg, err := postgres.LoadConfigFromEnv(ctx)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := postgres.ConnectDB(ctx, dbCfg)
	if err != nil {
		log.Fatal("Connection failed:", err)
	}

	if err := postgres.Migrate(db); err != nil {
		log.Fatal("Migration failed:", err)
	}

	blogRepo := postgres.NewBlogRepository(db)
	queueRepo := postgres.NewQueueRepository(db)
	service := blog.NewBlogService(blogRepo, queueRepo)
	handler := blog.NewBlogHandler(service)

	r := gin.Default()
	r.Use(middleware.ErrorHandler())

	api := r.Group("/api")
	api.POST("/blogs", handler.Convert)
	api.GET("/blogs", handler.List)
	api.GET("/blogs/:id", handler.Get)
	api.GET("/blogs/:id/status", handler.Status)

	log.Printf("Listening on :%s", apiCfg.Port)
	if err := r.Run(":" + apiCfg.Port); err != nil {
		log.Fatal("Server failed:", err)
	}
}
