package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"docchat/internal/api"
	"docchat/internal/config"
	"docchat/internal/logging"
	"docchat/internal/service/extract"
	"docchat/internal/service/llm"
)

func main() {
	cfgPath := os.Getenv("DOCCHAT_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewLogger()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	client, err := llm.NewClient(context.Background(), cfg.Provider, logger)
	if err != nil {
		logger.Fatalf("init model client: %v", err)
	}
	extractor := extract.NewPDFExtractor(cfg.BasicConfig.StagingDir, logger)
	handler := api.NewHandler(client, extractor, logger, cfg.BasicConfig.MaxUploadBytes)

	router := gin.Default()
	if err := router.SetTrustedProxies(nil); err != nil {
		logger.Fatalf("configure proxies: %v", err)
	}
	router.Use(api.CORSMiddleware(cfg.BasicConfig.AllowedOrigins))
	handler.RegisterRoutes(router)

	logger.Infow("starting server",
		"addr", cfg.BasicConfig.ServerAddress,
		"provider", cfg.Provider.Name,
		"model", cfg.Provider.Model,
	)
	if err := router.Run(cfg.BasicConfig.ServerAddress); err != nil {
		logger.Fatalf("server stopped: %v", err)
	}
}
