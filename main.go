package main

import (
	"os"

	"github.com/gin-gonic/gin"

	"github.com/gigavenvidere/ggv-oppgjor/client"
	"github.com/gigavenvidere/ggv-oppgjor/config"
	"github.com/gigavenvidere/ggv-oppgjor/handler"
	"github.com/gigavenvidere/ggv-oppgjor/logger"
	"github.com/gigavenvidere/ggv-oppgjor/service"
	"github.com/gigavenvidere/ggv-oppgjor/store"
)

func main() {
	// Initialize configuration
	cfg := config.LoadConfig()
	log := logger.New(cfg.AppEnv)

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Tesseract reads its data path from the environment as well
	os.Setenv("TESSDATA_PREFIX", cfg.TesseractDataPath)
	log.Info().Str("tessdata", cfg.TesseractDataPath).Str("language", cfg.OCRLanguage).Msg("tesseract configured")

	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath, cfg.OCRLanguage, log)
	defer tesseractClient.Close()

	reporter, err := client.NewIssueReporter(cfg.GitHubToken, cfg.GitHubRepository, log)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid issue reporter configuration")
	}
	if !reporter.Enabled() {
		log.Info().Msg("GITHUB_TOKEN not set, new organizations will not be reported")
	}

	kv, err := store.NewStore(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer kv.Close()
	log.Info().Str("path", kv.Path()).Msg("store opened")

	// Initialize service layer
	settlementService := service.NewSettlementService(
		service.NewPDFProcessor(),
		client.NewOCREngine(tesseractClient, cfg.PaddleOCRURL, log),
		store.NewMasterListStore(kv),
		reporter,
		cfg.MinTextLength,
		log,
	)

	// Initialize handler layer
	router := handler.NewRouter(
		handler.NewSettlementHandler(settlementService, cfg.MaxFileSize, log),
		handler.NewMasterListHandler(settlementService, log),
		log,
	)

	// Start server
	log.Info().Str("port", cfg.ServerPort).Msg("starting GGV settlement service")
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
