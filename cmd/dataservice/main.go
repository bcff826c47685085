package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agri-curator/internal/config"
	"agri-curator/internal/dataservice"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	logger := newLogger(cfg.Debug)
	defer logger.Sync()

	store, err := dataservice.OpenSQLite(cfg.DBPath)
	if err != nil {
		logger.Fatal("open document store", zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true
	dataservice.NewHandler(store, logger).Register(e)

	logger.Info("data service listening",
		zap.String("port", cfg.Port), zap.String("db", cfg.DBPath))
	if err := e.Start(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(debug bool) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if debug {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	return logger
}
