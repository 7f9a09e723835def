package main

import (
	"flag"

	"go.uber.org/zap"

	"github.com/agrochain/agrochain-bridge/internal/app"
	"github.com/agrochain/agrochain-bridge/internal/config"
	"github.com/agrochain/agrochain-bridge/pkg/logger"
)

func main() {
	configPath := flag.String("config", config.GetEnvString("CONFIG_PATH", "config/config.yaml"), "config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: cfg.Service.Name,
	}); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	logger.Info("starting service",
		zap.String("service", cfg.Service.Name),
		zap.String("env", cfg.Service.Env),
		zap.Int("http_port", cfg.Service.HTTPPort),
	)

	application, err := app.NewApp(cfg)
	if err != nil {
		logger.Fatal("failed to create app", zap.Error(err))
	}

	if err := application.Run(); err != nil {
		logger.Fatal("app run error", zap.Error(err))
	}

	logger.Info("service stopped")
}
