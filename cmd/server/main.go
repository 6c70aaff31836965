package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"LightAdmin/internal/config"
	"LightAdmin/internal/middleware"
	"LightAdmin/internal/repo"
	"LightAdmin/internal/server"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Debugw("Failed to sync logger", "error", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	sink, err := server.NewSink(cfg, sugar)
	if err != nil {
		sugar.Fatalw("failed to initialize light dispatcher", "error", err)
	}

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"DatabaseDSN", cfg.DatabaseDSN,
		"DevicesFile", cfg.DevicesFile,
		"MQTTBroker", cfg.MQTTBroker,
		"AccessTTL", cfg.AccessTTL,
	)

	if err := server.New(cfg, gormDB, sink, sugar).Run(ctx); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
