package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/uyouii/fuelprice-timeseries/app"
	"github.com/uyouii/fuelprice-timeseries/config"
	"github.com/uyouii/fuelprice-timeseries/utils"
	"go.uber.org/zap"
)

func main() {
	cfg := config.MustLoad()

	logger, err := utils.SetupLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic("cannot build logger: " + err.Error())
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, logger, cfg)
	if err != nil {
		logger.Fatal("app init failed", zap.Error(err))
	}

	go application.MustRun()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := application.Stop(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}

	logger.Info("fuelprice stopped")
}
