package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/futig/qagen/internal/builder"
	"go.uber.org/zap"
)

func main() {
	bot, logger, cleanup, err := builder.BuildTelegramBot()
	if err != nil {
		log.Fatal("Failed to build telegram bot:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Updates are handled outside the signal context so Stop can drain them.
	if err := bot.Start(context.Background()); err != nil {
		logger.Error("telegram bot failed to start", zap.Error(err))
		cleanup()
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("shutdown signal received, draining in-flight documents")

	if err := bot.Stop(); err != nil {
		logger.Warn("telegram bot stopped with pending work", zap.Error(err))
	}
	cleanup()
}
