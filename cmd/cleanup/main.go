package main

import (
	"context"
	"time"

	"campuscollab/internal/app"
	"campuscollab/internal/config"
	"campuscollab/internal/modules/notification"
	"campuscollab/internal/pkg/logger"

	"github.com/rs/zerolog/log"
)

// One-shot run of the notification cleanup, for deployments that schedule
// it outside the API process.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	l := logger.Setup(cfg.LogLevel, !cfg.IsProdLike())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	st, closeStore, err := app.OpenStore(ctx, cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("open store")
	}
	defer func() { _ = closeStore() }()

	deleted, err := notification.NewService(st, nil, l).Cleanup(ctx, cfg.Notifications.Retention)
	if err != nil {
		l.Error().Err(err).Msg("notification cleanup failed")
		return
	}
	l.Info().Int64("deleted", deleted).Dur("retention", cfg.Notifications.Retention).Msg("notification cleanup completed")
}
