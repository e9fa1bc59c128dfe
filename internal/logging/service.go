package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"crowdwatch-worker-go/internal/config"
)

func NewServiceLogger(cfg *config.Config, service string) zerolog.Logger {
	return log.With().Str("worker_id", cfg.WorkerID).Str("service", service).Logger()
}

func WithZone(base zerolog.Logger, zoneID string) zerolog.Logger {
	return base.With().Str("zone_id", zoneID).Logger()
}

func WithTick(base zerolog.Logger, tick int64) zerolog.Logger {
	return base.With().Int64("tick", tick).Logger()
}
