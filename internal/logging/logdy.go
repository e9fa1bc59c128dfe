package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/logdyhq/logdy-core/logdy"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"crowdwatch-worker-go/internal/config"
)

// logdyWriter forwards zerolog JSON lines to Logdy as structured fields so the UI can
// filter on zone_id, tick and level. Lines that are not JSON go through as plain text.
type logdyWriter struct {
	ui       logdy.Logdy
	workerID string
	minLevel zerolog.Level
}

func newLogdyWriter(ui logdy.Logdy, workerID string, minLevel zerolog.Level) *logdyWriter {
	return &logdyWriter{ui: ui, workerID: workerID, minLevel: minLevel}
}

func (w *logdyWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

func (w *logdyWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level != zerolog.NoLevel && level < w.minLevel {
		return len(p), nil
	}

	var fields logdy.Fields
	if err := json.Unmarshal(p, &fields); err != nil {
		if err := w.ui.LogString(string(bytes.TrimRight(p, "\n"))); err != nil {
			return 0, err
		}
		return len(p), nil
	}
	if _, ok := fields["worker_id"]; !ok && w.workerID != "" {
		fields["worker_id"] = w.workerID
	}
	if err := w.ui.Log(fields); err != nil {
		return 0, err
	}
	return len(p), nil
}

// StartLogdy starts the embedded Logdy web UI and returns a writer to tee logs into it.
// LOG_LEVEL also bounds what reaches the UI.
func StartLogdy(cfg *config.Config) (zerolog.LevelWriter, error) {
	minLevel, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		minLevel = zerolog.InfoLevel
	}

	port := strconv.Itoa(cfg.LogdyPort)
	ui := logdy.InitializeLogdy(logdy.Config{
		ServerIp:   cfg.LogdyHost,
		ServerPort: port,
	}, nil)
	if ui == nil {
		return nil, fmt.Errorf("logdy failed to start on %s:%s", cfg.LogdyHost, port)
	}

	log.Info().Str("url", fmt.Sprintf("http://%s:%s", cfg.LogdyHost, port)).Msg("Logdy UI available")
	return newLogdyWriter(ui, cfg.WorkerID, minLevel), nil
}
