package worker

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"crowdwatch-worker-go/internal/config"
	"crowdwatch-worker-go/internal/logging"
	"crowdwatch-worker-go/internal/models"
	"crowdwatch-worker-go/internal/services/alerting"
	"crowdwatch-worker-go/internal/services/classification"
	"crowdwatch-worker-go/internal/services/instructions"
)

// BatchSource delivers zone batches from the message bus
type BatchSource interface {
	SubscribeZoneBatches(handler func(models.ZoneBatch)) (*nats.Subscription, error)
}

// Worker drives one classification engine, alert manager and instruction generator.
// The engine and manager are not synchronized themselves; every access goes through mu.
type Worker struct {
	cfg       *config.Config
	logger    zerolog.Logger
	publisher models.MessagePublisher

	mu           sync.Mutex
	engine       *classification.Engine
	alerts       *alerting.Manager
	instructions *instructions.Generator
	latest       *models.TickResult
	ticks        int64
	rejected     int64

	sub       *nats.Subscription
	startedAt time.Time
}

// New builds a worker from process config and a classification document. publisher may be
// nil, in which case nothing is published.
func New(cfg *config.Config, rules *config.Classification, publisher models.MessagePublisher) (*Worker, error) {
	engine, err := classification.NewEngine(rules, cfg.GridRows, cfg.GridCols)
	if err != nil {
		return nil, err
	}

	generator, err := instructions.NewGenerator(cfg.GridRows, cfg.GridCols, cfg.InstructionsMaxExits)
	if err != nil {
		return nil, fmt.Errorf("failed to create instruction generator: %w", err)
	}

	w := &Worker{
		cfg:          cfg,
		logger:       logging.NewServiceLogger(cfg, "worker"),
		publisher:    publisher,
		engine:       engine,
		alerts:       alerting.NewManager(cfg.AlertsCooldown),
		instructions: generator,
		startedAt:    time.Now(),
	}

	w.logger.Info().
		Int("grid_rows", cfg.GridRows).
		Int("grid_cols", cfg.GridCols).
		Dur("cooldown", cfg.AlertsCooldown).
		Dur("active_window", cfg.AlertsActiveWindow).
		Dur("max_age", cfg.AlertsMaxAge).
		Bool("publishing", publisher != nil).
		Msg("Crowd worker initialized")

	return w, nil
}

// ProcessBatch runs one tick: classify, trigger, evict, window, instruct, publish.
// Rejected records are reported through a *models.BatchError while the rest of the
// tick still completes and is returned.
func (w *Worker) ProcessBatch(batch models.ZoneBatch, now time.Time) (models.TickResult, error) {
	w.mu.Lock()

	records, err := w.engine.ClassifyAll(batch.Zones)
	var batchErr *models.BatchError
	if err != nil && !errors.As(err, &batchErr) {
		w.mu.Unlock()
		return models.TickResult{}, err
	}

	triggered := w.alerts.ProcessRecords(records, now)
	evicted := w.alerts.Evict(w.cfg.AlertsMaxAge, now)

	result := models.TickResult{
		Tick:         batch.Tick,
		ProcessedAt:  now,
		Records:      records,
		Summary:      classification.Summarize(records),
		Triggered:    triggered,
		Active:       w.alerts.Active(w.cfg.AlertsActiveWindow, now),
		Instructions: w.instructions.GenerateBatch(records),
	}
	if batchErr != nil {
		result.Rejected = batchErr.Rejected
		w.rejected += int64(len(batchErr.Rejected))
	}

	w.latest = &result
	w.ticks++
	w.mu.Unlock()

	tickLog := logging.WithTick(w.logger, batch.Tick)
	event := tickLog.Info()
	if batchErr != nil {
		event = tickLog.Warn().Str("rejections", batchErr.Error())
	}
	event.
		Int("zones", len(records)).
		Int("rejected", len(result.Rejected)).
		Int("triggered", len(triggered)).
		Int("active", len(result.Active)).
		Int("evicted", evicted).
		Int("requires_action", result.Summary.ZonesRequiringAction).
		Msg("Tick processed")

	w.publish(result)

	if batchErr != nil {
		return result, batchErr
	}
	return result, nil
}

func (w *Worker) publish(result models.TickResult) {
	if w.publisher == nil {
		return
	}

	for _, alert := range result.Triggered {
		if err := w.publisher.Publish(w.cfg.AlertsSubject, alert); err != nil {
			zoneLog := logging.WithZone(w.logger, alert.ZoneID)
			zoneLog.Error().
				Err(err).
				Str("level", alert.Level.String()).
				Msg("Failed to publish alert")
		}
	}

	priority := instructions.PriorityInstructions(result.Instructions)
	if len(priority) == 0 {
		return
	}
	payload := InstructionBroadcast{
		Tick:         result.Tick,
		Summary:      instructions.Summarize(result.Instructions),
		Instructions: priority,
	}
	if err := w.publisher.Publish(w.cfg.InstructionsSubject, payload); err != nil {
		w.logger.Error().Err(err).Int64("tick", result.Tick).Msg("Failed to publish instructions")
	}
}

// InstructionBroadcast is the message published for each tick with actionable instructions
type InstructionBroadcast struct {
	Tick         int64                     `json:"tick"`
	Summary      models.InstructionSummary `json:"summary"`
	Instructions []models.Instruction      `json:"instructions"`
}

// ClassifyZone classifies a single zone without touching alert state
func (w *Worker) ClassifyZone(z models.ZoneMetrics) (models.ClassificationRecord, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rec, inErr := w.engine.ClassifyZone(z)
	if inErr != nil {
		return models.ClassificationRecord{}, inErr
	}
	return rec, nil
}

// Latest returns the most recent tick result
func (w *Worker) Latest() (models.TickResult, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.latest == nil {
		return models.TickResult{}, false
	}
	return *w.latest, true
}

func (w *Worker) Rules() *config.Classification {
	return w.engine.Rules()
}

func (w *Worker) ActiveAlerts(maxAge time.Duration, now time.Time) []models.Alert {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.alerts.Active(maxAge, now)
}

func (w *Worker) AlertHistory() []models.Alert {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.alerts.History()
}

func (w *Worker) AlertStats() models.AlertStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.alerts.Stats()
}

func (w *Worker) FindAlert(id string) (models.Alert, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.alerts.FindActive(id)
}

// EvictAlerts drops active alerts older than maxAge
func (w *Worker) EvictAlerts(maxAge time.Duration, now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.alerts.Evict(maxAge, now)
}

// ResetAlerts clears active alerts and cooldowns; history and counters are kept
func (w *Worker) ResetAlerts() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.alerts.Reset()
}

// ExportInstructions writes the latest tick's instructions under the export directory
// and returns the file path
func (w *Worker) ExportInstructions() (string, error) {
	latest, ok := w.Latest()
	if !ok {
		return "", errors.New("no tick processed yet")
	}
	path := filepath.Join(w.cfg.InstructionsExportDir, fmt.Sprintf("instructions_tick_%d.json", latest.Tick))
	if err := instructions.ExportFile(path, latest.Instructions); err != nil {
		return "", err
	}
	return path, nil
}

// Status is a point-in-time view of the worker's counters
type Status struct {
	WorkerID       string        `json:"worker_id"`
	TicksProcessed int64         `json:"ticks_processed"`
	RecordsDropped int64         `json:"records_rejected"`
	LatestTick     *int64        `json:"latest_tick,omitempty"`
	Subscribed     bool          `json:"subscribed"`
	Uptime         time.Duration `json:"-"`
	UptimeSeconds  float64       `json:"uptime_seconds"`
}

func (w *Worker) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()

	uptime := time.Since(w.startedAt)
	s := Status{
		WorkerID:       w.cfg.WorkerID,
		TicksProcessed: w.ticks,
		RecordsDropped: w.rejected,
		Subscribed:     w.sub != nil,
		Uptime:         uptime,
		UptimeSeconds:  uptime.Seconds(),
	}
	if w.latest != nil {
		tick := w.latest.Tick
		s.LatestTick = &tick
	}
	return s
}

// Start subscribes to zone batches from source. Each delivered batch is processed at
// its arrival time.
func (w *Worker) Start(ctx context.Context, source BatchSource) error {
	if source == nil {
		w.logger.Info().Msg("No batch source configured, accepting batches over HTTP only")
		return nil
	}

	sub, err := source.SubscribeZoneBatches(func(batch models.ZoneBatch) {
		if ctx.Err() != nil {
			return
		}
		// Rejections are already logged per tick
		_, _ = w.ProcessBatch(batch, time.Now())
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to zone batches: %w", err)
	}

	w.mu.Lock()
	w.sub = sub
	w.mu.Unlock()

	w.logger.Info().Str("subject", w.cfg.ZonesSubject).Str("queue", w.cfg.ZonesQueue).Msg("Subscribed to zone batches")
	return nil
}

// Shutdown stops consuming batches
func (w *Worker) Shutdown(ctx context.Context) error {
	w.mu.Lock()
	sub := w.sub
	w.sub = nil
	w.mu.Unlock()

	if sub != nil {
		if err := sub.Drain(); err != nil {
			w.logger.Warn().Err(err).Msg("Failed to drain zone subscription")
			return err
		}
	}
	w.logger.Info().Msg("Crowd worker shutdown")
	return nil
}
