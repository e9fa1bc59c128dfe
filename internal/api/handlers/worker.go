package handlers

import (
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"crowdwatch-worker-go/internal/config"
	"crowdwatch-worker-go/internal/logging"
)

type WorkerHandler struct {
	cfg *config.Config
}

func NewWorkerHandler(cfg *config.Config) *WorkerHandler {
	return &WorkerHandler{cfg: cfg}
}

type WorkerDetailsResponse struct {
	WorkerID    string       `json:"worker_id"`
	Version     string       `json:"version"`
	Environment string       `json:"environment"`
	Port        int          `json:"port"`
	StartTime   time.Time    `json:"start_time"`
	Config      WorkerConfig `json:"config"`
}

type WorkerConfig struct {
	ClassificationConfig string  `json:"classification_config"`
	GridRows             int     `json:"grid_rows"`
	GridCols             int     `json:"grid_cols"`
	CooldownSeconds      float64 `json:"alert_cooldown_seconds"`
	ActiveWindowSeconds  float64 `json:"alert_active_window_seconds"`
	MaxAgeSeconds        float64 `json:"alert_max_age_seconds"`
	MaxExits             int     `json:"instruction_max_exits"`
	MessagingEnabled     bool    `json:"messaging_enabled"`
	ZonesSubject         string  `json:"zones_subject"`
	AlertsSubject        string  `json:"alerts_subject"`
	InstructionsSubject  string  `json:"instructions_subject"`
}

type ShutdownRequest struct {
	Force bool `json:"force,omitempty"`
}

type ShutdownResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

var startTime = time.Now()

// GetInfo godoc
// @Summary Get worker information
// @Description Get the worker's effective configuration
// @Tags worker
// @Accept json
// @Produce json
// @Success 200 {object} WorkerDetailsResponse
// @Router /worker/info [get]
func (h *WorkerHandler) GetInfo(c *gin.Context) {
	c.JSON(http.StatusOK, WorkerDetailsResponse{
		WorkerID:    h.cfg.WorkerID,
		Version:     h.cfg.Version,
		Environment: h.cfg.Environment,
		Port:        h.cfg.Port,
		StartTime:   startTime,
		Config: WorkerConfig{
			ClassificationConfig: h.cfg.ClassificationConfigPath,
			GridRows:             h.cfg.GridRows,
			GridCols:             h.cfg.GridCols,
			CooldownSeconds:      h.cfg.AlertsCooldown.Seconds(),
			ActiveWindowSeconds:  h.cfg.AlertsActiveWindow.Seconds(),
			MaxAgeSeconds:        h.cfg.AlertsMaxAge.Seconds(),
			MaxExits:             h.cfg.InstructionsMaxExits,
			MessagingEnabled:     h.cfg.MessagingEnabled,
			ZonesSubject:         h.cfg.ZonesSubject,
			AlertsSubject:        h.cfg.AlertsSubject,
			InstructionsSubject:  h.cfg.InstructionsSubject,
		},
	})
}

// Shutdown godoc
// @Summary Shutdown worker
// @Description Gracefully shutdown the worker service
// @Tags worker
// @Accept json
// @Produce json
// @Param shutdown body ShutdownRequest false "Shutdown options"
// @Success 200 {object} ShutdownResponse
// @Router /worker/shutdown [post]
func (h *WorkerHandler) Shutdown(c *gin.Context) {
	var req ShutdownRequest
	_ = c.ShouldBindJSON(&req) // Optional body

	logging.Warn(c).Bool("force", req.Force).Msg("Shutdown requested over API")

	c.JSON(http.StatusOK, ShutdownResponse{
		Status:    "shutting_down",
		Message:   "Worker shutdown initiated",
		Timestamp: time.Now(),
	})

	// Initiate shutdown in a goroutine to allow response to be sent
	go func() {
		time.Sleep(100 * time.Millisecond)
		if req.Force {
			os.Exit(0)
		}
		process, _ := os.FindProcess(os.Getpid())
		_ = process.Signal(syscall.SIGTERM)
	}()
}
