package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"crowdwatch-worker-go/internal/worker"
)

// SystemHandler handles system-related endpoints
type SystemHandler struct {
	worker *worker.Worker
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(w *worker.Worker) *SystemHandler {
	return &SystemHandler{worker: w}
}

// @Summary Get system stats
// @Description Get runtime statistics and tick counters
// @Tags system
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /system/stats [get]
func (h *SystemHandler) GetStats(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"worker":     h.worker.Status(),
			"memory_mb":  m.Alloc / 1024 / 1024,
			"cpu_cores":  runtime.NumCPU(),
			"goroutines": runtime.NumGoroutine(),
			"go_version": runtime.Version(),
		},
		"timestamp": time.Now().Unix(),
	})
}
