package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"crowdwatch-worker-go/internal/logging"
	"crowdwatch-worker-go/internal/models"
	"crowdwatch-worker-go/internal/services/alerting"
	"crowdwatch-worker-go/internal/worker"
)

type AlertHandler struct {
	worker       *worker.Worker
	now          Clock
	activeWindow time.Duration
	maxAge       time.Duration
}

func NewAlertHandler(w *worker.Worker, now Clock, activeWindow, maxAge time.Duration) *AlertHandler {
	return &AlertHandler{worker: w, now: now, activeWindow: activeWindow, maxAge: maxAge}
}

type EvictResponse struct {
	Evicted   int     `json:"evicted"`
	MaxAgeSec float64 `json:"max_age_seconds"`
}

type BannerResponse struct {
	Banner    string                    `json:"banner"`
	Indicator *models.SeverityIndicator `json:"indicator,omitempty"`
}

func (h *AlertHandler) active(c *gin.Context) ([]models.Alert, bool) {
	maxAge, ok := durationQuery(c, "max_age", h.activeWindow)
	if !ok {
		return nil, false
	}
	return h.worker.ActiveAlerts(maxAge, h.now()), true
}

// Active godoc
// @Summary Active alerts
// @Description Active alerts no older than max_age (seconds, default the active window), highest priority first
// @Tags alerts
// @Produce json
// @Param max_age query number false "Maximum alert age in seconds"
// @Success 200 {array} models.Alert
// @Failure 400 {object} ErrorResponse
// @Router /alerts/active [get]
func (h *AlertHandler) Active(c *gin.Context) {
	alerts, ok := h.active(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// Priority godoc
// @Summary Alerts in priority order
// @Description Active alerts ranked emergency, critical, warning with higher severity first
// @Tags alerts
// @Produce json
// @Param max_age query number false "Maximum alert age in seconds"
// @Success 200 {array} models.Alert
// @Router /alerts/priority [get]
func (h *AlertHandler) Priority(c *gin.Context) {
	alerts, ok := h.active(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, alerting.PriorityOrder(alerts))
}

// History godoc
// @Summary Alert history
// @Description Every alert ever triggered, oldest first
// @Tags alerts
// @Produce json
// @Success 200 {array} models.Alert
// @Router /alerts/history [get]
func (h *AlertHandler) History(c *gin.Context) {
	c.JSON(http.StatusOK, h.worker.AlertHistory())
}

// Summary godoc
// @Summary Alert summary
// @Description Aggregate view of the active alerts
// @Tags alerts
// @Produce json
// @Param max_age query number false "Maximum alert age in seconds"
// @Success 200 {object} models.AlertSummary
// @Router /alerts/summary [get]
func (h *AlertHandler) Summary(c *gin.Context) {
	alerts, ok := h.active(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, alerting.Summarize(alerts))
}

// Stats godoc
// @Summary Alert counters
// @Tags alerts
// @Produce json
// @Success 200 {object} models.AlertStats
// @Router /alerts/stats [get]
func (h *AlertHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.worker.AlertStats())
}

// Banner godoc
// @Summary Alert banner
// @Description One-line banner for the top active alert plus a severity gauge for it
// @Tags alerts
// @Produce json
// @Success 200 {object} BannerResponse
// @Router /alerts/banner [get]
func (h *AlertHandler) Banner(c *gin.Context) {
	alerts, ok := h.active(c)
	if !ok {
		return
	}
	ordered := alerting.PriorityOrder(alerts)
	resp := BannerResponse{Banner: alerting.Banner(ordered)}
	if len(ordered) > 0 {
		indicator := alerting.SeverityIndicator(ordered[0].Severity)
		resp.Indicator = &indicator
	}
	c.JSON(http.StatusOK, resp)
}

// Visual godoc
// @Summary Render alert visual
// @Description Visual state of an active alert at the current time, including flash phase
// @Tags alerts
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} models.VisualState
// @Failure 404 {object} ErrorResponse
// @Router /alerts/{id}/visual [get]
func (h *AlertHandler) Visual(c *gin.Context) {
	alert, ok := h.worker.FindAlert(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "alert not found"})
		return
	}
	c.JSON(http.StatusOK, alerting.RenderVisual(alert, h.now()))
}

// Audio godoc
// @Summary Alert audio
// @Description Playable tone pattern for an active alert; 204 when the level has no audio
// @Tags alerts
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} models.AudioAlert
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /alerts/{id}/audio [get]
func (h *AlertHandler) Audio(c *gin.Context) {
	alert, ok := h.worker.FindAlert(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "alert not found"})
		return
	}
	audio := alerting.AudioFor(alert)
	if audio == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, audio)
}

// Evict godoc
// @Summary Evict old alerts
// @Description Drop active alerts older than max_age seconds (default the configured max age). History is kept.
// @Tags alerts
// @Produce json
// @Param max_age query number false "Maximum alert age in seconds"
// @Success 200 {object} EvictResponse
// @Failure 400 {object} ErrorResponse
// @Router /alerts/evict [post]
func (h *AlertHandler) Evict(c *gin.Context) {
	maxAge, ok := durationQuery(c, "max_age", h.maxAge)
	if !ok {
		return
	}
	evicted := h.worker.EvictAlerts(maxAge, h.now())
	logging.Info(c).Int("evicted", evicted).Dur("max_age", maxAge).Msg("Alerts evicted")
	c.JSON(http.StatusOK, EvictResponse{Evicted: evicted, MaxAgeSec: maxAge.Seconds()})
}

// Reset godoc
// @Summary Reset alerts
// @Description Clear active alerts and cooldowns. History and counters are kept.
// @Tags alerts
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /alerts/reset [post]
func (h *AlertHandler) Reset(c *gin.Context) {
	h.worker.ResetAlerts()
	logging.Info(c).Msg("Alerts reset")
	c.JSON(http.StatusOK, SuccessResponse{Message: "Active alerts and cooldowns cleared"})
}
