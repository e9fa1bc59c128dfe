package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"crowdwatch-worker-go/internal/logging"
	"crowdwatch-worker-go/internal/models"
	"crowdwatch-worker-go/internal/services/classification"
	"crowdwatch-worker-go/internal/worker"
)

type ZoneHandler struct {
	worker *worker.Worker
	now    Clock
}

func NewZoneHandler(w *worker.Worker, now Clock) *ZoneHandler {
	return &ZoneHandler{worker: w, now: now}
}

// ClassifyBatch godoc
// @Summary Classify a zone batch
// @Description Run one tick over a batch of zone readings. Invalid records are rejected individually and listed in the response.
// @Tags zones
// @Accept json
// @Produce json
// @Param batch body models.ZoneBatch true "Zone batch"
// @Success 200 {object} models.TickResult
// @Failure 400 {object} ErrorResponse
// @Router /zones/classify [post]
func (h *ZoneHandler) ClassifyBatch(c *gin.Context) {
	var batch models.ZoneBatch
	if err := c.ShouldBindJSON(&batch); err != nil {
		logging.Warn(c).Err(err).Msg("Invalid zone batch body")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid zone batch: " + err.Error()})
		return
	}

	result, err := h.worker.ProcessBatch(batch, h.now())
	var batchErr *models.BatchError
	if err != nil && !errors.As(err, &batchErr) {
		logging.Error(c).Err(err).Int64("tick", batch.Tick).Msg("Tick failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if batchErr != nil {
		logging.Warn(c).Int64("tick", batch.Tick).Int("rejected", len(batchErr.Rejected)).Msg("Zone batch partially rejected")
	}

	c.JSON(http.StatusOK, result)
}

// ClassifySingle godoc
// @Summary Classify one zone
// @Description Classify a single zone reading without triggering alerts
// @Tags zones
// @Accept json
// @Produce json
// @Param zone body models.ZoneMetrics true "Zone reading"
// @Success 200 {object} models.ClassificationRecord
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} models.InputError
// @Router /zones/classify/single [post]
func (h *ZoneHandler) ClassifySingle(c *gin.Context) {
	var zone models.ZoneMetrics
	if err := c.ShouldBindJSON(&zone); err != nil {
		logging.Warn(c).Err(err).Msg("Invalid zone record body")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid zone record: " + err.Error()})
		return
	}

	record, err := h.worker.ClassifyZone(zone)
	if err != nil {
		var inErr *models.InputError
		if errors.As(err, &inErr) {
			c.JSON(http.StatusUnprocessableEntity, inErr)
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, record)
}

// Latest godoc
// @Summary Latest tick
// @Description The most recent tick result
// @Tags zones
// @Produce json
// @Success 200 {object} models.TickResult
// @Failure 404 {object} ErrorResponse
// @Router /zones/latest [get]
func (h *ZoneHandler) Latest(c *gin.Context) {
	latest, ok := h.worker.Latest()
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no tick processed yet"})
		return
	}
	c.JSON(http.StatusOK, latest)
}

// Critical godoc
// @Summary Critical zones
// @Description Zones at critical or emergency in the latest tick, most severe first
// @Tags zones
// @Produce json
// @Success 200 {array} models.ClassificationRecord
// @Router /zones/critical [get]
func (h *ZoneHandler) Critical(c *gin.Context) {
	latest, _ := h.worker.Latest()
	c.JSON(http.StatusOK, classification.CriticalZones(latest.Records))
}

// Rules godoc
// @Summary Classification rules
// @Description The loaded classification document
// @Tags zones
// @Produce json
// @Success 200 {object} config.Classification
// @Router /classification/rules [get]
func (h *ZoneHandler) Rules(c *gin.Context) {
	c.JSON(http.StatusOK, h.worker.Rules())
}
