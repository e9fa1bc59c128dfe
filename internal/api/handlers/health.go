package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	WorkerID  string
	Version   string
	Messaging func() bool
}

func NewHealthHandler(workerID, version string, messaging func() bool) *HealthHandler {
	return &HealthHandler{WorkerID: workerID, Version: version, Messaging: messaging}
}

type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	WorkerID  string `json:"worker_id" example:"worker-1"`
	Messaging string `json:"messaging" example:"connected"`
}

type WorkerInfoResponse struct {
	WorkerID     string   `json:"worker_id" example:"worker-1"`
	Status       string   `json:"status" example:"running"`
	Version      string   `json:"version" example:"1.0.0"`
	Capabilities []string `json:"capabilities"`
}

// @Summary Health check
// @Description Check if the worker is healthy and responsive
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	messaging := "disabled"
	if h.Messaging != nil {
		messaging = "disconnected"
		if h.Messaging() {
			messaging = "connected"
		}
	}
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		WorkerID:  h.WorkerID,
		Messaging: messaging,
	})
}

// @Summary Worker information
// @Description Get basic worker information and capabilities
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} WorkerInfoResponse
// @Router / [get]
func (h *HealthHandler) WorkerInfo(c *gin.Context) {
	c.JSON(http.StatusOK, WorkerInfoResponse{
		WorkerID: h.WorkerID,
		Status:   "running",
		Version:  h.Version,
		Capabilities: []string{
			"zone_classification",
			"alert_lifecycle",
			"exit_instructions",
		},
	})
}
