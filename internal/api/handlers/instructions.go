package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"crowdwatch-worker-go/internal/logging"
	"crowdwatch-worker-go/internal/services/instructions"
	"crowdwatch-worker-go/internal/worker"
)

type InstructionHandler struct {
	worker *worker.Worker
}

func NewInstructionHandler(w *worker.Worker) *InstructionHandler {
	return &InstructionHandler{worker: w}
}

type ExportResponse struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// List godoc
// @Summary Instructions
// @Description Instructions for every zone in the latest tick. With display=true each is rendered as a text line.
// @Tags instructions
// @Produce json
// @Param display query bool false "Render display lines"
// @Success 200 {array} models.Instruction
// @Router /instructions [get]
func (h *InstructionHandler) List(c *gin.Context) {
	latest, _ := h.worker.Latest()
	if c.Query("display") == "true" {
		lines := make([]string, 0, len(latest.Instructions))
		for _, inst := range latest.Instructions {
			lines = append(lines, instructions.FormatDisplay(inst))
		}
		c.JSON(http.StatusOK, lines)
		return
	}
	if latest.Instructions == nil {
		c.JSON(http.StatusOK, []struct{}{})
		return
	}
	c.JSON(http.StatusOK, latest.Instructions)
}

// Priority godoc
// @Summary Priority instructions
// @Description EMERGENCY, CRITICAL and HIGH instructions, most urgent first
// @Tags instructions
// @Produce json
// @Success 200 {array} models.Instruction
// @Router /instructions/priority [get]
func (h *InstructionHandler) Priority(c *gin.Context) {
	latest, _ := h.worker.Latest()
	c.JSON(http.StatusOK, instructions.PriorityInstructions(latest.Instructions))
}

// Summary godoc
// @Summary Instruction summary
// @Tags instructions
// @Produce json
// @Success 200 {object} models.InstructionSummary
// @Router /instructions/summary [get]
func (h *InstructionHandler) Summary(c *gin.Context) {
	latest, _ := h.worker.Latest()
	c.JSON(http.StatusOK, instructions.Summarize(latest.Instructions))
}

// Export godoc
// @Summary Download instructions
// @Description The latest tick's instructions as an indented JSON document
// @Tags instructions
// @Produce json
// @Success 200 {array} models.Instruction
// @Router /instructions/export [get]
func (h *InstructionHandler) Export(c *gin.Context) {
	latest, _ := h.worker.Latest()
	c.Header("Content-Type", "application/json; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=instructions_tick_%d.json", latest.Tick))
	c.Status(http.StatusOK)
	if err := instructions.Export(c.Writer, latest.Instructions); err != nil {
		logging.Error(c).Err(err).Msg("Failed to stream instructions")
	}
}

// ExportFile godoc
// @Summary Export instructions to disk
// @Description Write the latest tick's instructions into the worker's export directory
// @Tags instructions
// @Produce json
// @Success 200 {object} ExportResponse
// @Failure 409 {object} ErrorResponse
// @Router /instructions/export [post]
func (h *InstructionHandler) ExportFile(c *gin.Context) {
	latest, ok := h.worker.Latest()
	if !ok {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "no tick processed yet"})
		return
	}
	path, err := h.worker.ExportInstructions()
	if err != nil {
		logging.Error(c).Err(err).Msg("Failed to export instructions")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, ExportResponse{Path: path, Count: len(latest.Instructions)})
}
