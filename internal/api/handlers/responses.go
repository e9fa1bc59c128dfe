package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"crowdwatch-worker-go/internal/config"
)

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

type SuccessResponse struct {
	Message string `json:"message" example:"Alerts reset"`
}

// Clock returns the current time; handlers take it so tests can pin time
type Clock func() time.Time

// durationQuery reads a duration query parameter in the forms config.ParseDuration accepts
func durationQuery(c *gin.Context, key string, def time.Duration) (time.Duration, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	d, err := config.ParseDuration(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + key + ": " + err.Error()})
		return 0, false
	}
	return d, true
}
