package classification

import (
	"crowdwatch-worker-go/internal/config"
	"crowdwatch-worker-go/internal/models"
)

// MovementAdjuster applies the panic and orderly evacuation rules to a base level
type MovementAdjuster struct {
	panicRule   config.PanicRule
	orderlyRule config.OrderlyRule
}

func NewMovementAdjuster(rules config.ElevationRules) *MovementAdjuster {
	return &MovementAdjuster{panicRule: rules.PanicDetection, orderlyRule: rules.OrderlyEvacuation}
}

// Adjust evaluates panic detection first. A panic elevation that clamps back to the base
// level does not count and falls through to the orderly check, which only confirms the
// base level. The result is never below base.
func (m *MovementAdjuster) Adjust(base models.Level, speed, variance float64) (models.Level, models.ElevationReason) {
	if m.panicRule.Enabled &&
		speed < *m.panicRule.SpeedThreshold && variance > *m.panicRule.VarianceThreshold {
		elevated := base.Elevate(*m.panicRule.ElevationAmount)
		if elevated != base {
			return elevated, models.ReasonPanic
		}
	}

	if m.orderlyRule.Enabled &&
		speed > *m.orderlyRule.SpeedThreshold && variance < *m.orderlyRule.VarianceThreshold {
		return base, models.ReasonOrderly
	}

	return base, models.ReasonNone
}
