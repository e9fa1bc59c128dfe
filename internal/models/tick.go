package models

import "time"

// TickResult is everything the worker derived from one zone batch
type TickResult struct {
	Tick         int64                  `json:"tick"`
	ProcessedAt  time.Time              `json:"processed_at"`
	Records      []ClassificationRecord `json:"records"`
	Summary      ClassificationSummary  `json:"summary"`
	Triggered    []Alert                `json:"triggered_alerts"`
	Active       []Alert                `json:"active_alerts"`
	Instructions []Instruction          `json:"instructions"`
	Rejected     []InputError           `json:"rejected,omitempty"`
}
