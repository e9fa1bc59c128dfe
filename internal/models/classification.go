package models

// ElevationReason tags why the resolved level differs from, or was confirmed against, the base level
type ElevationReason string

const (
	ReasonNone    ElevationReason = ""
	ReasonPanic   ElevationReason = "Panic indicators detected (slow movement + chaos)"
	ReasonOrderly ElevationReason = "Orderly evacuation detected"
)

// ClassificationRecord is the immutable result of classifying one zone
type ClassificationRecord struct {
	ZoneID          string          `json:"zone_id"`
	Row             int             `json:"row"`
	Col             int             `json:"col"`
	Level           Level           `json:"level"`
	BaseLevel       Level           `json:"base_level"`
	ColorHex        string          `json:"color"`
	ColorName       string          `json:"color_name"`
	Label           string          `json:"label"`
	AlertLevel      string          `json:"alert_level"`
	Description     string          `json:"description"`
	SeverityScore   float64         `json:"severity"`
	RequiresAction  bool            `json:"requires_action"`
	Elevated        bool            `json:"elevated"`
	ElevationReason ElevationReason `json:"elevation_reason,omitempty"`
	Density         float64         `json:"density"`
	Speed           *float64        `json:"speed,omitempty"`
	Variance        *float64        `json:"direction_variance,omitempty"`
}

// ClassificationSummary aggregates a set of classification records
type ClassificationSummary struct {
	TotalZones           int               `json:"total_zones"`
	LevelCounts          map[Level]int     `json:"level_counts"`
	LevelPercentages     map[Level]float64 `json:"level_percentages"`
	AverageSeverity      float64           `json:"average_severity"`
	MaxSeverity          float64           `json:"max_severity"`
	ZonesRequiringAction int               `json:"zones_requiring_action"`
	ElevatedZones        int               `json:"elevated_zones"`
}
