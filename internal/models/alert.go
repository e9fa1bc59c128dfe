package models

import (
	"time"
)

// AlertCooldownKey identifies the cooldown ledger entry an alert belongs to.
// Severity is not part of the key.
type AlertCooldownKey struct {
	Level  Level
	ZoneID string
}

// String returns a string representation of the cooldown key
func (k AlertCooldownKey) String() string {
	return k.Level.String() + "|" + k.ZoneID
}

// AudioStepKind distinguishes tones from silences in an audio pattern
type AudioStepKind string

const (
	AudioStepBeep  AudioStepKind = "beep"
	AudioStepPause AudioStepKind = "pause"
)

// AudioStep is one element of a beep/pause pattern
type AudioStep struct {
	Kind     AudioStepKind `json:"kind"`
	Duration float64       `json:"duration_seconds"`
}

// VisualDescriptor is the fixed visual presentation of a level
type VisualDescriptor struct {
	Color     string  `json:"color"`
	Flash     bool    `json:"flash"`
	FlashRate float64 `json:"flash_rate_hz"`
	Icon      string  `json:"icon"`
	Message   string  `json:"message"`
}

// AudioDescriptor is the fixed audio presentation of a level
type AudioDescriptor struct {
	Enabled   bool        `json:"enabled"`
	Frequency float64     `json:"frequency_hz"`
	Duration  float64     `json:"duration_seconds"`
	Beeps     int         `json:"beeps"`
	Pattern   []AudioStep `json:"pattern"`
}

// Alert is a single triggered alert instance
type Alert struct {
	ID        string           `json:"id"`
	Key       string           `json:"alert_key"`
	Timestamp time.Time        `json:"timestamp"`
	Level     Level            `json:"level"`
	ZoneID    string           `json:"zone_id"`
	Severity  float64          `json:"severity"`
	Priority  int              `json:"priority"`
	Visual    VisualDescriptor `json:"visual"`
	Audio     AudioDescriptor  `json:"audio"`
}

// Age is the time elapsed since the alert was created
func (a Alert) Age(now time.Time) time.Duration {
	return now.Sub(a.Timestamp)
}

// VisualState is the rendered visual alert at a point in time
type VisualState struct {
	Color    string  `json:"color"`
	Flash    bool    `json:"flash"`
	FlashOn  bool    `json:"flash_on"`
	Icon     string  `json:"icon"`
	Message  string  `json:"message"`
	Level    Level   `json:"level"`
	ZoneID   string  `json:"zone_id"`
	Severity float64 `json:"severity"`
}

// AudioAlert is the playable audio description of an alert
type AudioAlert struct {
	Frequency float64     `json:"frequency_hz"`
	Duration  float64     `json:"duration_seconds"`
	Beeps     int         `json:"beeps"`
	Pattern   []AudioStep `json:"pattern"`
	Level     Level       `json:"level"`
}

// AlertSummary aggregates a list of alerts
type AlertSummary struct {
	TotalAlerts     int           `json:"total_alerts"`
	ByLevel         map[Level]int `json:"by_level"`
	HighestPriority *Alert        `json:"highest_priority,omitempty"`
	HighestSeverity float64       `json:"highest_severity"`
	ZonesAffected   int           `json:"zones_affected"`
}

// AlertStats are the lifetime counters of an alert manager
type AlertStats struct {
	TotalTriggered int           `json:"total_alerts_triggered"`
	ByLevel        map[Level]int `json:"alerts_by_level"`
	ActiveCount    int           `json:"active_alerts_count"`
	Cooldown       time.Duration `json:"-"`
	CooldownSecs   float64       `json:"cooldown_seconds"`
}

// SeverityIndicator is a display gauge for a severity score
type SeverityIndicator struct {
	Severity  float64 `json:"severity"`
	Color     string  `json:"color"`
	LevelText string  `json:"level_text"`
	BarFilled int     `json:"bar_filled"`
}

// MessagePublisher interface for publishing alerts
type MessagePublisher interface {
	Publish(subject string, data interface{}) error
}
