package alerting

import (
	"fmt"
	"math"
	"sort"
	"time"

	"crowdwatch-worker-go/internal/models"
)

const (
	flashOffColor = "#FFFFFF"
	allClearText  = "✓ All zones normal - No alerts"
	indicatorBar  = 50
)

// RenderVisual computes the visual state of an alert at now. The flash phase is a pure
// function of elapsed time: on for the first half of each 1/rate cycle.
func RenderVisual(alert models.Alert, now time.Time) models.VisualState {
	v := alert.Visual
	flashOn := true
	if v.Flash && v.FlashRate > 0 {
		elapsed := now.Sub(alert.Timestamp).Seconds()
		cycle := 1.0 / v.FlashRate
		flashOn = math.Mod(elapsed, cycle) < cycle/2
	}

	color := v.Color
	if v.Flash && !flashOn {
		color = flashOffColor
	}

	return models.VisualState{
		Color:    color,
		Flash:    v.Flash,
		FlashOn:  flashOn,
		Icon:     v.Icon,
		Message:  v.Message,
		Level:    alert.Level,
		ZoneID:   alert.ZoneID,
		Severity: alert.Severity,
	}
}

// AudioFor returns the playable audio for an alert, or nil when its level has audio disabled
func AudioFor(alert models.Alert) *models.AudioAlert {
	if !alert.Audio.Enabled {
		return nil
	}
	return &models.AudioAlert{
		Frequency: alert.Audio.Frequency,
		Duration:  alert.Audio.Duration,
		Beeps:     alert.Audio.Beeps,
		Pattern:   append([]models.AudioStep{}, alert.Audio.Pattern...),
		Level:     alert.Level,
	}
}

func priorityRank(level models.Level) int {
	switch level {
	case models.LevelEmergency:
		return 0
	case models.LevelCritical:
		return 1
	case models.LevelWarning:
		return 2
	default:
		return 99
	}
}

// PriorityOrder returns a copy of alerts ordered emergency, critical, warning, then anything
// else, with higher severity first inside each rank
func PriorityOrder(alerts []models.Alert) []models.Alert {
	out := make([]models.Alert, len(alerts))
	copy(out, alerts)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := priorityRank(out[i].Level), priorityRank(out[j].Level)
		if ri != rj {
			return ri < rj
		}
		return out[i].Severity > out[j].Severity
	})
	return out
}

// Summarize aggregates a list of alerts. HighestPriority is the first alert with the
// highest severity and is nil only for an empty list.
func Summarize(alerts []models.Alert) models.AlertSummary {
	summary := models.AlertSummary{
		TotalAlerts: len(alerts),
		ByLevel: map[models.Level]int{
			models.LevelEmergency: 0,
			models.LevelCritical:  0,
			models.LevelWarning:   0,
		},
	}

	zones := make(map[string]struct{})
	for i := range alerts {
		a := alerts[i]
		summary.ByLevel[a.Level]++
		zones[a.ZoneID] = struct{}{}
		if summary.HighestPriority == nil || a.Severity > summary.HighestSeverity {
			top := cloneAlert(a)
			summary.HighestPriority = &top
			summary.HighestSeverity = a.Severity
		}
	}
	summary.ZonesAffected = len(zones)
	return summary
}

// Banner formats a one-line banner from alerts already in display order
func Banner(alerts []models.Alert) string {
	if len(alerts) == 0 {
		return allClearText
	}
	top := alerts[0]
	banner := fmt.Sprintf("%s %s", top.Visual.Icon, top.Visual.Message)
	if len(alerts) > 1 {
		banner += fmt.Sprintf(" | +%d more alert(s)", len(alerts)-1)
	}
	return banner
}

// SeverityIndicator maps a severity score onto a five-band gauge
func SeverityIndicator(severity float64) models.SeverityIndicator {
	var color, text string
	switch {
	case severity < 20:
		color, text = "#00FF00", "LOW"
	case severity < 40:
		color, text = "#7FFF00", "MODERATE"
	case severity < 60:
		color, text = "#FFFF00", "ELEVATED"
	case severity < 80:
		color, text = "#FF8C00", "HIGH"
	default:
		color, text = "#FF0000", "CRITICAL"
	}
	return models.SeverityIndicator{
		Severity:  severity,
		Color:     color,
		LevelText: text,
		BarFilled: int(severity / 100 * indicatorBar),
	}
}
