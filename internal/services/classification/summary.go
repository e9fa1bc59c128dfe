package classification

import (
	"crowdwatch-worker-go/internal/models"
)

// Summarize aggregates records. Every level appears in the counts, and an empty
// input yields an all-zero summary.
func Summarize(records []models.ClassificationRecord) models.ClassificationSummary {
	summary := models.ClassificationSummary{
		TotalZones:       len(records),
		LevelCounts:      make(map[models.Level]int, models.LevelCount),
		LevelPercentages: make(map[models.Level]float64, models.LevelCount),
	}
	for _, level := range models.Levels() {
		summary.LevelCounts[level] = 0
		summary.LevelPercentages[level] = 0
	}
	if len(records) == 0 {
		return summary
	}

	var total float64
	for _, r := range records {
		summary.LevelCounts[r.Level]++
		total += r.SeverityScore
		if r.SeverityScore > summary.MaxSeverity {
			summary.MaxSeverity = r.SeverityScore
		}
		if r.RequiresAction {
			summary.ZonesRequiringAction++
		}
		if r.Elevated {
			summary.ElevatedZones++
		}
	}

	n := float64(len(records))
	summary.AverageSeverity = total / n
	for level, count := range summary.LevelCounts {
		summary.LevelPercentages[level] = float64(count) / n * 100
	}
	return summary
}
