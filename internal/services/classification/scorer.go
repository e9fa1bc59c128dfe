package classification

import (
	"math"

	"crowdwatch-worker-go/internal/config"
)

// Scorer maps zone metrics onto a continuous severity score in [0, 100]
type Scorer struct {
	maxDensity    float64
	fastSpeed     float64
	panicVariance float64

	densityWeight  float64
	speedWeight    float64
	varianceWeight float64
}

// NewScorer reads its ceilings and weights from a validated classification document
func NewScorer(cfg *config.Classification) *Scorer {
	return &Scorer{
		maxDensity:     *cfg.Capacity.AbsoluteMaxDensity,
		fastSpeed:      *cfg.Movement.Speed.Fast,
		panicVariance:  *cfg.Movement.DirectionVariance.Panic,
		densityWeight:  *cfg.Weights.Density,
		speedWeight:    *cfg.Weights.Speed,
		varianceWeight: *cfg.Weights.Variance,
	}
}

// Score returns the density component alone unless both speed and variance are present,
// in which case the three components are weighted together. Slower movement scores higher.
func (s *Scorer) Score(density float64, speed, variance *float64) float64 {
	densityScore := math.Min(100, density/s.maxDensity*100)

	if speed == nil || variance == nil {
		return clampScore(densityScore)
	}

	speedScore := (1 - math.Min(*speed, s.fastSpeed)/s.fastSpeed) * 100
	varianceScore := math.Min(100, *variance/s.panicVariance*100)

	return clampScore(densityScore*s.densityWeight +
		speedScore*s.speedWeight +
		varianceScore*s.varianceWeight)
}

func clampScore(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
