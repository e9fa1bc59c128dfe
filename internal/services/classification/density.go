package classification

import (
	"crowdwatch-worker-go/internal/config"
	"crowdwatch-worker-go/internal/models"
)

// DensityClassifier assigns a base level from density alone.
// It holds no thresholds of its own; bands come from the classification document.
type DensityClassifier struct {
	bands []config.Band
}

func NewDensityClassifier(bands []config.Band) *DensityClassifier {
	return &DensityClassifier{bands: append([]config.Band(nil), bands...)}
}

// Classify returns the first band with min <= density < max, or emergency when the
// density is at or above every upper bound
func (c *DensityClassifier) Classify(density float64) models.Level {
	for _, b := range c.bands {
		if b.Min <= density && density < b.Max {
			return b.Level
		}
	}
	return models.LevelEmergency
}

// Bands returns a copy of the ordered density bands
func (c *DensityClassifier) Bands() []config.Band {
	return append([]config.Band(nil), c.bands...)
}
