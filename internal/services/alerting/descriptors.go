package alerting

import (
	"crowdwatch-worker-go/internal/models"
)

type levelDescriptor struct {
	visual models.VisualDescriptor
	audio  models.AudioDescriptor
}

func beep(seconds float64) models.AudioStep {
	return models.AudioStep{Kind: models.AudioStepBeep, Duration: seconds}
}

func pause(seconds float64) models.AudioStep {
	return models.AudioStep{Kind: models.AudioStepPause, Duration: seconds}
}

// Fixed per-level presentation. Audio is off below warning.
var descriptors = [models.LevelCount]levelDescriptor{
	models.LevelSafe: {
		visual: models.VisualDescriptor{Color: "#00FF00", Icon: "✓", Message: "Normal Operations"},
		audio:  models.AudioDescriptor{Pattern: []models.AudioStep{}},
	},
	models.LevelModerate: {
		visual: models.VisualDescriptor{Color: "#7FFF00", Icon: "⚠", Message: "Increased Density - Monitor"},
		audio:  models.AudioDescriptor{Pattern: []models.AudioStep{}},
	},
	models.LevelWarning: {
		visual: models.VisualDescriptor{Color: "#FFFF00", Flash: true, FlashRate: 1.0, Icon: "⚠️", Message: "HIGH DENSITY WARNING"},
		audio: models.AudioDescriptor{
			Enabled: true, Frequency: 800, Duration: 0.3, Beeps: 1,
			Pattern: []models.AudioStep{beep(0.3)},
		},
	},
	models.LevelCritical: {
		visual: models.VisualDescriptor{Color: "#FF8C00", Flash: true, FlashRate: 2.0, Icon: "🔴", Message: "CRITICAL CONGESTION"},
		audio: models.AudioDescriptor{
			Enabled: true, Frequency: 1000, Duration: 0.5, Beeps: 2,
			Pattern: []models.AudioStep{beep(0.5), pause(0.2), beep(0.5)},
		},
	},
	models.LevelEmergency: {
		visual: models.VisualDescriptor{Color: "#FF0000", Flash: true, FlashRate: 3.0, Icon: "🚨", Message: "EMERGENCY - EVACUATE NOW"},
		audio: models.AudioDescriptor{
			Enabled: true, Frequency: 1200, Duration: 0.7, Beeps: 3,
			Pattern: []models.AudioStep{beep(0.7), pause(0.2), beep(0.7), pause(0.2), beep(0.7)},
		},
	},
}

// Visual returns the visual descriptor for a level
func Visual(level models.Level) models.VisualDescriptor {
	if !level.Valid() {
		return models.VisualDescriptor{}
	}
	return descriptors[level].visual
}

// Audio returns a copy of the audio descriptor for a level
func Audio(level models.Level) models.AudioDescriptor {
	if !level.Valid() {
		return models.AudioDescriptor{}
	}
	a := descriptors[level].audio
	a.Pattern = append([]models.AudioStep{}, a.Pattern...)
	return a
}
