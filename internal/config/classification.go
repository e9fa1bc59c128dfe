package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"crowdwatch-worker-go/internal/models"
)

// DefaultClassificationPath is the canonical classification document shipped with the worker
const DefaultClassificationPath = "config/classification.json"

const maxClassificationFileSize = 1 * 1024 * 1024 // 1MB

// LevelBand describes one level: its density band [DensityMin, DensityMax) and display metadata
type LevelBand struct {
	DensityMin     *float64 `json:"density_min" yaml:"density_min" validate:"required,gte=0"`
	DensityMax     *float64 `json:"density_max" yaml:"density_max" validate:"required,gt=0"`
	ColorHex       string   `json:"color_hex" yaml:"color_hex" validate:"required,hexcolor"`
	ColorName      string   `json:"color_name" yaml:"color_name" validate:"required"`
	Label          string   `json:"label,omitempty" yaml:"label,omitempty"`
	AlertLevel     string   `json:"alert_level" yaml:"alert_level" validate:"required"`
	RequiresAction *bool    `json:"requires_action" yaml:"requires_action" validate:"required"`
	Description    string   `json:"description" yaml:"description"`
}

type SpeedThresholds struct {
	Slow   *float64 `json:"slow,omitempty" yaml:"slow,omitempty" validate:"omitempty,gte=0"`
	Normal *float64 `json:"normal,omitempty" yaml:"normal,omitempty" validate:"omitempty,gte=0"`
	Fast   *float64 `json:"fast" yaml:"fast" validate:"required,gt=0"`
}

type VarianceThresholds struct {
	Low    *float64 `json:"low,omitempty" yaml:"low,omitempty" validate:"omitempty,gte=0"`
	Normal *float64 `json:"normal,omitempty" yaml:"normal,omitempty" validate:"omitempty,gte=0"`
	High   *float64 `json:"high,omitempty" yaml:"high,omitempty" validate:"omitempty,gte=0"`
	Panic  *float64 `json:"panic" yaml:"panic" validate:"required,gt=0"`
}

type MovementThresholds struct {
	Speed             SpeedThresholds    `json:"speed" yaml:"speed"`
	DirectionVariance VarianceThresholds `json:"direction_variance" yaml:"direction_variance"`
}

// SeverityWeights are expected to sum to 1; that is left to whoever writes the document
type SeverityWeights struct {
	Density  *float64 `json:"density_weight" yaml:"density_weight" validate:"required,gte=0,lte=1"`
	Speed    *float64 `json:"speed_weight" yaml:"speed_weight" validate:"required,gte=0,lte=1"`
	Variance *float64 `json:"variance_weight" yaml:"variance_weight" validate:"required,gte=0,lte=1"`
}

type PanicRule struct {
	Enabled           bool     `json:"enabled" yaml:"enabled"`
	SpeedThreshold    *float64 `json:"speed_threshold" yaml:"speed_threshold" validate:"omitempty,gte=0"`
	VarianceThreshold *float64 `json:"variance_threshold" yaml:"variance_threshold" validate:"omitempty,gte=0"`
	ElevationAmount   *int     `json:"elevation_amount" yaml:"elevation_amount" validate:"omitempty,gte=0"`
}

type OrderlyRule struct {
	Enabled           bool     `json:"enabled" yaml:"enabled"`
	SpeedThreshold    *float64 `json:"speed_threshold" yaml:"speed_threshold" validate:"omitempty,gte=0"`
	VarianceThreshold *float64 `json:"variance_threshold" yaml:"variance_threshold" validate:"omitempty,gte=0"`
}

type ElevationRules struct {
	PanicDetection    PanicRule   `json:"panic_detection" yaml:"panic_detection"`
	OrderlyEvacuation OrderlyRule `json:"orderly_evacuation" yaml:"orderly_evacuation"`
}

type CapacitySettings struct {
	AbsoluteMaxDensity *float64 `json:"absolute_max_density" yaml:"absolute_max_density" validate:"required,gt=0"`
	ZoneArea           float64  `json:"zone_area,omitempty" yaml:"zone_area,omitempty" validate:"gte=0"`
}

// Classification is the structured document that drives the classification engine
type Classification struct {
	Thresholds map[string]LevelBand `json:"classification_thresholds" yaml:"classification_thresholds" validate:"required,dive"`
	Movement   MovementThresholds   `json:"movement_thresholds" yaml:"movement_thresholds"`
	Weights    SeverityWeights      `json:"severity_weights" yaml:"severity_weights"`
	Elevation  ElevationRules       `json:"elevation_rules" yaml:"elevation_rules"`
	Capacity   CapacitySettings     `json:"capacity_settings" yaml:"capacity_settings"`
}

func (r ElevationRules) validateEnabled() error {
	if r.PanicDetection.Enabled {
		switch {
		case r.PanicDetection.SpeedThreshold == nil:
			return &models.ConfigError{Key: "elevation_rules.panic_detection.speed_threshold", Reason: "missing required value"}
		case r.PanicDetection.VarianceThreshold == nil:
			return &models.ConfigError{Key: "elevation_rules.panic_detection.variance_threshold", Reason: "missing required value"}
		case r.PanicDetection.ElevationAmount == nil:
			return &models.ConfigError{Key: "elevation_rules.panic_detection.elevation_amount", Reason: "missing required value"}
		}
	}
	if r.OrderlyEvacuation.Enabled {
		switch {
		case r.OrderlyEvacuation.SpeedThreshold == nil:
			return &models.ConfigError{Key: "elevation_rules.orderly_evacuation.speed_threshold", Reason: "missing required value"}
		case r.OrderlyEvacuation.VarianceThreshold == nil:
			return &models.ConfigError{Key: "elevation_rules.orderly_evacuation.variance_threshold", Reason: "missing required value"}
		}
	}
	return nil
}

// Band is a validated density band for one level
type Band struct {
	Level models.Level
	Min   float64
	Max   float64
}

// LoadClassification reads and validates a classification document.
// The format is chosen by extension: .json, .yaml or .yml.
func LoadClassification(path string) (*Classification, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, &models.ConfigError{Key: cleanPath, Reason: fmt.Sprintf("unsupported extension %q (want .json, .yaml or .yml)", ext)}
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, &models.ConfigError{Key: cleanPath, Reason: fmt.Sprintf("cannot stat file: %v", err)}
	}
	if fileInfo.Size() > maxClassificationFileSize {
		return nil, &models.ConfigError{Key: cleanPath, Reason: fmt.Sprintf("file too large: %d bytes (max %d)", fileInfo.Size(), maxClassificationFileSize)}
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, &models.ConfigError{Key: cleanPath, Reason: fmt.Sprintf("cannot read file: %v", err)}
	}

	return ParseClassification(data, strings.TrimPrefix(ext, "."))
}

// ParseClassification decodes a document in the given format ("json", "yaml" or "yml") and validates it
func ParseClassification(data []byte, format string) (*Classification, error) {
	cfg := &Classification{}
	switch format {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(cfg); err != nil {
			return nil, &models.ConfigError{Key: "document", Reason: fmt.Sprintf("invalid JSON: %v", err)}
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &models.ConfigError{Key: "document", Reason: fmt.Sprintf("invalid YAML: %v", err)}
		}
	default:
		return nil, &models.ConfigError{Key: "document", Reason: fmt.Sprintf("unsupported format %q", format)}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var classificationValidator = newClassificationValidator()

func newClassificationValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the document structurally. The first problem found is returned
// as a *models.ConfigError naming the offending key.
func (c *Classification) Validate() error {
	if c == nil {
		return &models.ConfigError{Key: "document", Reason: "no classification configuration loaded"}
	}

	if err := classificationValidator.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return configErrorFromField(verrs[0])
		}
		return &models.ConfigError{Key: "document", Reason: err.Error()}
	}

	if err := c.Elevation.validateEnabled(); err != nil {
		return err
	}

	for name := range c.Thresholds {
		if _, err := models.ParseLevel(name); err != nil {
			return &models.ConfigError{Key: "classification_thresholds." + name, Reason: "unknown level"}
		}
	}
	for _, level := range models.Levels() {
		if _, ok := c.Thresholds[level.String()]; !ok {
			return &models.ConfigError{Key: "classification_thresholds." + level.String(), Reason: "missing level"}
		}
	}

	bands := c.Bands()
	if bands[0].Min != 0 {
		return &models.ConfigError{
			Key:    "classification_thresholds." + bands[0].Level.String() + ".density_min",
			Reason: fmt.Sprintf("lowest band must start at 0, got %g", bands[0].Min),
		}
	}
	for i, b := range bands {
		if b.Min >= b.Max {
			return &models.ConfigError{
				Key:    "classification_thresholds." + b.Level.String() + ".density_max",
				Reason: fmt.Sprintf("density_max %g must exceed density_min %g", b.Max, b.Min),
			}
		}
		if i+1 < len(bands) && bands[i+1].Min != b.Max {
			next := bands[i+1]
			return &models.ConfigError{
				Key:    "classification_thresholds." + next.Level.String() + ".density_min",
				Reason: fmt.Sprintf("bands not contiguous: %s ends at %g but %s starts at %g", b.Level, b.Max, next.Level, next.Min),
			}
		}
	}

	return nil
}

// Bands returns the density bands ordered from safe to emergency.
// Only meaningful on a validated document.
func (c *Classification) Bands() []Band {
	bands := make([]Band, 0, models.LevelCount)
	for _, level := range models.Levels() {
		info, ok := c.Thresholds[level.String()]
		if !ok || info.DensityMin == nil || info.DensityMax == nil {
			continue
		}
		bands = append(bands, Band{Level: level, Min: *info.DensityMin, Max: *info.DensityMax})
	}
	return bands
}

// LevelInfo returns the display and action metadata for a level
func (c *Classification) LevelInfo(level models.Level) (LevelBand, bool) {
	info, ok := c.Thresholds[level.String()]
	return info, ok
}

// MustLoadDefaultClassification loads DefaultClassificationPath, searching the current
// directory and its parents. Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultClassification() *Classification {
	candidates := []string{
		DefaultClassificationPath,
		"../" + DefaultClassificationPath,
		"../../" + DefaultClassificationPath,          // from internal/config/
		"../../../" + DefaultClassificationPath,       // from internal/services/classification/
		"../../../../" + DefaultClassificationPath,    // deeper packages
		"../../../../../" + DefaultClassificationPath, // even deeper
	}
	var lastErr error
	for _, path := range candidates {
		cfg, err := LoadClassification(path)
		if err == nil {
			return cfg
		}
		lastErr = err
	}
	panic(fmt.Sprintf("cannot load %s - run tests from repository root: %v", DefaultClassificationPath, lastErr))
}

func configErrorFromField(fe validator.FieldError) *models.ConfigError {
	key := fe.Namespace()
	// Drop the root struct name: "Classification.severity_weights.density_weight"
	if idx := strings.Index(key, "."); idx >= 0 {
		key = key[idx+1:]
	}
	// Map keys render as "classification_thresholds[warning].density_min"
	key = strings.NewReplacer("[", ".", "]", "").Replace(key)

	reason := fmt.Sprintf("failed %q validation", fe.Tag())
	if fe.Param() != "" {
		reason = fmt.Sprintf("failed %q validation (%s)", fe.Tag(), fe.Param())
	}
	if fe.Tag() == "required" {
		reason = "missing required value"
	}
	return &models.ConfigError{Key: key, Reason: reason}
}
