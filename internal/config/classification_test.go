package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdwatch-worker-go/internal/models"
)

func defaultDocument(t *testing.T) map[string]any {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", DefaultClassificationPath))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func parseMutated(t *testing.T, mutate func(doc map[string]any)) (*Classification, error) {
	t.Helper()
	doc := defaultDocument(t)
	mutate(doc)
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return ParseClassification(data, "json")
}

func section(doc map[string]any, path ...string) map[string]any {
	cur := doc
	for _, p := range path {
		cur = cur[p].(map[string]any)
	}
	return cur
}

func requireConfigError(t *testing.T, err error, key string) {
	t.Helper()
	require.Error(t, err)
	var cfgErr *models.ConfigError
	require.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %T: %v", err, err)
	assert.Equal(t, key, cfgErr.Key)
}

func TestDefaultClassificationLoads(t *testing.T) {
	cfg := MustLoadDefaultClassification()

	bands := cfg.Bands()
	require.Len(t, bands, models.LevelCount)
	assert.Equal(t, 0.0, bands[0].Min)
	for i := 0; i+1 < len(bands); i++ {
		assert.Equal(t, bands[i].Level.Next(), bands[i+1].Level)
		assert.Equal(t, bands[i].Max, bands[i+1].Min, "band %s must end where %s starts", bands[i].Level, bands[i+1].Level)
	}

	info, ok := cfg.LevelInfo(models.LevelEmergency)
	require.True(t, ok)
	assert.True(t, *info.RequiresAction)
	assert.Equal(t, "#FF0000", info.ColorHex)

	assert.Equal(t, 10.0, *cfg.Capacity.AbsoluteMaxDensity)
	assert.Equal(t, 2, *cfg.Elevation.PanicDetection.ElevationAmount)
}

func TestLoadClassificationYAML(t *testing.T) {
	doc := `
classification_thresholds:
  safe: {density_min: 0, density_max: 1, color_hex: "#00FF00", color_name: Green, alert_level: none, requires_action: false}
  moderate: {density_min: 1, density_max: 2, color_hex: "#7FFF00", color_name: Lime, alert_level: low, requires_action: false}
  warning: {density_min: 2, density_max: 3, color_hex: "#FFFF00", color_name: Yellow, alert_level: medium, requires_action: true}
  critical: {density_min: 3, density_max: 4, color_hex: "#FF8C00", color_name: Orange, alert_level: high, requires_action: true}
  emergency: {density_min: 4, density_max: 5, color_hex: "#FF0000", color_name: Red, alert_level: critical, requires_action: true}
movement_thresholds:
  speed: {fast: 2.0}
  direction_variance: {panic: 100}
severity_weights: {density_weight: 0.6, speed_weight: 0.2, variance_weight: 0.2}
elevation_rules:
  panic_detection: {enabled: false}
  orderly_evacuation: {enabled: false}
capacity_settings: {absolute_max_density: 5}
`
	path := filepath.Join(t.TempDir(), "classification.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := LoadClassification(path)
	require.NoError(t, err)
	assert.Equal(t, 0.6, *cfg.Weights.Density)
	assert.False(t, cfg.Elevation.PanicDetection.Enabled)
	assert.Equal(t, 4.0, cfg.Bands()[4].Min)
}

func TestLoadClassificationRejectsFiles(t *testing.T) {
	dir := t.TempDir()

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(dir, "classification.toml")
		require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o644))
		_, err := LoadClassification(path)
		requireConfigError(t, err, path)
	})

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(dir, "absent.json")
		_, err := LoadClassification(path)
		requireConfigError(t, err, path)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
		_, err := LoadClassification(path)
		requireConfigError(t, err, "document")
	})
}

func TestClassificationValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc map[string]any)
		key    string
	}{
		{
			name: "missing level",
			mutate: func(doc map[string]any) {
				delete(section(doc, "classification_thresholds"), "critical")
			},
			key: "classification_thresholds.critical",
		},
		{
			name: "unknown level",
			mutate: func(doc map[string]any) {
				th := section(doc, "classification_thresholds")
				th["severe"] = th["critical"]
			},
			key: "classification_thresholds.severe",
		},
		{
			name: "gap between bands",
			mutate: func(doc map[string]any) {
				section(doc, "classification_thresholds", "moderate")["density_min"] = 2.5
			},
			key: "classification_thresholds.moderate.density_min",
		},
		{
			name: "lowest band above zero",
			mutate: func(doc map[string]any) {
				section(doc, "classification_thresholds", "safe")["density_min"] = 0.5
			},
			key: "classification_thresholds.safe.density_min",
		},
		{
			name: "inverted band",
			mutate: func(doc map[string]any) {
				section(doc, "classification_thresholds", "emergency")["density_max"] = 6.0
			},
			key: "classification_thresholds.emergency.density_max",
		},
		{
			name: "missing band bound",
			mutate: func(doc map[string]any) {
				delete(section(doc, "classification_thresholds", "warning"), "density_max")
			},
			key: "classification_thresholds.warning.density_max",
		},
		{
			name: "missing weight",
			mutate: func(doc map[string]any) {
				delete(section(doc, "severity_weights"), "speed_weight")
			},
			key: "severity_weights.speed_weight",
		},
		{
			name: "missing max density",
			mutate: func(doc map[string]any) {
				delete(section(doc, "capacity_settings"), "absolute_max_density")
			},
			key: "capacity_settings.absolute_max_density",
		},
		{
			name: "enabled panic rule without threshold",
			mutate: func(doc map[string]any) {
				delete(section(doc, "elevation_rules", "panic_detection"), "variance_threshold")
			},
			key: "elevation_rules.panic_detection.variance_threshold",
		},
		{
			name: "enabled orderly rule without speed",
			mutate: func(doc map[string]any) {
				delete(section(doc, "elevation_rules", "orderly_evacuation"), "speed_threshold")
			},
			key: "elevation_rules.orderly_evacuation.speed_threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseMutated(t, tt.mutate)
			requireConfigError(t, err, tt.key)
		})
	}
}

func TestClassificationRejectsTinyBandGap(t *testing.T) {
	_, err := parseMutated(t, func(doc map[string]any) {
		th := section(doc, "classification_thresholds")
		prevMax := section(th, "warning")["density_max"].(float64)
		section(th, "critical")["density_min"] = prevMax + 5e-10
	})
	requireConfigError(t, err, "classification_thresholds.critical.density_min")
}

func TestDisabledRulesNeedNoThresholds(t *testing.T) {
	cfg, err := parseMutated(t, func(doc map[string]any) {
		section(doc, "elevation_rules")["panic_detection"] = map[string]any{"enabled": false}
		section(doc, "elevation_rules")["orderly_evacuation"] = map[string]any{"enabled": false}
	})
	require.NoError(t, err)
	assert.Nil(t, cfg.Elevation.PanicDetection.SpeedThreshold)
}

func TestValidateNilDocument(t *testing.T) {
	var cfg *Classification
	requireConfigError(t, cfg.Validate(), "document")
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("ALERTS_COOLDOWN", "4s")
	t.Setenv("GRID_ROWS", "12")
	t.Setenv("MESSAGING_ENABLED", "true")
	t.Setenv("NATS_URL", "nats://example:4222")

	cfg := Load()
	assert.Equal(t, 4*time.Second, cfg.AlertsCooldown)
	assert.Equal(t, 12, cfg.GridRows)
	assert.Equal(t, 10, cfg.GridCols)
	assert.True(t, cfg.MessagingEnabled)
	assert.Equal(t, "nats://example:4222", cfg.NatsURL)
	assert.Equal(t, 60*time.Second, cfg.AlertsMaxAge)
}

func TestLoadDurationAcceptsSeconds(t *testing.T) {
	t.Setenv("ALERTS_COOLDOWN", "2.5")
	t.Setenv("ALERTS_MAX_AGE", "ninety")

	cfg := Load()
	assert.Equal(t, 2500*time.Millisecond, cfg.AlertsCooldown)
	assert.Equal(t, 60*time.Second, cfg.AlertsMaxAge, "unparsable values keep the default")
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{raw: "2.5", want: 2500 * time.Millisecond},
		{raw: "0", want: 0},
		{raw: "1500ms", want: 1500 * time.Millisecond},
		{raw: "1e20", wantErr: true},
		{raw: "Inf", wantErr: true},
		{raw: "NaN", wantErr: true},
		{raw: "-1", wantErr: true},
		{raw: "-2s", wantErr: true},
		{raw: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDuration(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
