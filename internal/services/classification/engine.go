package classification

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"crowdwatch-worker-go/internal/config"
	"crowdwatch-worker-go/internal/models"
)

// Engine orchestrates density classification, severity scoring and movement adjustment
// for each zone. It is not safe for concurrent use by itself.
type Engine struct {
	cfg        *config.Classification
	scorer     *Scorer
	classifier *DensityClassifier
	adjuster   *MovementAdjuster

	// Grid bounds for zone coordinates; zero disables the check
	rows int
	cols int
}

var zoneValidator = newZoneValidator()

func newZoneValidator() *validator.Validate {
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

// NewEngine validates cfg and builds an engine from it. An invalid document is a
// *models.ConfigError; there is no fallback configuration.
func NewEngine(cfg *config.Classification, rows, cols int) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rows < 0 || cols < 0 {
		return nil, &models.ConfigError{Key: "grid", Reason: fmt.Sprintf("invalid grid dimensions %dx%d", rows, cols)}
	}

	return &Engine{
		cfg:        cfg,
		scorer:     NewScorer(cfg),
		classifier: NewDensityClassifier(cfg.Bands()),
		adjuster:   NewMovementAdjuster(cfg.Elevation),
		rows:       rows,
		cols:       cols,
	}, nil
}

// Rules returns the classification document the engine was built from
func (e *Engine) Rules() *config.Classification {
	return e.cfg
}

// GridSize returns the configured grid dimensions
func (e *Engine) GridSize() (rows, cols int) {
	return e.rows, e.cols
}

// Classify is the single zone classification on raw metrics.
// Movement adjustment only runs when both speed and variance are present.
// Negative or NaN metrics are rejected with an InputError.
func (e *Engine) Classify(density float64, speed, variance *float64, zoneID string) (models.ClassificationRecord, *models.InputError) {
	if inErr := checkMetrics(density, speed, variance, zoneID); inErr != nil {
		return models.ClassificationRecord{}, inErr
	}
	return e.classify(density, speed, variance, zoneID), nil
}

func checkMetrics(density float64, speed, variance *float64, zoneID string) *models.InputError {
	var fields, reasons []string
	check := func(name string, v float64) {
		if math.IsNaN(v) || v < 0 {
			fields = append(fields, name)
			reasons = append(reasons, name+": must be >= 0")
		}
	}
	check("density", density)
	if speed != nil {
		check("speed", *speed)
	}
	if variance != nil {
		check("direction_variance", *variance)
	}
	if len(fields) == 0 {
		return nil
	}
	return &models.InputError{ZoneID: zoneID, Fields: fields, Reason: strings.Join(reasons, "; ")}
}

func (e *Engine) classify(density float64, speed, variance *float64, zoneID string) models.ClassificationRecord {
	base := e.classifier.Classify(density)
	severity := e.scorer.Score(density, speed, variance)

	adjusted, reason := base, models.ReasonNone
	if speed != nil && variance != nil {
		adjusted, reason = e.adjuster.Adjust(base, *speed, *variance)
	}

	// Present for every level once the document validated
	info, _ := e.cfg.LevelInfo(adjusted)
	label := info.Label
	if label == "" {
		label = strings.ToUpper(adjusted.String()[:1]) + adjusted.String()[1:]
	}

	return models.ClassificationRecord{
		ZoneID:          zoneID,
		Level:           adjusted,
		BaseLevel:       base,
		ColorHex:        info.ColorHex,
		ColorName:       info.ColorName,
		Label:           label,
		AlertLevel:      info.AlertLevel,
		Description:     info.Description,
		SeverityScore:   math.Round(severity*100) / 100,
		RequiresAction:  *info.RequiresAction,
		Elevated:        adjusted != base,
		ElevationReason: reason,
		Density:         density,
		Speed:           copyFloat(speed),
		Variance:        copyFloat(variance),
	}
}

// ClassifyZone validates and classifies one zone record, keeping its grid position
func (e *Engine) ClassifyZone(z models.ZoneMetrics) (models.ClassificationRecord, *models.InputError) {
	if inErr := e.ValidateZone(0, z); inErr != nil {
		return models.ClassificationRecord{}, inErr
	}
	return e.classifyZone(z), nil
}

// classifyZone expects a record that already passed ValidateZone
func (e *Engine) classifyZone(z models.ZoneMetrics) models.ClassificationRecord {
	rec := e.classify(*z.Density, z.Speed, z.Variance, z.ZoneID)
	rec.Row = z.Row
	rec.Col = z.Col
	return rec
}

// ValidateZone checks a zone record for missing or out of range fields.
// index is the record's position in its batch and is carried into the error.
func (e *Engine) ValidateZone(index int, z models.ZoneMetrics) *models.InputError {
	var fields, reasons []string

	if err := zoneValidator.Struct(z); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return &models.InputError{Index: index, ZoneID: z.ZoneID, Fields: []string{"record"}, Reason: err.Error()}
		}
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
			reasons = append(reasons, fieldReason(fe))
		}
	}

	if e.rows > 0 && z.Row >= e.rows {
		fields = append(fields, "row")
		reasons = append(reasons, fmt.Sprintf("row: outside grid of %d rows", e.rows))
	}
	if e.cols > 0 && z.Col >= e.cols {
		fields = append(fields, "col")
		reasons = append(reasons, fmt.Sprintf("col: outside grid of %d columns", e.cols))
	}

	if len(fields) == 0 {
		return nil
	}
	return &models.InputError{
		Index:  index,
		ZoneID: z.ZoneID,
		Fields: fields,
		Reason: strings.Join(reasons, "; "),
	}
}

// ClassifyAll classifies a batch in input order. Invalid records are skipped and
// reported together as a *models.BatchError; the valid remainder is still returned.
func (e *Engine) ClassifyAll(zones []models.ZoneMetrics) ([]models.ClassificationRecord, error) {
	records := make([]models.ClassificationRecord, 0, len(zones))
	var rejected []models.InputError

	for i, z := range zones {
		if inErr := e.ValidateZone(i, z); inErr != nil {
			log.Debug().
				Int("index", i).
				Str("zone_id", z.ZoneID).
				Strs("fields", inErr.Fields).
				Msg("Zone record rejected")
			rejected = append(rejected, *inErr)
			continue
		}
		records = append(records, e.classifyZone(z))
	}

	if len(rejected) > 0 {
		return records, &models.BatchError{Total: len(zones), Rejected: rejected}
	}
	return records, nil
}

// CriticalZones returns records at critical or emergency, most severe first
func CriticalZones(records []models.ClassificationRecord) []models.ClassificationRecord {
	out := make([]models.ClassificationRecord, 0)
	for _, r := range records {
		if r.Level >= models.LevelCritical {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SeverityScore > out[j].SeverityScore
	})
	return out
}

func fieldReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + ": missing"
	case "gte":
		return fmt.Sprintf("%s: must be >= %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag())
	}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
