package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdwatch-worker-go/internal/api/handlers"
	"crowdwatch-worker-go/internal/config"
	"crowdwatch-worker-go/internal/models"
	"crowdwatch-worker-go/internal/worker"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func testServer(t *testing.T) (*Server, *testClock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Version:               "test",
		Environment:           "test",
		WorkerID:              "api-test",
		Port:                  0,
		GridRows:              10,
		GridCols:              10,
		AlertsCooldown:        2500 * time.Millisecond,
		AlertsActiveWindow:    10 * time.Second,
		AlertsMaxAge:          60 * time.Second,
		InstructionsMaxExits:  2,
		InstructionsExportDir: t.TempDir(),
		SwaggerHost:           "localhost",
		SwaggerPort:           8000,
	}
	w, err := worker.New(cfg, config.MustLoadDefaultClassification(), nil)
	require.NoError(t, err)

	clock := &testClock{now: time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)}
	srv, err := NewServer(cfg, w, WithClock(clock.Now))
	require.NoError(t, err)
	return srv, clock
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const crowdBatch = `{
	"tick": 7,
	"zones": [
		{"zone_id": "Z_0_0", "row": 0, "col": 0, "density": 1.2, "people_count": 12},
		{"zone_id": "Z_4_4", "row": 4, "col": 4, "density": 3.8, "speed": 0.4, "direction_variance": 135},
		{"zone_id": "Z_7_3", "row": 7, "col": 3, "density": 7.8, "speed": 0.3, "direction_variance": 150},
		{"zone_id": "Z_bad", "row": 1, "col": 1, "density": -1}
	]
}`

func TestHealthAndInfo(t *testing.T) {
	srv, _ := testServer(t)

	rec := do(t, srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[handlers.HealthResponse](t, rec)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "api-test", health.WorkerID)
	assert.Equal(t, "disabled", health.Messaging)

	rec = do(t, srv, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	info := decode[handlers.WorkerInfoResponse](t, rec)
	assert.Contains(t, info.Capabilities, "zone_classification")

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestHealthReportsMessaging(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{WorkerID: "bus", GridRows: 10, GridCols: 10, InstructionsMaxExits: 2}
	w, err := worker.New(cfg, config.MustLoadDefaultClassification(), nil)
	require.NoError(t, err)

	srv, err := NewServer(cfg, w, WithMessagingStatus(func() bool { return false }))
	require.NoError(t, err)

	health := decode[handlers.HealthResponse](t, do(t, srv, http.MethodGet, "/health", ""))
	assert.Equal(t, "disconnected", health.Messaging)
}

func TestNewServerRequiresWorker(t *testing.T) {
	_, err := NewServer(&config.Config{}, nil)
	assert.Error(t, err)
}

func TestClassifyBatch(t *testing.T) {
	srv, _ := testServer(t)

	rec := do(t, srv, http.MethodGet, "/zones/latest", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodPost, "/zones/classify", crowdBatch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	result := decode[models.TickResult](t, rec)
	assert.Equal(t, int64(7), result.Tick)
	require.Len(t, result.Records, 3)
	assert.Equal(t, models.LevelCritical, result.Records[1].Level)
	assert.Equal(t, models.LevelEmergency, result.Records[2].Level)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, 3, result.Rejected[0].Index)
	assert.Equal(t, []string{"density"}, result.Rejected[0].Fields)
	assert.Len(t, result.Triggered, 2)

	rec = do(t, srv, http.MethodGet, "/zones/latest", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), decode[models.TickResult](t, rec).Tick)

	critical := decode[[]models.ClassificationRecord](t, do(t, srv, http.MethodGet, "/zones/critical", ""))
	require.Len(t, critical, 2)
	assert.Equal(t, "Z_7_3", critical[0].ZoneID)
}

func TestClassifyBatchBadBody(t *testing.T) {
	srv, _ := testServer(t)

	rec := do(t, srv, http.MethodPost, "/zones/classify", `{"tick": 1`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, "/zones/classify", `{"tick": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decode[handlers.ErrorResponse](t, rec).Error)
}

func TestClassifySingle(t *testing.T) {
	srv, _ := testServer(t)

	rec := do(t, srv, http.MethodPost, "/zones/classify/single",
		`{"zone_id": "Z_1_1", "row": 1, "col": 1, "density": 7.8, "speed": 0.3, "direction_variance": 150}`)
	require.Equal(t, http.StatusOK, rec.Code)
	record := decode[models.ClassificationRecord](t, rec)
	assert.Equal(t, models.LevelEmergency, record.Level)
	assert.Equal(t, 83.0, record.SeverityScore)

	rec = do(t, srv, http.MethodPost, "/zones/classify/single", `{"zone_id": "Z_1_1", "row": 1, "col": 1}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	inErr := decode[models.InputError](t, rec)
	assert.Equal(t, []string{"density"}, inErr.Fields)

	// Single classification never touches alert state
	alerts := decode[[]models.Alert](t, do(t, srv, http.MethodGet, "/alerts/active", ""))
	assert.Empty(t, alerts)
}

func TestRules(t *testing.T) {
	srv, _ := testServer(t)

	rec := do(t, srv, http.MethodGet, "/classification/rules", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "classification_thresholds")
}

func TestAlertEndpoints(t *testing.T) {
	srv, clock := testServer(t)
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/zones/classify", crowdBatch).Code)

	active := decode[[]models.Alert](t, do(t, srv, http.MethodGet, "/alerts/active", ""))
	require.Len(t, active, 2)
	assert.Equal(t, models.LevelEmergency, active[0].Level)
	emergencyID := active[0].ID

	priority := decode[[]models.Alert](t, do(t, srv, http.MethodGet, "/alerts/priority", ""))
	require.Len(t, priority, 2)
	assert.Equal(t, emergencyID, priority[0].ID)

	summary := decode[models.AlertSummary](t, do(t, srv, http.MethodGet, "/alerts/summary", ""))
	assert.Equal(t, 2, summary.TotalAlerts)
	require.NotNil(t, summary.HighestPriority)
	assert.Equal(t, "Z_7_3", summary.HighestPriority.ZoneID)

	stats := decode[models.AlertStats](t, do(t, srv, http.MethodGet, "/alerts/stats", ""))
	assert.Equal(t, 2, stats.TotalTriggered)
	assert.Equal(t, 2.5, stats.CooldownSecs)

	banner := decode[handlers.BannerResponse](t, do(t, srv, http.MethodGet, "/alerts/banner", ""))
	assert.Contains(t, banner.Banner, "EMERGENCY")
	assert.Contains(t, banner.Banner, "+1 more")
	require.NotNil(t, banner.Indicator)

	rec := do(t, srv, http.MethodGet, "/alerts/"+emergencyID+"/visual", "")
	require.Equal(t, http.StatusOK, rec.Code)
	visual := decode[models.VisualState](t, rec)
	assert.Equal(t, models.LevelEmergency, visual.Level)
	assert.True(t, visual.Flash)

	rec = do(t, srv, http.MethodGet, "/alerts/"+emergencyID+"/audio", "")
	require.Equal(t, http.StatusOK, rec.Code)
	audio := decode[models.AudioAlert](t, rec)
	assert.NotEmpty(t, audio.Pattern)

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/alerts/missing/visual", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/alerts/missing/audio", "").Code)

	// Past the active window the alerts drop out of the view but are still held
	clock.Advance(11 * time.Second)
	assert.Empty(t, decode[[]models.Alert](t, do(t, srv, http.MethodGet, "/alerts/active", "")))
	assert.Len(t, decode[[]models.Alert](t, do(t, srv, http.MethodGet, "/alerts/active?max_age=30", "")), 2)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/alerts/active?max_age=soon", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/alerts/active?max_age=1e20", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/alerts/active?max_age=Inf", "").Code)
	assert.Len(t, decode[[]models.Alert](t, do(t, srv, http.MethodGet, "/alerts/active?max_age=1e9", "")), 2)

	rec = do(t, srv, http.MethodPost, "/alerts/evict?max_age=5s", "")
	require.Equal(t, http.StatusOK, rec.Code)
	evict := decode[handlers.EvictResponse](t, rec)
	assert.Equal(t, 2, evict.Evicted)
	assert.Equal(t, 5.0, evict.MaxAgeSec)

	history := decode[[]models.Alert](t, do(t, srv, http.MethodGet, "/alerts/history", ""))
	assert.Len(t, history, 2)
}

func TestAlertReset(t *testing.T) {
	srv, _ := testServer(t)
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/zones/classify", crowdBatch).Code)

	rec := do(t, srv, http.MethodPost, "/alerts/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.Alert](t, do(t, srv, http.MethodGet, "/alerts/active", "")))

	// Cooldowns were cleared too, so the same readings alert again immediately
	result := decode[models.TickResult](t, do(t, srv, http.MethodPost, "/zones/classify", crowdBatch))
	assert.Len(t, result.Triggered, 2)

	stats := decode[models.AlertStats](t, do(t, srv, http.MethodGet, "/alerts/stats", ""))
	assert.Equal(t, 4, stats.TotalTriggered)
}

func TestInstructionEndpoints(t *testing.T) {
	srv, _ := testServer(t)

	empty := do(t, srv, http.MethodGet, "/instructions", "")
	require.Equal(t, http.StatusOK, empty.Code)
	assert.JSONEq(t, "[]", empty.Body.String())
	assert.Equal(t, http.StatusConflict, do(t, srv, http.MethodPost, "/instructions/export", "").Code)

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/zones/classify", crowdBatch).Code)

	insts := decode[[]models.Instruction](t, do(t, srv, http.MethodGet, "/instructions", ""))
	assert.Len(t, insts, 3)

	lines := decode[[]string](t, do(t, srv, http.MethodGet, "/instructions?display=true", ""))
	require.Len(t, lines, 3)
	assert.Contains(t, lines[2], "Z_7_3")

	priority := decode[[]models.Instruction](t, do(t, srv, http.MethodGet, "/instructions/priority", ""))
	require.Len(t, priority, 2)
	assert.Equal(t, "Z_7_3", priority[0].ZoneID)

	summary := decode[models.InstructionSummary](t, do(t, srv, http.MethodGet, "/instructions/summary", ""))
	assert.Equal(t, 3, summary.TotalInstructions)

	rec := do(t, srv, http.MethodGet, "/instructions/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "instructions_tick_7.json")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "[\n"))

	rec = do(t, srv, http.MethodPost, "/instructions/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	export := decode[handlers.ExportResponse](t, rec)
	assert.Equal(t, 3, export.Count)
	assert.FileExists(t, export.Path)
}

func TestSystemStats(t *testing.T) {
	srv, _ := testServer(t)
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/zones/classify", crowdBatch).Code)

	rec := do(t, srv, http.MethodGet, "/system/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ticks_processed":1`)
	assert.Contains(t, rec.Body.String(), `"records_rejected":1`)
}
