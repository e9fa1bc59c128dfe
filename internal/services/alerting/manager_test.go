package alerting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdwatch-worker-go/internal/models"
)

var t0 = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

func TestTriggerCooldown(t *testing.T) {
	m := NewManager(DefaultCooldown)

	first, ok := m.Trigger(models.LevelWarning, "Z1", 50, t0)
	require.True(t, ok)
	require.NotNil(t, first)
	assert.Equal(t, "warning|Z1", first.Key)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, 2, first.Priority)

	again, ok := m.Trigger(models.LevelWarning, "Z1", 50, t0)
	assert.False(t, ok)
	assert.Nil(t, again)

	// Severity is not part of the key
	_, ok = m.Trigger(models.LevelWarning, "Z1", 95, t0.Add(time.Second))
	assert.False(t, ok)

	later, ok := m.Trigger(models.LevelWarning, "Z1", 50, t0.Add(DefaultCooldown))
	require.True(t, ok)
	assert.NotEqual(t, first.ID, later.ID)
}

func TestTriggerKeysAreIndependent(t *testing.T) {
	m := NewManager(DefaultCooldown)

	_, ok := m.Trigger(models.LevelWarning, "Z1", 50, t0)
	require.True(t, ok)
	_, ok = m.Trigger(models.LevelCritical, "Z1", 70, t0)
	assert.True(t, ok, "different level is a different key")
	_, ok = m.Trigger(models.LevelWarning, "Z2", 50, t0)
	assert.True(t, ok, "different zone is a different key")
}

func TestTriggerIgnoresLowLevels(t *testing.T) {
	m := NewManager(0)

	for _, level := range []models.Level{models.LevelSafe, models.LevelModerate} {
		for i := 0; i < 3; i++ {
			alert, ok := m.Trigger(level, "Z1", 10, t0.Add(time.Duration(i)*time.Hour))
			assert.False(t, ok)
			assert.Nil(t, alert)
		}
	}

	stats := m.Stats()
	assert.Equal(t, 0, stats.TotalTriggered)
	assert.Equal(t, 0, stats.ActiveCount)
	assert.Empty(t, m.History())
}

func TestActiveWindowAndEviction(t *testing.T) {
	m := NewManager(DefaultCooldown)

	m.Trigger(models.LevelWarning, "old", 40, t0)
	m.Trigger(models.LevelEmergency, "new", 90, t0.Add(8*time.Second))
	m.Trigger(models.LevelCritical, "mid", 70, t0.Add(5*time.Second))

	now := t0.Add(12 * time.Second)
	active := m.Active(10*time.Second, now)
	require.Len(t, active, 2)
	assert.Equal(t, "new", active[0].ZoneID)
	assert.Equal(t, "mid", active[1].ZoneID)

	// Nothing expires on its own
	assert.Len(t, m.Active(time.Hour, now), 3)

	removed := m.Evict(10*time.Second, now)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 2, m.Stats().ActiveCount)
	assert.Len(t, m.History(), 3)

	_, found := m.FindActive(active[0].ID)
	assert.True(t, found)
}

func TestResetKeepsHistoryAndCounters(t *testing.T) {
	m := NewManager(DefaultCooldown)

	m.Trigger(models.LevelWarning, "Z1", 50, t0)
	m.Trigger(models.LevelEmergency, "Z2", 95, t0)
	m.Reset()

	stats := m.Stats()
	assert.Equal(t, 0, stats.ActiveCount)
	assert.Equal(t, 2, stats.TotalTriggered)
	assert.Equal(t, 1, stats.ByLevel[models.LevelWarning])
	assert.Equal(t, 1, stats.ByLevel[models.LevelEmergency])
	assert.Equal(t, 2.5, stats.CooldownSecs)
	assert.Len(t, m.History(), 2)

	// Ledger cleared: same key fires again immediately
	_, ok := m.Trigger(models.LevelWarning, "Z1", 50, t0)
	assert.True(t, ok)
}

func TestProcessRecords(t *testing.T) {
	m := NewManager(DefaultCooldown)
	records := []models.ClassificationRecord{
		{ZoneID: "A", Level: models.LevelSafe, SeverityScore: 5},
		{ZoneID: "B", Level: models.LevelCritical, SeverityScore: 66},
		{ZoneID: "C", Level: models.LevelWarning, SeverityScore: 45},
	}

	triggered := m.ProcessRecords(records, t0)
	require.Len(t, triggered, 2)
	assert.Equal(t, "B", triggered[0].ZoneID)
	assert.Equal(t, "C", triggered[1].ZoneID)

	assert.Empty(t, m.ProcessRecords(records, t0.Add(time.Second)))
}

func TestReturnedAlertsAreCopies(t *testing.T) {
	m := NewManager(DefaultCooldown)
	alert, ok := m.Trigger(models.LevelEmergency, "Z1", 99, t0)
	require.True(t, ok)

	alert.ZoneID = "tampered"
	alert.Audio.Pattern[0].Duration = 42

	stored := m.History()[0]
	assert.Equal(t, "Z1", stored.ZoneID)
	assert.Equal(t, 0.7, stored.Audio.Pattern[0].Duration)
	assert.Equal(t, 0.7, Audio(models.LevelEmergency).Pattern[0].Duration)
}
