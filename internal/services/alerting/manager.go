package alerting

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"crowdwatch-worker-go/internal/models"
)

// DefaultCooldown is the minimum gap between two alerts with the same (level, zone) key
const DefaultCooldown = 2500 * time.Millisecond

// Manager owns the cooldown ledger, the active list, the history and the counters.
// It holds no lock; callers that share a Manager across goroutines must serialize access.
type Manager struct {
	cooldown time.Duration
	lastSent map[string]time.Time

	active  []models.Alert
	history []models.Alert

	totalTriggered int
	perLevel       map[models.Level]int
}

// NewManager creates a manager. A negative cooldown is treated as zero.
func NewManager(cooldown time.Duration) *Manager {
	if cooldown < 0 {
		cooldown = 0
	}
	m := &Manager{
		cooldown: cooldown,
		lastSent: make(map[string]time.Time),
		perLevel: make(map[models.Level]int),
	}
	for _, level := range models.Levels() {
		if level.IsAlertable() {
			m.perLevel[level] = 0
		}
	}

	log.Info().
		Dur("cooldown", cooldown).
		Msg("Alert manager initialized")

	return m
}

// Cooldown returns the configured cooldown interval
func (m *Manager) Cooldown() time.Duration {
	return m.cooldown
}

// CheckCooldown reports whether key may fire at now
func (m *Manager) CheckCooldown(key models.AlertCooldownKey, now time.Time) bool {
	lastSent, exists := m.lastSent[key.String()]
	if !exists {
		return true
	}
	return now.Sub(lastSent) >= m.cooldown
}

// Trigger creates an alert for (level, zoneID) unless the level is below warning or the
// key is still cooling down. A rejected trigger has no side effects.
func (m *Manager) Trigger(level models.Level, zoneID string, severity float64, now time.Time) (*models.Alert, bool) {
	if !level.IsAlertable() {
		return nil, false
	}

	key := models.AlertCooldownKey{Level: level, ZoneID: zoneID}
	if !m.CheckCooldown(key, now) {
		log.Debug().
			Str("zone_id", zoneID).
			Str("level", level.String()).
			Msg("Alert blocked by cooldown")
		return nil, false
	}

	alert := models.Alert{
		ID:        uuid.NewString(),
		Key:       key.String(),
		Timestamp: now,
		Level:     level,
		ZoneID:    zoneID,
		Severity:  severity,
		Priority:  level.Priority(),
		Visual:    Visual(level),
		Audio:     Audio(level),
	}

	m.lastSent[key.String()] = now
	m.active = append(m.active, alert)
	m.history = append(m.history, alert)
	m.totalTriggered++
	m.perLevel[level]++

	out := cloneAlert(alert)
	return &out, true
}

// ProcessRecords triggers an alert for every record and returns those that fired, in record order
func (m *Manager) ProcessRecords(records []models.ClassificationRecord, now time.Time) []models.Alert {
	triggered := make([]models.Alert, 0)
	for _, r := range records {
		if alert, ok := m.Trigger(r.Level, r.ZoneID, r.SeverityScore, now); ok {
			triggered = append(triggered, *alert)
		}
	}
	return triggered
}

// Active returns the active alerts no older than maxAge, highest priority first.
// Alerts of equal priority keep their creation order.
func (m *Manager) Active(maxAge time.Duration, now time.Time) []models.Alert {
	out := make([]models.Alert, 0, len(m.active))
	for _, a := range m.active {
		if a.Age(now) <= maxAge {
			out = append(out, cloneAlert(a))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}

// Evict drops active alerts older than maxAge and returns how many were removed.
// History is untouched.
func (m *Manager) Evict(maxAge time.Duration, now time.Time) int {
	kept := m.active[:0]
	for _, a := range m.active {
		if a.Age(now) <= maxAge {
			kept = append(kept, a)
		}
	}
	removed := len(m.active) - len(kept)
	m.active = kept
	return removed
}

// Reset clears the active list and the cooldown ledger. History and counters survive.
func (m *Manager) Reset() {
	m.active = nil
	m.lastSent = make(map[string]time.Time)
	log.Info().Msg("Active alerts and cooldowns reset")
}

// History returns every alert ever triggered, oldest first
func (m *Manager) History() []models.Alert {
	out := make([]models.Alert, len(m.history))
	for i, a := range m.history {
		out[i] = cloneAlert(a)
	}
	return out
}

// FindActive looks up an active alert by id
func (m *Manager) FindActive(id string) (models.Alert, bool) {
	for _, a := range m.active {
		if a.ID == id {
			return cloneAlert(a), true
		}
	}
	return models.Alert{}, false
}

// Stats returns the lifetime counters
func (m *Manager) Stats() models.AlertStats {
	byLevel := make(map[models.Level]int, len(m.perLevel))
	for level, n := range m.perLevel {
		byLevel[level] = n
	}
	return models.AlertStats{
		TotalTriggered: m.totalTriggered,
		ByLevel:        byLevel,
		ActiveCount:    len(m.active),
		Cooldown:       m.cooldown,
		CooldownSecs:   m.cooldown.Seconds(),
	}
}

func cloneAlert(a models.Alert) models.Alert {
	a.Audio.Pattern = append([]models.AudioStep{}, a.Audio.Pattern...)
	return a
}
