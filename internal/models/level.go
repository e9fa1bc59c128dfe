package models

import (
	"fmt"
	"strings"
)

// Level is the ordered crowd severity classification of a zone
type Level int

const (
	LevelSafe Level = iota
	LevelModerate
	LevelWarning
	LevelCritical
	LevelEmergency
)

// LevelCount is the number of classification levels
const LevelCount = int(LevelEmergency) + 1

var levelNames = [LevelCount]string{
	LevelSafe:      "safe",
	LevelModerate:  "moderate",
	LevelWarning:   "warning",
	LevelCritical:  "critical",
	LevelEmergency: "emergency",
}

// Levels returns every level in ascending order
func Levels() []Level {
	return []Level{LevelSafe, LevelModerate, LevelWarning, LevelCritical, LevelEmergency}
}

// ParseLevel converts a level name (case-insensitive) into a Level
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return LevelSafe, fmt.Errorf("unknown level %q", s)
}

// Valid reports whether l is one of the five defined levels
func (l Level) Valid() bool {
	return l >= LevelSafe && l <= LevelEmergency
}

func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// Index is the position of l in the ordered level sequence
func (l Level) Index() int {
	return int(l)
}

// Next returns the level directly above l, staying at emergency
func (l Level) Next() Level {
	return l.Elevate(1)
}

// Elevate moves l up by n levels, clamped to the end of the sequence
func (l Level) Elevate(n int) Level {
	idx := int(l) + n
	if idx > int(LevelEmergency) {
		idx = int(LevelEmergency)
	}
	if idx < int(LevelSafe) {
		idx = int(LevelSafe)
	}
	return Level(idx)
}

// Priority is the numeric alert priority of the level (safe=0 ... emergency=4)
func (l Level) Priority() int {
	return int(l)
}

// IsAlertable reports whether the level may produce alerts (warning and above)
func (l Level) IsAlertable() bool {
	return l >= LevelWarning && l <= LevelEmergency
}

// MarshalText encodes the level by name for JSON and YAML
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid level %d", int(l))
	}
	return []byte(levelNames[l]), nil
}

// UnmarshalText decodes a level name
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
