package models

import (
	"fmt"
	"sort"
	"strings"
)

// ConfigError reports a missing or invalid classification configuration key.
// It is fatal: the engine refuses to start rather than fall back to defaults.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("classification config: %s: %s", e.Key, e.Reason)
}

// InputError reports a zone record rejected from a batch and the fields that failed
type InputError struct {
	Index  int      `json:"index"`
	ZoneID string   `json:"zone_id,omitempty"`
	Fields []string `json:"fields"`
	Reason string   `json:"reason"`
}

func (e *InputError) Error() string {
	zone := e.ZoneID
	if zone == "" {
		zone = "<unnamed>"
	}
	return fmt.Sprintf("zone record %d (%s): invalid %s: %s", e.Index, zone, strings.Join(e.Fields, ", "), e.Reason)
}

// BatchError aggregates per-record rejections from a batch that otherwise completed
type BatchError struct {
	Total    int
	Rejected []InputError
}

func (e *BatchError) Error() string {
	fields := make(map[string]int)
	for _, r := range e.Rejected {
		for _, f := range r.Fields {
			fields[f]++
		}
	}
	parts := make([]string, 0, len(fields))
	for _, f := range sortedKeys(fields) {
		parts = append(parts, fmt.Sprintf("%s=%d", f, fields[f]))
	}
	return fmt.Sprintf("%d of %d zone records rejected (%s)", len(e.Rejected), e.Total, strings.Join(parts, ", "))
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
