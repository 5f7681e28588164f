package db

import (
	"strconv"
	"time"

	"github.com/aicuratorhub/curatorhub-admin/pkg/database"
)

// Record is a document's fields with its id injected under the entity id field.
type Record map[string]any

// String returns the field as a string, or "" when absent or not a string.
func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}

// Int returns a numeric field, or def when it is absent or not a number.
func (r Record) Int(field string, def int) int {
	switch v := r[field].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Float returns a numeric field without truncation, or def when it is absent
// or not a number.
func (r Record) Float(field string, def float64) float64 {
	switch v := r[field].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// Bool returns a boolean field, false when absent.
func (r Record) Bool(field string) bool {
	b, _ := r[field].(bool)
	return b
}

// Time parses an RFC 3339 field. Values without a zone are read as UTC.
func (r Record) Time(field string) (time.Time, bool) {
	return r.TimeIn(field, time.UTC)
}

// TimeIn is Time with values without a zone read in loc.
func (r Record) TimeIn(field string, loc *time.Location) (time.Time, bool) {
	switch v := r[field].(type) {
	case time.Time:
		return v, true
	case string:
		if v == "" {
			return time.Time{}, false
		}
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.ParseInLocation(layout, v, loc); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// Strings returns a list field as strings, skipping non-string items.
func (r Record) Strings(field string) []string {
	switch v := r[field].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Clone deep-copies the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return Record(database.CloneMap(r))
}

func cloneRecords(in []Record) []Record {
	out := make([]Record, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}
