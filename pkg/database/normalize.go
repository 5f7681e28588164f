package database

import (
	"time"

	"cloud.google.com/go/firestore"
)

// NormalizeMap converts the values of a Firestore document into plain
// JSON-compatible values. The input is not modified.
func NormalizeMap(data map[string]any) map[string]any {
	if data == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = Normalize(v)
	}
	return out
}

// Normalize converts a single Firestore value: timestamps become RFC 3339
// strings, document references become their path, maps and slices are walked.
func Normalize(v any) any {
	switch val := v.(type) {
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if val == nil {
			return nil
		}
		return val.UTC().Format(time.RFC3339Nano)
	case *firestore.DocumentRef:
		if val == nil {
			return nil
		}
		return val.Path
	case map[string]any:
		return NormalizeMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	default:
		return v
	}
}
