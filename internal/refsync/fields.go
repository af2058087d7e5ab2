package refsync

import (
	"math"
	"strconv"
	"strings"
)

// Helpers for pulling fields out of raw provider records. The API returns
// untyped JSON; numeric codes arrive as numbers while the store keeps them
// as strings.

// stringField returns the value under key as a string. Whole numbers are
// rendered without a fraction so provider codes like 270 survive the trip
// through float64.
func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// floatField parses the value under key as a float. The second return value
// is false when the field is missing or unparseable.
func floatField(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// boolField returns the value under key coerced to bool, defaulting to
// false when absent.
func boolField(m map[string]any, key string) bool {
	v, _ := m[key].(bool)
	return v
}

// joinStrings joins a raw string list with the separator, yielding "" for
// an absent or empty list.
func joinStrings(raw any, sep string) string {
	items, _ := raw.([]any)
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

// joinPhones joins the phone numbers of a raw phone list with ", ".
func joinPhones(raw any) string {
	items, _ := raw.([]any)
	parts := make([]string, 0, len(items))
	for _, item := range items {
		phone, _ := item.(map[string]any)
		if number, ok := phone["number"].(string); ok {
			parts = append(parts, number)
		}
	}
	return strings.Join(parts, ", ")
}
