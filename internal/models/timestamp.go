package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// zonedLayouts carry their own offset; zonelessLayouts are read in the
// zoneless location.
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.000Z0700",
		"2006-01-02T15:04:05Z0700",
		time.RFC1123Z,
		time.RFC1123,
	}
	zonelessLayouts = []string{
		"2006-01-02T15:04:05.000",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
)

// ParseTimestamp decodes a JSON timestamp value as sent by the habit service.
//
// Accepted shapes are timestamp strings (RFC 3339, ISO 8601 with or without
// an offset, RFC 1123, or a bare YYYY-MM-DD date), numbers of epoch
// milliseconds, and MongoDB extended JSON ({"$date": ...}). Any other value,
// including null, yields the zero time rather than an error: one corrupt
// completion must not make the whole habit unreadable.
func ParseTimestamp(raw json.RawMessage) time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}
		}
		return ParseTimestampString(s)
	case '{':
		var ext struct {
			Date       json.RawMessage `json:"$date"`
			NumberLong string          `json:"$numberLong"`
		}
		if err := json.Unmarshal(raw, &ext); err != nil {
			return time.Time{}
		}
		if ext.NumberLong != "" {
			return parseEpochMillis(ext.NumberLong)
		}
		return ParseTimestamp(ext.Date)
	default:
		return parseEpochMillis(string(raw))
	}
}

// ParseTimestampString parses a single timestamp string, returning the zero
// time when no accepted layout matches.
func ParseTimestampString(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, s, zonelessLocation()); err == nil {
			return t
		}
	}
	return time.Time{}
}

var zonelessLoc atomic.Pointer[time.Location]

// SetZonelessLocation sets the location used for timestamps that carry no
// offset, such as a bare "2025-06-18". Passing nil restores time.Local.
func SetZonelessLocation(loc *time.Location) {
	zonelessLoc.Store(loc)
}

func zonelessLocation() *time.Location {
	if loc := zonelessLoc.Load(); loc != nil {
		return loc
	}
	return time.Local
}

func parseEpochMillis(s string) time.Time {
	ms, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(ms))
}

func marshalTimestamp(t time.Time) ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}
