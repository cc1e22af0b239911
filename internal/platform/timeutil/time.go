package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// RFC3339Millis is RFC 3339 UTC with fixed millisecond precision.
// This is the default log timestamp format.
const RFC3339Millis = "2006-01-02T15:04:05.000Z"

// RFC3339Micros is RFC 3339 UTC with fixed microsecond precision.
const RFC3339Micros = "2006-01-02T15:04:05.000000Z"

var namedLayouts = map[string]string{
	"rfc3339":       time.RFC3339,
	"rfc3339millis": RFC3339Millis,
	"rfc3339micros": RFC3339Micros,
	"rfc3339nano":   time.RFC3339Nano,
}

// ResolveLayout maps a layout name (rfc3339, rfc3339millis, rfc3339micros,
// rfc3339nano) to its Go reference layout. Any other non-empty value is
// treated as a literal Go layout and must contain the reference year.
func ResolveLayout(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return RFC3339Millis, nil
	}
	if layout, ok := namedLayouts[strings.ToLower(trimmed)]; ok {
		return layout, nil
	}
	if !strings.Contains(trimmed, "2006") {
		return "", fmt.Errorf("time layout %q has no year component", trimmed)
	}
	return trimmed, nil
}

// Format renders t in UTC using layout.
func Format(t time.Time, layout string) string {
	return t.UTC().Format(layout)
}
