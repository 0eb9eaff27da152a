package epg

import (
	"strings"
	"time"
)

const xmltvTimeLayout = "20060102150405"

// ParseXMLTVTime parses an XMLTV timestamp token into a canonical UTC instant.
// Accepted forms are "YYYYMMDDHHMMSS +HHMM" (explicit offset, converted to
// UTC) and "YYYYMMDDHHMMSS" (assumed to already be UTC). A trailing token that
// does not look like a signed 4-digit offset is ignored.
func ParseXMLTVTime(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, &TimeParseError{Value: value, Reason: "missing time value"}
	}

	parts := strings.Fields(s)
	t, err := time.Parse(xmltvTimeLayout, parts[0])
	if err != nil {
		return time.Time{}, &TimeParseError{Value: value, Reason: err.Error()}
	}

	if len(parts) > 1 && isOffset(parts[1]) {
		if local, err := time.Parse(xmltvTimeLayout+" -0700", parts[0]+" "+parts[1]); err == nil {
			t = local
		}
	}

	return t.UTC(), nil
}

// ParseISOTime parses a timestamp from the JSON feed variant. RFC 3339 is the
// expected form; a zone-less timestamp is interpreted as UTC.
func ParseISOTime(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, &TimeParseError{Value: value, Reason: "missing time value"}
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}

	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		return time.Time{}, &TimeParseError{Value: value, Reason: err.Error()}
	}

	return t.UTC(), nil
}

// isOffset reports whether s has the form +HHMM or -HHMM.
func isOffset(s string) bool {
	if len(s) != 5 || (s[0] != '+' && s[0] != '-') {
		return false
	}
	for _, c := range s[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
