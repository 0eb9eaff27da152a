package epg

import (
	"fmt"
)

// ParseError is returned when feed data could not be decoded as XMLTV or as
// the JSON variant. Both underlying causes are preserved for diagnostics.
type ParseError struct {
	XMLErr  error
	JSONErr error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse EPG data: XML error: %v, JSON error: %v", e.XMLErr, e.JSONErr)
}

// TimeParseError is returned for a malformed feed timestamp token. During
// parsing it is caught per-program: the offending entry is dropped and
// counted, never propagated.
type TimeParseError struct {
	Value  string
	Reason string
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("failed to parse time %q: %s", e.Value, e.Reason)
}

// FetchError is returned when the feed source could not be fetched: transport
// errors, timeouts, or a non-success HTTP status.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch EPG data from %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
