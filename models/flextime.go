package models

import (
	"bytes"
	"strconv"
	"time"
)

// flexLayouts are the string layouts tried in order when decoding a
// FlexTime from a JSON string.
var flexLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FlexTime is a time.Time that tolerates the representations
// authentication backends emit for expiry fields: RFC 3339 strings,
// bare datetime strings, and numeric epoch seconds or milliseconds.
//
// Decoding is best effort: a value that cannot be parsed is left as the
// zero time and UnmarshalJSON still returns nil, so a malformed date
// never fails decoding the surrounding authentication result.
type FlexTime struct {
	time.Time
}

// NewFlexTime wraps t in a FlexTime.
func NewFlexTime(t time.Time) *FlexTime {
	return &FlexTime{Time: t}
}

// UnmarshalJSON decodes data into t, accepting string and numeric
// forms. It never returns an error; unparsable input leaves t zero.
func (t *FlexTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return nil
		}
		for _, layout := range flexLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				t.Time = parsed
				return nil
			}
		}
		return nil
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		// Fractional epoch seconds.
		if f, ferr := strconv.ParseFloat(string(data), 64); ferr == nil {
			t.Time = time.UnixMilli(int64(f * 1000)).UTC()
		}
		return nil
	}
	// Values this large can only be epoch milliseconds.
	if n >= 1e12 || n <= -1e12 {
		t.Time = time.UnixMilli(n).UTC()
	} else {
		t.Time = time.Unix(n, 0).UTC()
	}
	return nil
}

// MarshalJSON encodes t as an RFC 3339 string, or null when zero.
func (t FlexTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(t.Format(time.RFC3339Nano))), nil
}
