package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cast"
)

// The remote service is loosely typed: after wire repair most scalars arrive
// as strings, but unrepaired payloads may still carry numbers. These types
// accept either form.

var jsonNull = []byte("null")

// FlexString decodes a JSON string or number into its text form.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = FlexString(n.String())
	return nil
}

// FlexInt decodes a JSON number or numeric string.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*f = 0
		return nil
	}
	n, err := cast.ToIntE(raw)
	if err != nil {
		return fmt.Errorf("expected integer, got %s: %w", data, err)
	}
	*f = FlexInt(n)
	return nil
}

// FlexTime decodes RFC3339 and other common date-time strings, or unix
// seconds/milliseconds given as a number or numeric string. Valid is false for
// null or a missing field.
type FlexTime struct {
	Time  time.Time
	Valid bool
}

// unixMillisThreshold separates unix seconds from unix milliseconds.
const unixMillisThreshold = 100_000_000_000

func (f *FlexTime) UnmarshalJSON(data []byte) error {
	var s FlexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	if s == "" {
		*f = FlexTime{}
		return nil
	}
	t, err := ParseTimestamp(string(s))
	if err != nil {
		return err
	}
	*f = FlexTime{Time: t, Valid: true}
	return nil
}

// Ptr returns nil when the time is not set.
func (f FlexTime) Ptr() *time.Time {
	if !f.Valid {
		return nil
	}
	t := f.Time
	return &t
}

// ParseTimestamp parses the timestamp forms the service is known to emit.
// Zone-less values are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n >= unixMillisThreshold || n <= -unixMillisThreshold {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	t, err := cast.ToTimeInDefaultLocationE(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q: %w", s, err)
	}
	return t, nil
}
