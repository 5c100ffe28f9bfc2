package franklinwh

import (
	"fmt"
	"strings"
	"time"
)

// timeLayout is the wall-clock format the vendor uses for device timestamps.
// The values carry no zone; interpret them in the installation's time zone,
// see [DeviceInfo.Location].
const timeLayout = "2006-01-02 15:04:05"

// Time supports unmarshalling zone-less timestamps returned by the FranklinWH
// API.
type Time struct {
	time.Time
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
func (m *Time) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		return nil
	}

	parsed, err := time.Parse(timeLayout, strings.Trim(s, `"`))
	if err != nil {
		return fmt.Errorf("parse device time: %w", err)
	}

	m.Time = parsed
	return nil
}

// In re-interprets the wall-clock value in the given location.
func (m Time) In(loc *time.Location) time.Time {
	if m.IsZero() || loc == nil {
		return m.Time
	}

	return time.Date(
		m.Year(), m.Month(), m.Day(),
		m.Hour(), m.Minute(), m.Second(), m.Nanosecond(),
		loc,
	)
}
