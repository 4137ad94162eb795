// Package timekey canonicalizes the heterogeneous time representations used
// by bars, indicator values and annotations into one ordered timeline of
// epoch seconds.
package timekey

import (
	"strconv"
	"strings"
	"time"

	"github.com/raykavin/signalscope/pkg/core"
)

// DateLayout is the layout used for date-only keys
const DateLayout = "2006-01-02"

// CompactLayout is the digit-only date layout. Other digit strings are epoch seconds.
const CompactLayout = "20060102"

var layouts = []string{
	DateLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Parse converts a textual time into epoch seconds. Date-only values and
// values without a zone are read as UTC.
func Parse(raw string) (int64, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, &core.InvalidTimeError{Index: -1, Value: raw}
	}

	if isDigits(value) {
		if len(value) == len(CompactLayout) {
			t, err := time.ParseInLocation(CompactLayout, value, time.UTC)
			if err != nil {
				return 0, &core.InvalidTimeError{Index: -1, Value: raw}
			}
			return t.Unix(), nil
		}
		seconds, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, &core.InvalidTimeError{Index: -1, Value: raw}
		}
		return seconds, nil
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.Unix(), nil
		}
	}

	return 0, &core.InvalidTimeError{Index: -1, Value: raw}
}

// MustParse is like Parse but panics on error. Intended for constants in tests
// and examples.
func MustParse(raw string) int64 {
	t, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// Time converts epoch seconds back to a UTC time
func Time(seconds int64) time.Time {
	return time.Unix(seconds, 0).UTC()
}

// Format renders epoch seconds as a date-only key
func Format(seconds int64) string {
	return Time(seconds).Format(DateLayout)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
