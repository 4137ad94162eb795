// Package viewport computes the visible time window that brings an anchor
// event and its forward evaluation horizon into view.
package viewport

import (
	"fmt"
	"math"
	"time"

	"github.com/raykavin/signalscope/pkg/core"
	"github.com/xhit/go-str2duration/v2"
)

// Day is the unit horizons are expressed in
const Day = 24 * time.Hour

const (
	DefaultPaddingBefore     = 30 * Day
	DefaultMinPaddingAfter   = 30 * Day
	DefaultHorizonMultiplier = 1.5
	// DefaultHorizonDays is assumed when the horizon is absent
	DefaultHorizonDays = 30
)

// Focuser derives a viewport from an anchor time: a fixed trailing context
// plus a leading context proportional to the forward horizon
type Focuser struct {
	PaddingBefore     time.Duration
	MinPaddingAfter   time.Duration
	HorizonMultiplier float64
}

// DefaultFocuser returns a focuser with the standard paddings
func DefaultFocuser() Focuser {
	return Focuser{
		PaddingBefore:     DefaultPaddingBefore,
		MinPaddingAfter:   DefaultMinPaddingAfter,
		HorizonMultiplier: DefaultHorizonMultiplier,
	}
}

// Range computes the viewport around anchor (epoch seconds). A horizon of
// zero or less means absent and falls back to DefaultHorizonDays.
func (f Focuser) Range(anchor int64, horizonDays int) core.Viewport {
	f = f.withDefaults()
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	// seconds, so long horizons cannot overflow a Duration
	after := float64(horizonDays) * f.HorizonMultiplier * Day.Seconds()
	if minAfter := f.MinPaddingAfter.Seconds(); after < minAfter {
		after = minAfter
	}

	return core.Viewport{
		From: anchor - int64(f.PaddingBefore/time.Second),
		To:   anchor + clampAfter(anchor, after),
	}
}

// clampAfter converts the padding to whole seconds, capped so that anchor
// plus the padding still fits in an int64
func clampAfter(anchor int64, after float64) int64 {
	limit := int64(math.MaxInt64)
	if anchor > 0 {
		limit -= anchor
	}
	if after >= float64(limit) {
		return limit
	}
	if seconds := int64(after); seconds < limit {
		return seconds
	}
	return limit
}

func (f Focuser) withDefaults() Focuser {
	if f.PaddingBefore <= 0 {
		f.PaddingBefore = DefaultPaddingBefore
	}
	if f.MinPaddingAfter <= 0 {
		f.MinPaddingAfter = DefaultMinPaddingAfter
	}
	if f.HorizonMultiplier <= 0 {
		f.HorizonMultiplier = DefaultHorizonMultiplier
	}
	return f
}

// FocusRange computes the viewport with the default paddings
func FocusRange(anchor int64, horizonDays int) core.Viewport {
	return DefaultFocuser().Range(anchor, horizonDays)
}

// ParsePadding parses a padding such as "30d", "1w" or "36h"
func ParsePadding(value string) (time.Duration, error) {
	d, err := str2duration.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid padding %q: %w", value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("padding %q must be positive", value)
	}
	return d, nil
}
