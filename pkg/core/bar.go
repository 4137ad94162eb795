package core

import (
	"fmt"
	"strconv"
)

// RawBar is an OHLCV observation as delivered by external data sources,
// with its date still in textual form
type RawBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Bar represents a normalized OHLCV observation keyed by epoch seconds
type Bar struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// IsUp reports whether the bar closed at or above its open
func (b Bar) IsUp() bool { return b.Close >= b.Open }

// IsEmpty checks if the bar contains no significant data
func (b Bar) IsEmpty() bool { return b.Time == 0 && b.Close == 0 && b.Open == 0 && b.Volume == 0 }

// ToSlice converts a bar to a string slice for serialization
// with the specified decimal precision
func (b Bar) ToSlice(precision int) []string {
	return []string{
		fmt.Sprintf("%d", b.Time),
		strconv.FormatFloat(b.Open, 'f', precision, 64),
		strconv.FormatFloat(b.High, 'f', precision, 64),
		strconv.FormatFloat(b.Low, 'f', precision, 64),
		strconv.FormatFloat(b.Close, 'f', precision, 64),
		strconv.FormatFloat(b.Volume, 'f', precision, 64),
	}
}

// Closes extracts the close prices of the bars
func Closes(bars []Bar) Series[float64] {
	values := make(Series[float64], len(bars))
	for i, bar := range bars {
		values[i] = bar.Close
	}
	return values
}
