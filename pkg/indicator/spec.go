// Package indicator computes technical indicator columns over bars with
// go-talib and converts them into chart series.
package indicator

import (
	"fmt"
	"strconv"
	"strings"
)

// multiWord lists names that contain an underscore themselves
var multiWord = []string{
	"BBANDS_UPPER", "BBANDS_MIDDLE", "BBANDS_LOWER",
	"MACD_SIGNAL", "MACD_HIST",
	"STOCH_K", "STOCH_D",
	"PRICE_CHANGE", "VOLUME_RATIO",
}

// Spec is a parsed indicator column name such as "SMA_200" or "MACD_HIST_12_26_9"
type Spec struct {
	Raw    string
	Name   string
	Params map[string]float64
}

// Int returns an integer parameter
func (s Spec) Int(name string) int {
	return int(s.Params[name])
}

// ParseSpec splits a column name into the indicator name and its numeric
// parameters. Missing parameters take the indicator defaults; non-numeric
// parts are ignored.
func ParseSpec(raw string) (Spec, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return Spec{}, fmt.Errorf("empty indicator spec")
	}

	name, rest := raw, ""
	matched := false
	for _, mw := range multiWord {
		if raw == mw || strings.HasPrefix(raw, mw+"_") {
			name, rest = mw, strings.TrimPrefix(strings.TrimPrefix(raw, mw), "_")
			matched = true
			break
		}
	}
	if !matched {
		name, rest, _ = strings.Cut(raw, "_")
	}

	var nums []float64
	if rest != "" {
		for _, part := range strings.Split(rest, "_") {
			if v, err := strconv.ParseFloat(part, 64); err == nil {
				nums = append(nums, v)
			}
		}
	}

	spec := Spec{Raw: raw, Name: name, Params: params(name, nums)}
	for key, v := range spec.Params {
		if v <= 0 {
			return spec, fmt.Errorf("indicator %s: %s must be positive", raw, key)
		}
	}
	return spec, nil
}

func params(name string, nums []float64) map[string]float64 {
	at := func(i int, def float64) float64 {
		if i < len(nums) {
			return nums[i]
		}
		return def
	}

	switch name {
	case "MACD", "MACD_SIGNAL", "MACD_HIST":
		return map[string]float64{"fast": at(0, 12), "slow": at(1, 26), "signal": at(2, 9)}
	case "STOCH_K", "STOCH_D":
		return map[string]float64{"k": at(0, 14), "d": at(1, 3)}
	case "BBANDS_UPPER", "BBANDS_MIDDLE", "BBANDS_LOWER":
		return map[string]float64{"period": at(0, 20), "std": at(1, 2)}
	default:
		return map[string]float64{"period": at(0, 14)}
	}
}
