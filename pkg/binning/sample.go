package binning

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/raykavin/signalscope/pkg/core"
)

// ParseSample converts loosely typed distribution values, as decoded from
// JSON or CSV, into a float sample. Any value that is not a finite number
// fails the whole sample.
func ParseSample(values []any) ([]float64, error) {
	sample := make([]float64, 0, len(values))

	for i, value := range values {
		v, ok := toFloat(value)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &core.InvalidSampleError{Index: i, Value: value}
		}
		sample = append(sample, v)
	}

	return sample, nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
