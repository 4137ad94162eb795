package indicator

import (
	"fmt"
	"math"

	"github.com/markcheno/go-talib"
	"go.uber.org/multierr"

	"github.com/raykavin/signalscope/pkg/core"
	"github.com/raykavin/signalscope/pkg/logger"
	"github.com/raykavin/signalscope/pkg/timekey"
)

type ohlcv struct {
	open, high, low, close, volume []float64
}

func columns(bars []core.Bar) ohlcv {
	data := ohlcv{
		open:   make([]float64, len(bars)),
		high:   make([]float64, len(bars)),
		low:    make([]float64, len(bars)),
		close:  make([]float64, len(bars)),
		volume: make([]float64, len(bars)),
	}
	for i, bar := range bars {
		data.open[i] = bar.Open
		data.high[i] = bar.High
		data.low[i] = bar.Low
		data.close[i] = bar.Close
		data.volume[i] = bar.Volume
	}
	return data
}

// Compute evaluates every spec over bars, which must be normalized. Specs
// that cannot be parsed or computed are logged and left out; their errors are
// returned combined.
func Compute(log logger.Logger, bars []core.Bar, specs []string) (core.IndicatorData, error) {
	data := core.IndicatorData{
		Dates:   make([]string, len(bars)),
		Columns: make([]core.IndicatorColumn, 0, len(specs)),
	}
	for i, bar := range bars {
		data.Dates[i] = timekey.Format(bar.Time)
	}

	input := columns(bars)
	var errs error
	for _, raw := range specs {
		spec, err := ParseSpec(raw)
		if err == nil {
			var values []*float64
			values, err = evaluate(spec, input)
			if err == nil {
				data.Columns = append(data.Columns, core.IndicatorColumn{Name: spec.Raw, Values: values})
				continue
			}
		}
		log.WithField("indicator", raw).WithError(err).Warn("indicator skipped")
		errs = multierr.Append(errs, fmt.Errorf("indicator %s: %w", raw, err))
	}

	return data, errs
}

func evaluate(spec Spec, in ohlcv) ([]*float64, error) {
	period := spec.Int("period")
	n := len(in.close)

	switch spec.Name {
	case "SMA":
		return guarded(n, period-1, func() []float64 { return talib.Sma(in.close, period) }), nil
	case "EMA":
		return guarded(n, period-1, func() []float64 { return talib.Ema(in.close, period) }), nil
	case "RSI":
		return guarded(n, period, func() []float64 { return talib.Rsi(in.close, period) }), nil
	case "ATR":
		return guarded(n, period, func() []float64 { return talib.Atr(in.high, in.low, in.close, period) }), nil
	case "ADX":
		return guarded(n, 2*period-1, func() []float64 { return talib.Adx(in.high, in.low, in.close, period) }), nil
	case "PRICE_CHANGE":
		return guarded(n, period, func() []float64 { return talib.Roc(in.close, period) }), nil
	case "HIGHEST":
		return guarded(n, period-1, func() []float64 { return rolling(in.close, period, talib.Max) }), nil
	case "LOWEST":
		return guarded(n, period-1, func() []float64 { return rolling(in.close, period, talib.Min) }), nil
	case "VOLUME_RATIO":
		return guarded(n, period-1, func() []float64 { return volumeRatio(in.volume, period) }), nil

	case "BBANDS_UPPER", "BBANDS_MIDDLE", "BBANDS_LOWER":
		dev := spec.Params["std"]
		return guarded(n, period-1, func() []float64 {
			upper, middle, lower := talib.BBands(in.close, period, dev, dev, talib.SMA)
			switch spec.Name {
			case "BBANDS_UPPER":
				return upper
			case "BBANDS_MIDDLE":
				return middle
			default:
				return lower
			}
		}), nil

	case "MACD", "MACD_SIGNAL", "MACD_HIST":
		fast, slow, signal := spec.Int("fast"), spec.Int("slow"), spec.Int("signal")
		return guarded(n, max(fast, slow)+signal-2, func() []float64 {
			macd, macdSignal, hist := talib.Macd(in.close, fast, slow, signal)
			switch spec.Name {
			case "MACD":
				return macd
			case "MACD_SIGNAL":
				return macdSignal
			default:
				return hist
			}
		}), nil

	case "STOCH_K", "STOCH_D":
		k, d := spec.Int("k"), spec.Int("d")
		if spec.Name == "STOCH_K" {
			return guarded(n, k-1, func() []float64 { return stochK(in, k) }), nil
		}
		return guarded(n, k+d-2, func() []float64 { return trailingMean(stochK(in, k), d) }), nil
	}

	return nil, fmt.Errorf("unsupported indicator %s", spec.Name)
}

// guarded runs compute only when there is data past the warmup and marks
// warmup positions and non-finite values as null. go-talib fills the warmup
// with zeros and panics on inputs shorter than its lookback.
func guarded(n, lookback int, compute func() []float64) []*float64 {
	values := make([]*float64, n)
	if n <= lookback {
		return values
	}

	out := compute()
	for i := lookback; i < n && i < len(out); i++ {
		v := out[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		values[i] = &v
	}
	return values
}

func rolling(input []float64, period int, fn func([]float64, int) []float64) []float64 {
	if period < 2 {
		return append([]float64(nil), input...)
	}
	return fn(input, period)
}

func volumeRatio(volume []float64, period int) []float64 {
	avg := talib.Sma(volume, period)
	ratio := make([]float64, len(volume))
	for i := range volume {
		if avg[i] == 0 {
			ratio[i] = math.NaN()
			continue
		}
		ratio[i] = volume[i] / avg[i]
	}
	return ratio
}

// stochK is the raw %K over k bars
func stochK(in ohlcv, k int) []float64 {
	highest := rolling(in.high, k, talib.Max)
	lowest := rolling(in.low, k, talib.Min)

	out := make([]float64, len(in.close))
	for i := range out {
		span := highest[i] - lowest[i]
		if span == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = 100 * (in.close[i] - lowest[i]) / span
	}
	return out
}

// trailingMean averages the last n values at every position. A NaN only
// affects the windows that contain it.
func trailingMean(values []float64, n int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i+1 < n {
			out[i] = math.NaN()
			continue
		}
		sum := 0.0
		for _, v := range values[i+1-n : i+1] {
			sum += v
		}
		out[i] = sum / float64(n)
	}
	return out
}
