package indicator

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/raykavin/signalscope/pkg/chart"
	"github.com/raykavin/signalscope/pkg/core"
	"github.com/raykavin/signalscope/pkg/logger/zerolog"
)

func TestParseSpec(t *testing.T) {
	tests := []struct {
		raw    string
		name   string
		params map[string]float64
	}{
		{"SMA_200", "SMA", map[string]float64{"period": 200}},
		{"rsi_14", "RSI", map[string]float64{"period": 14}},
		{"ATR", "ATR", map[string]float64{"period": 14}},
		{"BBANDS_UPPER_20_2.5", "BBANDS_UPPER", map[string]float64{"period": 20, "std": 2.5}},
		{"BBANDS_LOWER", "BBANDS_LOWER", map[string]float64{"period": 20, "std": 2}},
		{"MACD_HIST", "MACD_HIST", map[string]float64{"fast": 12, "slow": 26, "signal": 9}},
		{"MACD_5_35_5", "MACD", map[string]float64{"fast": 5, "slow": 35, "signal": 5}},
		{"STOCH_D_10", "STOCH_D", map[string]float64{"k": 10, "d": 3}},
		{"PRICE_CHANGE_5", "PRICE_CHANGE", map[string]float64{"period": 5}},
		{"VOLUME_RATIO_x_20", "VOLUME_RATIO", map[string]float64{"period": 20}},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			spec, err := ParseSpec(tc.raw)
			require.NoError(t, err)
			require.Equal(t, tc.name, spec.Name)
			require.Equal(t, tc.params, spec.Params)
		})
	}

	_, err := ParseSpec("")
	require.Error(t, err)
	_, err = ParseSpec("SMA_0")
	require.Error(t, err)
}

func testBars(n int) []core.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]core.Bar, n)
	for i := range bars {
		price := 100 + float64(i%7) + float64(i)/2
		bars[i] = core.Bar{
			Time:   start.AddDate(0, 0, i).Unix(),
			Open:   price,
			High:   price + 2,
			Low:    price - 2,
			Close:  price + 1,
			Volume: 1000 + float64(i%5)*100,
		}
	}
	return bars
}

func TestCompute(t *testing.T) {
	bars := testBars(60)

	data, err := Compute(zerolog.Nop(), bars, []string{"SMA_5", "RSI_14", "MACD_HIST", "STOCH_D", "BBANDS_UPPER", "VOLUME_RATIO_10", "NOPE_3"})
	require.ErrorContains(t, err, "NOPE_3")
	require.Len(t, data.Dates, 60)
	require.Equal(t, "2024-01-01", data.Dates[0])
	require.Len(t, data.Columns, 6)

	sma := data.Columns[0]
	require.Equal(t, "SMA_5", sma.Name)
	for i := 0; i < 4; i++ {
		require.Nil(t, sma.Values[i])
	}
	require.NotNil(t, sma.Values[4])
	want := (bars[0].Close + bars[1].Close + bars[2].Close + bars[3].Close + bars[4].Close) / 5
	require.InDelta(t, want, *sma.Values[4], 1e-9)

	require.Nil(t, data.Columns[1].Values[13])
	require.NotNil(t, data.Columns[1].Values[14])

	hist := data.Columns[2]
	require.Nil(t, hist.Values[32])
	require.NotNil(t, hist.Values[33])

	stochD := data.Columns[3]
	require.Nil(t, stochD.Values[14])
	require.NotNil(t, stochD.Values[15])
	require.GreaterOrEqual(t, *stochD.Values[15], 0.0)
	require.LessOrEqual(t, *stochD.Values[15], 100.0)
}

func TestCompute_ShortInput(t *testing.T) {
	data, err := Compute(zerolog.Nop(), testBars(3), []string{"SMA_20", "MACD"})
	require.NoError(t, err)
	require.Len(t, data.Columns, 2)
	for _, column := range data.Columns {
		require.Len(t, column.Values, 3)
		require.Equal(t, []*float64{nil, nil, nil}, column.Values)
	}
}

func TestToSeries(t *testing.T) {
	data := core.IndicatorData{
		Dates: []string{"2024-01-01", "2024-01-02", "2024-01-03"},
		Columns: []core.IndicatorColumn{
			{Name: "SMA_2", Values: []*float64{nil, lo.ToPtr(1.5), lo.ToPtr(2.5)}},
			{Name: "MACD_HIST", Values: []*float64{lo.ToPtr(-1.0), nil, lo.ToPtr(0.5)}},
		},
	}

	series := ToSeries(data, chart.DefaultPalette)
	require.Len(t, series, 2)

	require.Equal(t, "SMA_2", series[0].ID)
	require.Equal(t, core.KindLine, series[0].Kind)
	require.Equal(t, "#3b82f6", series[0].Color)
	require.Equal(t, []core.RawPoint{{Time: "2024-01-02", Value: 1.5}, {Time: "2024-01-03", Value: 2.5}}, series[0].Points)

	require.Equal(t, core.KindHistogram, series[1].Kind)
	require.Equal(t, "#ef4444", series[1].Color)
	require.Len(t, series[1].Points, 2)

	require.Equal(t, core.KindHistogram, Kind("volume_ratio_20"))
}
