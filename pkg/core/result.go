package core

import "github.com/samber/lo"

// Direction is the side a target threshold is evaluated on
type Direction string

const (
	DirectionAbove Direction = "ABOVE"
	DirectionBelow Direction = "BELOW"
)

// SignalOutcome is the evaluation of one signal against one target
type SignalOutcome struct {
	TargetID        string    `json:"target_id"`
	DaysForward     int       `json:"days_forward"`
	ThresholdPct    float64   `json:"threshold_pct"`
	Direction       Direction `json:"direction"`
	FutureDate      *string   `json:"future_date,omitempty"`
	FuturePrice     *float64  `json:"future_price,omitempty"`
	ActualChangePct *float64  `json:"actual_change_pct,omitempty"`
	MaxChangePct    *float64  `json:"max_change_pct,omitempty"`
	Hit             *bool     `json:"hit,omitempty"`
	AnytimeHit      *bool     `json:"anytime_hit,omitempty"`
}

// Signal is a date where the entry conditions of a scenario were met
type Signal struct {
	Date            string             `json:"date"`
	Price           float64            `json:"price"`
	IndicatorValues map[string]float64 `json:"indicator_values,omitempty"`
	Outcomes        []SignalOutcome    `json:"outcomes"`
}

// Outcome returns the outcome of the signal for the given target
func (s Signal) Outcome(targetID string) (SignalOutcome, bool) {
	return lo.Find(s.Outcomes, func(o SignalOutcome) bool {
		return o.TargetID == targetID
	})
}

// TargetStats aggregates the outcomes of every signal for a target
type TargetStats struct {
	TargetID        string    `json:"target_id"`
	DaysForward     int       `json:"days_forward"`
	ThresholdPct    float64   `json:"threshold_pct"`
	Direction       Direction `json:"direction"`
	TotalEvaluable  int       `json:"total_evaluable"`
	HitCount        int       `json:"hit_count"`
	MissCount       int       `json:"miss_count"`
	HitRatePct      float64   `json:"hit_rate_pct"`
	AvgChangePct    float64   `json:"avg_change_pct"`
	MedianChangePct float64   `json:"median_change_pct"`
	MaxChangePct    float64   `json:"max_change_pct"`
	MinChangePct    float64   `json:"min_change_pct"`
	StdDev          float64   `json:"std_dev"`
	Percentile5     float64   `json:"percentile_5"`
	Percentile25    float64   `json:"percentile_25"`
	Percentile75    float64   `json:"percentile_75"`
	Percentile95    float64   `json:"percentile_95"`
	Distribution    []float64 `json:"distribution"`
}

// AnalysisResult is the opaque output of a backtest run
type AnalysisResult struct {
	ScenarioID   string        `json:"scenario_id"`
	ScenarioName string        `json:"scenario_name"`
	Underlying   string        `json:"underlying"`
	RunDate      string        `json:"run_date"`
	DataStart    string        `json:"data_start"`
	DataEnd      string        `json:"data_end"`
	TotalBars    int           `json:"total_bars"`
	TotalSignals int           `json:"total_signals"`
	TargetStats  []TargetStats `json:"target_stats"`
	Signals      []Signal      `json:"signals"`
}

// Target returns the statistics of the given target
func (r AnalysisResult) Target(targetID string) (TargetStats, bool) {
	return lo.Find(r.TargetStats, func(t TargetStats) bool {
		return t.TargetID == targetID
	})
}

// Signal returns the signal emitted at the given date
func (r AnalysisResult) Signal(date string) (Signal, bool) {
	return lo.Find(r.Signals, func(s Signal) bool {
		return s.Date == date
	})
}
