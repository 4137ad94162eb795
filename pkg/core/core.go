package core

import "context"

// DataSource provides the external data the chart consumes
type DataSource interface {
	Bars(ctx context.Context, ticker string) ([]RawBar, error)
	Indicators(ctx context.Context, ticker string, specs []string) (IndicatorData, error)
	LastResult(ctx context.Context, scenarioID string) (*AnalysisResult, error)
}
