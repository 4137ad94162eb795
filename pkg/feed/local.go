package feed

import (
	"context"
	"fmt"

	"github.com/raykavin/signalscope/pkg/core"
	"github.com/raykavin/signalscope/pkg/indicator"
	"github.com/raykavin/signalscope/pkg/logger"
	"github.com/raykavin/signalscope/pkg/timekey"
)

// Local serves bars from a CSV file and a result from a JSON file, and
// computes indicators itself. The ticker and scenario arguments are ignored.
type Local struct {
	BarsPath   string
	ResultPath string
	log        logger.Logger
}

// NewLocal creates a file backed source
func NewLocal(barsPath, resultPath string, log logger.Logger) *Local {
	return &Local{BarsPath: barsPath, ResultPath: resultPath, log: log}
}

// Bars implements core.DataSource
func (l *Local) Bars(ctx context.Context, _ string) ([]core.RawBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadCSV(l.BarsPath)
}

// Indicators implements core.DataSource
func (l *Local) Indicators(ctx context.Context, ticker string, specs []string) (core.IndicatorData, error) {
	raw, err := l.Bars(ctx, ticker)
	if err != nil {
		return core.IndicatorData{}, err
	}

	bars, err := timekey.Bars(raw)
	if err != nil {
		l.log.WithError(err).Warn("invalid bars dropped before computing indicators")
	}
	return indicator.Compute(l.log, bars, specs)
}

// LastResult implements core.DataSource. It returns nil without a result file.
func (l *Local) LastResult(ctx context.Context, _ string) (*core.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.ResultPath == "" {
		return nil, nil
	}

	result, err := LoadResult(l.ResultPath)
	if err != nil {
		return nil, fmt.Errorf("last result: %w", err)
	}
	return &result, nil
}
