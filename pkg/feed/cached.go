package feed

import (
	"context"

	"github.com/raykavin/signalscope/pkg/core"
	"github.com/raykavin/signalscope/pkg/logger"
	"github.com/raykavin/signalscope/pkg/storage"
)

// Cached serves data from a cache and falls back to the wrapped source
type Cached struct {
	source core.DataSource
	cache  *storage.Cache
	log    logger.Logger
}

// NewCached wraps source with cache
func NewCached(source core.DataSource, cache *storage.Cache, log logger.Logger) *Cached {
	return &Cached{source: source, cache: cache, log: log}
}

// Bars implements core.DataSource
func (c *Cached) Bars(ctx context.Context, ticker string) ([]core.RawBar, error) {
	var bars []core.RawBar
	err := c.through(storage.BarsKey(ticker), &bars, func() (any, error) {
		fetched, err := c.source.Bars(ctx, ticker)
		bars = fetched
		return fetched, err
	})
	return bars, err
}

// Indicators implements core.DataSource
func (c *Cached) Indicators(ctx context.Context, ticker string, specs []string) (core.IndicatorData, error) {
	var data core.IndicatorData
	err := c.through(storage.IndicatorsKey(ticker, specs), &data, func() (any, error) {
		fetched, err := c.source.Indicators(ctx, ticker, specs)
		data = fetched
		return fetched, err
	})
	return data, err
}

// LastResult implements core.DataSource. Missing results are not cached.
func (c *Cached) LastResult(ctx context.Context, scenarioID string) (*core.AnalysisResult, error) {
	var result core.AnalysisResult
	key := storage.ResultKey(scenarioID)

	found, err := c.cache.Get(key, &result)
	if err != nil {
		c.log.WithError(err).Warnf("cache read %s", key)
	}
	if found {
		return &result, nil
	}

	fetched, err := c.source.LastResult(ctx, scenarioID)
	if err != nil || fetched == nil {
		return fetched, err
	}
	if err := c.cache.Put(key, fetched); err != nil {
		c.log.WithError(err).Warnf("cache write %s", key)
	}
	return fetched, nil
}

// through reads key into out, or calls fetch and stores what it returns.
// Cache failures are logged and never fail the request.
func (c *Cached) through(key string, out any, fetch func() (any, error)) error {
	found, err := c.cache.Get(key, out)
	if err != nil {
		c.log.WithError(err).Warnf("cache read %s", key)
	}
	if found {
		c.log.Debugf("cache hit %s", key)
		return nil
	}

	value, err := fetch()
	if err != nil {
		return err
	}
	if err := c.cache.Put(key, value); err != nil {
		c.log.WithError(err).Warnf("cache write %s", key)
	}
	return nil
}
