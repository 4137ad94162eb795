package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/jpillora/backoff"

	"github.com/raykavin/signalscope/pkg/core"
	"github.com/raykavin/signalscope/pkg/logger"
)

// StatusError is a non-2xx backend response
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Code, e.Body)
}

// Temporary reports whether retrying the request may succeed
func (e *StatusError) Temporary() bool {
	return e.Code >= http.StatusInternalServerError || e.Code == http.StatusTooManyRequests
}

// Client reads data from the backtest backend
type Client struct {
	baseURL    string
	source     string
	httpClient *http.Client
	retries    int
	minWait    time.Duration
	maxWait    time.Duration
	log        logger.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the timeout of a single request
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithRetries sets how many times a failed request is retried
func WithRetries(retries int) ClientOption {
	return func(c *Client) {
		c.retries = retries
	}
}

// WithBackoff sets the bounds of the wait between retries
func WithBackoff(minWait, maxWait time.Duration) ClientOption {
	return func(c *Client) {
		c.minWait, c.maxWait = minWait, maxWait
	}
}

// WithDataSource selects the backend's market data source, e.g. "yahoo" or "csv"
func WithDataSource(source string) ClientOption {
	return func(c *Client) {
		c.source = source
	}
}

// NewClient creates a client for the backend at baseURL
func NewClient(baseURL string, log logger.Logger, options ...ClientOption) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retries:    3,
		minWait:    100 * time.Millisecond,
		maxWait:    time.Second,
		log:        log,
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// Bars implements core.DataSource
func (c *Client) Bars(ctx context.Context, ticker string) ([]core.RawBar, error) {
	var bars []core.RawBar
	if err := c.get(ctx, "/api/data/ohlcv", c.query(ticker), &bars); err != nil {
		return nil, fmt.Errorf("ohlcv %s: %w", ticker, err)
	}
	return bars, nil
}

type indicatorsResponse struct {
	Dates      []string              `json:"dates"`
	Indicators map[string][]*float64 `json:"indicators"`
}

// Indicators implements core.DataSource. Columns follow the requested order;
// columns the backend names differently come last, sorted by name.
func (c *Client) Indicators(ctx context.Context, ticker string, specs []string) (core.IndicatorData, error) {
	query := c.query(ticker)
	query.Set("indicators", strings.Join(specs, ","))

	var response indicatorsResponse
	if err := c.get(ctx, "/api/data/indicators", query, &response); err != nil {
		return core.IndicatorData{}, fmt.Errorf("indicators %s: %w", ticker, err)
	}

	data := core.IndicatorData{Dates: response.Dates}
	seen := make(map[string]bool, len(response.Indicators))
	for _, spec := range specs {
		name := strings.ToUpper(strings.TrimSpace(spec))
		if values, ok := response.Indicators[name]; ok && !seen[name] {
			data.Columns = append(data.Columns, core.IndicatorColumn{Name: name, Values: values})
			seen[name] = true
		}
	}

	rest := make([]string, 0, len(response.Indicators))
	for name := range response.Indicators {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		data.Columns = append(data.Columns, core.IndicatorColumn{Name: name, Values: response.Indicators[name]})
	}

	return data, nil
}

// LastResult implements core.DataSource. It returns nil when the scenario
// has not been run yet.
func (c *Client) LastResult(ctx context.Context, scenarioID string) (*core.AnalysisResult, error) {
	var result *core.AnalysisResult
	path := "/api/analysis/" + url.PathEscape(scenarioID) + "/last"
	if err := c.get(ctx, path, nil, &result); err != nil {
		return nil, fmt.Errorf("last result %s: %w", scenarioID, err)
	}
	return result, nil
}

func (c *Client) query(ticker string) url.Values {
	query := url.Values{"ticker": []string{ticker}}
	if c.source != "" {
		query.Set("source", c.source)
	}
	return query
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	retry := &backoff.Backoff{Min: c.minWait, Max: c.maxWait, Jitter: true}
	for attempt := 0; ; attempt++ {
		err := c.do(ctx, target, out)
		if err == nil {
			return nil
		}

		var status *StatusError
		if errors.As(err, &status) && !status.Temporary() {
			return err
		}
		if ctx.Err() != nil || attempt >= c.retries {
			return err
		}

		wait := retry.Duration()
		c.log.WithError(err).WithField("url", target).Warnf("request failed, retrying in %s", wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (c *Client) do(ctx context.Context, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
