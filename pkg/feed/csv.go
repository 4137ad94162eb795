// Package feed loads bars, indicator columns and analysis results from CSV
// and JSON files or from the backtest backend.
package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/raykavin/signalscope/pkg/core"
	"github.com/raykavin/signalscope/pkg/timekey"
)

var (
	ErrInsufficientData = errors.New("insufficient data")

	// columns of a file without a header
	defaultHeaderMap = map[string]int{
		"date": 0, "open": 1, "high": 2, "low": 3, "close": 4, "volume": 5,
	}
	requiredColumns = []string{"date", "open", "high", "low", "close", "volume"}
)

// parseHeaders maps column names to indexes. A first row whose first cell is
// a time is data, not a header.
func parseHeaders(row []string) (map[string]int, bool, error) {
	if _, err := timekey.Parse(row[0]); err == nil {
		return defaultHeaderMap, false, nil
	}

	headerMap := make(map[string]int, len(row))
	for index, header := range row {
		name := strings.ToLower(strings.TrimSpace(header))
		if name == "time" || name == "timestamp" {
			name = "date"
		}
		headerMap[name] = index
	}

	for _, column := range requiredColumns {
		if _, ok := headerMap[column]; !ok {
			return nil, true, fmt.Errorf("missing column %q", column)
		}
	}
	return headerMap, true, nil
}

// LoadCSV reads OHLCV bars from a CSV file
func LoadCSV(path string) ([]core.RawBar, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	bars, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bars, nil
}

// ReadCSV reads OHLCV bars. The header row is optional and its columns may
// come in any order.
func ReadCSV(r io.Reader) ([]core.RawBar, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	lines, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrInsufficientData
	}

	headerMap, hasHeader, err := parseHeaders(lines[0])
	if err != nil {
		return nil, err
	}
	if hasHeader {
		lines = lines[1:]
	}

	bars := make([]core.RawBar, 0, len(lines))
	for i, line := range lines {
		bar, err := parseBar(line, headerMap)
		if err != nil {
			row := i + 1
			if hasHeader {
				row++
			}
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		bars = append(bars, bar)
	}

	return bars, nil
}

func parseBar(line []string, headerMap map[string]int) (core.RawBar, error) {
	field := func(name string) (string, error) {
		index := headerMap[name]
		if index >= len(line) {
			return "", fmt.Errorf("missing %s", name)
		}
		return strings.TrimSpace(line[index]), nil
	}

	date, err := field("date")
	if err != nil {
		return core.RawBar{}, err
	}
	bar := core.RawBar{Date: date}

	for _, target := range []struct {
		name  string
		value *float64
	}{
		{"open", &bar.Open},
		{"high", &bar.High},
		{"low", &bar.Low},
		{"close", &bar.Close},
		{"volume", &bar.Volume},
	} {
		raw, err := field(target.name)
		if err != nil {
			return core.RawBar{}, err
		}
		if *target.value, err = strconv.ParseFloat(raw, 64); err != nil {
			return core.RawBar{}, fmt.Errorf("%s: %w", target.name, err)
		}
	}

	return bar, nil
}
