// Package analysis derives views from an analysis result: hit rates by
// calendar period, the per-signal time resolution scatter and distribution
// summaries.
package analysis

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"go.uber.org/multierr"

	"github.com/raykavin/signalscope/pkg/core"
	"github.com/raykavin/signalscope/pkg/timekey"
)

// HitMode selects which hit flag of an outcome counts
type HitMode string

const (
	HitFinal   HitMode = "final"
	HitAnytime HitMode = "anytime"
)

// ParseHitMode accepts "final" or "anytime"
func ParseHitMode(value string) (HitMode, error) {
	switch mode := HitMode(strings.ToLower(strings.TrimSpace(value))); mode {
	case HitFinal, HitAnytime:
		return mode, nil
	case "":
		return HitFinal, nil
	default:
		return "", fmt.Errorf("unknown hit mode %q", value)
	}
}

// Hit reports whether outcome counts as a hit under mode. A missing flag is a miss.
func (m HitMode) Hit(outcome core.SignalOutcome) bool {
	flag := outcome.Hit
	if m == HitAnytime {
		flag = outcome.AnytimeHit
	}
	return flag != nil && *flag
}

// Row is the hit rate of one calendar period
type Row struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Hits    int     `json:"hits"`
	RatePct float64 `json:"rate_pct"`
}

func newRow(label string, count, hits int) Row {
	row := Row{Label: label, Count: count, Hits: hits}
	if count > 0 {
		row.RatePct = float64(hits) / float64(count) * 100
	}
	return row
}

// CalendarStats groups the signals of one target by month and by year
type CalendarStats struct {
	TargetID string  `json:"target_id"`
	Mode     HitMode `json:"mode"`
	Monthly  []Row   `json:"monthly"`
	Yearly   []Row   `json:"yearly"`
	Total    Row     `json:"total"`
}

type tally struct {
	count, hits int
}

// Calendar computes monthly and yearly hit rates, oldest period first.
// Signals without an outcome for targetID are ignored; signals with an
// unparseable date are skipped and reported.
func Calendar(signals []core.Signal, targetID string, mode HitMode) (CalendarStats, error) {
	var errs error
	months := make(map[int]*tally)
	years := make(map[int]*tally)
	var total tally

	for i, signal := range signals {
		outcome, ok := signal.Outcome(targetID)
		if !ok {
			continue
		}

		t, err := timekey.Parse(signal.Date)
		if err != nil {
			errs = multierr.Append(errs, &core.InvalidTimeError{Index: i, Value: signal.Date})
			continue
		}

		date := timekey.Time(t)
		hit := mode.Hit(outcome)
		for _, bucket := range []*tally{
			lookup(months, date.Year()*100+int(date.Month())),
			lookup(years, date.Year()),
			&total,
		} {
			bucket.count++
			if hit {
				bucket.hits++
			}
		}
	}

	stats := CalendarStats{
		TargetID: targetID,
		Mode:     mode,
		Monthly:  rows(months, monthLabel),
		Yearly:   rows(years, strconv.Itoa),
		Total:    newRow("Total", total.count, total.hits),
	}
	return stats, errs
}

func lookup(m map[int]*tally, key int) *tally {
	entry, ok := m[key]
	if !ok {
		entry = &tally{}
		m[key] = entry
	}
	return entry
}

func rows(m map[int]*tally, label func(int) string) []Row {
	keys := make([]int, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Ints(keys)

	result := make([]Row, 0, len(keys))
	for _, key := range keys {
		result = append(result, newRow(label(key), m[key].count, m[key].hits))
	}
	return result
}

var monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// monthLabel renders a yyyymm key as "Jan 2024"
func monthLabel(key int) string {
	return fmt.Sprintf("%s %d", monthNames[key%100-1], key/100)
}

// Fprint renders the monthly and yearly tables
func (c CalendarStats) Fprint(w io.Writer) {
	for _, section := range []struct {
		title string
		rows  []Row
	}{
		{"Month", c.Monthly},
		{"Year", c.Yearly},
	} {
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{section.title, "Signals", "Hits", "Rate"})
		for _, row := range section.rows {
			table.Append(formatRow(row))
		}
		table.SetFooter(formatRow(c.Total))
		table.Render()
	}
}

func formatRow(row Row) []string {
	return []string{
		row.Label,
		strconv.Itoa(row.Count),
		strconv.Itoa(row.Hits),
		fmt.Sprintf("%.1f%%", row.RatePct),
	}
}
