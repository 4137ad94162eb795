package annotate

import (
	"github.com/samber/lo"

	"github.com/raykavin/signalscope/pkg/core"
)

// Navigator steps through the signals of a result in the order they were
// emitted
type Navigator struct {
	dates []string
}

func NewNavigator(result core.AnalysisResult) *Navigator {
	return &Navigator{dates: lo.Uniq(Dates(result))}
}

// Len returns the number of signals
func (n *Navigator) Len() int {
	return len(n.dates)
}

// Index returns the position of date, or -1
func (n *Navigator) Index(date string) int {
	return lo.IndexOf(n.dates, date)
}

// First returns the first signal date
func (n *Navigator) First() (string, bool) {
	if len(n.dates) == 0 {
		return "", false
	}
	return n.dates[0], true
}

// Next returns the signal after date. An unknown date yields the first one.
func (n *Navigator) Next(date string) (string, bool) {
	i := n.Index(date)
	if i < 0 {
		return n.First()
	}
	if i+1 >= len(n.dates) {
		return "", false
	}
	return n.dates[i+1], true
}

// Prev returns the signal before date
func (n *Navigator) Prev(date string) (string, bool) {
	i := n.Index(date)
	if i <= 0 {
		return "", false
	}
	return n.dates[i-1], true
}
