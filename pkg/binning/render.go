package binning

import (
	"fmt"
	"io"
	"strconv"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/signalscope/pkg/core"
)

// Fprint draws the bins as a horizontal text histogram
func Fprint(w io.Writer, bins []core.Bin, width int) error {
	if len(bins) == 0 {
		_, err := fmt.Fprintln(w, "no data")
		return err
	}

	hist := histogram.Histogram{
		Min:     bins[0].Count,
		Max:     bins[0].Count,
		Buckets: make([]histogram.Bucket, 0, len(bins)),
	}

	for _, bin := range bins {
		hist.Count += bin.Count
		if bin.Count < hist.Min {
			hist.Min = bin.Count
		}
		if bin.Count > hist.Max {
			hist.Max = bin.Count
		}
		hist.Buckets = append(hist.Buckets, histogram.Bucket{
			Min:   bin.Start,
			Max:   bin.End,
			Count: bin.Count,
		})
	}

	return histogram.Fprint(w, hist, histogram.Linear(width))
}

// Table writes the bins as a table with a total footer
func Table(w io.Writer, bins []core.Bin) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Bin", "From %", "To %", "Count", "% Total"})
	table.SetFooterAlignment(tablewriter.ALIGN_RIGHT)

	total := 0
	for i, bin := range bins {
		total += bin.Count
		table.Append([]string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%.2f", bin.Start),
			fmt.Sprintf("%.2f", bin.End),
			strconv.Itoa(bin.Count),
			fmt.Sprintf("%.1f %%", bin.PercentOfTotal),
		})
	}

	table.SetFooter([]string{"TOTAL", "", "", strconv.Itoa(total), ""})
	table.Render()
}
