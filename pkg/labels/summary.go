package labels

import (
	"fmt"
	"io"
	"math"

	"github.com/jedib0t/go-pretty/v6/table"
	"gonum.org/v1/gonum/stat"
)

type LabelCount struct {
	Label string
	Count int
}

type Summary struct {
	Records           int
	Labels            []LabelCount
	CardinalityMean   float64
	CardinalityStdDev float64
}

func safeValue(v float64, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// Summarize counts how often each vocabulary label is set in t, and how many labels an image
// carries on average.
func Summarize(v *Vocabulary, t Table) Summary {
	s := Summary{
		Records: len(t),
		Labels:  make([]LabelCount, v.Len()),
	}
	for i, label := range v.list {
		s.Labels[i].Label = label
	}

	cardinalities := make([]float64, 0, len(t))
	for _, id := range t.Keys() {
		n := 0
		for i, bit := range t[id] {
			if bit == 1 && i < len(s.Labels) {
				s.Labels[i].Count++
				n++
			}
		}
		cardinalities = append(cardinalities, float64(n))
	}

	if len(cardinalities) > 0 {
		mean, std := stat.MeanStdDev(cardinalities, nil)
		s.CardinalityMean = safeValue(mean, 0)
		s.CardinalityStdDev = safeValue(std, 0)
	}
	return s
}

func (s Summary) Write(w io.Writer, title string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"LABEL", "IMAGES", "SHARE"})
	for _, l := range s.Labels {
		share := 0.0
		if s.Records > 0 {
			share = float64(l.Count) / float64(s.Records) * 100
		}
		t.AppendRow(table.Row{l.Label, fmt.Sprintf("%d", l.Count), fmt.Sprintf("%6.2f%%", share)})
	}
	t.AppendFooter(table.Row{"IMAGES", fmt.Sprintf("%d", s.Records), ""})
	t.AppendFooter(table.Row{"LABELS PER IMAGE", fmt.Sprintf("%0.02f ± %0.02f", s.CardinalityMean, s.CardinalityStdDev), ""})
	t.Render()
}
