package model

import (
	"fmt"
	"io"
	"slices"

	"github.com/grexie/planet/pkg/errs"
	"github.com/grexie/planet/pkg/labels"
	"github.com/jedib0t/go-pretty/v6/table"
)

// DefaultCandidates are the cutoffs tried for each label when tuning.
func DefaultCandidates() []float64 {
	out := make([]float64, 0, 19)
	for i := 1; i < 20; i++ {
		out = append(out, float64(i)/20)
	}
	return out
}

// TuneThresholds picks a cutoff per label by coordinate ascent on the per-image F-beta score,
// starting from DefaultThreshold for every label. Ties keep the earlier candidate.
func TuneThresholds(v *labels.Vocabulary, truth labels.Table, ids []string, scores [][]float64, beta float64, candidates []float64) ([]float64, LabelMetrics, error) {
	if len(candidates) == 0 {
		return nil, LabelMetrics{}, fmt.Errorf("%w: no candidate thresholds", errs.ErrInvalidArgument)
	}

	thresholds := slices.Repeat([]float64{DefaultThreshold}, v.Len())

	score := func(thresholds []float64) (LabelMetrics, error) {
		predictions, err := ThresholdPerLabel(scores, thresholds)
		if err != nil {
			return LabelMetrics{}, err
		}
		return CalculateMetrics(v, truth, ids, predictions, beta)
	}

	best, err := score(thresholds)
	if err != nil {
		return nil, LabelMetrics{}, err
	}

	for j := range thresholds {
		current := thresholds[j]
		for _, c := range candidates {
			thresholds[j] = c
			m, err := score(thresholds)
			if err != nil {
				return nil, LabelMetrics{}, err
			}
			if m.SampleFScore > best.SampleFScore {
				best = m
				current = c
			}
		}
		thresholds[j] = current
	}

	return thresholds, best, nil
}

func WriteThresholds(w io.Writer, v *labels.Vocabulary, thresholds []float64) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Label Thresholds")
	t.AppendHeader(table.Row{"LABEL", "THRESHOLD"})
	for i, label := range v.Labels() {
		t.AppendRow(table.Row{label, fmt.Sprintf("%0.02f", thresholds[i])})
	}
	t.Render()
}
