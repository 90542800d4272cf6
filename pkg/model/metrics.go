package model

import (
	"fmt"
	"io"

	"github.com/grexie/planet/pkg/errs"
	"github.com/grexie/planet/pkg/labels"
	"github.com/jedib0t/go-pretty/v6/table"
)

// DefaultBeta weights recall over precision, matching how the tag predictions are scored.
const DefaultBeta = 2.0

type LabelMetrics struct {
	Beta   float64
	Labels []string

	Precision []float64
	Recall    []float64
	FScores   []float64
	Support   []int

	MicroPrecision float64
	MicroRecall    float64
	MicroFScore    float64

	// SampleFScore is the per-image F-beta averaged over images.
	SampleFScore float64
	Samples      int
}

func fbeta(precision, recall, beta float64) float64 {
	b2 := beta * beta
	if b2*precision+recall == 0 {
		return 0
	}
	return (1 + b2) * precision * recall / (b2*precision + recall)
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// CalculateMetrics compares predictions, one row per id in ids order, against the encoded
// ground truth.
func CalculateMetrics(v *labels.Vocabulary, truth labels.Table, ids []string, predictions [][]bool, beta float64) (LabelMetrics, error) {
	if len(ids) != len(predictions) {
		return LabelMetrics{}, fmt.Errorf("%w: %d ids but %d predictions", errs.ErrInvalidArgument, len(ids), len(predictions))
	}
	if beta <= 0 {
		return LabelMetrics{}, fmt.Errorf("%w: beta must be > 0", errs.ErrInvalidArgument)
	}

	numLabels := v.Len()
	tp := make([]int, numLabels)
	fp := make([]int, numLabels)
	fn := make([]int, numLabels)

	sampleTotal := 0.0
	for i, id := range ids {
		actual, ok := truth[id]
		if !ok {
			return LabelMetrics{}, fmt.Errorf("%w: no labels for %s", errs.ErrInvalidArgument, id)
		}
		predicted := predictions[i]
		if len(actual) != numLabels || len(predicted) != numLabels {
			return LabelMetrics{}, fmt.Errorf("%w: %s must have %d labels", errs.ErrInvalidInputKind, id, numLabels)
		}

		stp, sfp, sfn := 0, 0, 0
		for j := range numLabels {
			switch {
			case predicted[j] && actual[j] == 1:
				tp[j]++
				stp++
			case predicted[j]:
				fp[j]++
				sfp++
			case actual[j] == 1:
				fn[j]++
				sfn++
			}
		}

		// an image with no labels and no predictions is a perfect match
		if stp+sfp+sfn == 0 {
			sampleTotal += 1
		} else {
			sampleTotal += fbeta(ratio(stp, stp+sfp), ratio(stp, stp+sfn), beta)
		}
	}

	m := LabelMetrics{
		Beta:      beta,
		Labels:    v.Labels(),
		Precision: make([]float64, numLabels),
		Recall:    make([]float64, numLabels),
		FScores:   make([]float64, numLabels),
		Support:   make([]int, numLabels),
		Samples:   len(ids),
	}

	totalTP, totalFP, totalFN := 0, 0, 0
	for j := range numLabels {
		m.Precision[j] = ratio(tp[j], tp[j]+fp[j])
		m.Recall[j] = ratio(tp[j], tp[j]+fn[j])
		m.FScores[j] = fbeta(m.Precision[j], m.Recall[j], beta)
		m.Support[j] = tp[j] + fn[j]

		totalTP += tp[j]
		totalFP += fp[j]
		totalFN += fn[j]
	}

	m.MicroPrecision = ratio(totalTP, totalTP+totalFP)
	m.MicroRecall = ratio(totalTP, totalTP+totalFN)
	m.MicroFScore = fbeta(m.MicroPrecision, m.MicroRecall, beta)
	if len(ids) > 0 {
		m.SampleFScore = sampleTotal / float64(len(ids))
	}

	return m, nil
}

func (m LabelMetrics) Write(w io.Writer) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Label Metrics")
	t.AppendHeader(table.Row{"LABEL", "PRECISION", "RECALL", fmt.Sprintf("F%g SCORE", m.Beta), "SUPPORT"})
	for i, label := range m.Labels {
		t.AppendRow(table.Row{
			label,
			fmt.Sprintf("%6.2f%%", m.Precision[i]*100),
			fmt.Sprintf("%6.2f%%", m.Recall[i]*100),
			fmt.Sprintf("%6.2f%%", m.FScores[i]*100),
			fmt.Sprintf("%d", m.Support[i]),
		})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{
		"MICRO",
		fmt.Sprintf("%6.2f%%", m.MicroPrecision*100),
		fmt.Sprintf("%6.2f%%", m.MicroRecall*100),
		fmt.Sprintf("%6.2f%%", m.MicroFScore*100),
		"",
	})
	t.AppendFooter(table.Row{"SAMPLES", fmt.Sprintf("%d", m.Samples), "", fmt.Sprintf("%6.2f%%", m.SampleFScore*100), ""})
	t.Render()

	return nil
}
