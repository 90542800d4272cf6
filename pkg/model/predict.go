package model

import (
	"fmt"

	"github.com/grexie/planet/pkg/errs"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

const DefaultThreshold = 0.5

// Threshold reports whether score is strictly above threshold; a score equal to the threshold
// is negative.
func Threshold(score, threshold float64) bool {
	return score > threshold
}

func ThresholdAll(scores []float64, threshold float64) []bool {
	out := make([]bool, len(scores))
	for i, score := range scores {
		out[i] = Threshold(score, threshold)
	}
	return out
}

// ThresholdValue thresholds an untyped score, as decoded from JSON or BSON.
func ThresholdValue(score any, threshold float64) (bool, error) {
	switch v := score.(type) {
	case float64:
		return Threshold(v, threshold), nil
	case float32:
		return Threshold(float64(v), threshold), nil
	case int:
		return Threshold(float64(v), threshold), nil
	case int8:
		return Threshold(float64(v), threshold), nil
	case int16:
		return Threshold(float64(v), threshold), nil
	case int32:
		return Threshold(float64(v), threshold), nil
	case int64:
		return Threshold(float64(v), threshold), nil
	case uint:
		return Threshold(float64(v), threshold), nil
	case uint8:
		return Threshold(float64(v), threshold), nil
	case uint16:
		return Threshold(float64(v), threshold), nil
	case uint32:
		return Threshold(float64(v), threshold), nil
	case uint64:
		return Threshold(float64(v), threshold), nil
	default:
		return false, fmt.Errorf("%w: score of type %T is not numeric", errs.ErrInvalidInputKind, score)
	}
}

// ThresholdPerLabel applies one cutoff per label column to a (images x labels) score matrix.
func ThresholdPerLabel(scores [][]float64, thresholds []float64) ([][]bool, error) {
	out := make([][]bool, len(scores))
	for i, row := range scores {
		if len(row) != len(thresholds) {
			return nil, fmt.Errorf("%w: row %d has %d scores, expected %d", errs.ErrInvalidArgument, i, len(row), len(thresholds))
		}
		out[i] = make([]bool, len(row))
		for j, score := range row {
			out[i][j] = Threshold(score, thresholds[j])
		}
	}
	return out, nil
}

// ThresholdTensor thresholds every element of a float64 score tensor on a gorgonia graph and
// returns a tensor of the same shape holding 1 for positive and 0 for negative.
func ThresholdTensor(scores tensor.Tensor, threshold float64) (tensor.Tensor, error) {
	if scores == nil || scores.Dtype() != tensor.Float64 {
		return nil, fmt.Errorf("%w: scores must be a float64 tensor", errs.ErrInvalidInputKind)
	}

	g := gorgonia.NewGraph()
	shape := scores.Shape()

	x := gorgonia.NewTensor(g, tensor.Float64, shape.Dims(),
		gorgonia.WithShape(shape...),
		gorgonia.WithValue(scores.Clone()),
		gorgonia.WithName("scores"))

	pred := gorgonia.Must(gorgonia.Gt(x, gorgonia.NewConstant(threshold), true))

	vm := gorgonia.NewTapeMachine(g)
	defer vm.Close()

	if err := vm.RunAll(); err != nil {
		return nil, fmt.Errorf("threshold pass failed: %v", err)
	}

	out, err := getValueTensor(pred)
	if err != nil {
		return nil, err
	}
	return out.Clone().(tensor.Tensor), nil
}

// Rows converts a thresholded (images x labels) tensor into per-image predictions.
func Rows(t tensor.Tensor) ([][]bool, error) {
	shape := t.Shape()
	if shape.Dims() != 2 {
		return nil, fmt.Errorf("%w: expected a matrix, got shape %v", errs.ErrInvalidArgument, shape)
	}
	data, ok := t.Data().([]float64)
	if !ok {
		return nil, fmt.Errorf("%w: expected float64 data", errs.ErrInvalidInputKind)
	}
	rows, cols := shape[0], shape[1]
	out := make([][]bool, rows)
	for i := range rows {
		out[i] = make([]bool, cols)
		for j := range cols {
			out[i][j] = data[i*cols+j] == 1
		}
	}
	return out, nil
}
