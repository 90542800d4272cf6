package labels

import (
	"fmt"
	"strings"

	"github.com/grexie/planet/pkg/errs"
	"gorgonia.org/tensor"
)

// Flatten the multi-hot vectors of ids into a row-major float slice
func (t Table) Flatten(ids []string) ([]float64, int, error) {
	if len(ids) == 0 {
		return []float64{}, 0, nil
	}
	width := -1
	flattened := []float64(nil)
	for i, id := range ids {
		vector, ok := t[id]
		if !ok {
			return nil, 0, fmt.Errorf("%w: no labels for %s", errs.ErrInvalidArgument, id)
		}
		if width < 0 {
			width = len(vector)
			flattened = make([]float64, len(ids)*width)
		} else if len(vector) != width {
			return nil, 0, fmt.Errorf("%w: %s has %d labels, expected %d", errs.ErrInvalidInputKind, id, len(vector), width)
		}
		for j, bit := range vector {
			flattened[i*width+j] = float64(bit)
		}
	}
	return flattened, width, nil
}

// Tensor returns a (len(ids) x labels) float64 matrix with rows in ids order.
func (t Table) Tensor(ids []string) (tensor.Tensor, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no identifiers", errs.ErrInvalidArgument)
	}
	flattened, width, err := t.Flatten(ids)
	if err != nil {
		return nil, err
	}
	if width == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary", errs.ErrInvalidArgument)
	}
	return tensor.New(
		tensor.WithShape(len(ids), width),
		tensor.Of(tensor.Float64),
		tensor.WithBacking(flattened),
	), nil
}

// Decode maps a prediction back to the labels it selects, in vocabulary order.
func (v *Vocabulary) Decode(prediction []bool) ([]string, error) {
	if len(prediction) != v.Len() {
		return nil, fmt.Errorf("%w: prediction has %d labels, vocabulary has %d", errs.ErrInvalidArgument, len(prediction), v.Len())
	}
	out := []string{}
	for i, on := range prediction {
		if on {
			out = append(out, v.list[i])
		}
	}
	return out, nil
}

// TagString is Decode joined back into the space separated form of the label table.
func (v *Vocabulary) TagString(prediction []bool) (string, error) {
	labels, err := v.Decode(prediction)
	if err != nil {
		return "", err
	}
	return strings.Join(labels, " "), nil
}
