package model

import (
	"fmt"

	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func getValueTensor(n *gorgonia.Node) (tensor.Tensor, error) {
	v := n.Value()
	if v == nil {
		return nil, fmt.Errorf("node has nil value")
	}
	t, ok := v.(tensor.Tensor)
	if !ok {
		return nil, fmt.Errorf("value is not a tensor")
	}
	return t, nil
}
