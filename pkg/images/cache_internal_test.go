package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func TestTensorBlobRoundTrip(t *testing.T) {
	in := tensor.New(tensor.WithShape(1, 2, 3), tensor.WithBacking([]float64{1, -2, 3.5, 0, 1e-9, -7}))

	b, err := encodeTensor(in)
	require.NoError(t, err)
	out, err := decodeTensor(b)
	require.NoError(t, err)

	assert.Equal(t, in.Shape(), out.Shape())
	assert.Equal(t, in.Data(), out.Data())
}

func TestDecodeTensorInvalid(t *testing.T) {
	for _, b := range [][]byte{nil, {1, 0, 0, 0}, {1, 0, 0, 0, 2, 0, 0, 0, 1}} {
		_, err := decodeTensor(b)
		assert.Error(t, err)
	}
}

func TestEncodeTensorWrongType(t *testing.T) {
	_, err := encodeTensor(tensor.New(tensor.WithShape(2), tensor.WithBacking([]float32{1, 2})))
	assert.Error(t, err)
}
