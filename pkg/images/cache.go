package images

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/syndtr/goleveldb/leveldb"
	"gorgonia.org/tensor"
)

// CachedCodec keeps decoded tensors in leveldb so repeated runs skip decoding.
type CachedCodec struct {
	codec  Codec
	db     *leveldb.DB
	prefix string
}

// NewCachedCodec wraps codec with a leveldb cache. Entries are keyed by the codec's CacheKey
// when it implements Keyed, and by its type otherwise.
func NewCachedCodec(db *leveldb.DB, codec Codec) *CachedCodec {
	prefix := fmt.Sprintf("%T", codec)
	if k, ok := codec.(Keyed); ok {
		prefix = k.CacheKey()
	}
	return &CachedCodec{codec: codec, db: db, prefix: prefix}
}

func (c *CachedCodec) cacheKey(path string) []byte {
	return fmt.Appendf([]byte{}, "image-%s-%s", c.prefix, path)
}

func (c *CachedCodec) DecodeAndPreprocess(ctx context.Context, path string) (tensor.Tensor, error) {
	key := c.cacheKey(path)

	if b, err := c.db.Get(key, nil); err == nil {
		return decodeTensor(b)
	} else if !errors.Is(err, leveldb.ErrNotFound) {
		return nil, fmt.Errorf("error reading cache for %s: %w", path, err)
	}

	t, err := c.codec.DecodeAndPreprocess(ctx, path)
	if err != nil {
		return nil, err
	}

	if b, err := encodeTensor(t); err != nil {
		return nil, err
	} else if err := c.db.Put(key, b, nil); err != nil {
		return nil, fmt.Errorf("error storing %s in cache: %w", path, err)
	}

	return t, nil
}

// encodeTensor writes the dimension count, the shape and the float64 values, all little-endian.
func encodeTensor(t tensor.Tensor) ([]byte, error) {
	data, ok := t.Data().([]float64)
	if !ok {
		return nil, fmt.Errorf("cache: tensor is %s, not float64", t.Dtype())
	}
	shape := t.Shape()

	b := make([]byte, 4+len(shape)*4+len(data)*8)
	binary.LittleEndian.PutUint32(b, uint32(len(shape)))
	o := 4
	for _, d := range shape {
		binary.LittleEndian.PutUint32(b[o:], uint32(d))
		o += 4
	}
	for _, v := range data {
		binary.LittleEndian.PutUint64(b[o:], math.Float64bits(v))
		o += 8
	}
	return b, nil
}

func decodeTensor(b []byte) (tensor.Tensor, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("cache: invalid blob length %d", len(b))
	}
	dims := int(binary.LittleEndian.Uint32(b))
	if len(b) < 4+dims*4 {
		return nil, fmt.Errorf("cache: invalid blob length %d for %d dims", len(b), dims)
	}

	shape := make([]int, dims)
	size := 1
	o := 4
	for i := range shape {
		shape[i] = int(binary.LittleEndian.Uint32(b[o:]))
		size *= shape[i]
		o += 4
	}
	if len(b)-o != size*8 {
		return nil, fmt.Errorf("cache: blob holds %d bytes of data, expected %d", len(b)-o, size*8)
	}

	data := make([]float64, size)
	for i := range data {
		data[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[o:]))
		o += 8
	}

	return tensor.New(
		tensor.WithShape(shape...),
		tensor.Of(tensor.Float64),
		tensor.WithBacking(data),
	), nil
}
