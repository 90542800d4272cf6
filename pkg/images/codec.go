package images

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"
	"gorgonia.org/tensor"
)

// Codec loads an image file and returns it as a fixed-shape (1, H, W, C) float64 tensor.
type Codec interface {
	DecodeAndPreprocess(ctx context.Context, path string) (tensor.Tensor, error)
}

// Keyed is implemented by codecs whose output depends on their settings. The key is part of
// every CachedCodec entry, so tensors cached under one setting are not returned under another.
type Keyed interface {
	CacheKey() string
}

// ImageNet channel means in BGR order, subtracted after the RGB to BGR swap.
var CaffeMean = [3]float64{103.939, 116.779, 123.68}

// JPEGCodec decodes local files, resizes them to Size x Size and zero-centres each channel.
type JPEGCodec struct {
	Size         int
	Mean         [3]float64
	Interpolator draw.Interpolator
}

func NewJPEGCodec(size int) *JPEGCodec {
	return &JPEGCodec{
		Size:         size,
		Mean:         CaffeMean,
		Interpolator: draw.BiLinear,
	}
}

func (c *JPEGCodec) CacheKey() string {
	return fmt.Sprintf("jpeg-%d-%g-%g-%g", c.Size, c.Mean[0], c.Mean[1], c.Mean[2])
}

func (c *JPEGCodec) DecodeAndPreprocess(ctx context.Context, path string) (tensor.Tensor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %v", path, err)
	}

	return c.Preprocess(img), nil
}

// Preprocess resizes img and lays it out as (1, Size, Size, 3) in BGR channel order.
func (c *JPEGCodec) Preprocess(img image.Image) tensor.Tensor {
	dst := image.NewRGBA(image.Rect(0, 0, c.Size, c.Size))
	c.Interpolator.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	data := make([]float64, c.Size*c.Size*3)
	for y := range c.Size {
		for x := range c.Size {
			p := dst.PixOffset(x, y)
			o := (y*c.Size + x) * 3
			data[o+0] = float64(dst.Pix[p+2]) - c.Mean[0]
			data[o+1] = float64(dst.Pix[p+1]) - c.Mean[1]
			data[o+2] = float64(dst.Pix[p+0]) - c.Mean[2]
		}
	}

	return tensor.New(
		tensor.WithShape(1, c.Size, c.Size, 3),
		tensor.Of(tensor.Float64),
		tensor.WithBacking(data),
	)
}
