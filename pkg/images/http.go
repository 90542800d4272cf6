package images

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"gorgonia.org/tensor"
)

type decodeRequest struct {
	Path string `json:"path"`
}

type decodeResponse struct {
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// HTTPCodec delegates decoding to a remote image codec service.
type HTTPCodec struct {
	baseURL string
	client  *resty.Client
}

func NewHTTPCodec(baseURL string) *HTTPCodec {
	return &HTTPCodec{
		baseURL: baseURL,
		client:  resty.New().SetBaseURL(baseURL),
	}
}

func (c *HTTPCodec) CacheKey() string {
	return "http-" + c.baseURL
}

func (c *HTTPCodec) DecodeAndPreprocess(ctx context.Context, path string) (tensor.Tensor, error) {
	var data decodeResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(decodeRequest{Path: path}).
		SetResult(&data).
		Post("/decode")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("codec error: %s: %s", resp.Status(), resp.String())
	}

	size := 1
	for _, d := range data.Shape {
		size *= d
	}
	if len(data.Shape) == 0 || size != len(data.Data) {
		return nil, fmt.Errorf("codec returned %d values for shape %v", len(data.Data), data.Shape)
	}

	return tensor.New(
		tensor.WithShape(data.Shape...),
		tensor.Of(tensor.Float64),
		tensor.WithBacking(data.Data),
	), nil
}
