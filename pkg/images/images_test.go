package images_test

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/grexie/planet/pkg/errs"
	"github.com/grexie/planet/pkg/images"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"golang.org/x/image/draw"
	"gorgonia.org/tensor"
)

// indexCodec returns a (1, 2) tensor holding the call number, so ordering is observable.
type indexCodec struct {
	calls []string
	fail  string
}

func (c *indexCodec) DecodeAndPreprocess(_ context.Context, path string) (tensor.Tensor, error) {
	if path == c.fail {
		return nil, errors.New("boom")
	}
	n := float64(len(c.calls))
	c.calls = append(c.calls, path)
	return tensor.New(tensor.WithShape(1, 2), tensor.WithBacking([]float64{n, n})), nil
}

func writePNG(t *testing.T, path string, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestJPEGCodec(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train_0.jpg")
	writePNG(t, path, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	codec := images.NewJPEGCodec(2)
	codec.Interpolator = draw.NearestNeighbor

	out, err := codec.DecodeAndPreprocess(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 2, 3}, []int(out.Shape()))

	data := out.Data().([]float64)
	for px := range 4 {
		assert.InDelta(t, 50-images.CaffeMean[0], data[px*3+0], 1e-9)
		assert.InDelta(t, 100-images.CaffeMean[1], data[px*3+1], 1e-9)
		assert.InDelta(t, 200-images.CaffeMean[2], data[px*3+2], 1e-9)
	}
}

func TestJPEGCodecMissingFile(t *testing.T) {
	_, err := images.NewJPEGCodec(2).DecodeAndPreprocess(context.Background(), filepath.Join(t.TempDir(), "nope.jpg"))
	assert.Error(t, err)
}

func TestJPEGCodecNotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))
	_, err := images.NewJPEGCodec(2).DecodeAndPreprocess(context.Background(), path)
	assert.Error(t, err)
}

func TestHTTPCodec(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/decode", r.URL.Path)
		var req struct {
			Path string `json:"path"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		switch req.Path {
		case "ok.jpg":
			w.Write([]byte(`{"shape":[1,2,1],"data":[0.5,-0.5]}`))
		case "short.jpg":
			w.Write([]byte(`{"shape":[1,2,2],"data":[0.5]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"not found"}`))
		}
	}))
	defer server.Close()

	codec := images.NewHTTPCodec(server.URL)

	out, err := codec.DecodeAndPreprocess(context.Background(), "ok.jpg")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 1}, []int(out.Shape()))
	assert.Equal(t, []float64{0.5, -0.5}, out.Data())

	_, err = codec.DecodeAndPreprocess(context.Background(), "short.jpg")
	assert.Error(t, err)

	_, err = codec.DecodeAndPreprocess(context.Background(), "missing.jpg")
	assert.ErrorContains(t, err, "404")
}

func TestCachedCodec(t *testing.T) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	require.NoError(t, err)
	defer db.Close()

	inner := &indexCodec{}
	codec := images.NewCachedCodec(db, inner)

	first, err := codec.DecodeAndPreprocess(context.Background(), "a.jpg")
	require.NoError(t, err)
	second, err := codec.DecodeAndPreprocess(context.Background(), "a.jpg")
	require.NoError(t, err)
	_, err = codec.DecodeAndPreprocess(context.Background(), "b.jpg")
	require.NoError(t, err)

	assert.Equal(t, []string{"a.jpg", "b.jpg"}, inner.calls)
	assert.Equal(t, first.Shape(), second.Shape())
	assert.Equal(t, first.Data(), second.Data())

	inner.fail = "c.jpg"
	_, err = codec.DecodeAndPreprocess(context.Background(), "c.jpg")
	assert.Error(t, err)
}

func TestCachedCodecKeyedBySize(t *testing.T) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	require.NoError(t, err)
	defer db.Close()

	path := filepath.Join(t.TempDir(), "train_0.jpg")
	writePNG(t, path, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	small, err := images.NewCachedCodec(db, images.NewJPEGCodec(2)).DecodeAndPreprocess(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 2, 3}, []int(small.Shape()))

	large, err := images.NewCachedCodec(db, images.NewJPEGCodec(4)).DecodeAndPreprocess(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4, 4, 3}, []int(large.Shape()))

	again, err := images.NewCachedCodec(db, images.NewJPEGCodec(2)).DecodeAndPreprocess(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, small.Data(), again.Data())
}

func TestCodecCacheKeys(t *testing.T) {
	assert.NotEqual(t, images.NewJPEGCodec(2).CacheKey(), images.NewJPEGCodec(4).CacheKey())
	assert.NotEqual(t, images.NewHTTPCodec("http://a").CacheKey(), images.NewHTTPCodec("http://b").CacheKey())
	assert.NotEqual(t, images.NewJPEGCodec(2).CacheKey(), images.NewHTTPCodec("http://a").CacheKey())
}

// trackerWriter records appended trackers without rendering them.
type trackerWriter struct {
	progress.Writer
	trackers []*progress.Tracker
}

func (w *trackerWriter) AppendTracker(t *progress.Tracker) {
	w.trackers = append(w.trackers, t)
}

func TestReadImagesProgress(t *testing.T) {
	pw := &trackerWriter{}
	_, err := images.ReadImages(context.Background(), pw, &indexCodec{}, "/data", []string{"a", "b", "c"}, 2)
	require.NoError(t, err)
	require.Len(t, pw.trackers, 1)
	assert.True(t, pw.trackers[0].IsDone())
	assert.False(t, pw.trackers[0].IsErrored())
	assert.Equal(t, int64(3), pw.trackers[0].Value())
}

func TestReadImagesCancelledMarksTracker(t *testing.T) {
	pw := &trackerWriter{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := images.ReadImages(ctx, pw, &indexCodec{}, "/data", []string{"a", "b"}, 2)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, pw.trackers, 1)
	assert.True(t, pw.trackers[0].IsErrored())
}

func TestReadImages(t *testing.T) {
	codec := &indexCodec{}
	ids := []string{"a", "b", "c", "d", "e"}

	out, err := images.ReadImages(context.Background(), nil, codec, "/data", ids, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 2}, []int(out.Shape()))
	assert.Equal(t, []float64{0, 0, 1, 1, 2, 2, 3, 3, 4, 4}, out.Data())
	assert.Equal(t, filepath.Join("/data", "a.jpg"), codec.calls[0])
	assert.Equal(t, filepath.Join("/data", "e.jpg"), codec.calls[4])
}

func TestReadImagesSingle(t *testing.T) {
	out, err := images.ReadImages(context.Background(), nil, &indexCodec{}, "/data", []string{"a"}, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, []int(out.Shape()))
}

func TestReadImagesErrors(t *testing.T) {
	_, err := images.ReadImages(context.Background(), nil, &indexCodec{}, "/data", []string{"a"}, 0)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = images.ReadImages(context.Background(), nil, &indexCodec{}, "/data", nil, 2)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	codec := &indexCodec{fail: filepath.Join("/data", "b.jpg")}
	_, err = images.ReadImages(context.Background(), nil, codec, "/data", []string{"a", "b", "c"}, 2)
	assert.ErrorContains(t, err, "error reading image b")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = images.ReadImages(ctx, nil, &indexCodec{}, "/data", []string{"a"}, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileCount(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.jpg", "b.jpg", "c.tif"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	n, err := images.FileCount(filepath.Join(dir, "*.jpg"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = images.FileCount("[")
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}
