package images

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/grexie/planet/pkg/batch"
	"github.com/grexie/planet/pkg/errs"
	"github.com/jedib0t/go-pretty/v6/progress"
	"gorgonia.org/tensor"
)

// ImagePath maps an image identifier to its file under dir.
func ImagePath(dir string, id string) string {
	return filepath.Join(dir, id+".jpg")
}

// FileCount returns the number of files matching a glob pattern.
func FileCount(pattern string) (int, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errs.ErrInvalidArgument, err)
	}
	return len(matches), nil
}

// ReadImages decodes the images for ids through codec, batchSize at a time, and stacks the
// results along the first axis in ids order. pw may be nil.
func ReadImages(ctx context.Context, pw progress.Writer, codec Codec, dir string, ids []string, batchSize int) (tensor.Tensor, error) {
	chunks, err := batch.Chunks(ids, batchSize)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no images to read", errs.ErrInvalidArgument)
	}

	var tracker *progress.Tracker
	if pw != nil {
		tracker = &progress.Tracker{
			Message: "Reading images",
			Total:   int64(len(ids)),
			Units:   progress.UnitsDefault,
		}
		pw.AppendTracker(tracker)
		tracker.Start()
	}

	batches := make([]tensor.Tensor, 0, batch.Count(len(ids), batchSize))
	for chunk := range chunks {
		decoded := make([]tensor.Tensor, 0, len(chunk))
		for _, id := range chunk {
			if err := ctx.Err(); err != nil {
				if tracker != nil {
					tracker.MarkAsErrored()
				}
				return nil, err
			}
			t, err := codec.DecodeAndPreprocess(ctx, ImagePath(dir, id))
			if err != nil {
				if tracker != nil {
					tracker.MarkAsErrored()
				}
				return nil, fmt.Errorf("error reading image %s: %w", id, err)
			}
			decoded = append(decoded, t)
		}

		b, err := concat(decoded)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)

		if tracker != nil {
			tracker.Increment(int64(len(chunk)))
		}
	}

	out, err := concat(batches)
	if err != nil {
		return nil, err
	}
	if tracker != nil {
		tracker.MarkAsDone()
	}
	return out, nil
}

func concat(ts []tensor.Tensor) (tensor.Tensor, error) {
	if len(ts) == 1 {
		return ts[0], nil
	}
	out, err := tensor.Concat(0, ts[0], ts[1:]...)
	if err != nil {
		return nil, fmt.Errorf("error concatenating tensors: %v", err)
	}
	return out, nil
}
