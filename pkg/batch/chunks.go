package batch

import (
	"fmt"
	"iter"
	"slices"

	"github.com/grexie/planet/pkg/errs"
)

// Chunks splits s into consecutive sub-slices of size elements, the last one possibly shorter.
// The chunks share s's backing array and are produced lazily in order.
func Chunks[T any](s []T, size int) (iter.Seq[[]T], error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be > 0, got %d", errs.ErrInvalidArgument, size)
	}
	return slices.Chunk(s, size), nil
}

// Count returns how many chunks Chunks yields for n elements.
func Count(n, size int) int {
	if size <= 0 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}
