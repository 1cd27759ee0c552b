package translate

import (
	"context"
	"fmt"
)

// Chunk splits items into consecutive slices of at most size elements.
// A size <= 0 or >= len(items) yields a single chunk. No items yields nil.
func Chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 || size >= len(items) {
		return [][]T{items}
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for i := 0; i < len(items); i += size {
		end := min(i+size, len(items))
		chunks = append(chunks, items[i:end:end])
	}
	return chunks
}

// BatchFunc translates one chunk of texts.
type BatchFunc func(ctx context.Context, texts []string) ([]string, error)

// Batched calls fn over texts in order, never with more than maxSegments
// texts at a time, and concatenates the results. Every call collects into
// its own accumulator, so nothing leaks between independent calls. Zero
// texts is a no-op returning an empty slice.
func Batched(ctx context.Context, texts []string, maxSegments int, fn BatchFunc) ([]string, error) {
	out := make([]string, 0, len(texts))
	chunks := Chunk(texts, maxSegments)
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		got, err := fn(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		if len(got) != len(chunk) {
			return nil, fmt.Errorf("chunk %d/%d: %w: sent %d, got %d", i+1, len(chunks), ErrSegmentMismatch, len(chunk), len(got))
		}
		out = append(out, got...)
	}
	return out, nil
}
