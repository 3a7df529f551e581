package catalog

import (
	"context"
)

// Step is one preparation operation applied to an item in place. Steps of
// the same stage run concurrently on the same item, so they must touch
// disjoint fields or synchronise. A returned error is logged and the item
// carries on to the next stage.
type Step[T any] func(ctx context.Context, item *T) error

// Stage groups steps that may run in parallel for a single item. The
// pipeline waits for all of them before starting the next stage.
type Stage[T any] struct {
	steps []Step[T]
}

// NewStage constructs a Stage from the provided steps.
func NewStage[T any](steps ...Step[T]) Stage[T] {
	return Stage[T]{steps: steps}
}
