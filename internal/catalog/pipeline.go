package catalog

import (
	"context"
	"log"
	"sync"
)

// Pipeline applies a sequence of stages to every item read from a channel.
// Stages run one after another; steps inside a stage run in parallel.
type Pipeline[T any] struct {
	stages []Stage[T]
	logger *log.Logger
}

// NewPipeline constructs a Pipeline from the provided stages.
func NewPipeline[T any](stages ...Stage[T]) *Pipeline[T] {
	return &Pipeline[T]{stages: stages, logger: log.Default()}
}

// WithLogger sets the logger used for step failures.
func (p *Pipeline[T]) WithLogger(logger *log.Logger) *Pipeline[T] {
	p.logger = logger
	return p
}

// Process applies every stage to each item from in and emits the item on the
// returned channel once done. Items keep their input order. The output
// channel is closed when in is closed or ctx is cancelled.
func (p *Pipeline[T]) Process(ctx context.Context, in <-chan *T) <-chan *T {
	out := make(chan *T)
	go func() {
		defer close(out)
		for item := range in {
			p.apply(ctx, item)
			select {
			case out <- item:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (p *Pipeline[T]) apply(ctx context.Context, item *T) {
	for _, stage := range p.stages {
		var wg sync.WaitGroup
		for _, step := range stage.steps {
			wg.Add(1)
			go func(step Step[T]) {
				defer wg.Done()
				if err := step(ctx, item); err != nil {
					p.logger.Printf("Step failed: %v", err)
				}
			}(step)
		}
		wg.Wait() // stage barrier
	}
}
