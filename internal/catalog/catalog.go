// Package catalog keeps the set of known places. It loads them from a
// Source, prepares them and serves lookups through an immutable
// places.Resolver that is swapped as a whole on reload.
package catalog

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/ekbaya/jkuat-navigation/internal/models"
	"github.com/ekbaya/jkuat-navigation/internal/places"
)

// Source supplies the ordered place collection.
type Source interface {
	Places(ctx context.Context) ([]models.Place, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]models.Place, error)

func (f SourceFunc) Places(ctx context.Context) ([]models.Place, error) {
	return f(ctx)
}

// Static is a Source over a fixed collection.
func Static(list []models.Place) Source {
	return SourceFunc(func(context.Context) ([]models.Place, error) {
		return list, nil
	})
}

// Catalog serves place lookups from the most recently loaded collection.
type Catalog struct {
	source   Source
	pipeline *Pipeline[Entry]
	logger   *log.Logger
	current  atomic.Pointer[places.Resolver]
}

// New returns an empty catalogue backed by source. Call Reload before use.
func New(source Source, logger *log.Logger) *Catalog {
	if logger == nil {
		logger = log.Default()
	}
	return &Catalog{
		source:   source,
		pipeline: DefaultPipeline().WithLogger(logger),
		logger:   logger,
	}
}

// Reload fetches the collection from the source and replaces the active
// one. On error the previous collection stays active.
func (c *Catalog) Reload(ctx context.Context) error {
	list, err := c.source.Places(ctx)
	if err != nil {
		return fmt.Errorf("load places: %w", err)
	}
	prepared := Prepare(ctx, c.pipeline, list, c.logger)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("prepare places: %w", err)
	}
	c.current.Store(places.NewResolver(prepared))
	c.logger.Printf("Loaded %d places (%d dropped)", len(prepared), len(list)-len(prepared))
	return nil
}

// Resolve looks query up in the active collection.
func (c *Catalog) Resolve(query string) (models.Place, error) {
	r := c.current.Load()
	if r == nil {
		return models.Place{}, fmt.Errorf("%w: catalogue not loaded", places.ErrPlaceNotFound)
	}
	return r.Resolve(query)
}

// Len is the size of the active collection.
func (c *Catalog) Len() int {
	if r := c.current.Load(); r != nil {
		return r.Len()
	}
	return 0
}
