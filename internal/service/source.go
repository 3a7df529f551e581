package service

import (
	"context"
	"fmt"

	"github.com/ekbaya/jkuat-navigation/internal/catalog"
	"github.com/ekbaya/jkuat-navigation/internal/env"
	"github.com/ekbaya/jkuat-navigation/internal/storage"
)

// OpenSource builds the place source selected by cfg.PlacesSource. The
// returned func releases any connection it holds.
func OpenSource(ctx context.Context, cfg env.Config) (catalog.Source, func(), error) {
	switch cfg.PlacesSource {
	case env.SourceFile:
		return catalog.FileSource{Path: cfg.PlacesFile}, func() {}, nil
	case env.SourceS3:
		s3Service, err := storage.NewS3Service(cfg)
		if err != nil {
			return nil, nil, err
		}
		return s3Service.Source(cfg.PlacesBucket, cfg.PlacesCatalog), func() {}, nil
	case env.SourcePostgres:
		store, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown places source %q", cfg.PlacesSource)
	}
}
