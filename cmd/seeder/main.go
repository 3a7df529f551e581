package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ekbaya/jkuat-navigation/internal/catalog"
	"github.com/ekbaya/jkuat-navigation/internal/env"
	"github.com/ekbaya/jkuat-navigation/internal/storage"
)

// seeder uploads the place catalogue in PLACES_FILE to MinIO and, when
// DATABASE_URL is set, to PostgreSQL. The table is keyed by id, so places
// without one only reach MinIO.
func main() {
	env.LoadEnv()
	ctx := context.Background()
	start := time.Now()

	cfg := env.FromEnv()
	places, err := catalog.FileSource{Path: cfg.PlacesFile}.Places(ctx)
	if err != nil {
		log.Fatal(err)
	}
	places = catalog.Prepare(ctx, catalog.DefaultPipeline(), places, log.Default())
	fmt.Printf("Seeding %d places from %s...\n", len(places), cfg.PlacesFile)

	s3Service, err := storage.NewS3Service(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if _, err = s3Service.CreateBucket(ctx, cfg.PlacesBucket, ""); err != nil {
		log.Fatal(err)
	}
	if err := s3Service.StorePlaces(ctx, cfg.PlacesBucket, cfg.PlacesCatalog, places, cfg.SeedOverwrite); err != nil {
		log.Fatal(err)
	}
	if cfg.MinioKafkaTarget != "" {
		if err := s3Service.NotifyOnCatalogChange(ctx, cfg.PlacesBucket, cfg.MinioKafkaTarget); err != nil {
			log.Fatal(err)
		}
	}

	if cfg.DatabaseURL != "" {
		store, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			log.Fatal(err)
		}
		identified, skipped := catalog.Identified(places)
		if skipped > 0 {
			log.Printf("Skipping %d places without an id for postgres", skipped)
		}
		if err := store.ReplacePlaces(ctx, identified); err != nil {
			log.Fatal(err)
		}
	}

	fmt.Printf("\nFinished seeding, took %s\n", time.Since(start))
}
