package main

import (
	"context"
	"log"
	"sync"

	"github.com/ekbaya/jkuat-navigation/internal/assistant"
	"github.com/ekbaya/jkuat-navigation/internal/catalog"
	"github.com/ekbaya/jkuat-navigation/internal/env"
	"github.com/ekbaya/jkuat-navigation/internal/service"
	"github.com/ekbaya/jkuat-navigation/pkg/graceful"
	"github.com/ekbaya/jkuat-navigation/pkg/kafkaclient"
)

func main() {
	env.LoadEnv()
	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	cfg := env.FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	source, closeSource, err := service.OpenSource(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open places source: %v", err)
	}
	defer closeSource()

	places := catalog.New(source, log.Default())
	if err := places.Reload(ctx); err != nil {
		log.Fatalf("Failed to load places: %v", err)
	}

	router, err := assistant.NewRouter(places, log.Default())
	if err != nil {
		log.Fatalf("Failed to register intents: %v", err)
	}

	log.Printf("Connecting to Kafka broker: %s, utterances from %s, replies to %s, group %s",
		cfg.KafkaBroker, cfg.UtteranceTopic, cfg.ReplyTopic, cfg.KafkaGroupID)

	publisher, err := kafkaclient.NewKafkaPublisher(cfg.ReplyTopic, cfg.KafkaBroker)
	if err != nil {
		log.Fatalf("Failed to create kafka publisher: %v", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Printf("Failed to close kafka publisher: %v", err)
		}
	}()

	utterances, err := kafkaclient.NewKafkaConsumer(cfg.UtteranceTopic, cfg.KafkaGroupID, cfg.KafkaBroker)
	if err != nil {
		log.Fatalf("Failed to create kafka consumer: %v", err)
	}

	var wg sync.WaitGroup
	if cfg.CatalogTopic != "" {
		changes, err := kafkaclient.NewKafkaConsumer(cfg.CatalogTopic, cfg.KafkaGroupID+"-catalog", cfg.KafkaBroker)
		if err != nil {
			log.Fatalf("Failed to create catalogue consumer: %v", err)
		}
		changes.StartConsuming(ctx)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer changes.Stop()
			service.NewIterator(changes, service.DecodeCatalogChange).
				Each(ctx, service.HandleCatalogChanges(places, cfg.PlacesBucket, cfg.PlacesCatalog, log.Default()))
		}()
	}

	utterances.StartConsuming(ctx)
	service.NewIterator(utterances, service.DecodeUtterance).
		Each(ctx, service.HandleUtterances(router, publisher, log.Default()))

	utterances.Stop()
	cancel()
	wg.Wait()
	log.Println("Navigator finished, application exiting.")
}
