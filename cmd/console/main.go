package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/ekbaya/jkuat-navigation/internal/assistant"
	"github.com/ekbaya/jkuat-navigation/internal/catalog"
	"github.com/ekbaya/jkuat-navigation/internal/env"
	"github.com/ekbaya/jkuat-navigation/internal/service"
	"github.com/ekbaya/jkuat-navigation/pkg/graceful"
)

// console runs the assistant on stdin/stdout, one utterance per line.
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

	// diagnostics go to stderr so they do not mix with the conversation
	logger := log.New(os.Stderr, "", log.LstdFlags)
	places := catalog.New(source, logger)
	if err := places.Reload(ctx); err != nil {
		log.Fatalf("Failed to load places: %v", err)
	}
	router, err := assistant.NewRouter(places, logger)
	if err != nil {
		log.Fatalf("Failed to register intents: %v", err)
	}

	fmt.Printf("%d places loaded. Try \"take me to <place>\".\n", places.Len())
	player := service.NewConsolePlayer(os.Stdout, rand.New(rand.NewSource(time.Now().UnixNano())))
	if err := service.RunConsole(ctx, os.Stdin, router, player, "console"); err != nil {
		log.Fatalf("Console failed: %v", err)
	}
}
