package catalog

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/ekbaya/jkuat-navigation/internal/models"
	"github.com/ekbaya/jkuat-navigation/internal/places"
)

// Entry is a place travelling through the preparation pipeline.
type Entry struct {
	Place models.Place

	mu       sync.Mutex
	problems []string
	unusable bool
}

// Flag records a problem with the entry. Fatal problems drop it from the
// catalogue.
func (e *Entry) Flag(fatal bool, format string, args ...any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.problems = append(e.problems, fmt.Sprintf(format, args...))
	if fatal {
		e.unusable = true
	}
}

func (e *Entry) Problems() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.problems...)
}

func (e *Entry) Usable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.unusable
}

// NormalizeName trims the display name and puts it in the form the resolver
// compares queries in. Inner spacing is kept. Runs alongside
// NormalizeShortName.
func NormalizeName(_ context.Context, e *Entry) error {
	e.Place.Name = places.Normalize(e.Place.Name)
	return nil
}

// NormalizeShortName does the same for the alias.
func NormalizeShortName(_ context.Context, e *Entry) error {
	e.Place.ShortName = places.Normalize(e.Place.ShortName)
	return nil
}

// RequireName drops places nobody could ever ask for.
func RequireName(_ context.Context, e *Entry) error {
	if e.Place.Name == "" && e.Place.ShortName == "" {
		e.Flag(true, "place %d has neither name nor short name, dropped", e.Place.ID)
	}
	return nil
}

// CheckID flags records without an id. They stay in the catalogue so that
// asking for them reports a malformed record instead of an unknown place.
func CheckID(_ context.Context, e *Entry) error {
	if !e.Place.HasID() {
		e.Flag(false, "place %q has no id", e.Place.Name)
	}
	return nil
}

// DefaultPipeline normalises names, then validates the record.
func DefaultPipeline() *Pipeline[Entry] {
	return NewPipeline(
		NewStage(NormalizeName, NormalizeShortName),
		NewStage(RequireName, CheckID),
	)
}

// Prepare runs list through pipeline and returns the usable places in their
// original order. Problems are logged.
func Prepare(ctx context.Context, pipeline *Pipeline[Entry], list []models.Place, logger *log.Logger) []models.Place {
	in := make(chan *Entry)
	go func() {
		defer close(in)
		for _, p := range list {
			select {
			case in <- &Entry{Place: p}:
			case <-ctx.Done():
				return
			}
		}
	}()

	prepared := make([]models.Place, 0, len(list))
	for e := range pipeline.Process(ctx, in) {
		for _, problem := range e.Problems() {
			logger.Printf("catalogue: %s", problem)
		}
		if e.Usable() {
			prepared = append(prepared, e.Place)
		}
	}
	return prepared
}

// Identified splits list into places with an id and the number of places
// without one. Stores keyed by id can only take the former.
func Identified(list []models.Place) ([]models.Place, int) {
	kept := make([]models.Place, 0, len(list))
	for _, p := range list {
		if p.HasID() {
			kept = append(kept, p)
		}
	}
	return kept, len(list) - len(kept)
}
