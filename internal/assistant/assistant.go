// Package assistant holds the navigation assistant's intents: a greeting and
// one navigation handler shared by every "take me to"-style utterance.
package assistant

import (
	"context"
	"errors"
	"log"

	"github.com/ekbaya/jkuat-navigation/internal/intent"
	"github.com/ekbaya/jkuat-navigation/internal/models"
	"github.com/ekbaya/jkuat-navigation/internal/places"
)

var (
	Greeting = models.MustParsePhrase("(hello|hi there)")
	Apology  = models.NewPhrase("Sorry, I can't locate this place")

	// DirectionAcks acknowledge "take me to" and "i want to go to".
	DirectionAcks = models.MustParsePhrase("(Please wait|On it|Okay Boss|Fetching direction)")
	// JourneyAcks acknowledge "how do i get to".
	JourneyAcks = models.MustParsePhrase("(Please wait|Preparing your journey|Calculating your direction|Fetching direction)")
)

// PlaceResolver resolves a spoken place name. *places.Resolver and
// *catalog.Catalog both satisfy it.
type PlaceResolver interface {
	Resolve(query string) (models.Place, error)
}

// Assistant answers greeting and navigation intents.
type Assistant struct {
	resolver PlaceResolver
	logger   *log.Logger
}

// New returns an Assistant resolving places with resolver. A nil logger
// means log.Default().
func New(resolver PlaceResolver, logger *log.Logger) *Assistant {
	if logger == nil {
		logger = log.Default()
	}
	return &Assistant{resolver: resolver, logger: logger}
}

// Register adds the assistant's intents to r, greeting first.
func (a *Assistant) Register(r *intent.Router) error {
	intents := []struct {
		pattern string
		handler intent.Handler
	}{
		{"(hello|hi|hi there|hello world)", a.Greet},
		{"take me to $(PLACE)", a.Navigate(DirectionAcks)},
		{"i want to go to $(PLACE)", a.Navigate(DirectionAcks)},
		{"how do i get to $(PLACE)", a.Navigate(JourneyAcks)},
	}
	for _, in := range intents {
		if err := r.Register(in.pattern, in.handler); err != nil {
			return err
		}
	}
	return nil
}

// NewRouter is a router with the assistant's intents registered.
func NewRouter(resolver PlaceResolver, logger *log.Logger) (*intent.Router, error) {
	r := intent.NewRouter()
	if err := New(resolver, logger).Register(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Greet plays the greeting phrase.
func (a *Assistant) Greet(ctx context.Context, req *intent.Request) error {
	return req.Play(ctx, Greeting)
}

// Navigate returns a handler that resolves the PLACE slot and plays a
// navigation command followed by one of acks. Places that cannot be
// resolved are logged and answered with an apology; only playback errors
// reach the caller.
func (a *Assistant) Navigate(acks models.Phrase) intent.Handler {
	return func(ctx context.Context, req *intent.Request) error {
		query, _ := req.Place()
		place, err := a.resolver.Resolve(query)
		if err != nil {
			a.diagnose(req, query, err)
			return req.Play(ctx, Apology)
		}
		if err := req.Play(ctx, models.NewNavigationCommand(place)); err != nil {
			return err
		}
		return req.Play(ctx, acks)
	}
}

func (a *Assistant) diagnose(req *intent.Request, query string, err error) {
	session := req.Utterance.SessionID
	switch {
	case errors.Is(err, places.ErrPlaceWithoutID):
		a.logger.Printf("session=%s place record for %q has no id, check the catalogue: %v", session, query, err)
	case errors.Is(err, places.ErrPlaceNotFound):
		a.logger.Printf("session=%s I can't locate this place: %q", session, query)
	default:
		a.logger.Printf("session=%s resolving %q failed: %v", session, query, err)
	}
}
