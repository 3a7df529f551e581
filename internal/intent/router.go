// Package intent routes recognised utterances to handlers. Intents are an
// ordered list of (pattern, handler) pairs registered at start-up; the first
// pattern that matches an utterance wins.
package intent

import (
	"context"
	"errors"
	"fmt"

	"github.com/ekbaya/jkuat-navigation/internal/models"
)

// SlotPlace is the slot carrying the free-text place name.
const SlotPlace = "PLACE"

// ErrNoIntent is returned by Dispatch when no registered pattern matches.
var ErrNoIntent = errors.New("no intent matches utterance")

// Player is the host play primitive. It accepts commands and phrases.
type Player interface {
	Play(ctx context.Context, item models.Playable) error
}

// PlayerFunc adapts a function to Player.
type PlayerFunc func(ctx context.Context, item models.Playable) error

func (f PlayerFunc) Play(ctx context.Context, item models.Playable) error {
	return f(ctx, item)
}

// Request is what a handler receives for a matched utterance.
type Request struct {
	Intent    string
	Utterance models.Utterance
	Captures  Captures
	player    Player
}

// Place returns the PLACE slot.
func (r *Request) Place() (string, bool) {
	return r.Captures.Get(SlotPlace)
}

// Play forwards item to the host.
func (r *Request) Play(ctx context.Context, item models.Playable) error {
	return r.player.Play(ctx, item)
}

// Handler runs an intent to completion.
type Handler func(ctx context.Context, req *Request) error

type binding struct {
	pattern Pattern
	handler Handler
}

// Router holds intents in registration order. Register everything before
// the first Dispatch; the router is read-only afterwards.
type Router struct {
	intents []binding
}

func NewRouter() *Router {
	return &Router{}
}

// Register compiles pattern and binds it to h.
func (r *Router) Register(pattern string, h Handler) error {
	p, err := Compile(pattern)
	if err != nil {
		return err
	}
	r.Handle(p, h)
	return nil
}

// Handle binds an already compiled pattern, e.g. one backed by a different
// matching engine.
func (r *Router) Handle(p Pattern, h Handler) {
	r.intents = append(r.intents, binding{pattern: p, handler: h})
}

// Patterns lists registered patterns in order.
func (r *Router) Patterns() []string {
	out := make([]string, len(r.intents))
	for i, b := range r.intents {
		out[i] = b.pattern.String()
	}
	return out
}

// Dispatch runs the first intent matching u.Text. It returns ErrNoIntent
// when nothing matches and otherwise whatever the handler returns.
func (r *Router) Dispatch(ctx context.Context, u models.Utterance, player Player) error {
	for _, b := range r.intents {
		captures, ok := b.pattern.Match(u.Text)
		if !ok {
			continue
		}
		req := &Request{
			Intent:    b.pattern.String(),
			Utterance: u,
			Captures:  captures,
			player:    player,
		}
		if err := b.handler(ctx, req); err != nil {
			return fmt.Errorf("intent %q: %w", req.Intent, err)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrNoIntent, u.Text)
}
