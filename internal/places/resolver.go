// Package places resolves free-text place names against a known collection
// of places.
package places

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ekbaya/jkuat-navigation/internal/models"
)

var (
	// ErrPlaceNotFound is returned when no place matches the query. It is an
	// expected outcome, not a defect.
	ErrPlaceNotFound = errors.New("place not found")
	// ErrPlaceWithoutID is returned when the matching record has no id, which
	// points at malformed catalogue data rather than an unknown place.
	ErrPlaceWithoutID = errors.New("place has no id")
)

// Resolver looks places up by name or short name. It owns a private copy of
// the collection and is safe for concurrent use.
type Resolver struct {
	places []models.Place
}

// NewResolver builds a resolver over places. Collection order is kept; it
// decides which record wins when names collide.
func NewResolver(places []models.Place) *Resolver {
	cp := make([]models.Place, len(places))
	copy(cp, places)
	return &Resolver{places: cp}
}

// Resolve returns the first place whose name or short name equals query,
// ignoring case and surrounding whitespace.
func (r *Resolver) Resolve(query string) (models.Place, error) {
	q := Normalize(query)
	if q == "" {
		return models.Place{}, fmt.Errorf("%w: empty query", ErrPlaceNotFound)
	}
	for _, p := range r.places {
		if !matches(p, q) {
			continue
		}
		if !p.HasID() {
			return p, fmt.Errorf("%w: %q", ErrPlaceWithoutID, p.Name)
		}
		return p, nil
	}
	return models.Place{}, fmt.Errorf("%w: %q", ErrPlaceNotFound, query)
}

func (r *Resolver) Len() int {
	return len(r.places)
}

func matches(p models.Place, q string) bool {
	return strings.EqualFold(Normalize(p.Name), q) || strings.EqualFold(Normalize(p.ShortName), q)
}

// Normalize trims s and puts it in Unicode NFC so that composed and
// decomposed spellings compare equal.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
