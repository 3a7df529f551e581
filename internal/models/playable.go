package models

// Playable is anything the host play primitive accepts: a Command or a
// Phrase. The unexported method keeps the set closed.
type Playable interface {
	playable()
}
