package models

import "encoding/json"

// CommandKind tags the variant of a Command on the wire.
type CommandKind string

const (
	// KindTakeMeTo asks the host to start routing to a place.
	KindTakeMeTo CommandKind = "take_me_to"
)

// Command is a structured instruction handed to the host runtime.
// NavigationCommand is the only variant today.
type Command interface {
	Playable
	Kind() CommandKind
}

// NavigationCommand instructs the host to begin routing to a place.
type NavigationCommand struct {
	PlaceID int64
}

// NewNavigationCommand builds the command for the given place.
func NewNavigationCommand(p Place) NavigationCommand {
	return NavigationCommand{PlaceID: p.ID}
}

func (NavigationCommand) Kind() CommandKind { return KindTakeMeTo }

func (NavigationCommand) playable() {}

// MarshalJSON renders the host shape {"command":"take_me_to","id":N}.
func (c NavigationCommand) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Command CommandKind `json:"command"`
		ID      int64       `json:"id"`
	}{Command: c.Kind(), ID: c.PlaceID})
}
