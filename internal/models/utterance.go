package models

import (
	"encoding/json"
	"fmt"
)

// Utterance is a piece of recognised user text delivered by the host.
type Utterance struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// Reply carries one played item back to the host. Exactly one of Command
// or Phrase is set.
type Reply struct {
	SessionID string  `json:"session_id"`
	Command   Command `json:"command,omitempty"`
	Phrase    *Phrase `json:"phrase,omitempty"`
}

// NewReply wraps a played item for the given session.
func NewReply(sessionID string, item Playable) (Reply, error) {
	r := Reply{SessionID: sessionID}
	switch v := item.(type) {
	case Command:
		r.Command = v
	case Phrase:
		r.Phrase = &v
	default:
		return Reply{}, fmt.Errorf("unsupported playable %T", item)
	}
	return r, nil
}

// UnmarshalJSON decodes the command variant by its "command" tag.
func (r *Reply) UnmarshalJSON(data []byte) error {
	var raw struct {
		SessionID string          `json:"session_id"`
		Command   json.RawMessage `json:"command"`
		Phrase    *Phrase         `json:"phrase"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.SessionID = raw.SessionID
	r.Phrase = raw.Phrase
	r.Command = nil
	if len(raw.Command) == 0 || string(raw.Command) == "null" {
		return nil
	}
	var tagged struct {
		Command CommandKind `json:"command"`
		ID      int64       `json:"id"`
	}
	if err := json.Unmarshal(raw.Command, &tagged); err != nil {
		return err
	}
	switch tagged.Command {
	case KindTakeMeTo:
		r.Command = NavigationCommand{PlaceID: tagged.ID}
	default:
		return fmt.Errorf("unknown command %q", tagged.Command)
	}
	return nil
}
