package models

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
)

// Phrase is a set of spoken alternatives. The host picks one of them at
// playback time; on the wire it is written as "(a|b|c)".
type Phrase struct {
	Alternatives []string
}

// NewPhrase builds a phrase from its alternatives, dropping blank ones.
func NewPhrase(alternatives ...string) Phrase {
	var alts []string
	for _, a := range alternatives {
		if a = strings.TrimSpace(a); a != "" {
			alts = append(alts, a)
		}
	}
	return Phrase{Alternatives: alts}
}

// ParsePhrase reads the host alternation syntax. A string without
// surrounding parentheses is a single alternative.
func ParsePhrase(s string) (Phrase, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = s[1 : len(s)-1]
	} else if strings.ContainsAny(s, "()") {
		return Phrase{}, fmt.Errorf("unbalanced parentheses in phrase %q", s)
	}
	p := NewPhrase(strings.Split(s, "|")...)
	if p.Empty() {
		return Phrase{}, fmt.Errorf("phrase %q has no alternatives", s)
	}
	return p, nil
}

// MustParsePhrase is ParsePhrase for package-level literals.
func MustParsePhrase(s string) Phrase {
	p, err := ParsePhrase(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Phrase) Empty() bool {
	return len(p.Alternatives) == 0
}

// String renders the phrase in host syntax.
func (p Phrase) String() string {
	if len(p.Alternatives) == 1 {
		return p.Alternatives[0]
	}
	return "(" + strings.Join(p.Alternatives, "|") + ")"
}

// Pick returns one alternative chosen with r.
func (p Phrase) Pick(r *rand.Rand) string {
	switch len(p.Alternatives) {
	case 0:
		return ""
	case 1:
		return p.Alternatives[0]
	}
	return p.Alternatives[r.Intn(len(p.Alternatives))]
}

func (Phrase) playable() {}

func (p Phrase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Phrase) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePhrase(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
