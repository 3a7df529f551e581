package models

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePhrase(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{name: "host syntax with padding", input: "(Please wait | On it | Okay Boss | Fetching direction)", want: []string{"Please wait", "On it", "Okay Boss", "Fetching direction"}},
		{name: "single alternative", input: "Sorry, I can't locate this place", want: []string{"Sorry, I can't locate this place"}},
		{name: "blank alternatives dropped", input: "(hello||hi there| )", want: []string{"hello", "hi there"}},
		{name: "empty group", input: "( | )", wantErr: true},
		{name: "unbalanced", input: "(hello|hi", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePhrase(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got.Alternatives)
		})
	}
}

func TestPhrase_String(t *testing.T) {
	require.Equal(t, "(hello|hi there)", NewPhrase("hello", " hi there ").String())
	require.Equal(t, "On it", NewPhrase("On it").String())
}

func TestPhrase_Pick(t *testing.T) {
	p := MustParsePhrase("(a|b|c)")
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		require.Contains(t, p.Alternatives, p.Pick(r))
	}
	require.Equal(t, "", Phrase{}.Pick(r))
}
