package service

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/ekbaya/jkuat-navigation/internal/intent"
	"github.com/ekbaya/jkuat-navigation/internal/models"
)

var notUnderstood = models.NewPhrase("Sorry, I didn't get that")

// ConsolePlayer stands in for the host on a terminal: commands are printed
// as JSON and phrases are spoken by picking one alternative at random.
type ConsolePlayer struct {
	out io.Writer
	rng *rand.Rand
}

func NewConsolePlayer(out io.Writer, rng *rand.Rand) *ConsolePlayer {
	return &ConsolePlayer{out: out, rng: rng}
}

func (p *ConsolePlayer) Play(_ context.Context, item models.Playable) error {
	switch v := item.(type) {
	case models.Command:
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(p.out, "> %s\n", data)
		return err
	case models.Phrase:
		_, err := fmt.Fprintf(p.out, "%s\n", v.Pick(p.rng))
		return err
	default:
		return fmt.Errorf("unsupported playable %T", item)
	}
}

// RunConsole reads one utterance per line from in and dispatches it until in
// is exhausted or ctx is cancelled.
func RunConsole(ctx context.Context, in io.Reader, dispatcher Dispatcher, player intent.Player, session string) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		text := scanner.Text()
		if text == "" {
			continue
		}
		err := dispatcher.Dispatch(ctx, models.Utterance{SessionID: session, Text: text}, player)
		switch {
		case errors.Is(err, intent.ErrNoIntent):
			if err := player.Play(ctx, notUnderstood); err != nil {
				return err
			}
		case err != nil:
			return err
		}
	}
	return scanner.Err()
}
