package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ekbaya/jkuat-navigation/internal/intent"
	"github.com/ekbaya/jkuat-navigation/internal/keys"
	"github.com/ekbaya/jkuat-navigation/internal/models"
)

// Dispatcher routes an utterance to its intent. *intent.Router implements
// it.
type Dispatcher interface {
	Dispatch(ctx context.Context, u models.Utterance, player intent.Player) error
}

// Publisher writes a keyed message. *kafkaclient.KafkaPublisher implements
// it.
type Publisher interface {
	Publish(ctx context.Context, key string, value any) error
}

// ReplyPlayer plays items back to the host as Reply messages keyed by
// session.
type ReplyPlayer struct {
	publisher Publisher
	sessionID string
}

func NewReplyPlayer(publisher Publisher, sessionID string) *ReplyPlayer {
	return &ReplyPlayer{publisher: publisher, sessionID: sessionID}
}

func (p *ReplyPlayer) Play(ctx context.Context, item models.Playable) error {
	reply, err := models.NewReply(p.sessionID, item)
	if err != nil {
		return err
	}
	if err := p.publisher.Publish(ctx, p.sessionID, reply); err != nil {
		return fmt.Errorf("publish reply for session %s: %w", p.sessionID, err)
	}
	return nil
}

// HandleUtterances dispatches each utterance and publishes its replies.
// Utterances no intent understands are logged and considered handled.
func HandleUtterances(dispatcher Dispatcher, publisher Publisher, logger *log.Logger) HandleFunc[models.Utterance] {
	return func(ctx context.Context, u models.Utterance) error {
		err := dispatcher.Dispatch(ctx, u, NewReplyPlayer(publisher, u.SessionID))
		if errors.Is(err, intent.ErrNoIntent) {
			logger.Printf("session=%s no intent for %q", u.SessionID, u.Text)
			return nil
		}
		return err
	}
}

// Reloader refreshes the place catalogue. *catalog.Catalog implements it.
type Reloader interface {
	Reload(ctx context.Context) error
}

// HandleCatalogChanges reloads the catalogue when the object of catalogName
// in bucket changes. Changes to other catalogues are ignored.
func HandleCatalogChanges(reloader Reloader, bucket, catalogName string, logger *log.Logger) HandleFunc[CatalogChange] {
	return func(ctx context.Context, change CatalogChange) error {
		if change.Bucket != bucket || change.Key != keys.Catalog(catalogName) {
			return nil
		}
		logger.Printf("Catalogue %s changed (%s), reloading", change.Key, change.Event.EventName)
		return reloader.Reload(ctx)
	}
}
