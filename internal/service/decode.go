package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7/pkg/notification"
	"github.com/segmentio/kafka-go"

	"github.com/ekbaya/jkuat-navigation/internal/keys"
	"github.com/ekbaya/jkuat-navigation/internal/models"
)

// DecodeUtterance reads an utterance event. The message key stands in for a
// missing session id.
func DecodeUtterance(_ context.Context, msg kafka.Message) (models.Utterance, error) {
	var u models.Utterance
	if err := json.Unmarshal(msg.Value, &u); err != nil {
		return u, fmt.Errorf("unmarshal utterance: %w", err)
	}
	if u.SessionID == "" {
		u.SessionID = string(msg.Key)
	}
	if strings.TrimSpace(u.Text) == "" {
		return u, ErrSkip
	}
	return u, nil
}

// CatalogChange reports that a catalogue object was written.
type CatalogChange struct {
	Bucket  string
	Key     string
	Catalog string
	Event   notification.Event
}

// DecodeCatalogChange reads a MinIO bucket notification and returns the
// first record that concerns a catalogue object.
func DecodeCatalogChange(_ context.Context, msg kafka.Message) (CatalogChange, error) {
	var info notification.Info
	if err := json.Unmarshal(msg.Value, &info); err != nil {
		return CatalogChange{}, fmt.Errorf("unmarshal bucket notification: %w", err)
	}
	for _, event := range info.Records {
		objectKey, err := url.QueryUnescape(event.S3.Object.Key)
		if err != nil {
			return CatalogChange{}, fmt.Errorf("decode object key %q: %w", event.S3.Object.Key, err)
		}
		name, ok := keys.CatalogName(objectKey)
		if !ok {
			continue
		}
		return CatalogChange{
			Bucket:  event.S3.Bucket.Name,
			Key:     objectKey,
			Catalog: name,
			Event:   event,
		}, nil
	}
	return CatalogChange{}, ErrSkip
}
