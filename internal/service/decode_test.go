package service

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

func TestDecodeUtterance(t *testing.T) {
	tests := []struct {
		name        string
		msg         kafka.Message
		wantSession string
		wantText    string
		wantSkip    bool
		wantErr     bool
	}{
		{
			name:        "full event",
			msg:         kafka.Message{Value: []byte(`{"session_id":"abc","text":"take me to library"}`)},
			wantSession: "abc",
			wantText:    "take me to library",
		},
		{
			name:        "session from key",
			msg:         kafka.Message{Key: []byte("k-1"), Value: []byte(`{"text":"hi there"}`)},
			wantSession: "k-1",
			wantText:    "hi there",
		},
		{name: "blank text", msg: kafka.Message{Value: []byte(`{"session_id":"abc","text":"  "}`)}, wantSkip: true},
		{name: "not json", msg: kafka.Message{Value: []byte(`take me to library`)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := DecodeUtterance(context.Background(), tt.msg)
			switch {
			case tt.wantSkip:
				require.ErrorIs(t, err, ErrSkip)
			case tt.wantErr:
				require.Error(t, err)
				require.NotErrorIs(t, err, ErrSkip)
			default:
				require.NoError(t, err)
				require.Equal(t, tt.wantSession, u.SessionID)
				require.Equal(t, tt.wantText, u.Text)
			}
		})
	}
}

const catalogEvent = `{
  "EventName": "s3:ObjectCreated:Put",
  "Key": "navigation/catalogs/jkuat/places.json",
  "Records": [{
    "eventVersion": "2.0",
    "eventSource": "minio:s3",
    "eventName": "s3:ObjectCreated:Put",
    "s3": {
      "bucket": {"name": "navigation"},
      "object": {"key": "catalogs%2Fjkuat%2Fplaces.json", "size": 120}
    }
  }]
}`

const otherEvent = `{
  "Records": [{
    "eventName": "s3:ObjectCreated:Put",
    "s3": {"bucket": {"name": "navigation"}, "object": {"key": "images%2Flogo.png"}}
  }]
}`

func TestDecodeCatalogChange(t *testing.T) {
	change, err := DecodeCatalogChange(context.Background(), kafka.Message{Value: []byte(catalogEvent)})
	require.NoError(t, err)
	require.Equal(t, "navigation", change.Bucket)
	require.Equal(t, "catalogs/jkuat/places.json", change.Key)
	require.Equal(t, "jkuat", change.Catalog)
	require.Equal(t, "s3:ObjectCreated:Put", change.Event.EventName)

	_, err = DecodeCatalogChange(context.Background(), kafka.Message{Value: []byte(otherEvent)})
	require.ErrorIs(t, err, ErrSkip)

	_, err = DecodeCatalogChange(context.Background(), kafka.Message{Value: []byte(`[`)})
	require.Error(t, err)
}
