package kafkaclient

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
)

type mockWriter struct {
	written []kafka.Message
	err     error
}

func (w *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.written = append(w.written, msgs...)
	return nil
}

func (w *mockWriter) Close() error { return nil }

func TestKafkaPublisher_Publish(t *testing.T) {
	tests := []struct {
		name      string
		writerErr error
		value     any
		wantValue string
		wantErr   bool
	}{
		{name: "json body keyed by session", value: map[string]int{"id": 1}, wantValue: `{"id":1}`},
		{name: "writer failure", writerErr: errors.New("leader not available"), value: "x", wantErr: true},
		{name: "unmarshalable value", value: make(chan int), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &mockWriter{err: tt.writerErr}
			p := &KafkaPublisher{writer: w}

			err := p.Publish(context.Background(), "session-1", tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(w.written) != 1 {
				t.Fatalf("expected one message, got %d", len(w.written))
			}
			if string(w.written[0].Key) != "session-1" {
				t.Errorf("key = %q", w.written[0].Key)
			}
			if string(w.written[0].Value) != tt.wantValue {
				t.Errorf("value = %q, want %q", w.written[0].Value, tt.wantValue)
			}
		})
	}
}
