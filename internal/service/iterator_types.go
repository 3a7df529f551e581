package service

import (
	"context"
	"errors"

	"github.com/segmentio/kafka-go"
)

// MessageIterator is a source of Kafka messages with manual offset commits.
// *kafkaclient.KafkaConsumer implements it.
type MessageIterator interface {
	// Messages returns a receive-only channel of Kafka messages. It is closed
	// when the consumer stops.
	Messages() <-chan kafka.Message

	// CommitOffset acknowledges that a message has been handled.
	CommitOffset(ctx context.Context, msg kafka.Message) error
}

// DecodeFunc turns a raw message into a value of type T. Returning ErrSkip
// marks a well-formed message that is of no interest; it is committed
// without being handled.
type DecodeFunc[T any] func(ctx context.Context, msg kafka.Message) (T, error)

// HandleFunc processes one decoded value. An error makes the iterator try
// the same value again.
type HandleFunc[T any] func(ctx context.Context, value T) error

// ErrSkip is returned by a DecodeFunc for messages that need no handling.
var ErrSkip = errors.New("skip message")
