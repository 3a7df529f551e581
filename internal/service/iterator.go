// Package service wires the assistant to its transports. It consumes
// utterance events and catalogue change notifications from Kafka (via
// pkg/kafkaclient), hands them to the intent router or the catalogue, and
// plays replies back to the host.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Iterator decodes messages from a MessageIterator and handles them one at a
// time, committing each message's offset after it was handled.
type Iterator[T any] struct {
	msgIterator MessageIterator
	decode      DecodeFunc[T]
	logger      *log.Logger
	retryDelay  time.Duration
}

// NewIterator builds an Iterator over iterator using decode. It does not own
// the message source; start and stop the consumer outside.
func NewIterator[T any](iterator MessageIterator, decode DecodeFunc[T]) *Iterator[T] {
	return &Iterator[T]{
		msgIterator: iterator,
		decode:      decode,
		logger:      log.Default(),
		retryDelay:  time.Second,
	}
}

// WithLogger sets the logger for skipped and failed messages.
func (it *Iterator[T]) WithLogger(logger *log.Logger) *Iterator[T] {
	it.logger = logger
	return it
}

// WithRetryDelay sets the pause between attempts at a message whose handler
// failed.
func (it *Iterator[T]) WithRetryDelay(d time.Duration) *Iterator[T] {
	it.retryDelay = d
	return it
}

// Each runs handle for every message until the message channel is closed or
// ctx is cancelled. Messages that fail to decode are logged and committed.
// A failed handler is retried until it succeeds or ctx is cancelled, so no
// later offset is committed past an unhandled message.
func (it *Iterator[T]) Each(ctx context.Context, handle HandleFunc[T]) {
	messages := it.msgIterator.Messages()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			value, err := it.decode(ctx, msg)
			switch {
			case errors.Is(err, ErrSkip):
			case err != nil:
				it.logger.Printf("Error decoding message at offset %d: %v", msg.Offset, err)
			default:
				if !it.handleUntilDone(ctx, handle, msg, value) {
					return
				}
			}
			if err := it.msgIterator.CommitOffset(ctx, msg); err != nil {
				it.logger.Printf("Failed to commit offset: %v", err)
			}
		}
	}
}

// handleUntilDone reports false when ctx ended before handle succeeded.
func (it *Iterator[T]) handleUntilDone(ctx context.Context, handle HandleFunc[T], msg kafka.Message, value T) bool {
	for {
		err := handle(ctx, value)
		if err == nil {
			return true
		}
		it.logger.Printf("Error handling message at offset %d, retrying in %s: %v", msg.Offset, it.retryDelay, err)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(it.retryDelay):
		}
	}
}
