package kafkaclient

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaReader defines the interface for a Kafka message reader.
// This allows for easy mocking in unit tests.
type KafkaReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConsumer reads a topic in a background loop and hands messages out
// on a channel. Offsets are committed explicitly with CommitOffset once a
// message has been handled.
type KafkaConsumer struct {
	reader KafkaReader
	// closed by Stop to end the consumer loop.
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	// messages read from Kafka, waiting to be handled.
	messageChan chan kafka.Message
	// pause after a read error before trying again.
	backoff time.Duration
}

// NewKafkaConsumer creates a consumer for topic within groupID. It is tuned
// for small, latency-sensitive messages such as utterances.
func NewKafkaConsumer(topic, groupID, broker string) (*KafkaConsumer, error) {
	if topic == "" || groupID == "" || broker == "" {
		return nil, errors.New("kafka consumer needs a topic, group id and broker")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{broker},
		Topic:   topic,
		GroupID: groupID,
		// Offsets are committed by CommitOffset only.
		CommitInterval: 0,
		MinBytes:       1,
		MaxBytes:       1e6,
		MaxWait:        500 * time.Millisecond,
	})
	return newConsumer(reader), nil
}

func newConsumer(reader KafkaReader) *KafkaConsumer {
	return &KafkaConsumer{
		reader:      reader,
		doneChan:    make(chan struct{}),
		messageChan: make(chan kafka.Message),
		backoff:     time.Second,
	}
}

// Messages returns the channel of consumed messages. It is closed when the
// consumer loop ends.
func (kc *KafkaConsumer) Messages() <-chan kafka.Message {
	return kc.messageChan
}

// CommitOffset marks msg as handled.
func (kc *KafkaConsumer) CommitOffset(ctx context.Context, msg kafka.Message) error {
	log.Printf("Committing offset for topic=%s, partition=%d, offset=%d", msg.Topic, msg.Partition, msg.Offset)
	return kc.reader.CommitMessages(ctx, msg)
}

// StartConsuming begins the consumer loop in a separate goroutine. The loop
// ends when ctx is cancelled, Stop is called or the reader is closed.
func (kc *KafkaConsumer) StartConsuming(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	kc.wg.Add(1)
	go func() {
		defer kc.wg.Done()
		defer close(kc.messageChan)
		defer cancel()

		// Stop unblocks a pending ReadMessage through the context.
		go func() {
			select {
			case <-kc.doneChan:
				cancel()
			case <-ctx.Done():
			}
		}()

		log.Println("Starting Kafka consumer loop...")
		for {
			msg, err := kc.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					log.Println("Consumer stopping, leaving loop.")
					return
				}
				if isReaderClosed(err) {
					log.Println("Kafka reader closed, leaving loop.")
					return
				}
				log.Printf("Error reading message: %v", err)
				select {
				case <-time.After(kc.backoff):
					continue
				case <-ctx.Done():
					return
				}
			}

			select {
			case kc.messageChan <- msg:
				log.Printf("Message received: topic=%s, partition=%d, offset=%d", msg.Topic, msg.Partition, msg.Offset)
			case <-ctx.Done():
				log.Println("Consumer stopping before handing out message.")
				return
			}
		}
	}()
}

// Stop ends the consumer loop, waits for it and closes the reader. It is
// safe to call more than once.
func (kc *KafkaConsumer) Stop() {
	kc.stopOnce.Do(func() {
		log.Println("Attempting to stop Kafka consumer...")
		close(kc.doneChan)
		kc.wg.Wait()
		if err := kc.reader.Close(); err != nil {
			log.Printf("Failed to close Kafka reader: %v", err)
		}
		log.Println("Kafka consumer stopped gracefully.")
	})
}

func isReaderClosed(err error) bool {
	return errors.Is(err, io.EOF) || strings.Contains(err.Error(), "reader closed")
}
