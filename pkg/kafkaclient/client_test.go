package kafkaclient

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

// mockReader simulates the kafka-go Reader for unit testing.
type mockReader struct {
	messages  chan kafka.Message
	mu        sync.Mutex
	committed []kafka.Message
	closed    atomic.Bool
	failures  atomic.Int32
}

func newMockReader() *mockReader {
	return &mockReader{messages: make(chan kafka.Message, 10)}
}

// produce simulates count utterance messages arriving on the topic.
func (mr *mockReader) produce(count int) {
	go func() {
		for i := 0; i < count; i++ {
			mr.messages <- kafka.Message{
				Topic:     "utterances",
				Partition: 0,
				Offset:    int64(i),
				Value:     []byte(fmt.Sprintf(`{"session_id":"s","text":"take me to place %d"}`, i)),
			}
			time.Sleep(5 * time.Millisecond)
		}
	}()
}

func (mr *mockReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if mr.closed.Load() {
		return kafka.Message{}, errors.New("kafka: reader closed")
	}
	if mr.failures.Load() > 0 {
		mr.failures.Add(-1)
		return kafka.Message{}, errors.New("broker not available")
	}
	select {
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	case msg := <-mr.messages:
		return msg, nil
	}
}

func (mr *mockReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	if mr.closed.Load() {
		return errors.New("kafka: reader closed")
	}
	mr.mu.Lock()
	defer mr.mu.Unlock()
	mr.committed = append(mr.committed, msgs...)
	return nil
}

func (mr *mockReader) Close() error {
	mr.closed.Store(true)
	return nil
}

func (mr *mockReader) commits() int {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	return len(mr.committed)
}

func TestKafkaConsumer_ConsumeAndCommit(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	reader := newMockReader()
	consumer := newConsumer(reader)
	const expectedMessages = 3
	reader.produce(expectedMessages)
	consumer.StartConsuming(ctx)

	for i := 0; i < expectedMessages; i++ {
		select {
		case msg := <-consumer.Messages():
			if msg.Offset != int64(i) {
				t.Errorf("expected offset %d, got %d", i, msg.Offset)
			}
			if err := consumer.CommitOffset(ctx, msg); err != nil {
				t.Errorf("CommitOffset() failed: %v", err)
			}
		case <-ctx.Done():
			t.Fatalf("timed out after %d messages", i)
		}
	}

	consumer.Stop()

	if got := reader.commits(); got != expectedMessages {
		t.Errorf("expected %d commits, got %d", expectedMessages, got)
	}
	if !reader.closed.Load() {
		t.Error("expected reader to be closed after Stop")
	}
}

func TestKafkaConsumer_StopClosesMessages(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	reader := newMockReader()
	consumer := newConsumer(reader)
	consumer.StartConsuming(ctx)

	// nothing produced: the loop is blocked in ReadMessage
	done := make(chan struct{})
	go func() {
		consumer.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return while the reader was idle")
	}

	remaining := 0
	for range consumer.Messages() {
		remaining++
	}
	if remaining != 0 {
		t.Errorf("expected 0 messages after stop, got %d", remaining)
	}

	// a second Stop is a no-op
	consumer.Stop()
}

func TestKafkaConsumer_RetriesAfterReadError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	reader := newMockReader()
	reader.failures.Store(2)
	consumer := newConsumer(reader)
	consumer.backoff = 10 * time.Millisecond
	reader.produce(1)
	consumer.StartConsuming(ctx)
	defer consumer.Stop()

	select {
	case msg := <-consumer.Messages():
		if msg.Offset != 0 {
			t.Errorf("expected offset 0, got %d", msg.Offset)
		}
	case <-ctx.Done():
		t.Fatal("no message after transient read errors")
	}
}

func TestKafkaConsumer_ContextCancelEndsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	consumer := newConsumer(newMockReader())
	consumer.StartConsuming(ctx)
	cancel()

	select {
	case _, ok := <-consumer.Messages():
		if ok {
			t.Fatal("unexpected message")
		}
	case <-time.After(time.Second):
		t.Fatal("message channel not closed after cancel")
	}
	consumer.Stop()
}

func TestNewKafkaConsumer_RequiresSettings(t *testing.T) {
	if _, err := NewKafkaConsumer("", "group", "localhost:9092"); err == nil {
		t.Fatal("expected an error for a missing topic")
	}
}
