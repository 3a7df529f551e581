package service

import (
	"bytes"
	"context"
	"errors"
	"log"
	"reflect"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

// mockMessageIterator feeds a fixed set of messages and records commits.
type mockMessageIterator struct {
	ch        chan kafka.Message
	mu        sync.Mutex
	committed []int64
}

func newMockMessageIterator(values ...string) *mockMessageIterator {
	ch := make(chan kafka.Message, len(values))
	for i, v := range values {
		ch <- kafka.Message{Offset: int64(i), Value: []byte(v)}
	}
	close(ch)
	return &mockMessageIterator{ch: ch}
}

func (m *mockMessageIterator) Messages() <-chan kafka.Message { return m.ch }

func (m *mockMessageIterator) CommitOffset(_ context.Context, msg kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.committed = append(m.committed, msg.Offset)
	return nil
}

func decodeInt(_ context.Context, msg kafka.Message) (int, error) {
	if string(msg.Value) == "skip" {
		return 0, ErrSkip
	}
	return strconv.Atoi(string(msg.Value))
}

func TestIterator_Each(t *testing.T) {
	src := newMockMessageIterator("1", "oops", "skip", "4", "5", "6")
	var logs bytes.Buffer
	var handled []int
	failures := 0

	NewIterator(src, decodeInt).
		WithLogger(log.New(&logs, "", 0)).
		WithRetryDelay(time.Millisecond).
		Each(context.Background(), func(_ context.Context, v int) error {
			if v == 5 && failures < 2 {
				failures++
				return errors.New("handler failed")
			}
			handled = append(handled, v)
			return nil
		})

	if want := []int{1, 4, 5, 6}; !reflect.DeepEqual(handled, want) {
		t.Fatalf("handled = %v, want %v", handled, want)
	}
	if want := []int64{0, 1, 2, 3, 4, 5}; !reflect.DeepEqual(src.committed, want) {
		t.Fatalf("committed = %v, want %v", src.committed, want)
	}
	if !bytes.Contains(logs.Bytes(), []byte("offset 1")) || !bytes.Contains(logs.Bytes(), []byte("handler failed")) {
		t.Errorf("expected decode and handle failures to be logged, got %q", logs.String())
	}
}

func TestIterator_FailedMessageBlocksLaterCommits(t *testing.T) {
	src := newMockMessageIterator("1", "2", "3")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	attempts := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		NewIterator(src, decodeInt).
			WithLogger(log.New(&bytes.Buffer{}, "", 0)).
			WithRetryDelay(time.Millisecond).
			Each(ctx, func(_ context.Context, v int) error {
				if v == 2 {
					attempts++
					if attempts == 3 {
						cancel()
					}
					return errors.New("reply topic unavailable")
				}
				return nil
			})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Each did not return after cancel")
	}
	if attempts < 3 {
		t.Fatalf("expected the failed message to be retried, got %d attempts", attempts)
	}
	src.mu.Lock()
	defer src.mu.Unlock()
	if want := []int64{0}; !reflect.DeepEqual(src.committed, want) {
		t.Fatalf("committed = %v, want %v", src.committed, want)
	}
}

func TestIterator_StopsOnCancel(t *testing.T) {
	src := &mockMessageIterator{ch: make(chan kafka.Message)}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		NewIterator(src, decodeInt).Each(ctx, func(context.Context, int) error { return nil })
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Each did not return after cancel")
	}
}
