package bus

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
	"github.com/yungbote/bookshelf-backend/internal/realtime"
)

type recordingBus struct {
	mu   sync.Mutex
	msgs []realtime.Message
}

func (b *recordingBus) Publish(ctx context.Context, msg realtime.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, msg)
	return nil
}

func (b *recordingBus) StartForwarder(ctx context.Context, onMsg func(m realtime.Message)) error {
	return nil
}

func (b *recordingBus) Ping(ctx context.Context) error { return nil }

func (b *recordingBus) Close() error { return nil }

func TestPublisherEncodesSnapshot(t *testing.T) {
	rb := &recordingBus{}
	pub := Publisher(rb)

	payload := map[string]any{"title": "Clean Code"}
	if err := pub.Publish(context.Background(), realtime.TopicBookAdded, payload); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	payload["title"] = "mutated after publish"

	if len(rb.msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(rb.msgs))
	}
	var got map[string]any
	if err := rb.msgs[0].Decode(&got); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got["title"] != "Clean Code" || rb.msgs[0].Topic != realtime.TopicBookAdded {
		t.Fatalf("snapshot not preserved: %+v", got)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	msg, err := realtime.Encode(realtime.TopicBookAdded, map[string]int{"published": 1952})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	raw, err := encode(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Topic != msg.Topic || string(back.Data) != string(msg.Data) {
		t.Fatalf("round trip mismatch: %+v vs %+v", back, msg)
	}
	if _, err := decode([]byte("not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestRedisBusForwardsToHub(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis integration tests")
	}
	log := logger.NewTest(t)
	b, err := NewRedisBus(log, RedisOptions{Addr: addr, Channel: "catalog-events-test"})
	if err != nil {
		t.Fatalf("NewRedisBus: %v", err)
	}
	defer b.Close()

	hub := realtime.NewHub(log, 4)
	sub := hub.Subscribe(realtime.TopicBookAdded)
	defer sub.Cancel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := b.StartForwarder(ctx, func(m realtime.Message) { hub.Broadcast(m) }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	if err := Publisher(b).Publish(ctx, realtime.TopicBookAdded, map[string]string{"title": "Dune Messiah"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	waitCtx, waitCancel := context.WithTimeout(ctx, 5*time.Second)
	defer waitCancel()
	msg, ok := sub.Next(waitCtx)
	if !ok {
		t.Fatalf("timed out waiting for forwarded message")
	}
	var got map[string]string
	if err := msg.Decode(&got); err != nil || got["title"] != "Dune Messiah" {
		t.Fatalf("unexpected forwarded payload: %v %v", got, err)
	}
}
