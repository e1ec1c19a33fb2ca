package realtime

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
)

const DefaultBufferSize = 16

// ErrNoSubscribers is returned by Publish when nobody was listening. The
// event is discarded; there is no replay.
var ErrNoSubscribers = errors.New("no active subscribers")

// Hub is the in-process topic-keyed pub/sub. Subscribers only see events
// published while they are registered.
type Hub struct {
	mu            sync.RWMutex
	log           *logger.Logger
	bufferSize    int
	subscriptions map[Topic]map[*Subscription]struct{}
}

func NewHub(log *logger.Logger, bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Hub{
		log:           log.With("component", "NotificationHub"),
		bufferSize:    bufferSize,
		subscriptions: make(map[Topic]map[*Subscription]struct{}),
	}
}

// Subscribe registers a new live subscription for topic. Callers must
// Cancel it when the client goes away.
func (h *Hub) Subscribe(topic Topic) *Subscription {
	sub := &Subscription{
		ID:     uuid.New(),
		Topic:  topic,
		events: make(chan Message, h.bufferSize),
		done:   make(chan struct{}),
		hub:    h,
	}

	h.mu.Lock()
	subs, ok := h.subscriptions[topic]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.subscriptions[topic] = subs
	}
	subs[sub] = struct{}{}
	h.mu.Unlock()

	h.log.Debug("Subscription opened", "subscription", sub.ID, "topic", topic)
	return sub
}

// Publish snapshots payload and delivers it to the current subscribers of
// topic.
func (h *Hub) Publish(ctx context.Context, topic Topic, payload any) error {
	msg, err := Encode(topic, payload)
	if err != nil {
		return err
	}
	if h.Broadcast(msg) == 0 {
		return ErrNoSubscribers
	}
	return nil
}

// Broadcast hands msg to every subscriber of msg.Topic without blocking.
// A subscriber whose buffer is full misses the event; the others are not
// affected. Returns the number of subscribers that received it.
func (h *Hub) Broadcast(msg Message) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for sub := range h.subscriptions[msg.Topic] {
		select {
		case sub.events <- msg:
			delivered++
		default:
			h.log.Warn("Dropping event; subscriber buffer full", "subscription", sub.ID, "topic", msg.Topic)
		}
	}
	return delivered
}

func (h *Hub) SubscriberCount(topic Topic) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscriptions[topic])
}

// Close cancels every open subscription. Streams serving them return.
func (h *Hub) Close() {
	h.mu.RLock()
	open := make([]*Subscription, 0)
	for _, subs := range h.subscriptions {
		for sub := range subs {
			open = append(open, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range open {
		sub.Cancel()
	}
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.subscriptions[sub.Topic]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.subscriptions, sub.Topic)
		}
	}
	// Closed under the write lock so no Broadcast can be mid-send.
	close(sub.events)
	h.log.Debug("Subscription closed", "subscription", sub.ID, "topic", sub.Topic)
}

// Subscription is one listener's live, non-restartable event sequence.
type Subscription struct {
	ID    uuid.UUID
	Topic Topic

	events chan Message
	done   chan struct{}
	once   sync.Once
	hub    *Hub
}

// Events yields messages in publish order. The channel is closed after
// Cancel.
func (s *Subscription) Events() <-chan Message { return s.events }

// Done is closed once the subscription is cancelled.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Cancel deregisters the subscription. It is safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		close(s.done)
		s.hub.remove(s)
	})
}

// Next blocks for the next event. ok is false once the subscription is
// cancelled or ctx ends.
func (s *Subscription) Next(ctx context.Context) (Message, bool) {
	select {
	case <-ctx.Done():
		return Message{}, false
	case msg, ok := <-s.events:
		return msg, ok
	}
}
