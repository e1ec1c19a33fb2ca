package realtime

import (
	"context"
	stdjson "encoding/json"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Topic string

const (
	TopicBookAdded Topic = "BOOK_ADDED"
)

// Message is one published event. Data is encoded at publish time so every
// subscriber sees the same immutable snapshot.
type Message struct {
	Topic Topic              `json:"topic"`
	Data  stdjson.RawMessage `json:"data,omitempty"`
}

// Decode unmarshals the snapshot into out.
func (m Message) Decode(out any) error {
	return json.Unmarshal(m.Data, out)
}

// Encode snapshots payload into a Message for topic.
func Encode(topic Topic, payload any) (Message, error) {
	if topic == "" {
		return Message{}, fmt.Errorf("topic required")
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("encode %s payload: %w", topic, err)
	}
	return Message{Topic: topic, Data: raw}, nil
}

func marshalMessage(m Message) ([]byte, error) { return json.Marshal(m) }

// Publisher is the write side of the notification bus.
type Publisher interface {
	Publish(ctx context.Context, topic Topic, payload any) error
}
