package bus

import (
	"context"

	"github.com/yungbote/bookshelf-backend/internal/realtime"
)

// Bus carries notification messages between service instances. Every
// instance runs a forwarder that hands inbound messages to its local hub.
type Bus interface {
	Publish(ctx context.Context, msg realtime.Message) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.Message)) error
	Ping(ctx context.Context) error
	Close() error
}

// Publisher adapts a Bus to realtime.Publisher so services stay unaware of
// whether delivery is local or fanned out.
func Publisher(b Bus) realtime.Publisher { return busPublisher{bus: b} }

type busPublisher struct {
	bus Bus
}

func (p busPublisher) Publish(ctx context.Context, topic realtime.Topic, payload any) error {
	msg, err := realtime.Encode(topic, payload)
	if err != nil {
		return err
	}
	return p.bus.Publish(ctx, msg)
}
