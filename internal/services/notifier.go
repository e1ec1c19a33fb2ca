package services

import (
	"context"
	"errors"
	"time"

	types "github.com/yungbote/bookshelf-backend/internal/domain"
	"github.com/yungbote/bookshelf-backend/internal/observability"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
	"github.com/yungbote/bookshelf-backend/internal/realtime"
)

const publishTimeout = 2 * time.Second

// CatalogNotifier announces committed catalog writes. It never reports
// failure to the caller.
type CatalogNotifier interface {
	BookAdded(ctx context.Context, book *types.Book)
}

type catalogNotifier struct {
	log     *logger.Logger
	pub     realtime.Publisher
	metrics *observability.Metrics
}

// NewCatalogNotifier publishes through pub. metrics may be nil.
func NewCatalogNotifier(log *logger.Logger, pub realtime.Publisher, metrics *observability.Metrics) CatalogNotifier {
	return &catalogNotifier{
		log:     log.With("service", "CatalogNotifier"),
		pub:     pub,
		metrics: metrics,
	}
}

func (n *catalogNotifier) BookAdded(ctx context.Context, book *types.Book) {
	if n == nil || n.pub == nil || book == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := n.pub.Publish(ctx, realtime.TopicBookAdded, book)
	topic := string(realtime.TopicBookAdded)
	switch {
	case err == nil:
		n.metrics.ObserveNotification(topic, "delivered")
	case errors.Is(err, realtime.ErrNoSubscribers):
		n.metrics.ObserveNotification(topic, "no_subscribers")
		n.log.Debug("No listeners for book added", "book", book.ID)
	default:
		n.metrics.ObserveNotification(topic, "failed")
		n.log.Warn("Publishing book added failed", "book", book.ID, "error", err)
	}
}
