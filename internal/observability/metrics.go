package observability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
)

const defaultScrapeInterval = 15 * time.Second

// Metrics is the process metric registry. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	apiRequests   *CounterVec
	apiLatency    *HistogramVec
	apiInflight   *GaugeVec
	notifications *CounterVec
	subscribers   *GaugeVec
	dbPool        *GaugeVec
	redisUp       *GaugeVec

	scrapeInterval time.Duration
}

func NewMetrics(scrapeInterval time.Duration) *Metrics {
	if scrapeInterval <= 0 {
		scrapeInterval = defaultScrapeInterval
	}
	return &Metrics{
		apiRequests: NewCounterVec("bs_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"bs_api_request_duration_seconds",
			"API request latency in seconds by method/route.",
			[]string{"method", "route"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight:    NewGaugeVec("bs_api_inflight_requests", "In-flight API requests.", nil),
		notifications:  NewCounterVec("bs_notifications_total", "Published notification events by topic/outcome.", []string{"topic", "outcome"}),
		subscribers:    NewGaugeVec("bs_subscribers", "Open notification subscriptions by topic.", []string{"topic"}),
		dbPool:         NewGaugeVec("bs_db_pool", "database/sql pool statistics.", []string{"stat"}),
		redisUp:        NewGaugeVec("bs_redis_up", "1 when the notification relay answers PING.", nil),
		scrapeInterval: scrapeInterval,
	}
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.Inc(method, route, strconv.Itoa(status))
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) APIInflight(delta float64) {
	if m == nil {
		return
	}
	m.apiInflight.Add(delta)
}

// ObserveNotification records one publish attempt. outcome is one of
// delivered, no_subscribers or failed.
func (m *Metrics) ObserveNotification(topic, outcome string) {
	if m == nil {
		return
	}
	m.notifications.Inc(topic, outcome)
}

func (m *Metrics) SetSubscribers(topic string, n int) {
	if m == nil {
		return
	}
	m.subscribers.Set(float64(n), topic)
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.notifications, m.subscribers,
		m.dbPool, m.redisUp,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

// Serve exposes the registry on addr until ctx ends.
func (m *Metrics) Serve(ctx context.Context, log *logger.Logger, addr string) error {
	if m == nil || strings.TrimSpace(addr) == "" {
		return nil
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	log.Info("metrics server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// CollectDBStats samples the gorm pool until ctx ends.
func (m *Metrics) CollectDBStats(ctx context.Context, log *logger.Logger, db *gorm.DB) error {
	if m == nil || db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ticker := time.NewTicker(m.scrapeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			stats := sqlDB.Stats()
			m.dbPool.Set(float64(stats.OpenConnections), "open_connections")
			m.dbPool.Set(float64(stats.InUse), "in_use")
			m.dbPool.Set(float64(stats.Idle), "idle")
			m.dbPool.Set(float64(stats.WaitCount), "wait_count")
			m.dbPool.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
		}
	}
}

// CollectRelayHealth pings the notification relay until ctx ends.
func (m *Metrics) CollectRelayHealth(ctx context.Context, log *logger.Logger, ping func(context.Context) error) error {
	if m == nil || ping == nil {
		return nil
	}
	ticker := time.NewTicker(m.scrapeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := ping(ctx); err != nil {
				m.redisUp.Set(0)
				log.Warn("metrics: redis ping failed", "error", err)
				continue
			}
			m.redisUp.Set(1)
		}
	}
}
