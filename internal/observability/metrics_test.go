package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestMetricsNilIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/api/books", 200, time.Millisecond)
	m.ObserveNotification("BOOK_ADDED", "delivered")
	m.SetSubscribers("BOOK_ADDED", 3)
	m.APIInflight(1)
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("nil registry write: %v", err)
	}
}

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics(0)
	m.ObserveAPI("POST", "/api/books", 200, 30*time.Millisecond)
	m.ObserveAPI("POST", "/api/books", 200, 2*time.Second)
	m.ObserveNotification("BOOK_ADDED", "no_subscribers")
	m.SetSubscribers("BOOK_ADDED", 2)

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`bs_api_requests_total{method="POST",route="/api/books",status="200"} 2.000000`,
		`bs_api_request_duration_seconds_bucket{method="POST",route="/api/books",le="0.05"} 1`,
		`bs_api_request_duration_seconds_bucket{method="POST",route="/api/books",le="+Inf"} 2`,
		`bs_api_request_duration_seconds_count{method="POST",route="/api/books"} 2`,
		`bs_notifications_total{topic="BOOK_ADDED",outcome="no_subscribers"} 1.000000`,
		`bs_subscribers{topic="BOOK_ADDED"} 2.000000`,
		"# TYPE bs_api_request_duration_seconds histogram",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestLabelEscaping(t *testing.T) {
	got := labelString([]string{"route"}, []string{"a\"b\\c\nd"})
	if got != `{route="a\"b\\c\nd"}` {
		t.Fatalf("escaping: %s", got)
	}
	if got := labelString([]string{"a", "b"}, []string{"x"}); got != `{a="x",b="unknown"}` {
		t.Fatalf("missing label value: %s", got)
	}
}
