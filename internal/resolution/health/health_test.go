package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vietddude/oldestdate/internal/infra/musicbrainz"
)

func okPing(ctx context.Context) error   { return nil }
func downPing(ctx context.Context) error { return errors.New("connection refused") }

func TestMonitor_Healthy(t *testing.T) {
	monitor := NewMonitor()
	monitor.Register("database", PingProbe(okPing, StatusCritical))
	monitor.Register("musicbrainz", MusicBrainzProbe(musicbrainz.NewMonitor()))

	report := monitor.CheckHealth(context.Background())
	if report.SystemStatus != StatusHealthy {
		t.Errorf("expected healthy, got %s", report.SystemStatus)
	}
	if report.Components["database"].Name != "database" {
		t.Errorf("expected component name to be set, got %+v", report.Components["database"])
	}
}

func TestMonitor_Degraded(t *testing.T) {
	mb := musicbrainz.NewMonitor()
	mb.RecordThrottle("60")

	monitor := NewMonitor()
	monitor.Register("redis", PingProbe(downPing, StatusDegraded))
	monitor.Register("musicbrainz", MusicBrainzProbe(mb))

	report := monitor.CheckHealth(context.Background())
	if report.SystemStatus != StatusDegraded {
		t.Errorf("expected degraded, got %s", report.SystemStatus)
	}
	if c := report.Components["musicbrainz"]; !strings.HasPrefix(c.Detail, "throttled") {
		t.Errorf("expected throttled detail, got %q", c.Detail)
	}
	if c := report.Components["redis"]; c.Detail != "connection refused" {
		t.Errorf("expected ping error detail, got %q", c.Detail)
	}
}

func TestMonitor_Critical(t *testing.T) {
	monitor := NewMonitor()
	monitor.Register("redis", PingProbe(downPing, StatusDegraded))
	monitor.Register("database", PingProbe(downPing, StatusCritical))

	report := monitor.CheckHealth(context.Background())
	if report.SystemStatus != StatusCritical {
		t.Errorf("expected critical, got %s", report.SystemStatus)
	}
}

func TestMonitor_ProbeDeadline(t *testing.T) {
	monitor := NewMonitor()
	monitor.timeout = 10 * time.Millisecond
	monitor.Register("slow", PingProbe(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, StatusCritical))

	report := monitor.CheckHealth(context.Background())
	if report.SystemStatus != StatusCritical {
		t.Errorf("expected critical, got %s", report.SystemStatus)
	}
}

func TestServer_Endpoints(t *testing.T) {
	monitor := NewMonitor()
	monitor.Register("database", PingProbe(downPing, StatusCritical))
	srv := httptest.NewServer(NewServer(monitor, 0).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var body map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable || body["status"] != "critical" {
		t.Errorf("unexpected /health answer %d %v", resp.StatusCode, body)
	}

	resp, err = http.Get(srv.URL + "/health/detailed")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var report HealthReport
	_ = json.NewDecoder(resp.Body).Decode(&report)
	resp.Body.Close()
	if _, ok := report.Components["database"]; !ok {
		t.Errorf("expected database component, got %+v", report)
	}

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected /metrics to answer 200, got %d", resp.StatusCode)
	}
}
