package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vietddude/oldestdate/internal/infra/musicbrainz"
)

// Probe reports the health of one component.
type Probe func(ctx context.Context) ComponentHealth

// Monitor runs registered probes.
type Monitor struct {
	mu      sync.RWMutex
	probes  map[string]Probe
	timeout time.Duration
}

// NewMonitor creates an empty monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		probes:  make(map[string]Probe),
		timeout: 2 * time.Second,
	}
}

// Register adds or replaces the probe for name.
func (m *Monitor) Register(name string, probe Probe) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probes[name] = probe
}

// CheckHealth runs every probe and returns the full report.
func (m *Monitor) CheckHealth(ctx context.Context) HealthReport {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	components := make(map[string]ComponentHealth, len(m.probes))
	for name, probe := range m.probes {
		c := probe(ctx)
		c.Name = name
		components[name] = c
	}

	return HealthReport{
		SystemStatus: Aggregate(components),
		Components:   components,
	}
}

// PingProbe reports failStatus when ping fails.
func PingProbe(ping func(ctx context.Context) error, failStatus SystemStatus) Probe {
	return func(ctx context.Context) ComponentHealth {
		if err := ping(ctx); err != nil {
			return ComponentHealth{Status: failStatus, Detail: err.Error()}
		}
		return ComponentHealth{Status: StatusHealthy}
	}
}

// MusicBrainzProbe reports the web service state seen by the client.
// A throttled service only slows resolutions down, so it counts as degraded.
func MusicBrainzProbe(mon *musicbrainz.Monitor) Probe {
	return func(ctx context.Context) ComponentHealth {
		stats := mon.Stats()
		detail := fmt.Sprintf("requests=%d failures=%d throttled=%d avg_latency=%s",
			stats.Requests, stats.Failures, stats.ThrottleCount, stats.AverageLatency)

		switch stats.Status {
		case musicbrainz.StatusHealthy:
			return ComponentHealth{Status: StatusHealthy, Detail: detail}
		default:
			return ComponentHealth{Status: StatusDegraded, Detail: stats.Status.String() + ": " + detail}
		}
	}
}
