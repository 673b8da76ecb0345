package musicbrainz

import (
	"strconv"
	"sync"
	"time"
)

// Status represents the health state of the web service as seen by the
// client.
type Status int

const (
	StatusHealthy   Status = iota // Service is answering normally
	StatusDegraded                // Service is slow but answering
	StatusThrottled               // Service asked us to back off
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusThrottled:
		return "throttled"
	default:
		return "unknown"
	}
}

// defaultRetryAfter applies when a throttling response carries no usable
// Retry-After header.
const defaultRetryAfter = time.Second

// MonitorStats holds monitoring statistics for the client.
type MonitorStats struct {
	Status         Status
	AverageLatency time.Duration
	Requests       int
	Failures       int
	ThrottleCount  int
}

// Monitor tracks latency, failures and throttling responses.
type Monitor struct {
	mu sync.RWMutex

	recentLatencies  []time.Duration
	maxLatencyWindow int

	requests      int
	failures      int
	throttleCount int

	lastThrottleTime   time.Time
	retryAfterDuration time.Duration

	slowResponseThreshold time.Duration
	now                   func() time.Time
}

// NewMonitor creates a new monitor with default settings.
func NewMonitor() *Monitor {
	return &Monitor{
		recentLatencies:       make([]time.Duration, 0, 100),
		maxLatencyWindow:      100,
		slowResponseThreshold: 3 * time.Second,
		now:                   time.Now,
	}
}

// RecordRequest records a successful request with its latency.
func (m *Monitor) RecordRequest(latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests++
	m.recentLatencies = append(m.recentLatencies, latency)
	if len(m.recentLatencies) > m.maxLatencyWindow {
		m.recentLatencies = m.recentLatencies[1:]
	}
}

// RecordFailure records a failed request.
func (m *Monitor) RecordFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests++
	m.failures++
}

// RecordThrottle records a 429 or 503 response. retryAfter is the raw
// Retry-After header, in seconds.
func (m *Monitor) RecordThrottle(retryAfter string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests++
	m.failures++
	m.throttleCount++
	m.lastThrottleTime = m.now()
	m.retryAfterDuration = defaultRetryAfter

	if secs, err := strconv.Atoi(retryAfter); err == nil && secs > 0 {
		m.retryAfterDuration = time.Duration(secs) * time.Second
	}
}

// RetryAfter returns the remaining time before the service should be
// called again.
func (m *Monitor) RetryAfter() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.retryAfterLocked()
}

// Status returns the current status of the service.
func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.statusLocked()
}

// AverageLatency returns the average latency of recent requests.
func (m *Monitor) AverageLatency() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.averageLatencyLocked()
}

// Stats returns a snapshot of the monitor.
func (m *Monitor) Stats() MonitorStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return MonitorStats{
		Status:         m.statusLocked(),
		AverageLatency: m.averageLatencyLocked(),
		Requests:       m.requests,
		Failures:       m.failures,
		ThrottleCount:  m.throttleCount,
	}
}

func (m *Monitor) retryAfterLocked() time.Duration {
	if m.retryAfterDuration > 0 {
		remaining := m.retryAfterDuration - m.now().Sub(m.lastThrottleTime)
		if remaining > 0 {
			return remaining
		}
	}
	return 0
}

func (m *Monitor) statusLocked() Status {
	if m.retryAfterLocked() > 0 {
		return StatusThrottled
	}
	if len(m.recentLatencies) > 10 && m.averageLatencyLocked() > m.slowResponseThreshold {
		return StatusDegraded
	}
	return StatusHealthy
}

func (m *Monitor) averageLatencyLocked() time.Duration {
	if len(m.recentLatencies) == 0 {
		return 0
	}

	var total time.Duration
	for _, lat := range m.recentLatencies {
		total += lat
	}
	return total / time.Duration(len(m.recentLatencies))
}
