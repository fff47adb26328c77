package llmclient

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lumenplan/dayplanner/api/schemas"
)

// HealthMonitor periodically probes the provider's models endpoint and keeps
// the latest reachability snapshot. It is the only writer of that snapshot;
// the pipeline reads it through the schemas.HealthSource interface instead of
// a shared global flag.
type HealthMonitor struct {
	baseURL    string
	interval   time.Duration
	httpClient *http.Client
	logger     *zap.Logger

	mu     sync.RWMutex
	status schemas.HealthStatus

	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}
}

// NewHealthMonitor builds a monitor probing baseURL every interval, with each
// probe bounded by probeTimeout.
func NewHealthMonitor(baseURL string, interval, probeTimeout time.Duration, logger *zap.Logger) *HealthMonitor {
	return &HealthMonitor{
		baseURL:    baseURL,
		interval:   interval,
		httpClient: &http.Client{Timeout: probeTimeout},
		logger:     logger.Named("health_monitor"),
		stopChan:   make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start runs an immediate probe, then polls until Stop or context
// cancellation. It returns after the polling goroutine is scheduled.
func (m *HealthMonitor) Start(ctx context.Context) {
	m.probe(ctx)
	go m.run(ctx)
}

// Stop terminates polling. Safe to call more than once.
func (m *HealthMonitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
	<-m.done
	m.httpClient.CloseIdleConnections()
}

// Status returns the latest snapshot.
func (m *HealthMonitor) Status() schemas.HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *HealthMonitor) run(ctx context.Context) {
	defer close(m.done)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopChan:
			return
		case <-ticker.C:
			m.probe(ctx)
		}
	}
}

// probe issues one GET against the models listing endpoint. Any response
// other than 200 flips the snapshot to disconnected.
func (m *HealthMonitor) probe(ctx context.Context) {
	status := schemas.HealthStatus{CheckedAt: time.Now().UTC()}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/v1/models", nil)
	if err != nil {
		status.Detail = fmt.Sprintf("building probe request: %v", err)
		m.store(status)
		return
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		status.Detail = fmt.Sprintf("probe failed: %v", err)
		m.store(status)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		status.Detail = fmt.Sprintf("probe returned status %d", resp.StatusCode)
		m.store(status)
		return
	}

	status.Connected = true
	m.store(status)
}

func (m *HealthMonitor) store(status schemas.HealthStatus) {
	m.mu.Lock()
	changed := m.status.Connected != status.Connected
	m.status = status
	m.mu.Unlock()

	if changed {
		if status.Connected {
			m.logger.Info("Provider reachable", zap.String("base_url", m.baseURL))
		} else {
			m.logger.Warn("Provider unreachable", zap.String("base_url", m.baseURL), zap.String("detail", status.Detail))
		}
	}
}

// StaticHealth is a fixed HealthSource, handy for tests and for callers that
// manage connectivity themselves.
type StaticHealth struct {
	Snapshot schemas.HealthStatus
}

// Status returns the fixed snapshot.
func (s StaticHealth) Status() schemas.HealthStatus { return s.Snapshot }
