// Package health provides liveness and readiness checks for the auth server.
//
// Checks run concurrently under a shared timeout and report per-check latency.
// Liveness is unconditional; readiness aggregates the registered checkers
// (database ping, Redis ping).
package health

import (
	"context"
	"sync"
	"time"
)

// Status represents the health status of a component.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// Check represents the result of a single health check.
type Check struct {
	Name    string        `json:"name"`
	Status  Status        `json:"status"`
	Message string        `json:"message,omitempty"`
	Latency time.Duration `json:"latency_ns"`
}

// Report aggregates all check results.
type Report struct {
	Status  Status  `json:"status"`
	Version string  `json:"version"`
	Checks  []Check `json:"checks,omitempty"`
}

// CheckerFunc probes a single dependency.
type CheckerFunc func(ctx context.Context) error

// Manager runs registered health checks.
type Manager struct {
	version  string
	timeout  time.Duration
	mu       sync.Mutex
	checkers map[string]CheckerFunc
}

func NewManager(version string, timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Manager{
		version:  version,
		timeout:  timeout,
		checkers: make(map[string]CheckerFunc),
	}
}

// Register adds a named dependency check.
func (m *Manager) Register(name string, fn CheckerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers[name] = fn
}

// Live reports process liveness.
func (m *Manager) Live() *Report {
	return &Report{Status: StatusHealthy, Version: m.version}
}

// Ready runs all registered checks concurrently and aggregates the result.
func (m *Manager) Ready(ctx context.Context) *Report {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.mu.Lock()
	names := make([]string, 0, len(m.checkers))
	fns := make([]CheckerFunc, 0, len(m.checkers))
	for name, fn := range m.checkers {
		names = append(names, name)
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	checks := make([]Check, len(fns))
	var wg sync.WaitGroup
	for i := range fns {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := time.Now()
			err := fns[i](ctx)
			check := Check{
				Name:    names[i],
				Status:  StatusHealthy,
				Latency: time.Since(start),
			}
			if err != nil {
				check.Status = StatusUnhealthy
				check.Message = err.Error()
			}
			checks[i] = check
		}(i)
	}
	wg.Wait()

	report := &Report{Status: StatusHealthy, Version: m.version, Checks: checks}
	for _, c := range checks {
		if c.Status != StatusHealthy {
			report.Status = StatusUnhealthy
			break
		}
	}
	return report
}
