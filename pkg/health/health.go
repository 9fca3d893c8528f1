// Package health reports liveness and readiness of the local maze authority.
package health

import (
	"sort"
	"sync"
	"time"
)

// Status is the outcome of a probe.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// Probe is the result of one named check.
type Probe struct {
	Name     string         `json:"name"`
	Status   Status         `json:"status"`
	Message  string         `json:"message,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
	Checked  time.Time      `json:"checked_at"`
	Duration time.Duration  `json:"duration_ns"`
}

// ProbeFunc runs a check.
type ProbeFunc func() Probe

// Kind selects which set of probes a report runs.
type Kind int

const (
	// Liveness probes tell whether the process should be restarted.
	Liveness Kind = iota
	// Readiness probes tell whether agents can be served.
	Readiness
)

// Report aggregates the probes of one kind. The worst status wins.
type Report struct {
	Status    Status           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    float64          `json:"uptime_seconds"`
	Probes    map[string]Probe `json:"probes"`
}

// Checker holds registered probes.
type Checker struct {
	mu      sync.RWMutex
	started time.Time
	probes  map[Kind]map[string]ProbeFunc
	now     func() time.Time
}

// NewChecker creates a checker with no probes. A report with no probes is healthy.
func NewChecker() *Checker {
	return &Checker{
		started: time.Now(),
		probes:  map[Kind]map[string]ProbeFunc{Liveness: {}, Readiness: {}},
		now:     time.Now,
	}
}

// Register adds or replaces a probe.
func (c *Checker) Register(kind Kind, name string, fn ProbeFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.probes[kind] == nil {
		c.probes[kind] = make(map[string]ProbeFunc)
	}
	c.probes[kind][name] = fn
}

// Names lists the probes registered for kind in sorted order.
func (c *Checker) Names(kind Kind) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.probes[kind]))
	for name := range c.probes[kind] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes every probe of kind.
func (c *Checker) Run(kind Kind) Report {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	report := Report{
		Status:    StatusHealthy,
		Timestamp: now,
		Uptime:    now.Sub(c.started).Seconds(),
		Probes:    make(map[string]Probe, len(c.probes[kind])),
	}
	for name, fn := range c.probes[kind] {
		start := time.Now()
		p := fn()
		p.Name = name
		p.Duration = time.Since(start)
		p.Checked = start
		report.Probes[name] = p
		report.Status = worst(report.Status, p.Status)
	}
	return report
}

func worst(a, b Status) Status {
	rank := func(s Status) int {
		switch s {
		case StatusHealthy:
			return 0
		case StatusDegraded:
			return 1
		default:
			return 2
		}
	}
	if rank(b) > rank(a) {
		return b
	}
	return a
}
