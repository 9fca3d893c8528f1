package health

import (
	"runtime"
)

// MazeProbe is healthy when the served maze has an entry and a reachable exit.
// A maze without a reachable exit is still servable, so it only degrades.
func MazeProbe(describe func() (vertices int, hasEntry, exitReachable bool)) ProbeFunc {
	return func() Probe {
		vertices, hasEntry, exitReachable := describe()
		p := Probe{Details: map[string]any{
			"vertices":       vertices,
			"exit_reachable": exitReachable,
		}}
		switch {
		case !hasEntry || vertices == 0:
			p.Status, p.Message = StatusUnhealthy, "no entry vertex"
		case !exitReachable:
			p.Status, p.Message = StatusDegraded, "no exit reachable from the entry"
		default:
			p.Status = StatusHealthy
		}
		return p
	}
}

// SessionsProbe degrades once more than limit agents are connected. A limit of
// zero disables the bound.
func SessionsProbe(active func() int, limit int) ProbeFunc {
	return func() Probe {
		n := active()
		p := Probe{Status: StatusHealthy, Details: map[string]any{"active": n, "limit": limit}}
		if limit > 0 && n > limit {
			p.Status, p.Message = StatusDegraded, "too many connected agents"
		}
		return p
	}
}

// MemoryProbe degrades when the heap in use exceeds fraction of the memory
// obtained from the OS.
func MemoryProbe(fraction float64) ProbeFunc {
	return memoryProbe(fraction, func() (uint64, uint64) {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return ms.HeapInuse, ms.Sys
	})
}

func memoryProbe(fraction float64, usage func() (inuse, sys uint64)) ProbeFunc {
	return func() Probe {
		inuse, sys := usage()
		p := Probe{Status: StatusHealthy, Details: map[string]any{
			"heap_inuse_bytes": inuse,
			"sys_bytes":        sys,
		}}
		if sys > 0 && float64(inuse)/float64(sys) > fraction {
			p.Status, p.Message = StatusDegraded, "high memory usage"
		}
		return p
	}
}

// Alive always reports healthy. It answers liveness once the process serves HTTP.
func Alive() Probe {
	return Probe{Status: StatusHealthy}
}
