package status

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Registry is the central metrics facade shared by engine, pools and game
// Producers cache pointers once; hot loops write directly to the atomics
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Lines renders every metric as "key=value" in sorted key order, grouped by type
// Used by the debug overlay
func (r *Registry) Lines(prefix string) []string {
	var out []string
	keep := func(k string) bool { return prefix == "" || strings.HasPrefix(k, prefix) }

	r.Ints.Range(func(k string, v *atomic.Int64) {
		if keep(k) {
			out = append(out, fmt.Sprintf("%s=%d", k, v.Load()))
		}
	})
	r.Floats.Range(func(k string, v *AtomicFloat) {
		if keep(k) {
			out = append(out, fmt.Sprintf("%s=%.1f", k, v.Get()))
		}
	})
	r.Bools.Range(func(k string, v *atomic.Bool) {
		if keep(k) {
			out = append(out, fmt.Sprintf("%s=%t", k, v.Load()))
		}
	})
	r.Strings.Range(func(k string, v *AtomicString) {
		if keep(k) {
			out = append(out, fmt.Sprintf("%s=%s", k, v.Load()))
		}
	})
	return out
}
