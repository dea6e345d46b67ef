package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PromMeter bridges the Meter interface to Prometheus. Collectors are
// created on first use of a metric name; every later call for that name
// must carry the same label keys.
type PromMeter struct {
	ns  string
	reg prometheus.Registerer

	mu       sync.Mutex
	counters map[string]*prometheus.CounterVec
	hists    map[string]*prometheus.HistogramVec
}

// NewPromMeter returns a PromMeter registering collectors under the given
// namespace. A nil registerer falls back to the default registry.
func NewPromMeter(namespace string, reg prometheus.Registerer) *PromMeter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &PromMeter{
		ns:       namespace,
		reg:      reg,
		counters: make(map[string]*prometheus.CounterVec),
		hists:    make(map[string]*prometheus.HistogramVec),
	}
}

func (m *PromMeter) Counter(name string, value float64, labels ...Label) {
	keys, vals := splitLabels(labels)
	m.mu.Lock()
	c, ok := m.counters[name]
	if !ok {
		c = promauto.With(m.reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: m.ns,
			Name:      name,
		}, keys)
		m.counters[name] = c
	}
	m.mu.Unlock()
	c.WithLabelValues(vals...).Add(value)
}

func (m *PromMeter) Histogram(name string, value float64, labels ...Label) {
	keys, vals := splitLabels(labels)
	m.mu.Lock()
	h, ok := m.hists[name]
	if !ok {
		h = promauto.With(m.reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: m.ns,
			Name:      name,
			Buckets:   prometheus.DefBuckets,
		}, keys)
		m.hists[name] = h
	}
	m.mu.Unlock()
	h.WithLabelValues(vals...).Observe(value)
}

func splitLabels(labels []Label) (keys, vals []string) {
	for _, l := range labels {
		keys = append(keys, l.Key)
		vals = append(vals, l.Value)
	}
	return keys, vals
}
