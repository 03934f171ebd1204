// Package prometheus wires the explorer's metrics into a dedicated registry
// and exposes them over the standard /metrics handler.
package prometheus

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector registers metric vectors against one registry.
type MetricsCollector interface {
	RegisterCounter(name, help string, labels ...string) *prometheus.CounterVec
	RegisterGauge(name, help string, labels ...string) *prometheus.GaugeVec
	RegisterHistogram(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec
	Handler() http.Handler
}

// CollectorConfig holds collector construction options.
type CollectorConfig struct {
	Namespace        string
	EnableGoMetrics  bool
	EnableProcMetrics bool
}

type collector struct {
	registry *prometheus.Registry
	cfg      CollectorConfig

	mu         sync.Mutex
	registered map[string]prometheus.Collector
}

// NewCollector builds a collector over a fresh registry so tests and
// multiple server instances never collide on the global default registry.
func NewCollector(cfg CollectorConfig) MetricsCollector {
	c := &collector{
		registry:   prometheus.NewRegistry(),
		cfg:        cfg,
		registered: make(map[string]prometheus.Collector),
	}
	if cfg.EnableGoMetrics {
		c.registry.MustRegister(collectors.NewGoCollector())
	}
	if cfg.EnableProcMetrics {
		c.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	return c
}

func (c *collector) RegisterCounter(name, help string, labels ...string) *prometheus.CounterVec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.registered[name]; ok {
		return existing.(*prometheus.CounterVec)
	}
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.cfg.Namespace,
		Name:      name,
		Help:      help,
	}, labels)
	c.mustRegister(name, vec)
	return vec
}

func (c *collector) RegisterGauge(name, help string, labels ...string) *prometheus.GaugeVec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.registered[name]; ok {
		return existing.(*prometheus.GaugeVec)
	}
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: c.cfg.Namespace,
		Name:      name,
		Help:      help,
	}, labels)
	c.mustRegister(name, vec)
	return vec
}

func (c *collector) RegisterHistogram(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.registered[name]; ok {
		return existing.(*prometheus.HistogramVec)
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: c.cfg.Namespace,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labels)
	c.mustRegister(name, vec)
	return vec
}

func (c *collector) mustRegister(name string, col prometheus.Collector) {
	if err := c.registry.Register(col); err != nil {
		panic(fmt.Sprintf("prometheus: registering %q: %v", name, err))
	}
	c.registered[name] = col
}

// Handler serves the registry in the text exposition format.
func (c *collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
