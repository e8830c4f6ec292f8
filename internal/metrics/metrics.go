package metrics

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EconomyMetrics counts economic operations and token flow. The zero value
// and a nil pointer are both usable; Prometheus collectors are only attached
// once Register is called.
type EconomyMetrics struct {
	TokensCredited atomic.Int64
	TokensDebited  atomic.Int64
	CacheHits      atomic.Uint64
	CacheMisses    atomic.Uint64

	operations       *prometheus.CounterVec
	creditedCounter  prometheus.Counter
	debitedCounter   prometheus.Counter
	cacheHitCounter  prometheus.Counter
	cacheMissCounter prometheus.Counter

	registerOnce sync.Once
}

func NewEconomyMetrics() *EconomyMetrics {
	return &EconomyMetrics{}
}

// Register attaches the collectors to registry. It is a no-op for a nil
// registry and idempotent afterwards.
func (m *EconomyMetrics) Register(registry prometheus.Registerer) {
	if m == nil || registry == nil {
		return
	}

	m.registerOnce.Do(func() {
		factory := promauto.With(registry)

		m.operations = factory.NewCounterVec(prometheus.CounterOpts{
			Name: "study_economy_operations_total",
			Help: "Economic operations by name and outcome",
		}, []string{"operation", "outcome"})

		m.creditedCounter = factory.NewCounter(prometheus.CounterOpts{
			Name: "study_economy_tokens_credited_total",
			Help: "Total tokens credited for completed exercises",
		})

		m.debitedCounter = factory.NewCounter(prometheus.CounterOpts{
			Name: "study_economy_tokens_debited_total",
			Help: "Total tokens debited by purchases",
		})

		m.cacheHitCounter = factory.NewCounter(prometheus.CounterOpts{
			Name: "study_catalog_cache_hits_total",
			Help: "Total number of catalog cache hits",
		})

		m.cacheMissCounter = factory.NewCounter(prometheus.CounterOpts{
			Name: "study_catalog_cache_misses_total",
			Help: "Total number of catalog cache misses",
		})
	})
}

// ObserveOperation records one finished operation.
func (m *EconomyMetrics) ObserveOperation(operation, outcome string) {
	if m == nil || m.operations == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

func (m *EconomyMetrics) AddTokensCredited(amount int64) {
	if m == nil || amount <= 0 {
		return
	}
	m.TokensCredited.Add(amount)
	if m.creditedCounter != nil {
		m.creditedCounter.Add(float64(amount))
	}
}

func (m *EconomyMetrics) AddTokensDebited(amount int64) {
	if m == nil || amount <= 0 {
		return
	}
	m.TokensDebited.Add(amount)
	if m.debitedCounter != nil {
		m.debitedCounter.Add(float64(amount))
	}
}

func (m *EconomyMetrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Add(1)
	if m.cacheHitCounter != nil {
		m.cacheHitCounter.Inc()
	}
}

func (m *EconomyMetrics) IncCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Add(1)
	if m.cacheMissCounter != nil {
		m.cacheMissCounter.Inc()
	}
}
