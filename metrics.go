// metrics.go -- Prometheus instrumentation for kissdb
//
// (c) Sudhi Herle 2018
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package kissdb

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// These counters are registered against the default registry as soon as
// the package is imported, the same way quay/claircore registers its
// datastore query counters. A process that never scrapes /metrics pays
// only the cost of the in-process increments; kissdb itself never opens
// a listener or exposes an HTTP surface.
var (
	metricGets = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kissdb",
		Name:      "gets_total",
		Help:      "Total number of Get calls.",
	})

	metricCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kissdb",
		Name:      "cache_hits_total",
		Help:      "Total number of Get calls served from the read cache.",
	})

	metricPuts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kissdb",
		Name:      "puts_total",
		Help:      "Total number of successful Put calls.",
	})

	metricPagesAllocated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kissdb",
		Name:      "pages_allocated_total",
		Help:      "Total number of hash-table pages appended to the chain.",
	})

	metricPutDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "kissdb",
		Name:      "put_duration_seconds",
		Help:      "Put call latency in seconds.",
	})
)
