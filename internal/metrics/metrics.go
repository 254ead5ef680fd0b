// ============================================================================
// Beaver-DAG Metrics - Prometheus Monitoring
// ============================================================================
//
// Package: internal/metrics
// File: metrics.go
// Purpose: Collect and expose scheduler metrics for Prometheus monitoring
//
// Metric Categories:
//
//   1. Execution Counters - Cumulative, monotonically increasing:
//      - dag_loops_completed_total: Total loops run to completion
//      - dag_task_executions_total{label}: Per-node task execution count
//
//   2. Performance Metrics (Histogram) - Distribution stats:
//      - dag_loop_duration_seconds: Wall-clock duration of one loop,
//        entry-task-start to terminal-task-end
//
//   3. Status Metrics (Gauge) - Instantaneous values:
//      - dag_queue_depth: Current Ready Queue length
//
// Prometheus Query Examples:
//
//   # Loops per minute
//   rate(dag_loops_completed_total[1m])
//
//   # 95th percentile loop duration
//   histogram_quantile(0.95, dag_loop_duration_seconds_bucket)
//
//   # Hottest node by execution rate
//   topk(5, rate(dag_task_executions_total[5m]))
//
// HTTP Endpoint:
//   Exposed via /metrics, scraped by Prometheus. Default port: 9090.
//
// ============================================================================

package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector collects Prometheus metrics for one scheduler run. It
// structurally satisfies internal/scheduler.MetricsSink; the scheduler
// package does not import this one, avoiding a dependency cycle.
type Collector struct {
	loopsCompleted prometheus.Counter
	taskExecutions *prometheus.CounterVec
	loopDuration   prometheus.Histogram
	queueDepth     prometheus.Gauge
}

// NewCollector creates a new metrics collector and registers its metrics
// against the default Prometheus registry.
func NewCollector() *Collector {
	c := &Collector{
		loopsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dag_loops_completed_total",
			Help: "Total number of scheduling loops run to completion",
		}),
		taskExecutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dag_task_executions_total",
			Help: "Total number of task executions, by node label",
		}, []string{"label"}),
		loopDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dag_loop_duration_seconds",
			Help:    "Wall-clock duration of one scheduling loop in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dag_queue_depth",
			Help: "Current number of nodes waiting in the Ready Queue",
		}),
	}

	prometheus.MustRegister(c.loopsCompleted)
	prometheus.MustRegister(c.taskExecutions)
	prometheus.MustRegister(c.loopDuration)
	prometheus.MustRegister(c.queueDepth)

	return c
}

// RecordTaskExecution records one task execution for the given node label.
func (c *Collector) RecordTaskExecution(label string) {
	c.taskExecutions.WithLabelValues(label).Inc()
}

// RecordLoopCompleted records one completed loop and its duration.
func (c *Collector) RecordLoopCompleted(durationSeconds float64) {
	c.loopsCompleted.Inc()
	c.loopDuration.Observe(durationSeconds)
}

// SetQueueDepth sets the current Ready Queue depth gauge.
func (c *Collector) SetQueueDepth(depth int) {
	c.queueDepth.Set(float64(depth))
}

// StartServer starts the Prometheus metrics HTTP server on the given port.
func StartServer(port int) error {
	http.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", port)
	return http.ListenAndServe(addr, nil)
}
