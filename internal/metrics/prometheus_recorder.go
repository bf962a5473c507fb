// SPDX-License-Identifier: MPL-2.0

package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "packup"

// PrometheusRecorder implements Recorder with Prometheus collectors.
type PrometheusRecorder struct {
	snapshots    prom.Counter
	resolutions  *prom.CounterVec
	generation   prom.Gauge
	taskResults  *prom.CounterVec
	taskDuration *prom.HistogramVec
}

// NewPrometheusRecorder creates the collectors and registers them with reg,
// or with a fresh registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		snapshots: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "config_snapshots_total",
			Help:      "Config file set snapshots received by the pipeline",
		}),
		resolutions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Build context resolutions by outcome",
		}, []string{"outcome"}),
		generation: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "generation",
			Help:      "Generation of the build context currently driving tasks",
		}),
		taskResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "task_results_total",
			Help:      "Task results by task type and outcome",
		}, []string{"type", "result"}),
		taskDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Duration of successful task builds",
			Buckets:   prom.DefBuckets,
		}, []string{"type"}),
	}
	reg.MustRegister(pr.snapshots, pr.resolutions, pr.generation, pr.taskResults, pr.taskDuration)
	return pr
}

func (p *PrometheusRecorder) IncSnapshots() {
	if p == nil {
		return
	}
	p.snapshots.Inc()
}

func (p *PrometheusRecorder) IncResolution(outcome ResolutionOutcome) {
	if p == nil {
		return
	}
	p.resolutions.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetGeneration(gen uint64) {
	if p == nil {
		return
	}
	p.generation.Set(float64(gen))
}

func (p *PrometheusRecorder) IncTaskResult(taskType string, result ResultLabel) {
	if p == nil {
		return
	}
	p.taskResults.WithLabelValues(taskType, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveTaskDuration(taskType string, d time.Duration) {
	if p == nil {
		return
	}
	p.taskDuration.WithLabelValues(taskType).Observe(d.Seconds())
}
