package metrics

import (
	"github.com/ericzzh/mattermost-prune/server/app"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mattermost_prune"

// Metrics holds the counters of the prune passes run by this process.
// Each Metrics owns its registry so the textfile only carries prune series.
type Metrics struct {
	registry *prometheus.Registry

	runs         *prometheus.CounterVec
	batches      prometheus.Counter
	filesRemoved prometheus.Counter
	filesMissing prometheus.Counter
	rowsDeleted  *prometheus.CounterVec
	lastCutoff   prometheus.Gauge
	lastSuccess  prometheus.Gauge
	lastDuration prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Prune passes by outcome.",
		}, []string{"status"}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "FileInfo pages fetched.",
		}),
		filesRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_removed_total",
			Help:      "Files removed from the data directory, or that would be in dry run.",
		}),
		filesMissing: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_missing_total",
			Help:      "Referenced files already absent from the data directory.",
		}),
		rowsDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_deleted_total",
			Help:      "Database rows deleted, or that would be in dry run.",
		}, []string{"table"}),
		lastCutoff: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_cutoff_milliseconds",
			Help:      "Cutoff of the last pass in epoch milliseconds.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Start time of the last successful pass.",
		}),
		lastDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_duration_seconds",
			Help:      "Duration of the last pass.",
		}),
	}

	m.registry.MustRegister(
		m.runs,
		m.batches,
		m.filesRemoved,
		m.filesMissing,
		m.rowsDeleted,
		m.lastCutoff,
		m.lastSuccess,
		m.lastDuration,
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe records one pass. res may be nil when the pass failed before starting.
func (m *Metrics) Observe(res *app.Result, err error) {
	status := "success"
	switch {
	case err != nil:
		status = "failure"
	case res != nil && res.DryRun:
		status = "dry_run"
	}
	m.runs.WithLabelValues(status).Inc()

	if res == nil {
		return
	}

	m.batches.Add(float64(res.Stats.Batches))
	m.filesRemoved.Add(float64(res.Stats.FilesRemoved))
	m.filesMissing.Add(float64(res.Stats.FilesMissing))
	m.rowsDeleted.WithLabelValues("FileInfo").Add(float64(res.Stats.FileInfosDeleted))
	m.rowsDeleted.WithLabelValues("Posts").Add(float64(res.Stats.PostsDeleted))
	m.lastCutoff.Set(float64(res.Cutoff))
	m.lastDuration.Set(res.Duration.Seconds())

	if err == nil {
		m.lastSuccess.Set(float64(res.StartedAt.Unix()))
	}
}

// WriteTextfile dumps the registry in the node exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Wrapf(err, "failed to write metrics to %s", path)
	}
	return nil
}
