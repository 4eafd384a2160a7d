package prometheus

import (
	"strings"
	"time"

	"github.com/turtacn/metmap/pkg/errors"
)

// AppMetrics holds all mapping metrics.
type AppMetrics struct {
	// Worker pool
	PassesTotal         CounterVec
	PassDuration        HistogramVec
	PairsEvaluatedTotal CounterVec
	ChunksTotal         CounterVec

	// Mapping run
	RunsTotal        CounterVec
	StageDuration    HistogramVec
	ModelEntities    GaugeVec
	BestMatchesTotal GaugeVec

	// Artifacts
	ArtifactsTotal CounterVec

	// Errors
	ErrorsTotal CounterVec
}

// Default Buckets
var (
	DefaultPassDurationBuckets  = []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30, 60, 300}
	DefaultStageDurationBuckets = []float64{.1, .5, 1, 5, 10, 30, 60, 300, 900, 1800, 3600}
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// NewAppMetrics registers all metrics and returns the AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// Worker pool
	m.PassesTotal = collector.RegisterCounter("passes_total", "Pairwise passes executed", "entity", "stage", "status")
	m.PassDuration = collector.RegisterHistogram("pass_duration_seconds", "Pairwise pass duration", DefaultPassDurationBuckets, "entity", "stage")
	m.PairsEvaluatedTotal = collector.RegisterCounter("pairs_evaluated_total", "Entity pairs evaluated by successful passes", "entity", "stage")
	m.ChunksTotal = collector.RegisterCounter("chunks_total", "Work chunks dispatched", "entity")

	// Mapping run
	m.RunsTotal = collector.RegisterCounter("runs_total", "Mapping runs", "status")
	m.StageDuration = collector.RegisterHistogram("stage_duration_seconds", "Mapping stage duration", DefaultStageDurationBuckets, "stage")
	m.ModelEntities = collector.RegisterGauge("model_entities", "Entities per input model", "model", "entity")
	m.BestMatchesTotal = collector.RegisterGauge("best_matches", "Best-match records above threshold", "entity")

	// Artifacts
	m.ArtifactsTotal = collector.RegisterCounter("artifacts_total", "Artifacts written or uploaded", "sink", "status")

	// Errors
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "code")

	return m
}

// splitPass splits a pass name "compound.id.likelihood" into its entity
// ("compound") and stage ("id.likelihood").
func splitPass(name string) (entity, stage string) {
	if i := strings.IndexByte(name, '.'); i > 0 {
		return name[:i], name[i+1:]
	}
	return name, ""
}

// PassFinished records one finished worker-pool pass.  AppMetrics can be
// installed directly as the pool's pass observer.
func (m *AppMetrics) PassFinished(name string, items, chunks int, elapsed time.Duration, err error) {
	entity, stage := splitPass(name)
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
		RecordError(m, "pool", err)
	} else {
		m.PairsEvaluatedTotal.WithLabelValues(entity, stage).Add(float64(items))
	}
	m.PassesTotal.WithLabelValues(entity, stage, status).Inc()
	m.PassDuration.WithLabelValues(entity, stage).Observe(elapsed.Seconds())
	m.ChunksTotal.WithLabelValues(entity).Add(float64(chunks))
}

// Helpers

// RecordRun records the outcome of a whole mapping run.
func RecordRun(m *AppMetrics, duration time.Duration, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
		RecordError(m, "run", err)
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.StageDuration.WithLabelValues("total").Observe(duration.Seconds())
}

// RecordModel records the entity counts of an input model.
func RecordModel(m *AppMetrics, model string, compounds, reactions int) {
	m.ModelEntities.WithLabelValues(model, "compound").Set(float64(compounds))
	m.ModelEntities.WithLabelValues(model, "reaction").Set(float64(reactions))
}

// RecordArtifact records a written or uploaded artifact.
func RecordArtifact(m *AppMetrics, sink string, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
		RecordError(m, sink, err)
	}
	m.ArtifactsTotal.WithLabelValues(sink, status).Inc()
}

// RecordError counts err under its AppError code.
func RecordError(m *AppMetrics, component string, err error) {
	m.ErrorsTotal.WithLabelValues(component, errors.GetCode(err).String()).Inc()
}

//Personal.AI order the ending
