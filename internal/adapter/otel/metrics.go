package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "sectrack"

// Metrics holds all SecTrack metric instruments.
type Metrics struct {
	TasksUpdated      metric.Int64Counter
	EvidenceAdded     metric.Int64Counter
	PhasesCompleted   metric.Int64Counter
	ProjectsCompleted metric.Int64Counter
	ReportsGenerated  metric.Int64Counter
	ReportDuration    metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.TasksUpdated, err = meter.Int64Counter("sectrack.tasks.updated",
		metric.WithDescription("Number of task status/notes updates"))
	if err != nil {
		return nil, err
	}

	m.EvidenceAdded, err = meter.Int64Counter("sectrack.tasks.evidence_added",
		metric.WithDescription("Number of evidence references attached"))
	if err != nil {
		return nil, err
	}

	m.PhasesCompleted, err = meter.Int64Counter("sectrack.phases.completed",
		metric.WithDescription("Number of phase completions"))
	if err != nil {
		return nil, err
	}

	m.ProjectsCompleted, err = meter.Int64Counter("sectrack.projects.completed",
		metric.WithDescription("Number of project completions"))
	if err != nil {
		return nil, err
	}

	m.ReportsGenerated, err = meter.Int64Counter("sectrack.reports.generated",
		metric.WithDescription("Number of compliance reports generated"))
	if err != nil {
		return nil, err
	}

	m.ReportDuration, err = meter.Float64Histogram("sectrack.report.duration_seconds",
		metric.WithDescription("Report generation duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
