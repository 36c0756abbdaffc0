package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Strob0t/SecTrack/internal/adapter/otel"
	"github.com/Strob0t/SecTrack/internal/domain/report"
	"github.com/Strob0t/SecTrack/internal/port/cache"
	"github.com/Strob0t/SecTrack/internal/port/database"
	"github.com/Strob0t/SecTrack/internal/port/docwriter"
	"github.com/Strob0t/SecTrack/internal/port/messagequeue"
)

// ReportService computes compliance report models and renders them into
// documents. Models are cached per project until the next task mutation.
type ReportService struct {
	store   database.Store
	cache   cache.Cache
	writer  docwriter.Writer
	queue   messagequeue.Queue
	ttl     time.Duration
	metrics *otel.Metrics
}

// NewReportService creates a new ReportService.
func NewReportService(store database.Store, cache cache.Cache, writer docwriter.Writer, queue messagequeue.Queue, ttl time.Duration, metrics *otel.Metrics) *ReportService {
	return &ReportService{store: store, cache: cache, writer: writer, queue: queue, ttl: ttl, metrics: metrics}
}

// Model returns the report model for a project, from cache when the
// project's checklist has not changed since the last build.
func (s *ReportService) Model(ctx context.Context, projectID string) (*report.Model, error) {
	key := reportCacheKey(projectID)
	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var m report.Model
		if err := json.Unmarshal(data, &m); err == nil {
			return &m, nil
		}
		// Unreadable cache entry: drop it and rebuild.
		_ = s.cache.Delete(ctx, key)
	}

	start := time.Now()
	p, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.GetTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}

	m := report.Build(p, tasks)

	if data, err := json.Marshal(m); err == nil {
		_ = s.cache.Set(ctx, key, data, s.ttl)
	}

	if data, err := json.Marshal(map[string]any{
		"project_id":    m.ProjectID,
		"overall_score": m.OverallScore,
	}); err == nil {
		if err := s.queue.Publish(ctx, messagequeue.SubjectReportGenerated, data); err != nil {
			slog.Error("failed to publish report event", "project_id", projectID, "error", err)
		}
	}

	if s.metrics != nil {
		s.metrics.ReportsGenerated.Add(ctx, 1)
		s.metrics.ReportDuration.Record(ctx, time.Since(start).Seconds())
	}
	return m, nil
}

// Document renders the report model into a document via the configured
// writer and returns the bytes plus their content type.
func (s *ReportService) Document(ctx context.Context, projectID string) ([]byte, string, error) {
	m, err := s.Model(ctx, projectID)
	if err != nil {
		return nil, "", err
	}

	title := fmt.Sprintf("Security Compliance Report: %s", m.ProjectName)
	data, err := s.writer.Write(m, title, time.Now().UTC())
	if err != nil {
		return nil, "", fmt.Errorf("render report document: %w", err)
	}
	return data, s.writer.ContentType(), nil
}
