package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRecordsLoaded   = "locmeta.log.records.total"
	metricRowsSkipped     = "locmeta.log.rows.skipped.total"
	metricCommitsTotal    = "locmeta.commits.total"
	metricSelectionEvents = "locmeta.selection.events.total"
	metricSelectedCommits = "locmeta.selection.commits"
	metricRenderDuration  = "locmeta.render.duration.seconds"

	attrEvent = "event"
	attrMount = "mount"
)

// AnalyticsMetrics holds OTel instruments for the commit analytics pipeline.
type AnalyticsMetrics struct {
	recordsLoaded   metric.Int64Counter
	rowsSkipped     metric.Int64Counter
	commitsTotal    metric.Int64Counter
	selectionEvents metric.Int64Counter
	selectedCommits metric.Float64Histogram
	renderDuration  metric.Float64Histogram
}

// LoadStats summarises one load and aggregation pass.
type LoadStats struct {
	Records int
	Skipped int
	Commits int
}

// NewAnalyticsMetrics creates analytics metric instruments from the given meter.
func NewAnalyticsMetrics(mt metric.Meter) (*AnalyticsMetrics, error) {
	b := newMetricBuilder(mt)

	am := &AnalyticsMetrics{
		recordsLoaded:   b.counter(metricRecordsLoaded, "Line records loaded from logs", "{record}"),
		rowsSkipped:     b.counter(metricRowsSkipped, "Malformed log rows skipped", "{row}"),
		commitsTotal:    b.counter(metricCommitsTotal, "Commits aggregated from logs", "{commit}"),
		selectionEvents: b.counter(metricSelectionEvents, "Brush events handled by type", "{event}"),
		selectedCommits: b.histogram(metricSelectedCommits, "Commits inside the region after each brush event", "{commit}"),
		renderDuration:  b.histogram(metricRenderDuration, "Mount render duration in seconds", "s", durationBucketBoundaries...),
	}

	if b.err != nil {
		return nil, b.err
	}

	return am, nil
}

// RecordLoad records the outcome of a load. Safe to call on a nil receiver (no-op).
func (am *AnalyticsMetrics) RecordLoad(ctx context.Context, stats LoadStats) {
	if am == nil {
		return
	}

	am.recordsLoaded.Add(ctx, int64(stats.Records))
	am.rowsSkipped.Add(ctx, int64(stats.Skipped))
	am.commitsTotal.Add(ctx, int64(stats.Commits))
}

// RecordSelection records one brush event and the resulting selection size.
// Safe to call on a nil receiver (no-op).
func (am *AnalyticsMetrics) RecordSelection(ctx context.Context, event string, selected int) {
	if am == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrEvent, event))
	am.selectionEvents.Add(ctx, 1, attrs)
	am.selectedCommits.Record(ctx, float64(selected), attrs)
}

// RecordRender records the time spent rendering one mount point.
// Safe to call on a nil receiver (no-op).
func (am *AnalyticsMetrics) RecordRender(ctx context.Context, mount string, duration time.Duration) {
	if am == nil {
		return
	}

	am.renderDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String(attrMount, mount)))
}
