// Package analytics wires the commit analytics pipeline: load, aggregate,
// summarise, lay out, and the selection and hover state of one page view.
package analytics

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/locmeta/internal/commits"
	"github.com/Sumatoshi-tech/locmeta/internal/loclog"
	"github.com/Sumatoshi-tech/locmeta/internal/observability"
	"github.com/Sumatoshi-tech/locmeta/internal/scatter"
	"github.com/Sumatoshi-tech/locmeta/internal/selection"
	"github.com/Sumatoshi-tech/locmeta/internal/summary"
	"github.com/Sumatoshi-tech/locmeta/internal/tooltip"
)

// Brush event errors.
var (
	ErrUnknownEvent  = errors.New("unknown brush event")
	ErrMissingRegion = errors.New("brush event requires a region")
	ErrStaleEvent    = errors.New("stale brush event")
)

// EventKind names a brush event.
type EventKind string

// Brush events accepted by Apply.
const (
	EventStart EventKind = "start"
	EventDrag  EventKind = "drag"
	EventEnd   EventKind = "end"
	EventClear EventKind = "clear"
)

// Event is one brush interaction. A non-zero Seq must exceed the Seq of
// every event applied before it; unsequenced events are always applied.
type Event struct {
	Kind   EventKind         `json:"event"`
	Region *selection.Region `json:"region,omitempty"`
	Seq    uint64            `json:"seq,omitempty"`
}

// Context is one page view: the read-only dataset and its derived layout,
// plus the selection and hover state. It is not safe for concurrent use.
type Context struct {
	Log     *loclog.Log
	Commits []*commits.Summary
	Report  summary.Report
	Plot    *scatter.Plot
	Engine  *selection.Engine
	Tooltip *tooltip.Controller

	opts    options
	tracer  trace.Tracer
	byID    map[string]*commits.Summary
	lastSeq uint64
	drawn   []scatter.Point
}

// New builds a Context over an already loaded log.
func New(log *loclog.Log, opts ...Option) *Context {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if log == nil {
		log = &loclog.Log{}
	}

	cs := commits.Aggregate(log.Records, o.urlPrefix)

	report := summary.Compute(log.Records, cs)
	report.Skipped = log.Skipped

	plot := scatter.Layout(cs, o.dims)

	return &Context{
		Log:     log,
		Commits: cs,
		Report:  report,
		Plot:    plot,
		Engine:  selection.NewEngine(plot),
		Tooltip: tooltip.New(),
		opts:    o,
		tracer:  otel.Tracer(observability.InstrumentationName),
		byID:    commits.ByID(cs),
	}
}

// Load fetches and parses the log at source, then builds a Context.
// Loader failures are returned as *loclog.LoadError.
func Load(ctx context.Context, source string, opts ...Option) (*Context, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	tracer := otel.Tracer(observability.InstrumentationName)

	ctx, span := tracer.Start(ctx, "analytics.Load", trace.WithAttributes(attribute.String("source", source)))
	defer span.End()

	loadOpts := append([]loclog.Option{loclog.WithLogger(o.logger)}, o.load...)

	log, err := loclog.Load(ctx, source, loadOpts...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")

		return nil, err
	}

	c := New(log, opts...)

	span.SetAttributes(
		attribute.Int("records", log.Len()),
		attribute.Int("skipped", log.Skipped),
		attribute.Int("commits", len(c.Commits)),
	)

	o.metrics.RecordLoad(ctx, observability.LoadStats{
		Records: log.Len(),
		Skipped: log.Skipped,
		Commits: len(c.Commits),
	})

	o.logger.InfoContext(ctx, "commit log loaded",
		"source", source, "records", log.Len(), "skipped", log.Skipped, "commits", len(c.Commits))

	return c, nil
}

// Apply feeds one brush event to the selection engine. Sequenced events
// that arrive behind a later one are rejected with ErrStaleEvent and leave
// the selection untouched.
func (c *Context) Apply(ctx context.Context, ev Event) (selection.Change, error) {
	if ev.Seq != 0 && ev.Seq <= c.lastSeq {
		return c.Engine.Current(), fmt.Errorf("%w: %s #%d after #%d", ErrStaleEvent, ev.Kind, ev.Seq, c.lastSeq)
	}

	var change selection.Change

	switch ev.Kind {
	case EventClear:
		change = c.Engine.Clear()
	case EventStart, EventDrag, EventEnd:
		if ev.Region == nil {
			return c.Engine.Current(), fmt.Errorf("%w: %s", ErrMissingRegion, ev.Kind)
		}

		switch ev.Kind {
		case EventStart:
			change = c.Engine.Start(*ev.Region)
		case EventDrag:
			change = c.Engine.Drag(*ev.Region)
		default:
			change = c.Engine.End(*ev.Region)
		}
	default:
		return c.Engine.Current(), fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
	}

	if ev.Seq != 0 {
		c.lastSeq = ev.Seq
	}

	c.opts.metrics.RecordSelection(ctx, string(ev.Kind), change.Stats.SelectedCount)
	c.opts.logger.DebugContext(ctx, "brush event",
		"event", ev.Kind, "state", change.State.String(), "selected", change.Stats.SelectedCount)

	return change, nil
}

// Select runs a complete drag over region.
func (c *Context) Select(ctx context.Context, region selection.Region) (selection.Change, error) {
	_, err := c.Apply(ctx, Event{Kind: EventStart, Region: &region})
	if err != nil {
		return selection.Change{}, err
	}

	return c.Apply(ctx, Event{Kind: EventEnd, Region: &region})
}

// Points returns the drawable points with fresh jitter.
func (c *Context) Points() []scatter.Point {
	return c.Plot.Points(c.opts.jitter)
}

// Series returns the scatter series for highlights, drawn at the positions
// of the last rendered plot so points do not move between updates.
func (c *Context) Series(highlights []scatter.Highlight) charts.MultiSeries {
	if c.drawn == nil {
		c.drawn = c.Points()
	}

	return c.Plot.Chart(c.drawn, highlights, c.opts.theme).MultiSeries
}

// CommitByID returns the commit with the given id, or nil.
func (c *Context) CommitByID(id string) *commits.Summary {
	return c.byID[id]
}
