package analytics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/locmeta/internal/plotpage"
	"github.com/Sumatoshi-tech/locmeta/internal/selection"
)

// ErrRenderTargetMissing is logged, never returned, when a mount point is nil.
var ErrRenderTargetMissing = errors.New("render target missing")

// Element ids of the rendered fragments.
const (
	StatsID          = "stats"
	PlotID           = "commit-plot"
	TooltipID        = "commit-tooltip"
	SelectionCountID = "selection-count"
	BreakdownID      = "language-breakdown"
)

const breakdownChartHeight = "320px"

// Mounts are the output targets of one render. Any of them may be nil.
type Mounts struct {
	Stats          io.Writer
	Plot           io.Writer
	Tooltip        io.Writer
	SelectionCount io.Writer
	Breakdown      io.Writer
}

// RenderCommitAnalytics loads the log at logURL and renders every mount.
// A load failure is returned as *loclog.LoadError and nothing is rendered.
func RenderCommitAnalytics(ctx context.Context, logURL string, mounts Mounts, opts ...Option) (*Context, error) {
	c, err := Load(ctx, logURL, opts...)
	if err != nil {
		return nil, err
	}

	err = c.Render(ctx, mounts)
	if err != nil {
		return c, err
	}

	return c, nil
}

// Render writes the current state into every non-nil mount. Nil mounts are
// logged at warn level and skipped.
func (c *Context) Render(ctx context.Context, mounts Mounts) error {
	ctx, span := c.tracer.Start(ctx, "analytics.Render")
	defer span.End()

	targets := []struct {
		name string
		w    io.Writer
		view func() plotpage.Renderable
	}{
		{StatsID, mounts.Stats, c.StatsView},
		{PlotID, mounts.Plot, c.PlotView},
		{TooltipID, mounts.Tooltip, c.TooltipView},
		{SelectionCountID, mounts.SelectionCount, c.SelectionCountView},
		{BreakdownID, mounts.Breakdown, c.BreakdownView},
	}

	for _, target := range targets {
		if target.w == nil {
			c.opts.logger.WarnContext(ctx, "skipping mount", "mount", target.name, "error", ErrRenderTargetMissing)

			continue
		}

		start := time.Now()

		err := target.view().Render(target.w)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "render failed")

			return fmt.Errorf("render %s: %w", target.name, err)
		}

		c.opts.metrics.RecordRender(ctx, target.name, time.Since(start))
	}

	span.SetAttributes(attribute.Int("commits", len(c.Commits)))

	return nil
}

// StatsView renders the summary as a definition list.
func (c *Context) StatsView() plotpage.Renderable {
	items := c.Report.Items()
	defs := make([]plotpage.DefinitionItem, len(items))

	for i, item := range items {
		defs[i] = plotpage.DefinitionItem{Term: item.Label, Title: item.Title, Detail: item.Value}
	}

	return plotpage.NewDefinitions(StatsID, "stats", defs...)
}

// PlotView renders the scatter chart with fresh jitter and current highlights.
func (c *Context) PlotView() plotpage.Renderable {
	c.drawn = c.Points()
	chart := c.Plot.Chart(c.drawn, c.Engine.Current().Highlights, c.opts.theme)

	return &plotpage.Block{ID: PlotID, Class: "plot", Body: plotpage.WrapChart(chart)}
}

// TooltipView renders the hover panel.
func (c *Context) TooltipView() plotpage.Renderable {
	return c.Tooltip.Panel().Component(TooltipID)
}

// SelectionCountView renders the selection label.
func (c *Context) SelectionCountView() plotpage.Renderable {
	return plotpage.NewText(c.Engine.Current().Stats.Label())
}

// BreakdownView renders the per-type line counts of the selection and,
// when non-empty, a pie chart of them.
func (c *Context) BreakdownView() plotpage.Renderable {
	shares := c.Engine.Current().Stats.Breakdown

	defs := make([]plotpage.DefinitionItem, len(shares))
	slices := make([]plotpage.PieSlice, len(shares))

	for i, share := range shares {
		defs[i] = plotpage.DefinitionItem{
			Term:   share.Type,
			Detail: BreakdownDetail(share),
		}
		slices[i] = plotpage.PieSlice{Name: share.Type, Value: share.Count}
	}

	view := plotpage.Stack{plotpage.NewDefinitions(BreakdownID, "breakdown", defs...)}

	if len(slices) > 0 {
		pie := plotpage.BuildPieChart(plotpage.NewChartOpts(c.opts.theme), plotpage.GetChartPalette(c.opts.theme),
			"Lines", slices, breakdownChartHeight)
		view = append(view, plotpage.WrapChart(pie))
	}

	return view
}

// BreakdownDetail renders "<count> lines (<percent>)".
func BreakdownDetail(share selection.LanguageShare) string {
	unit := "lines"
	if share.Count == 1 {
		unit = "line"
	}

	return humanize.Comma(int64(share.Count)) + " " + unit + " (" + share.Percent() + ")"
}

// Page composes every mount into one standalone page.
func (c *Context) Page(title string) *plotpage.Page {
	page := plotpage.NewPage(title, "Who commits when, and what they touch.").WithTheme(c.opts.theme)

	page.Add(
		plotpage.Section{
			ID:    "summary",
			Title: "Summary",
			Chart: c.StatsView(),
		},
		plotpage.Section{
			ID:       "commits",
			Title:    "Commits by time of day",
			Subtitle: "Each dot is one commit, placed by date and hour of day",
			Chart:    plotpage.Stack{c.PlotView(), c.TooltipView()},
			Hint: plotpage.Hint{
				Title: "Reading the plot",
				Items: []string{
					"Points are nudged slightly so overlapping commits stay visible.",
					"Selecting a region counts commits by their exact time, not the nudged position.",
				},
			},
		},
		plotpage.Section{
			ID:    "selection",
			Title: "Selection",
			Chart: plotpage.Stack{
				&plotpage.Block{ID: SelectionCountID, Class: "count", Body: c.SelectionCountView()},
				&plotpage.Block{ID: BreakdownID + "-box", Class: "languages", Body: c.BreakdownView()},
			},
		},
	)

	return page
}

// RenderPage loads logURL, applies region when non-nil, and writes the
// standalone page to w.
func RenderPage(
	ctx context.Context, w io.Writer, logURL string, region *selection.Region, opts ...Option,
) (*Context, error) {
	c, err := Load(ctx, logURL, opts...)
	if err != nil {
		return nil, err
	}

	if region != nil {
		_, err = c.Select(ctx, *region)
		if err != nil {
			return c, err
		}
	}

	err = c.WritePage(ctx, w, plotpage.HTMLRenderer{})
	if err != nil {
		return c, err
	}

	return c, nil
}

// WritePage renders the page with renderer.
func (c *Context) WritePage(ctx context.Context, w io.Writer, renderer plotpage.HTMLRenderer) error {
	_, span := c.tracer.Start(ctx, "analytics.WritePage", trace.WithAttributes(attribute.Int("commits", len(c.Commits))))
	defer span.End()

	err := renderer.Render(w, c.Page("Commit analytics"))
	if err != nil {
		span.RecordError(err)

		return fmt.Errorf("render page: %w", err)
	}

	return nil
}
