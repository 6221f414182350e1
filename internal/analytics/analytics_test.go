package analytics_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/locmeta/internal/analytics"
	"github.com/Sumatoshi-tech/locmeta/internal/loclog"
	"github.com/Sumatoshi-tech/locmeta/internal/observability"
	"github.com/Sumatoshi-tech/locmeta/internal/plotpage"
	"github.com/Sumatoshi-tech/locmeta/internal/scatter"
	"github.com/Sumatoshi-tech/locmeta/internal/selection"
)

const twoCommitLog = `commit,file,line,depth,length,type,author,date,time,timezone,datetime
aaa,src/main.ts,1,1,20,ts,Ada,2024-03-01,09:20,+00:00,2024-03-01T09:20:00+00:00
aaa,site.css,1,0,10,css,Ada,2024-03-01,09:20,+00:00,2024-03-01T09:20:00+00:00
bbb,src/main.ts,2,1,15,ts,Bob,2024-03-03,22:05,+00:00,2024-03-03T22:05:00+00:00
`

func writeLog(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "loc.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func aroundFirstCommit(c *analytics.Context) selection.Region {
	return selection.DataRegion(c.Plot,
		selection.DataPoint{Time: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), Hour: 9},
		selection.DataPoint{Time: time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC), Hour: 10},
	)
}

func TestRenderCommitAnalytics_AllMounts(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		_, _ = rw.Write([]byte(twoCommitLog))
	}))
	t.Cleanup(srv.Close)

	var stats, plot, tip, count, breakdown bytes.Buffer

	c, err := analytics.RenderCommitAnalytics(context.Background(), srv.URL+"/loc.csv", analytics.Mounts{
		Stats:          &stats,
		Plot:           &plot,
		Tooltip:        &tip,
		SelectionCount: &count,
		Breakdown:      &breakdown,
	}, analytics.WithJitter(nil), analytics.WithLogger(quietLogger()))
	require.NoError(t, err)

	require.Len(t, c.Commits, 2)
	assert.Equal(t, 3, c.Report.TotalLines)
	assert.Equal(t, 2, c.Report.FileCount)

	assert.Contains(t, stats.String(), `id="stats"`)
	assert.Contains(t, stats.String(), "Total commits")
	assert.Contains(t, plot.String(), `id="commit-plot"`)
	assert.Contains(t, plot.String(), "aaa")
	assert.Contains(t, plot.String(), "bbb")
	assert.Contains(t, tip.String(), `id="commit-tooltip"`)
	assert.Contains(t, tip.String(), " hidden")
	assert.Equal(t, "No commits selected", count.String())
	assert.Contains(t, breakdown.String(), `id="language-breakdown"`)
	assert.NotContains(t, breakdown.String(), "<dt>")
}

func TestRender_MissingMountIsLoggedNotFatal(t *testing.T) {
	t.Parallel()

	var logs, stats bytes.Buffer

	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	_, err := analytics.RenderCommitAnalytics(context.Background(), writeLog(t, twoCommitLog),
		analytics.Mounts{Stats: &stats}, analytics.WithLogger(logger))
	require.NoError(t, err)

	assert.NotEmpty(t, stats.String())
	assert.Equal(t, 4, strings.Count(logs.String(), analytics.ErrRenderTargetMissing.Error()))
	assert.Contains(t, logs.String(), `"level":"WARN"`)
	assert.Contains(t, logs.String(), `"mount":"commit-plot"`)
}

func TestRenderCommitAnalytics_LoadErrorPropagates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	var stats bytes.Buffer

	c, err := analytics.RenderCommitAnalytics(context.Background(), srv.URL, analytics.Mounts{Stats: &stats},
		analytics.WithLogger(quietLogger()))
	require.Error(t, err)
	assert.Nil(t, c)
	assert.Empty(t, stats.String())

	var loadErr *loclog.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, loclog.ErrUnexpectedStatus)
}

func TestApply_TwoCommitSelection(t *testing.T) {
	t.Parallel()

	c, err := analytics.Load(context.Background(), writeLog(t, twoCommitLog),
		analytics.WithJitter(nil), analytics.WithLogger(quietLogger()))
	require.NoError(t, err)

	region := aroundFirstCommit(c)

	change, err := c.Apply(context.Background(), analytics.Event{Kind: analytics.EventStart, Region: &region})
	require.NoError(t, err)
	assert.Equal(t, selection.Brushing, change.State)

	change, err = c.Apply(context.Background(), analytics.Event{Kind: analytics.EventEnd, Region: &region})
	require.NoError(t, err)
	assert.Equal(t, selection.Selected, change.State)
	assert.Equal(t, 1, change.Stats.SelectedCount)

	var count, breakdown bytes.Buffer

	require.NoError(t, c.Render(context.Background(), analytics.Mounts{SelectionCount: &count, Breakdown: &breakdown}))
	assert.Equal(t, "1 commit selected", count.String())
	assert.Contains(t, breakdown.String(), "<dt>ts</dt>")
	assert.Contains(t, breakdown.String(), "<dt>css</dt>")
	assert.Contains(t, breakdown.String(), "1 line (50%)")

	change, err = c.Apply(context.Background(), analytics.Event{Kind: analytics.EventClear})
	require.NoError(t, err)
	assert.Equal(t, selection.Idle, change.State)
	assert.Zero(t, change.Stats.SelectedCount)
	assert.Empty(t, change.Stats.Breakdown)
}

func TestApply_RejectsBadEvents(t *testing.T) {
	t.Parallel()

	c := analytics.New(nil, analytics.WithLogger(quietLogger()))

	_, err := c.Apply(context.Background(), analytics.Event{Kind: "zoom"})
	require.ErrorIs(t, err, analytics.ErrUnknownEvent)

	_, err = c.Apply(context.Background(), analytics.Event{Kind: analytics.EventDrag})
	require.ErrorIs(t, err, analytics.ErrMissingRegion)
	assert.Equal(t, selection.Idle, c.Engine.State())
}

func TestApply_SequencedEventsKeepArrivalOrder(t *testing.T) {
	t.Parallel()

	c, err := analytics.Load(context.Background(), writeLog(t, twoCommitLog),
		analytics.WithJitter(nil), analytics.WithLogger(quietLogger()))
	require.NoError(t, err)

	region := aroundFirstCommit(c)
	everything := selection.Region{X0: 0, Y0: 0, X1: c.Plot.Dims.Width, Y1: c.Plot.Dims.Height}

	_, err = c.Apply(context.Background(), analytics.Event{Kind: analytics.EventStart, Region: &region, Seq: 10})
	require.NoError(t, err)

	_, err = c.Apply(context.Background(), analytics.Event{Kind: analytics.EventEnd, Region: &region, Seq: 12})
	require.NoError(t, err)

	change, err := c.Apply(context.Background(), analytics.Event{Kind: analytics.EventDrag, Region: &everything, Seq: 11})
	require.ErrorIs(t, err, analytics.ErrStaleEvent)
	assert.Equal(t, selection.Selected, change.State)
	assert.Equal(t, 1, change.Stats.SelectedCount)

	_, err = c.Apply(context.Background(), analytics.Event{Kind: analytics.EventClear, Seq: 12})
	require.ErrorIs(t, err, analytics.ErrStaleEvent)
	assert.Equal(t, selection.Selected, c.Engine.State())

	change, err = c.Apply(context.Background(), analytics.Event{Kind: analytics.EventStart, Region: &everything})
	require.NoError(t, err, "unsequenced events always apply")
	assert.Equal(t, 2, change.Stats.SelectedCount)
}

func TestSeries_FollowsHighlights(t *testing.T) {
	t.Parallel()

	c, err := analytics.Load(context.Background(), writeLog(t, twoCommitLog), analytics.WithLogger(quietLogger()))
	require.NoError(t, err)

	idle := c.Series(nil)
	require.Len(t, idle, 1)
	assert.Equal(t, scatter.SeriesCommits, idle[0].Name)

	change, err := c.Select(context.Background(), aroundFirstCommit(c))
	require.NoError(t, err)

	active := c.Series(change.Highlights)
	require.Len(t, active, 2)
	assert.Equal(t, scatter.SeriesSelected, active[0].Name)
	assert.Equal(t, scatter.SeriesOther, active[1].Name)

	again := c.Series(change.Highlights)
	assert.Equal(t, active[0].Data, again[0].Data, "points keep their drawn positions")
}

func TestNew_EmptyLog(t *testing.T) {
	t.Parallel()

	c := analytics.New(&loclog.Log{}, analytics.WithLogger(quietLogger()))

	assert.Equal(t, 0, c.Report.TotalLines)
	assert.Equal(t, 0, c.Report.TotalCommits)
	assert.Empty(t, c.Points())

	var stats, plot bytes.Buffer

	require.NoError(t, c.Render(context.Background(), analytics.Mounts{Stats: &stats, Plot: &plot}))
	assert.Contains(t, stats.String(), "Total LOC")
}

func TestRenderPage_WithRegion(t *testing.T) {
	t.Parallel()

	path := writeLog(t, twoCommitLog)

	layout, err := analytics.Load(context.Background(), path, analytics.WithLogger(quietLogger()))
	require.NoError(t, err)

	region := aroundFirstCommit(layout)

	var buf bytes.Buffer

	c, err := analytics.RenderPage(context.Background(), &buf, path, &region,
		analytics.WithTheme(plotpage.ThemeLight), analytics.WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.Equal(t, selection.Selected, c.Engine.State())

	html := buf.String()
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "Commits by time of day")
	assert.Contains(t, html, `id="selection-count"`)
	assert.Contains(t, html, "1 commit selected")
	assert.Contains(t, html, scatter.SeriesSelected)
}

func TestCommitByID(t *testing.T) {
	t.Parallel()

	c, err := analytics.Load(context.Background(), writeLog(t, twoCommitLog), analytics.WithLogger(quietLogger()))
	require.NoError(t, err)

	require.NotNil(t, c.CommitByID("bbb"))
	assert.Equal(t, 1, c.CommitByID("bbb").TotalLines)
	assert.Nil(t, c.CommitByID("zzz"))
}

func TestLoad_RecordsMetrics(t *testing.T) {
	t.Parallel()

	handler, mp, err := observability.PrometheusHandler()
	require.NoError(t, err)

	t.Cleanup(func() { assert.NoError(t, mp.Shutdown(context.Background())) })

	metrics, err := observability.NewAnalyticsMetrics(mp.Meter("test"))
	require.NoError(t, err)

	c, err := analytics.Load(context.Background(), writeLog(t, twoCommitLog+"ccc,x.go,zero,0,0,go,Eve,2024-03-04,10:00,+00:00,2024-03-04T10:00:00+00:00\n"),
		analytics.WithMetrics(metrics), analytics.WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Report.Skipped)

	_, err = c.Select(context.Background(), aroundFirstCommit(c))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	body := rec.Body.String()
	assert.Contains(t, body, "locmeta_log_rows_skipped")
	assert.Contains(t, body, `event="end"`)
}

func TestBreakdownDetail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1,200 lines (33.3%)",
		analytics.BreakdownDetail(selection.LanguageShare{Type: "go", Count: 1200, Proportion: 1.0 / 3}))
	assert.Equal(t, "1 line (100%)",
		analytics.BreakdownDetail(selection.LanguageShare{Type: "go", Count: 1, Proportion: 1}))
}
