package selection

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/locmeta/internal/commits"
	"github.com/Sumatoshi-tech/locmeta/internal/loclog"
	"github.com/Sumatoshi-tech/locmeta/internal/scatter"
)

func twoCommitPlot(t *testing.T) *scatter.Plot {
	t.Helper()

	a := time.Date(2024, 3, 1, 9, 20, 0, 0, time.UTC)
	b := time.Date(2024, 3, 3, 22, 5, 0, 0, time.UTC)

	records := []loclog.LineRecord{
		{Commit: "aaa", File: "main.ts", Type: "ts", Line: 1, Datetime: a},
		{Commit: "aaa", File: "site.css", Type: "css", Line: 1, Datetime: a},
		{Commit: "bbb", File: "main.ts", Type: "ts", Line: 2, Datetime: b},
	}

	cs := commits.Aggregate(records, commits.DefaultURLPrefix)
	require.Len(t, cs, 2)

	return scatter.Layout(cs, scatter.DefaultDimensions())
}

func aroundCommitA(plot *scatter.Plot) Region {
	return DataRegion(plot,
		DataPoint{Time: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), Hour: 9},
		DataPoint{Time: time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC), Hour: 10},
	)
}

func TestRegion_NormalizeContains(t *testing.T) {
	t.Parallel()

	r := Region{X0: 10, Y0: 50, X1: 0, Y1: 20}
	n := r.Normalize()

	assert.Equal(t, Region{X0: 0, Y0: 20, X1: 10, Y1: 50}, n)
	assert.True(t, r.Contains(0, 20))
	assert.True(t, r.Contains(10, 50))
	assert.True(t, r.Contains(5, 30))
	assert.False(t, r.Contains(11, 30))
	assert.False(t, Region{X0: 1, Y0: 1, X1: 5, Y1: 9}.Empty())
	assert.True(t, Region{X0: 1, Y0: 1, X1: 1, Y1: 9}.Empty())
}

func TestParseRegion(t *testing.T) {
	t.Parallel()

	r, err := ParseRegion("1, 2.5,30,40")
	require.NoError(t, err)
	assert.Equal(t, Region{X0: 1, Y0: 2.5, X1: 30, Y1: 40}, r)
	assert.Equal(t, "1,2.5,30,40", r.String())

	_, err = ParseRegion("1,2,3")
	require.ErrorIs(t, err, ErrInvalidRegion)

	_, err = ParseRegion("1,2,x,4")
	require.ErrorIs(t, err, ErrInvalidRegion)

	for _, bad := range []string{"NaN,0,10,10", "0,Inf,10,10", "0,0,-Inf,10", "0,0,10,nan"} {
		_, err = ParseRegion(bad)
		require.ErrorIs(t, err, ErrInvalidRegion, bad)
	}
}

func TestApplyRegion_TwoCommitBreakdown(t *testing.T) {
	t.Parallel()

	plot := twoCommitPlot(t)
	region := aroundCommitA(plot)

	stats, highlights := ApplyRegion(plot, &region)

	assert.True(t, stats.HasSelection)
	assert.Equal(t, 1, stats.SelectedCount)
	assert.Equal(t, 2, stats.SelectedLines)
	assert.Equal(t, "1 commit selected", stats.Label())
	assert.Equal(t, []LanguageShare{
		{Type: "ts", Count: 1, Proportion: 0.5},
		{Type: "css", Count: 1, Proportion: 0.5},
	}, stats.Breakdown)
	assert.Equal(t, "50%", stats.Breakdown[0].Percent())
	assert.Equal(t, []scatter.Highlight{scatter.HighlightSelected, scatter.HighlightDimmed}, highlights)
}

func TestApplyRegion_NoRegion(t *testing.T) {
	t.Parallel()

	plot := twoCommitPlot(t)
	stats, highlights := ApplyRegion(plot, nil)

	assert.False(t, stats.HasSelection)
	assert.Equal(t, 0, stats.SelectedCount)
	assert.Empty(t, stats.Breakdown)
	assert.Equal(t, "No commits selected", stats.Label())
	assert.Equal(t, []scatter.Highlight{scatter.HighlightNone, scatter.HighlightNone}, highlights)
}

func TestApplyRegion_EmptySelection(t *testing.T) {
	t.Parallel()

	plot := twoCommitPlot(t)
	region := Region{X0: -10, Y0: -10, X1: -5, Y1: -5}

	stats, highlights := ApplyRegion(plot, &region)

	assert.True(t, stats.HasSelection)
	assert.Equal(t, "0 commits selected", stats.Label())
	assert.NotNil(t, stats.Breakdown)
	assert.Empty(t, stats.Breakdown)
	assert.Equal(t, []scatter.Highlight{scatter.HighlightDimmed, scatter.HighlightDimmed}, highlights)
}

func TestMembers_GrowthIsMonotonic(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewPCG(3, 5))

	var records []loclog.LineRecord

	for i := range 40 {
		at := base.Add(time.Duration(rng.IntN(30*24*60)) * time.Minute)
		records = append(records, loclog.LineRecord{
			Commit: fmt.Sprintf("c%02d", i), Type: "go", Line: 1, Datetime: at,
		})
	}

	plot := scatter.Layout(commits.Aggregate(records, ""), scatter.DefaultDimensions())

	anchorX, anchorY := 100.0, 100.0

	for step := 10.0; step < 900; step += 50 {
		small := Region{X0: anchorX, Y0: anchorY, X1: anchorX + step, Y1: anchorY + step/2}
		large := Region{X0: anchorX, Y0: anchorY, X1: anchorX + step + 25, Y1: anchorY + step/2 + 25}

		inLarge := make(map[int]bool)
		for _, i := range Members(plot, large) {
			inLarge[i] = true
		}

		for _, i := range Members(plot, small) {
			assert.True(t, inLarge[i], "commit %d left the region as it grew", i)
		}
	}
}

func TestApplyRegion_IndependentOfJitter(t *testing.T) {
	t.Parallel()

	plot := twoCommitPlot(t)
	region := aroundCommitA(plot)

	want, wantHighlights := ApplyRegion(plot, &region)

	for seed := range uint64(5) {
		plot.Points(rand.New(rand.NewPCG(seed, seed+1)))

		got, gotHighlights := ApplyRegion(plot, &region)
		assert.Equal(t, want, got)
		assert.Equal(t, wantHighlights, gotHighlights)
	}
}

func TestEngine_Transitions(t *testing.T) {
	t.Parallel()

	plot := twoCommitPlot(t)
	e := NewEngine(plot)

	var seen []State

	e.OnChange(func(c Change) { seen = append(seen, c.State) })

	assert.Equal(t, Idle, e.State())
	assert.Nil(t, e.Current().Region)

	full := aroundCommitA(plot)
	start := Region{X0: full.X0, Y0: full.Y0, X1: full.X0, Y1: full.Y0}

	c := e.Start(start)
	assert.Equal(t, Brushing, c.State)

	c = e.Drag(full)
	assert.Equal(t, Brushing, c.State)
	assert.Equal(t, 1, c.Stats.SelectedCount)

	c = e.End(full)
	assert.Equal(t, Selected, c.State)
	require.NotNil(t, c.Region)
	assert.Equal(t, full.Normalize(), *c.Region)

	c = e.Clear()
	assert.Equal(t, Idle, c.State)
	assert.Equal(t, 0, c.Stats.SelectedCount)
	assert.Empty(t, c.Stats.Breakdown)
	assert.Nil(t, c.Region)

	assert.Equal(t, []State{Brushing, Brushing, Selected, Idle}, seen)
}

func TestEngine_EndWithEmptyRegionClears(t *testing.T) {
	t.Parallel()

	e := NewEngine(twoCommitPlot(t))
	e.Start(Region{X0: 5, Y0: 5, X1: 5, Y1: 5})

	c := e.End(Region{X0: 5, Y0: 5, X1: 5, Y1: 5})
	assert.Equal(t, Idle, c.State)
	assert.False(t, c.Stats.HasSelection)
	assert.Equal(t, "idle", c.State.String())
}
