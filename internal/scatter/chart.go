package scatter

import (
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/locmeta/internal/plotpage"
)

// Highlight is the presentation state of one point.
type Highlight int

const (
	// HighlightNone is used while no selection is active.
	HighlightNone Highlight = iota
	// HighlightSelected marks points inside the active selection.
	HighlightSelected
	// HighlightDimmed marks points outside the active selection.
	HighlightDimmed
)

// Class returns the CSS class name for the state.
func (h Highlight) Class() string {
	switch h {
	case HighlightSelected:
		return "selected"
	case HighlightDimmed:
		return "dimmed"
	case HighlightNone:
		return ""
	default:
		return ""
	}
}

// Series names; the chart legend mirrors the highlight state.
const (
	SeriesCommits  = "Commits"
	SeriesSelected = "Selected"
	SeriesOther    = "Other"
)

const (
	symbolSize    = 10 // Diameter; all points share one radius.
	hourPrecision = 1000
)

// Chart builds the echarts scatter for points. highlights is indexed like
// p.Commits; a nil slice renders every point in the neutral style.
func (p *Plot) Chart(points []Point, highlights []Highlight, theme plotpage.Theme) *charts.Scatter {
	co := plotpage.NewChartOpts(theme)
	palette := plotpage.GetChartPalette(theme)

	start, end := p.X.Domain()

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(co.Init(px(p.Dims.Width), px(p.Dims.Height))),
		charts.WithTooltipOpts(co.Tooltip("item")),
		charts.WithLegendOpts(co.Legend()),
		charts.WithGridOpts(co.Grid(
			px(p.Dims.Margin.Top), px(p.Dims.Margin.Right),
			px(p.Dims.Margin.Bottom), px(p.Dims.Margin.Left),
		)),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "Date",
			Type:      "time",
			Min:       start.UnixMilli(),
			Max:       end.UnixMilli(),
			AxisLabel: &opts.AxisLabel{Color: co.TextMutedColor()},
			AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: co.AxisColor()}},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "Hour of day",
			Type:      "value",
			Min:       0,
			Max:       HoursPerDay,
			AxisLabel: &opts.AxisLabel{Color: co.TextMutedColor(), Formatter: "{value}:00"},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: co.GridColor()}},
		}),
	)

	active := false

	for _, h := range highlights {
		if h != HighlightNone {
			active = true

			break
		}
	}

	if !active {
		scatter.AddSeries(SeriesCommits, scatterData(points, nil, HighlightNone),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: palette.Color(1)}))

		return scatter
	}

	scatter.AddSeries(SeriesSelected, scatterData(points, highlights, HighlightSelected),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: co.AccentColor()}))
	scatter.AddSeries(SeriesOther, scatterData(points, highlights, HighlightDimmed),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: co.DimmedColor()}))

	return scatter
}

func scatterData(points []Point, highlights []Highlight, want Highlight) []opts.ScatterData {
	data := make([]opts.ScatterData, 0, len(points))

	for _, pt := range points {
		state := HighlightNone
		if pt.Index < len(highlights) {
			state = highlights[pt.Index]
		}

		if highlights != nil && state != want {
			continue
		}

		data = append(data, opts.ScatterData{
			Name:       pt.Commit.ID,
			Value:      []any{pt.Time.UnixMilli(), math.Round(pt.Hour*hourPrecision) / hourPrecision, pt.Commit.ID},
			SymbolSize: symbolSize,
		})
	}

	return data
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64) + "px"
}
