package selection

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Sumatoshi-tech/locmeta/internal/scatter"
)

// ErrInvalidRegion is returned for unparseable region strings.
var ErrInvalidRegion = errors.New("invalid region, want x0,y0,x1,y1")

const percent = 100

// DataPoint is a position in data space.
type DataPoint struct {
	Time time.Time
	Hour float64
}

// LanguageShare is the line count of one file type within a selection.
type LanguageShare struct {
	Type       string  `json:"type"       yaml:"type"`
	Count      int     `json:"count"      yaml:"count"`
	Proportion float64 `json:"proportion" yaml:"proportion"`
}

// Percent formats the proportion like "50%" or "33.3%".
func (l LanguageShare) Percent() string {
	return strconv.FormatFloat(roundTenth(l.Proportion*percent), 'f', -1, 64) + "%"
}

func roundTenth(v float64) float64 {
	const tenths = 10

	return float64(int64(v*tenths+0.5)) / tenths
}

// Stats are derived from the selected commits; they are recomputed on every
// region change.
type Stats struct {
	// HasSelection is false when no region is active, which lets callers
	// tell "nothing selected" from "selection holds zero commits".
	HasSelection  bool            `json:"hasSelection"  yaml:"hasSelection"`
	SelectedCount int             `json:"selectedCount" yaml:"selectedCount"`
	SelectedLines int             `json:"selectedLines" yaml:"selectedLines"`
	Breakdown     []LanguageShare `json:"breakdown"     yaml:"breakdown"`
}

// Label renders the selection count for display.
func (s Stats) Label() string {
	switch {
	case !s.HasSelection:
		return "No commits selected"
	case s.SelectedCount == 1:
		return "1 commit selected"
	default:
		return fmt.Sprintf("%d commits selected", s.SelectedCount)
	}
}

// ApplyRegion classifies every commit of plot against region and derives
// the selection statistics. A nil region means no active selection: the
// stats are empty and every highlight is HighlightNone. Membership uses the
// true coordinates, so jitter never changes the outcome.
func ApplyRegion(plot *scatter.Plot, region *Region) (Stats, []scatter.Highlight) {
	highlights := make([]scatter.Highlight, plot.Len())

	if region == nil {
		return Stats{Breakdown: []LanguageShare{}}, highlights
	}

	stats := Stats{HasSelection: true}

	for i := range highlights {
		highlights[i] = scatter.HighlightDimmed
	}

	index := make(map[string]int)

	var shares []LanguageShare

	for _, i := range Members(plot, *region) {
		highlights[i] = scatter.HighlightSelected
		stats.SelectedCount++

		for _, line := range plot.Commits[i].Lines {
			j, ok := index[line.Type]
			if !ok {
				j = len(shares)
				index[line.Type] = j
				shares = append(shares, LanguageShare{Type: line.Type})
			}

			shares[j].Count++
			stats.SelectedLines++
		}
	}

	for i := range shares {
		shares[i].Proportion = float64(shares[i].Count) / float64(stats.SelectedLines)
	}

	if shares == nil {
		shares = []LanguageShare{}
	}

	stats.Breakdown = shares

	return stats, highlights
}
