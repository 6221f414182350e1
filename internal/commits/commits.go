// Package commits groups line records into per-commit summaries.
package commits

import (
	"time"

	"github.com/Sumatoshi-tech/locmeta/internal/loclog"
)

// DefaultURLPrefix is prepended to commit ids to build Summary.URL.
const DefaultURLPrefix = "https://github.com/YOUR_USER/YOUR_REPO/commit/"

const minutesPerHour = 60

// Summary describes one commit. Author and timestamp fields are copied from
// the commit's first line; every line of a commit shares them.
type Summary struct {
	ID         string    `json:"id"         yaml:"id"`
	URL        string    `json:"url"        yaml:"url"`
	Author     string    `json:"author"     yaml:"author"`
	Date       time.Time `json:"date"       yaml:"date"`
	Time       string    `json:"time"       yaml:"time"`
	Timezone   string    `json:"timezone"   yaml:"timezone"`
	Datetime   time.Time `json:"datetime"   yaml:"datetime"`
	HourFrac   float64   `json:"hourFrac"   yaml:"hourFrac"`
	TotalLines int       `json:"totalLines" yaml:"totalLines"`

	// Lines is kept for drill-down and left out of serialized output.
	Lines []loclog.LineRecord `json:"-" yaml:"-"`
}

// HourFraction returns hour + minute/60 of t in t's own location.
func HourFraction(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/minutesPerHour
}

// Aggregate partitions records by commit id, keeping first-seen order.
func Aggregate(records []loclog.LineRecord, urlPrefix string) []*Summary {
	order := make([]*Summary, 0)
	byID := make(map[string]*Summary)

	for _, rec := range records {
		s, ok := byID[rec.Commit]
		if !ok {
			s = &Summary{
				ID:       rec.Commit,
				URL:      urlPrefix + rec.Commit,
				Author:   rec.Author,
				Date:     rec.Date,
				Time:     rec.Time,
				Timezone: rec.Timezone,
				Datetime: rec.Datetime,
				HourFrac: HourFraction(rec.Datetime),
			}
			byID[rec.Commit] = s
			order = append(order, s)
		}

		s.Lines = append(s.Lines, rec)
	}

	for _, s := range order {
		s.TotalLines = len(s.Lines)
	}

	return order
}

// ByID indexes commits by id.
func ByID(commits []*Summary) map[string]*Summary {
	index := make(map[string]*Summary, len(commits))

	for _, c := range commits {
		index[c.ID] = c
	}

	return index
}

// Lines flattens the owned lines of commits in commit order.
func Lines(commits []*Summary) []loclog.LineRecord {
	total := 0

	for _, c := range commits {
		total += len(c.Lines)
	}

	out := make([]loclog.LineRecord, 0, total)

	for _, c := range commits {
		out = append(out, c.Lines...)
	}

	return out
}
