// Package summary computes whole-dataset statistics for a commit log.
package summary

import (
	"math"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/locmeta/internal/commits"
	"github.com/Sumatoshi-tech/locmeta/internal/loclog"
)

// Report holds aggregate statistics. Empty input yields the zero Report.
type Report struct {
	TotalLines        int     `json:"totalLines"        yaml:"totalLines"`
	TotalCommits      int     `json:"totalCommits"      yaml:"totalCommits"`
	FileCount         int     `json:"fileCount"         yaml:"fileCount"`
	LongestFile       string  `json:"longestFile"       yaml:"longestFile"`
	LongestFileLines  int     `json:"longestFileLines"  yaml:"longestFileLines"`
	AverageFileLength float64 `json:"averageFileLength" yaml:"averageFileLength"`
	MaxDepth          int     `json:"maxDepth"          yaml:"maxDepth"`
	Skipped           int     `json:"skippedRows"       yaml:"skippedRows"`
}

// Compute derives a Report from the records and their commits.
func Compute(records []loclog.LineRecord, cs []*commits.Summary) Report {
	report := Report{
		TotalLines:   len(records),
		TotalCommits: len(cs),
	}

	files := fileLengths(records)
	report.FileCount = len(files)

	sum := 0

	for _, f := range files {
		sum += f.maxLine

		// Strict comparison keeps the first-seen file on ties.
		if f.maxLine > report.LongestFileLines {
			report.LongestFile = f.name
			report.LongestFileLines = f.maxLine
		}
	}

	if len(files) > 0 {
		report.AverageFileLength = float64(sum) / float64(len(files))
	}

	for _, rec := range records {
		report.MaxDepth = max(report.MaxDepth, rec.Depth)
	}

	return report
}

type fileLength struct {
	name    string
	maxLine int
}

// fileLengths returns each file's highest line number in first-seen order.
func fileLengths(records []loclog.LineRecord) []fileLength {
	var files []fileLength

	index := make(map[string]int)

	for _, rec := range records {
		i, ok := index[rec.File]
		if !ok {
			index[rec.File] = len(files)
			files = append(files, fileLength{name: rec.File, maxLine: rec.Line})

			continue
		}

		files[i].maxLine = max(files[i].maxLine, rec.Line)
	}

	return files
}

// Item is one label/value pair as shown on the page.
type Item struct {
	Label string
	Title string // Optional expansion of an abbreviated label.
	Value string
}

// Items returns the display entries in page order.
func (r Report) Items() []Item {
	return []Item{
		{Label: "Total LOC", Title: "Lines of code", Value: humanize.Comma(int64(r.TotalLines))},
		{Label: "Total commits", Value: humanize.Comma(int64(r.TotalCommits))},
		{Label: "Number of files", Value: humanize.Comma(int64(r.FileCount))},
		{Label: "Longest file (lines)", Value: humanize.Comma(int64(r.LongestFileLines))},
		{Label: "Average file length", Value: humanize.Comma(int64(math.Round(r.AverageFileLength)))},
		{Label: "Maximum depth", Value: humanize.Comma(int64(r.MaxDepth))},
	}
}
