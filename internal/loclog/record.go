// Package loclog loads per-line code change logs (loc.csv) into typed records.
package loclog

import "time"

// Column names of the tabular log.
const (
	ColCommit   = "commit"
	ColFile     = "file"
	ColLine     = "line"
	ColDepth    = "depth"
	ColLength   = "length"
	ColType     = "type"
	ColAuthor   = "author"
	ColDate     = "date"
	ColTime     = "time"
	ColTimezone = "timezone"
	ColDatetime = "datetime"
)

// Columns lists the required columns in their canonical order.
var Columns = []string{
	ColCommit, ColFile, ColLine, ColDepth, ColLength, ColType,
	ColAuthor, ColDate, ColTime, ColTimezone, ColDatetime,
}

// LineRecord is one changed source line as recorded in the log.
type LineRecord struct {
	Commit   string    `json:"commit"   yaml:"commit"`
	File     string    `json:"file"     yaml:"file"`
	Line     int       `json:"line"     yaml:"line"`
	Depth    int       `json:"depth"    yaml:"depth"`
	Length   int       `json:"length"   yaml:"length"`
	Type     string    `json:"type"     yaml:"type"`
	Author   string    `json:"author"   yaml:"author"`
	Date     time.Time `json:"date"     yaml:"date"`
	Time     string    `json:"time"     yaml:"time"`
	Timezone string    `json:"timezone" yaml:"timezone"`
	Datetime time.Time `json:"datetime" yaml:"datetime"`
}

// Log is the parsed content of a log file.
type Log struct {
	Records []LineRecord

	// Skipped counts data rows dropped because a field could not be coerced.
	Skipped int
}

// Len returns the number of loaded records.
func (l *Log) Len() int {
	if l == nil {
		return 0
	}

	return len(l.Records)
}
