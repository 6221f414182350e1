package commits

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/locmeta/internal/loclog"
)

func line(commit, file string, n int, typ string, at time.Time) loclog.LineRecord {
	return loclog.LineRecord{
		Commit:   commit,
		File:     file,
		Line:     n,
		Type:     typ,
		Author:   "author-" + commit,
		Date:     time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location()),
		Time:     at.Format("15:04"),
		Timezone: at.Format("-07:00"),
		Datetime: at,
	}
}

func TestHourFraction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		at   time.Time
		want float64
	}{
		{time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2024, 3, 1, 13, 30, 0, 0, time.UTC), 13.5},
		{time.Date(2024, 3, 1, 23, 59, 59, 0, time.UTC), 23 + 59.0/60},
		{time.Date(2024, 3, 1, 6, 45, 0, 0, time.FixedZone("", -5*3600)), 6.75},
	}

	for _, tt := range tests {
		got := HourFraction(tt.at)
		assert.InDelta(t, tt.want, got, 1e-9, tt.at.String())
		assert.GreaterOrEqual(t, got, 0.0)
		assert.Less(t, got, 24.0)
	}
}

func TestAggregate_FirstSeenOrder(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 1, 9, 15, 0, 0, time.UTC)
	records := []loclog.LineRecord{
		line("b", "x.ts", 1, "ts", base.Add(time.Hour)),
		line("a", "y.css", 1, "css", base),
		line("b", "x.ts", 2, "ts", base.Add(time.Hour)),
		line("c", "z.go", 1, "go", base.Add(-time.Hour)),
	}

	got := Aggregate(records, DefaultURLPrefix)
	require.Len(t, got, 3)

	ids := []string{got[0].ID, got[1].ID, got[2].ID}
	assert.Equal(t, []string{"b", "a", "c"}, ids)

	assert.Equal(t, 2, got[0].TotalLines)
	assert.Equal(t, DefaultURLPrefix+"b", got[0].URL)
	assert.Equal(t, "author-b", got[0].Author)
	assert.InDelta(t, 10.25, got[0].HourFrac, 1e-9)
	assert.Equal(t, []int{1, 2}, []int{got[0].Lines[0].Line, got[0].Lines[1].Line})
}

func TestAggregate_Partition(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var records []loclog.LineRecord

	for i := range 40 {
		id := fmt.Sprintf("c%d", i%7)
		records = append(records, line(id, fmt.Sprintf("f%d.go", i%3), i+1, "go", base.Add(time.Duration(i%7)*time.Hour)))
	}

	got := Aggregate(records, "")

	seen := make(map[int]int)
	total := 0

	for _, c := range got {
		assert.Equal(t, len(c.Lines), c.TotalLines)

		for _, l := range c.Lines {
			assert.Equal(t, c.ID, l.Commit)

			seen[l.Line]++
		}

		total += c.TotalLines
	}

	assert.Equal(t, len(records), total)

	for _, rec := range records {
		assert.Equal(t, 1, seen[rec.Line], "line %d", rec.Line)
	}

	assert.ElementsMatch(t, records, Lines(got))
}

func TestAggregate_SingleCommitAndEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Aggregate(nil, DefaultURLPrefix))

	at := time.Date(2024, 3, 1, 13, 30, 0, 0, time.UTC)
	got := Aggregate([]loclog.LineRecord{line("solo", "a.go", 1, "go", at)}, "")
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].TotalLines)
	assert.InDelta(t, 13.5, got[0].HourFrac, 1e-9)
}

func TestSummary_JSONOmitsLines(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 1, 13, 30, 0, 0, time.UTC)
	got := Aggregate([]loclog.LineRecord{line("solo", "a.go", 1, "go", at)}, "u/")

	data, err := json.Marshal(got[0])
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	assert.NotContains(t, fields, "lines")
	assert.NotContains(t, fields, "Lines")
	assert.Equal(t, "u/solo", fields["url"])
	assert.InDelta(t, 1.0, fields["totalLines"], 0)
}

func TestByID(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 1, 13, 30, 0, 0, time.UTC)
	got := Aggregate([]loclog.LineRecord{line("a", "a.go", 1, "go", at), line("b", "a.go", 2, "go", at)}, "")

	index := ByID(got)
	assert.Len(t, index, 2)
	assert.Same(t, got[1], index["b"])
}
