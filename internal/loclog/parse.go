package loclog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

const (
	utf8BOM        = "\ufeff"
	midnightSuffix = "T00:00"
	dateLayout     = "2006-01-02T15:04Z07:00"
	offsetLayout   = "Z07:00"
)

// datetimeLayouts are tried in order for the standalone datetime column.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 -0700",
}

// localDatetimeLayouts carry no offset; the row's timezone column is applied.
var localDatetimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// errBadField marks a data row that fails coercion.
var errBadField = errors.New("invalid field")

// readerSource names in-memory sources in LoadError.
const readerSource = "reader"

// Parse reads a comma-separated log with a header row.
// An input with no header at all yields an empty log.
func Parse(r io.Reader) (*Log, error) {
	result, err := parse(r, slog.Default())
	if err != nil {
		return nil, newLoadError(readerSource, OpParse, err)
	}

	return result, nil
}

func parse(r io.Reader, logger *slog.Logger) (*Log, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &Log{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	result := &Log{}

	for row := 1; ; row++ {
		fields, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			return nil, fmt.Errorf("read row %d: %w", row, readErr)
		}

		rec, rowErr := parseRow(index, fields)
		if rowErr != nil {
			result.Skipped++

			logger.Debug("skipping log row", "row", row, "error", rowErr)

			continue
		}

		result.Records = append(result.Records, rec)
	}

	return result, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))

	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}

		index[strings.TrimSpace(name)] = i
	}

	var missing []string

	for _, col := range Columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	return index, nil
}

type rowReader struct {
	index  map[string]int
	fields []string
}

func (rr rowReader) get(col string) (string, error) {
	i := rr.index[col]
	if i >= len(rr.fields) {
		return "", fmt.Errorf("%w: %s absent", errBadField, col)
	}

	return strings.TrimSpace(rr.fields[i]), nil
}

func (rr rowReader) int(col string, minValue int) (int, error) {
	raw, err := rr.get(col)
	if err != nil {
		return 0, err
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", errBadField, col, raw)
	}

	if v < minValue {
		return 0, fmt.Errorf("%w: %s=%d below %d", errBadField, col, v, minValue)
	}

	return v, nil
}

func parseRow(index map[string]int, fields []string) (LineRecord, error) {
	rr := rowReader{index: index, fields: fields}

	var rec LineRecord

	var err error

	strs := []struct {
		col string
		dst *string
	}{
		{ColCommit, &rec.Commit},
		{ColFile, &rec.File},
		{ColType, &rec.Type},
		{ColAuthor, &rec.Author},
		{ColTime, &rec.Time},
		{ColTimezone, &rec.Timezone},
	}

	for _, s := range strs {
		*s.dst, err = rr.get(s.col)
		if err != nil {
			return LineRecord{}, err
		}
	}

	if rec.Line, err = rr.int(ColLine, 1); err != nil {
		return LineRecord{}, err
	}

	if rec.Depth, err = rr.int(ColDepth, 0); err != nil {
		return LineRecord{}, err
	}

	if rec.Length, err = rr.int(ColLength, 0); err != nil {
		return LineRecord{}, err
	}

	date, err := rr.get(ColDate)
	if err != nil {
		return LineRecord{}, err
	}

	rec.Date, err = time.Parse(dateLayout, date+midnightSuffix+rec.Timezone)
	if err != nil {
		return LineRecord{}, fmt.Errorf("%w: %s=%q timezone=%q", errBadField, ColDate, date, rec.Timezone)
	}

	datetime, err := rr.get(ColDatetime)
	if err != nil {
		return LineRecord{}, err
	}

	rec.Datetime, err = ParseDatetime(datetime, rec.Timezone)
	if err != nil {
		return LineRecord{}, err
	}

	return rec, nil
}

// ParseDatetime parses a full timestamp. Values without an explicit offset
// are read in the given timezone offset (e.g. "-05:00"), or UTC if that is
// empty or malformed.
func ParseDatetime(value, timezone string) (time.Time, error) {
	for _, layout := range datetimeLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
	}

	loc := offsetLocation(timezone)

	for _, layout := range localDatetimeLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %s=%q", errBadField, ColDatetime, value)
}

func offsetLocation(timezone string) *time.Location {
	if timezone == "" {
		return time.UTC
	}

	t, err := time.Parse(offsetLayout, timezone)
	if err != nil {
		return time.UTC
	}

	_, offset := t.Zone()

	return time.FixedZone(timezone, offset)
}
