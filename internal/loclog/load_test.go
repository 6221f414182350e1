package loclog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHeader = "commit,file,line,depth,length,type,author,date,time,timezone,datetime\n"

const testLog = testHeader +
	"a1,src/main.ts,1,1,20,ts,ana,2024-03-01,09:15,-05:00,2024-03-01T09:15:00-05:00\n" +
	"a1,src/style.css,1,1,12,css,ana,2024-03-01,09:15,-05:00,2024-03-01T09:15:00-05:00\n" +
	"b2,src/main.ts,2,1,33,ts,bo,2024-03-02,22:40,+01:00,2024-03-02T22:40:00+01:00\n"

func TestParse_TypedRecords(t *testing.T) {
	t.Parallel()

	result, err := Parse(strings.NewReader(testLog))
	require.NoError(t, err)
	require.Len(t, result.Records, 3)
	assert.Equal(t, 0, result.Skipped)

	rec := result.Records[0]
	assert.Equal(t, "a1", rec.Commit)
	assert.Equal(t, "src/main.ts", rec.File)
	assert.Equal(t, 1, rec.Line)
	assert.Equal(t, 1, rec.Depth)
	assert.Equal(t, 20, rec.Length)
	assert.Equal(t, "ts", rec.Type)
	assert.Equal(t, "ana", rec.Author)
	assert.Equal(t, "09:15", rec.Time)
	assert.Equal(t, "-05:00", rec.Timezone)

	est := time.FixedZone("", -5*60*60)
	assert.True(t, rec.Date.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, est)))
	assert.True(t, rec.Datetime.Equal(time.Date(2024, 3, 1, 9, 15, 0, 0, est)))
	assert.Equal(t, 9, rec.Datetime.Hour())
}

func TestParse_EmptyInput(t *testing.T) {
	t.Parallel()

	result, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Len())

	result, err = Parse(strings.NewReader(testHeader))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Len())
}

func TestParse_SkipsMalformedRows(t *testing.T) {
	t.Parallel()

	input := testHeader +
		"a1,f.go,x,1,20,go,ana,2024-03-01,09:15,-05:00,2024-03-01T09:15:00-05:00\n" +
		"a1,f.go,0,1,20,go,ana,2024-03-01,09:15,-05:00,2024-03-01T09:15:00-05:00\n" +
		"a1,f.go,1,-1,20,go,ana,2024-03-01,09:15,-05:00,2024-03-01T09:15:00-05:00\n" +
		"a1,f.go,1,1,,go,ana,2024-03-01,09:15,-05:00,2024-03-01T09:15:00-05:00\n" +
		"a1,f.go,1,1,20,go,ana,not-a-date,09:15,-05:00,2024-03-01T09:15:00-05:00\n" +
		"a1,f.go,1,1,20,go,ana,2024-03-01,09:15,-05:00,yesterday\n" +
		"a1,f.go,1,1\n" +
		"a1,f.go,3,2,20,go,ana,2024-03-01,09:15,-05:00,2024-03-01T09:15:00-05:00\n"

	result, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 7, result.Skipped)
	require.Len(t, result.Records, 1)
	assert.Equal(t, 3, result.Records[0].Line)
}

func TestParse_MissingColumn(t *testing.T) {
	t.Parallel()

	_, err := Parse(strings.NewReader("commit,file,line\na,b,1\n"))
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, OpParse, loadErr.Op)
	require.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "datetime")
}

func TestParse_ColumnOrderAndBOM(t *testing.T) {
	t.Parallel()

	input := "\ufeffdatetime,timezone,time,date,author,type,length,depth,line,file,commit\n" +
		"2024-03-01T13:30,+00:00,13:30,2024-03-01,ana,go,4,0,7,main.go,c3\n"

	result, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Equal(t, "c3", rec.Commit)
	assert.Equal(t, 7, rec.Line)
	assert.Equal(t, 13, rec.Datetime.Hour())
	assert.Equal(t, 30, rec.Datetime.Minute())
}

func TestParseDatetime_AppliesTimezoneWhenOffsetMissing(t *testing.T) {
	t.Parallel()

	got, err := ParseDatetime("2024-03-01T23:10:00", "-05:00")
	require.NoError(t, err)

	_, offset := got.Zone()
	assert.Equal(t, -5*60*60, offset)
	assert.Equal(t, 23, got.Hour())

	got, err = ParseDatetime("2024-03-01T23:10:00", "bogus")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, got.Location())
}

func TestLoad_HTTP(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/loc.csv" {
			http.NotFound(w, r)

			return
		}

		_, _ = w.Write([]byte(testLog))
	}))
	defer srv.Close()

	result, err := Load(context.Background(), srv.URL+"/loc.csv", WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Len())

	_, err = Load(context.Background(), srv.URL+"/missing.csv", WithHTTPClient(srv.Client()))
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, OpFetch, loadErr.Op)
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
}

func TestLoad_NetworkFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/loc.csv"
	srv.Close()

	_, err := Load(context.Background(), url, WithTimeout(time.Second))

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, OpFetch, loadErr.Op)
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "loc.csv")
	require.NoError(t, os.WriteFile(path, []byte(testLog), 0o600))

	result, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Len())

	result, err = Load(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Len())

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, OpRead, loadErr.Op)

	_, err = Load(context.Background(), "")
	require.ErrorIs(t, err, ErrEmptySource)
}

func TestLoad_UnparseableText(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "loc.csv")
	require.NoError(t, os.WriteFile(path, []byte(testHeader+"a,\"unterminated\n"), 0o600))

	_, err := Load(context.Background(), path)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, OpParse, loadErr.Op)
}
